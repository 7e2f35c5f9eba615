package mqtt

import "log"

// pendingMsg is a serialized MQTT message held until the broker is reachable.
type pendingMsg struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// outbox is a bounded FIFO of messages queued while disconnected. When full
// the oldest message is dropped: for a radio the latest state matters most.
// Not safe for concurrent use; RealPublisher guards it with its mutex.
type outbox struct {
	msgs    []pendingMsg
	limit   int
	dropped int // messages dropped since the last take
}

func newOutbox(limit int) *outbox {
	return &outbox{limit: limit}
}

// add queues msg and reports whether an older message had to be dropped.
func (o *outbox) add(msg pendingMsg) bool {
	if len(o.msgs) < o.limit {
		o.msgs = append(o.msgs, msg)
		return false
	}
	if o.dropped == 0 {
		log.Printf("mqtt: outbox full (%d messages), dropping oldest", o.limit)
	}
	o.dropped++
	copy(o.msgs, o.msgs[1:])
	o.msgs[len(o.msgs)-1] = msg
	return true
}

// take returns every queued message, oldest first, and empties the outbox.
func (o *outbox) take() []pendingMsg {
	if len(o.msgs) == 0 {
		return nil
	}
	out := o.msgs
	o.msgs = nil
	o.dropped = 0
	return out
}

func (o *outbox) size() int {
	return len(o.msgs)
}
