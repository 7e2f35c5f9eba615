package mqtt

import (
	"testing"
)

func TestOutboxEmptyTake(t *testing.T) {
	o := newOutbox(10)
	if got := o.take(); got != nil {
		t.Errorf("expected nil from empty take, got %d items", len(got))
	}
}

func TestOutboxAddAndTake(t *testing.T) {
	o := newOutbox(10)
	for i := 0; i < 5; i++ {
		if o.add(pendingMsg{topic: "t", payload: []byte{byte(i)}}) {
			t.Errorf("add %d: unexpected drop", i)
		}
	}
	if o.size() != 5 {
		t.Errorf("expected size 5, got %d", o.size())
	}

	got := o.take()
	if len(got) != 5 {
		t.Fatalf("expected 5 items, got %d", len(got))
	}
	for i := range got {
		if got[i].payload[0] != byte(i) {
			t.Errorf("item %d: expected payload %d, got %d", i, i, got[i].payload[0])
		}
	}

	if o.take() != nil {
		t.Error("expected nil from second take")
	}
	if o.size() != 0 {
		t.Errorf("expected size 0 after take, got %d", o.size())
	}
}

func TestOutboxDropsOldest(t *testing.T) {
	o := newOutbox(3)
	drops := 0
	for i := 0; i < 5; i++ {
		if o.add(pendingMsg{topic: "t", payload: []byte{byte(i)}}) {
			drops++
		}
	}
	if drops != 2 {
		t.Errorf("expected 2 drops, got %d", drops)
	}
	if o.dropped != 2 {
		t.Errorf("dropped counter: got %d, want 2", o.dropped)
	}

	got := o.take()
	if len(got) != 3 {
		t.Fatalf("expected 3 items, got %d", len(got))
	}
	for i, msg := range got {
		want := byte(i + 2)
		if msg.payload[0] != want {
			t.Errorf("item %d: expected payload %d, got %d", i, want, msg.payload[0])
		}
	}
	if o.dropped != 0 {
		t.Errorf("dropped counter should reset on take, got %d", o.dropped)
	}
}

func TestOutboxKeepsFields(t *testing.T) {
	o := newOutbox(1)
	o.add(pendingMsg{topic: TopicSystem, payload: []byte(`{"x":1}`), qos: 1, retained: true})

	got := o.take()
	if len(got) != 1 {
		t.Fatalf("expected 1 item, got %d", len(got))
	}
	m := got[0]
	if m.topic != TopicSystem || string(m.payload) != `{"x":1}` || m.qos != 1 || !m.retained {
		t.Errorf("fields not preserved: %+v", m)
	}
}
