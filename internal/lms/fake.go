package lms

// Method names recorded by FakeClient.
const (
	CallPlayers       = "players"
	CallSetPower      = "power"
	CallClearPlaylist = "playlist clear"
	CallAddToPlaylist = "playlist add"
	CallStatus        = "status"
	CallStop          = "stop"
	CallPlay          = "play"
)

// Call is a single recorded client call.
type Call struct {
	Method   string
	PlayerID string
	Arg      string // power state ("1"/"0") or playlist item
}

// FakeClient records calls for test assertions and returns scripted results.
type FakeClient struct {
	// Calls contains every call in order.
	Calls []Call

	// PlayerList is returned by Players.
	PlayerList []Player

	// StatusResult is returned by Status.
	StatusResult Status

	// Errors maps a method name to the error it returns.
	// The failing call is still recorded.
	Errors map[string]error
}

// NewFakeClient creates a FakeClient that knows the given players.
func NewFakeClient(players ...Player) *FakeClient {
	return &FakeClient{PlayerList: players}
}

func (f *FakeClient) record(method, playerID, arg string) error {
	f.Calls = append(f.Calls, Call{Method: method, PlayerID: playerID, Arg: arg})
	return f.Errors[method]
}

// Players returns PlayerList.
func (f *FakeClient) Players() ([]Player, error) {
	if err := f.record(CallPlayers, "", ""); err != nil {
		return nil, err
	}
	return f.PlayerList, nil
}

// SetPower records the call.
func (f *FakeClient) SetPower(playerID string, on bool) error {
	arg := "0"
	if on {
		arg = "1"
	}
	return f.record(CallSetPower, playerID, arg)
}

// ClearPlaylist records the call.
func (f *FakeClient) ClearPlaylist(playerID string) error {
	return f.record(CallClearPlaylist, playerID, "")
}

// AddToPlaylist records the call.
func (f *FakeClient) AddToPlaylist(playerID, item string) error {
	return f.record(CallAddToPlaylist, playerID, item)
}

// Status returns StatusResult.
func (f *FakeClient) Status(playerID string) (Status, error) {
	if err := f.record(CallStatus, playerID, ""); err != nil {
		return Status{}, err
	}
	return f.StatusResult, nil
}

// Stop records the call.
func (f *FakeClient) Stop(playerID string) error {
	return f.record(CallStop, playerID, "")
}

// Play records the call.
func (f *FakeClient) Play(playerID string) error {
	return f.record(CallPlay, playerID, "")
}

// Methods returns the recorded method names in order.
func (f *FakeClient) Methods() []string {
	out := make([]string, len(f.Calls))
	for i, c := range f.Calls {
		out[i] = c.Method
	}
	return out
}

// Count returns how many times method was called.
func (f *FakeClient) Count(method string) int {
	n := 0
	for _, c := range f.Calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

// Reset clears recorded calls and errors.
func (f *FakeClient) Reset() {
	f.Calls = nil
	f.Errors = nil
}
