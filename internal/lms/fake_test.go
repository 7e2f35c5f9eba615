package lms

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFakeClientRecordsCalls(t *testing.T) {
	f := NewFakeClient(Player{PlayerID: "aa"})
	f.StatusResult = Status{Mode: ModePause, PlaylistTracks: 1}

	players, err := f.Players()
	require.NoError(t, err)
	require.Len(t, players, 1)

	require.NoError(t, f.SetPower("aa", true))
	require.NoError(t, f.AddToPlaylist("aa", "preset_1"))
	s, err := f.Status("aa")
	require.NoError(t, err)
	require.Equal(t, ModePause, s.Mode)

	require.Equal(t, []string{CallPlayers, CallSetPower, CallAddToPlaylist, CallStatus}, f.Methods())
	require.Equal(t, Call{Method: CallSetPower, PlayerID: "aa", Arg: "1"}, f.Calls[1])
	require.Equal(t, "preset_1", f.Calls[2].Arg)
	require.Equal(t, 1, f.Count(CallStatus))
}

func TestFakeClientErrors(t *testing.T) {
	f := NewFakeClient()
	f.Errors = map[string]error{CallPlay: errors.New("boom")}

	require.NoError(t, f.Stop("aa"))
	require.EqualError(t, f.Play("aa"), "boom")
	require.Equal(t, 2, len(f.Calls))

	f.Reset()
	require.Empty(t, f.Calls)
	require.NoError(t, f.Play("aa"))
}
