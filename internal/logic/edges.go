package logic

// Diff compares two consecutive samples. Power and rotary are compared
// independently; the rotary compares raw lines, not decoded presets.
func Diff(prev, cur Controls) Edges {
	return Edges{
		Power:  prev.Power != cur.Power,
		Rotary: prev.Rotary != cur.Rotary,
	}
}

// PoweredOn reports a false->true power edge.
func PoweredOn(prev, cur Controls) bool {
	return !prev.Power && cur.Power
}

// PoweredOff reports a true->false power edge.
func PoweredOff(prev, cur Controls) bool {
	return prev.Power && !cur.Power
}
