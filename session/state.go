// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

// State is where a session is in its lifecycle.
type State int

const (
	Anonymous State = iota
	Joining
	Joined
	Dirty
	Synced
	Reconnecting
	Failed
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Joining:
		return "joining"
	case Joined:
		return "joined"
	case Dirty:
		return "dirty"
	case Synced:
		return "synced"
	case Reconnecting:
		return "reconnecting"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Connected reports whether the session has a live trip membership.
func (s State) Connected() bool {
	return s == Joined || s == Dirty || s == Synced
}
