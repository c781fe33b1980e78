package domain

type (
	RoomID   string
	RoomKind string
)

const (
	// KindPair is a two-party session created by the matchmaker.
	// It dissolves the instant either party leaves.
	KindPair RoomKind = "pair"
	// KindGroup is a named multi-party session that survives individual
	// departures and dissolves only when empty.
	KindGroup RoomKind = "group"
)

// PairSize is the fixed membership of a pair room.
const PairSize = 2

// ClientRoomKind validates a kind requested over the wire. Clients may only
// create group rooms; pair rooms are made by the matchmaker, so "pair" (and
// anything else unknown) is rejected. Empty defaults to group.
func ClientRoomKind(s string) (RoomKind, error) {
	switch RoomKind(s) {
	case "", KindGroup:
		return KindGroup, nil
	default:
		return "", ErrInvalidKind
	}
}

type Room struct {
	ID       RoomID
	Name     string
	Kind     RoomKind
	Capacity int    // 0 means unbounded; meaningful for group rooms only
	Gate     string // optional shared secret; empty means open
}

// CheckGate validates a join secret against the room's access gate.
func (r Room) CheckGate(secret string) error {
	if r.Gate != "" && r.Gate != secret {
		return ErrAccessDenied
	}
	return nil
}

// Full reports whether the room is at capacity with the given member count.
func (r Room) Full(current int) bool {
	switch r.Kind {
	case KindPair:
		return current >= PairSize
	default:
		return r.Capacity > 0 && current >= r.Capacity
	}
}
