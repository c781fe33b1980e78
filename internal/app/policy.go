package app

import (
	"github.com/nvkv/pairline/internal/core"
	"github.com/nvkv/pairline/internal/domain"
)

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	KickMember
	DropFrame
)

// Policy decides what to do with a member whose send buffer stayed full
// during a fan-out.
type Policy interface {
	OnBackPressure(roomID domain.RoomID, sid core.SessionID) BackpressureAction
}

// SimplePolicy kicks slow members: a connection that cannot drain its
// signaling buffer is useless for negotiation anyway.
type SimplePolicy struct{}

func (SimplePolicy) OnBackPressure(domain.RoomID, core.SessionID) BackpressureAction {
	return KickMember
}
