// Package orch composes the registry, room store, matchmaker and relay
// into the per-connection session lifecycle:
//
//	Disconnected -> Connected -> (Pending | InRoom) -> Disconnected
//
// Every operation reports failure to the requesting connection only and
// leaves shared state untouched on error.
package orch

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/nvkv/pairline/internal/app"
	"github.com/nvkv/pairline/internal/core"
	"github.com/nvkv/pairline/internal/domain"
)

type Orchestrator struct {
	Registry *app.Registry
	Rooms    *app.RoomStore
	Matches  *app.Matchmaker
	Relay    *app.Relay
	Policy   app.Policy
}

// Connect registers a fresh connection and returns its id.
func (o *Orchestrator) Connect(sess core.MemberSession, cancel context.CancelFunc) core.SessionID {
	return o.Registry.Register(sess, cancel)
}

// ForwardSignal relays an opaque signaling frame to the other members of
// the room, then applies the backpressure policy to any member whose
// buffer stayed full.
func (o *Orchestrator) ForwardSignal(sid core.SessionID, roomID domain.RoomID, data core.Frame) error {
	res, err := o.Relay.Forward(roomID, sid, data)
	if err != nil {
		return err
	}
	if o.Policy == nil {
		return nil
	}
	for _, slow := range res.Dropped {
		switch o.Policy.OnBackPressure(roomID, slow) {
		case app.KickMember:
			log.Warn().Str("module", "orch").Str("sid", string(slow)).Str("room", string(roomID)).Msg("kicking slow member")
			o.Kick(slow)
		case app.DropFrame, app.NoAction:
		}
	}
	return nil
}

// Kick closes a member's transport; the pump teardown then runs the
// normal Disconnect path, so room cleanup stays in one place.
func (o *Orchestrator) Kick(sid core.SessionID) {
	o.Registry.Cancel(sid)
}
