package orch

import (
	"github.com/rs/zerolog/log"

	"github.com/nvkv/pairline/internal/app"
	"github.com/nvkv/pairline/internal/core"
	"github.com/nvkv/pairline/internal/domain"
)

// RequestMatch asks the matchmaker for an anonymous pair. On a match both
// sides are seated in a fresh pair room before this returns; the caller is
// the offerer, the popped peer the answerer.
func (o *Orchestrator) RequestMatch(sid core.SessionID, filters domain.MatchFilters) (app.MatchOutcome, error) {
	if _, ok := o.Registry.RoomOf(sid); ok {
		return app.MatchOutcome{}, domain.ErrAlreadyMember
	}
	sess, ok := o.Registry.Lookup(sid)
	if !ok {
		return app.MatchOutcome{}, domain.ErrUnauthorized
	}
	for {
		outcome, err := o.Matches.RequestMatch(sid, sess, filters)
		if err != nil || !outcome.Matched {
			return outcome, err
		}
		if o.seatPair(sid, outcome) {
			return outcome, nil
		}
		// The half-born room was dissolved; scan the pool again unless the
		// caller itself is the side that vanished.
		if _, ok := o.Registry.Lookup(sid); !ok {
			return app.MatchOutcome{}, domain.ErrUnauthorized
		}
	}
}

// seatPair writes the room pointers for a freshly matched pair. A pointer
// write fails only when that connection unregistered between the pool pop
// and this call; the room is then dissolved through the normal removal path
// so no ghost member survives, and false tells the caller to rematch.
func (o *Orchestrator) seatPair(sid core.SessionID, outcome app.MatchOutcome) bool {
	if !o.Registry.SetRoom(outcome.PeerSID, outcome.Room.ID) {
		if res, err := o.Rooms.RemoveMember(outcome.Room.ID, outcome.PeerSID); err == nil {
			o.clearDissolved(res)
		}
		log.Warn().Str("module", "orch").Str("sid", string(outcome.PeerSID)).Msg("peer gone before seating, room dissolved")
		return false
	}
	if !o.Registry.SetRoom(sid, outcome.Room.ID) {
		if res, err := o.Rooms.RemoveMember(outcome.Room.ID, sid); err == nil {
			o.clearDissolved(res)
		}
		log.Warn().Str("module", "orch").Str("sid", string(sid)).Msg("caller gone before seating, room dissolved")
		return false
	}
	if _, ok := o.Rooms.Get(outcome.Room.ID); !ok {
		// A disconnect dissolved the room while the pointers were being
		// written; drop the stale pointers and rematch.
		o.Registry.ClearRoom(sid)
		o.Registry.ClearRoom(outcome.PeerSID)
		return false
	}
	return true
}

// CancelMatch withdraws a pending request; no-op if the connection is not
// waiting (already matched or never asked).
func (o *Orchestrator) CancelMatch(sid core.SessionID) bool {
	return o.Matches.Remove(sid)
}
