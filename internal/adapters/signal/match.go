package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/nvkv/pairline/internal/app"
	"github.com/nvkv/pairline/internal/core"
	"github.com/nvkv/pairline/internal/domain"
)

func (ctl *SignalWSController) handleRequestMatch(
	sid core.SessionID,
	conn *wsSignalConn,
	data []byte,
) {
	if !ctl.limiter.Allow(sid) {
		log.Warn().Str("module", "signal").Str("sid", string(sid)).Msg("match request rate limited")
		ctl.sendErr(conn, evRequestMatch, codeRateLimited)
		return
	}

	type matchPayload struct {
		Type    string              `json:"type"`
		Filters domain.MatchFilters `json:"filters"`
	}
	var p matchPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad match payload")
		ctl.sendErr(conn, evRequestMatch, codeBadPayload)
		return
	}

	outcome, err := ctl.Orch.RequestMatch(sid, p.Filters)
	if err != nil {
		ctl.sendErr(conn, evRequestMatch, errCode(err))
		return
	}
	if !outcome.Matched {
		ctl.sendJSON(conn, map[string]any{"type": evWaiting})
		return
	}

	// The caller completed the pairing, so it takes the offer; the popped
	// peer answers. Both sides learn this here, no negotiation needed.
	ctl.sendJSON(conn, matchedFrame{
		Type:      evMatched,
		RoomID:    outcome.Room.ID,
		PeerInfo:  memberDTO(app.MemberSnap{SID: outcome.PeerSID, Session: outcome.Peer}),
		IsOfferer: true,
	})
	self, ok := ctl.Orch.Registry.Lookup(sid)
	if !ok {
		// The caller's transport died mid-handling. Its teardown observes the
		// freshly seated room pointer, dissolves the room and delivers the
		// departure notice to the seated peer; nothing to send from here.
		return
	}
	ctl.sendJSON(outcome.Peer.Signal(), matchedFrame{
		Type:      evMatched,
		RoomID:    outcome.Room.ID,
		PeerInfo:  memberDTO(app.MemberSnap{SID: sid, Session: self}),
		IsOfferer: false,
	})
}

func (ctl *SignalWSController) handleCancelMatch(
	sid core.SessionID,
	conn *wsSignalConn,
) {
	ctl.Orch.CancelMatch(sid)
	ctl.sendJSON(conn, map[string]any{"type": evMatchCanceled})
}
