package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/nvkv/pairline/internal/core"
)

// handleRelay covers offer, answer, ice-candidate and chat frames. The
// payload is never parsed; the server only stamps the sender and fans the
// envelope out to the other room members.
func (ctl *SignalWSController) handleRelay(
	sid core.SessionID,
	conn *wsSignalConn,
	kind string,
	data []byte,
) {
	var env relayEnvelope
	if err := json.Unmarshal(data, &env); err != nil || env.RoomID == "" {
		log.Error().Err(err).Str("module", "signal").Str("kind", kind).Msg("bad relay payload")
		ctl.sendErr(conn, kind, codeBadPayload)
		return
	}

	env.Type = kind
	env.From = sid
	out, err := json.Marshal(env)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("relay marshal")
		return
	}

	if err := ctl.Orch.ForwardSignal(sid, env.RoomID, core.Frame(out)); err != nil {
		ctl.sendErr(conn, kind, errCode(err))
	}
}
