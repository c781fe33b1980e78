package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/nvkv/pairline/internal/core"
	"github.com/nvkv/pairline/internal/domain"
)

func (ctl *SignalWSController) handleCreateRoom(
	sid core.SessionID,
	conn *wsSignalConn,
	data []byte,
) {
	type createPayload struct {
		Type       string `json:"type"`
		Name       string `json:"name"`
		Kind       string `json:"kind,omitempty"`
		Capacity   int    `json:"capacity,omitempty"`
		AccessGate string `json:"accessGate,omitempty"`
	}
	var p createPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad create payload")
		ctl.sendErr(conn, evCreateRoom, codeBadPayload)
		return
	}
	if _, err := domain.ClientRoomKind(p.Kind); err != nil {
		log.Warn().Str("module", "signal").Str("kind", p.Kind).Msg("rejected room kind")
		ctl.sendErr(conn, evCreateRoom, errCode(err))
		return
	}
	if len(p.Name) > domain.MaxDisplayNameLen {
		p.Name = p.Name[:domain.MaxDisplayNameLen]
	}
	if p.Capacity < 0 {
		p.Capacity = 0
	}

	room, err := ctl.Orch.CreateRoom(sid, p.Name, p.Capacity, p.AccessGate)
	if err != nil {
		ctl.sendErr(conn, evCreateRoom, errCode(err))
		return
	}
	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("room", string(room.ID)).Msg("room created")
	ctl.sendJSON(conn, struct {
		Type   string        `json:"type"`
		RoomID domain.RoomID `json:"roomId"`
		Name   string        `json:"name,omitempty"`
	}{evRoomCreated, room.ID, room.Name})
}

func (ctl *SignalWSController) handleJoinRoom(
	sid core.SessionID,
	conn *wsSignalConn,
	data []byte,
) {
	type joinPayload struct {
		Type       string        `json:"type"`
		RoomID     domain.RoomID `json:"roomId"`
		AccessGate string        `json:"accessGate,omitempty"`
	}
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil || p.RoomID == "" {
		log.Error().Err(err).Str("module", "signal").Msg("bad join payload")
		ctl.sendErr(conn, evJoinRoom, codeBadPayload)
		return
	}

	res, err := ctl.Orch.JoinRoom(sid, p.RoomID, p.AccessGate)
	if err != nil {
		ctl.sendErr(conn, evJoinRoom, errCode(err))
		return
	}
	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("room", string(p.RoomID)).Msg("join")

	ctl.sendJSON(conn, struct {
		Type    string           `json:"type"`
		RoomID  domain.RoomID    `json:"roomId"`
		Name    string           `json:"name,omitempty"`
		Members []core.MemberDTO `json:"members"`
	}{evRoomJoined, res.Room.ID, res.Room.Name, res.Members})

	// Re-delivered joins are no-ops; don't re-announce the member.
	if res.Already {
		return
	}
	ctl.broadcastRoom(res.Room.ID, sid, roomUsersFrame{
		Type:    evRoomUsers,
		RoomID:  res.Room.ID,
		Members: res.Members,
	})
}

func (ctl *SignalWSController) handleLeaveRoom(
	sid core.SessionID,
	conn *wsSignalConn,
) {
	res, err := ctl.Orch.LeaveRoom(sid)
	if err != nil {
		ctl.sendErr(conn, evLeaveRoom, errCode(err))
		return
	}
	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("room", string(res.Room.ID)).Msg("leave")
	ctl.sendJSON(conn, struct {
		Type   string        `json:"type"`
		RoomID domain.RoomID `json:"roomId"`
	}{evRoomLeft, res.Room.ID})
	ctl.notifyDeparture(&res)
}
