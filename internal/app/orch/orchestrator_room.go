package orch

import (
	"github.com/rs/zerolog/log"

	"github.com/nvkv/pairline/internal/app"
	"github.com/nvkv/pairline/internal/core"
	"github.com/nvkv/pairline/internal/domain"
)

// JoinResult carries everything the adapter needs to confirm the join and
// broadcast the membership change.
type JoinResult struct {
	Room    domain.Room
	Members []core.MemberDTO
	Already bool
}

// CreateRoom creates a group room and seats the creator in it.
func (o *Orchestrator) CreateRoom(sid core.SessionID, name string, capacity int, gate string) (domain.Room, error) {
	if _, ok := o.Registry.RoomOf(sid); ok {
		return domain.Room{}, domain.ErrAlreadyMember
	}
	sess, ok := o.Registry.Lookup(sid)
	if !ok {
		return domain.Room{}, domain.ErrUnauthorized
	}
	o.Matches.Remove(sid)

	room := o.Rooms.Create(domain.Room{
		Name:     name,
		Kind:     domain.KindGroup,
		Capacity: capacity,
		Gate:     gate,
	})
	if _, err := o.Rooms.AddMember(room.ID, sid, sess); err != nil {
		o.Rooms.Delete(room.ID)
		return domain.Room{}, err
	}
	o.Registry.SetRoom(sid, room.ID)
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", string(room.ID)).Msg("room created and joined")
	return room, nil
}

// JoinRoom validates the access gate and seats the connection. Joining the
// room it is already in is an idempotent no-op; joining a different one
// while seated is refused. A pending match request is withdrawn first.
func (o *Orchestrator) JoinRoom(sid core.SessionID, roomID domain.RoomID, secret string) (JoinResult, error) {
	sess, ok := o.Registry.Lookup(sid)
	if !ok {
		return JoinResult{}, domain.ErrUnauthorized
	}
	if cur, ok := o.Registry.RoomOf(sid); ok && cur != roomID {
		return JoinResult{}, domain.ErrAlreadyMember
	}
	room, ok := o.Rooms.Get(roomID)
	if !ok {
		return JoinResult{}, domain.ErrRoomNotFound
	}
	if err := room.CheckGate(secret); err != nil {
		return JoinResult{}, err
	}
	o.Matches.Remove(sid)

	res, err := o.Rooms.AddMember(roomID, sid, sess)
	if err != nil {
		return JoinResult{}, err
	}
	o.Registry.SetRoom(sid, roomID)

	members, err := o.Rooms.Snapshot(roomID)
	if err != nil {
		return JoinResult{}, err
	}
	return JoinResult{Room: room, Members: members, Already: res.Already}, nil
}

// LeaveRoom removes the connection from its current room. The result tells
// the adapter whether the room dissolved and who is left to notify.
func (o *Orchestrator) LeaveRoom(sid core.SessionID) (app.RemoveResult, error) {
	roomID, ok := o.Registry.RoomOf(sid)
	if !ok {
		return app.RemoveResult{}, domain.ErrNotMember
	}
	res, err := o.Rooms.RemoveMember(roomID, sid)
	if err != nil {
		// Registry pointed at a room the store no longer has; heal the pointer.
		o.Registry.ClearRoom(sid)
		return app.RemoveResult{}, err
	}
	o.Registry.ClearRoom(sid)
	o.clearDissolved(res)
	return res, nil
}

// clearDissolved drops stale room pointers once a room is gone, so the
// members left behind can join or match again right away.
func (o *Orchestrator) clearDissolved(res app.RemoveResult) {
	if !res.Dissolved {
		return
	}
	for _, m := range res.Remaining {
		o.Registry.ClearRoom(m.SID)
	}
}

// DisconnectResult reports the room cleanup a disconnect triggered, if any.
type DisconnectResult struct {
	Left *app.RemoveResult
}

// Disconnect is the transport-close path: withdraw from the pool, then
// unregister and leave whatever room the record pointed at when it was
// discarded. The pointer is read atomically with the removal, so a match
// being seated at the same moment either gets cleaned up here or sees the
// record already gone and dissolves the room itself (see RequestMatch).
func (o *Orchestrator) Disconnect(sid core.SessionID) DisconnectResult {
	o.Matches.Remove(sid)

	var out DisconnectResult
	if roomID, ok := o.Registry.Unregister(sid); ok {
		if res, err := o.Rooms.RemoveMember(roomID, sid); err == nil {
			out.Left = &res
			o.clearDissolved(res)
		}
	}
	log.Info().Str("module", "orch").Str("sid", string(sid)).Msg("disconnected")
	return out
}
