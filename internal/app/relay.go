package app

import (
	"github.com/rs/zerolog/log"

	"github.com/nvkv/pairline/internal/core"
	"github.com/nvkv/pairline/internal/domain"
)

// Relay forwards signaling payloads between the members of a room.
// It never inspects payload contents; authorization (sender membership)
// and fan-out are its only responsibilities.
type Relay struct {
	rooms *RoomStore
}

func NewRelay(rooms *RoomStore) *Relay {
	return &Relay{rooms: rooms}
}

// Forward sends the frame to every other member of the room. The sender
// must currently be a member; violations fail with ErrUnauthorized and
// produce no fan-out.
func (r *Relay) Forward(roomID domain.RoomID, from core.SessionID, data core.Frame) (core.PublishResult, error) {
	res, err := r.rooms.Publish(roomID, from, data)
	if err != nil {
		log.Warn().Err(err).Str("module", "app.relay").Str("room", string(roomID)).Str("from", string(from)).Msg("relay rejected")
		return core.PublishResult{}, err
	}
	return res, nil
}
