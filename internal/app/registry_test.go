package app

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nvkv/pairline/internal/domain"
)

func TestRegistryUnregisterReportsRoomPointer(t *testing.T) {
	r := NewRegistry()
	sessA, _ := newTestSession("a", domain.Profile{})

	sid := r.Register(sessA, nil)
	_, had := r.Unregister(sid)
	require.False(t, had, "never seated in a room")

	sid = r.Register(sessA, nil)
	require.True(t, r.SetRoom(sid, "room-1"))
	roomID, had := r.Unregister(sid)
	require.True(t, had)
	require.Equal(t, domain.RoomID("room-1"), roomID)

	// The record is gone: repeated unregister is a no-op and a late seating
	// attempt is refused.
	_, had = r.Unregister(sid)
	require.False(t, had)
	require.False(t, r.SetRoom(sid, "room-2"))
}
