package app

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nvkv/pairline/internal/core"
	"github.com/nvkv/pairline/internal/domain"
)

func TestPairRoomReadyAndDissolution(t *testing.T) {
	s := NewRoomStore()
	room := s.Create(domain.Room{Kind: domain.KindPair})

	a, _ := newTestSession("a", domain.Profile{})
	b, _ := newTestSession("b", domain.Profile{})

	res, err := s.AddMember(room.ID, "sid-a", a)
	require.NoError(t, err)
	require.False(t, res.Ready)

	res, err = s.AddMember(room.ID, "sid-b", b)
	require.NoError(t, err)
	require.True(t, res.Ready, "pair becomes ready at two members")

	// Third wheel is rejected outright.
	c, _ := newTestSession("c", domain.Profile{})
	_, err = s.AddMember(room.ID, "sid-c", c)
	require.ErrorIs(t, err, domain.ErrRoomFull)

	rem, err := s.RemoveMember(room.ID, "sid-a")
	require.NoError(t, err)
	require.True(t, rem.Dissolved, "pair dissolves the instant it drops below two")
	require.Len(t, rem.Remaining, 1)
	require.Equal(t, "sid-b", string(rem.Remaining[0].SID))

	_, ok := s.Get(room.ID)
	require.False(t, ok, "dissolved room is gone")
	_, err = s.AddMember(room.ID, "sid-c", c)
	require.ErrorIs(t, err, domain.ErrRoomNotFound, "no join can land in a dissolved room")
}

func TestGroupRoomCapacity(t *testing.T) {
	s := NewRoomStore()
	room := s.Create(domain.Room{Kind: domain.KindGroup, Capacity: 4})

	for i := 0; i < 4; i++ {
		sess, _ := newTestSession("u", domain.Profile{})
		_, err := s.AddMember(room.ID, core.SessionID(fmt.Sprintf("sid-%d", i)), sess)
		require.NoError(t, err)
	}

	fifth, _ := newTestSession("fifth", domain.Profile{})
	_, err := s.AddMember(room.ID, "sid-4", fifth)
	require.ErrorIs(t, err, domain.ErrRoomFull)

	members, err := s.Members(room.ID)
	require.NoError(t, err)
	require.Len(t, members, 4, "failed join leaves membership unchanged")
}

func TestDuplicateJoinIsIdempotent(t *testing.T) {
	s := NewRoomStore()
	room := s.Create(domain.Room{Kind: domain.KindGroup})
	a, _ := newTestSession("a", domain.Profile{})

	_, err := s.AddMember(room.ID, "sid-a", a)
	require.NoError(t, err)

	res, err := s.AddMember(room.ID, "sid-a", a)
	require.NoError(t, err)
	require.True(t, res.Already)

	members, err := s.Members(room.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
}

func TestGroupRoomSurvivesDeparturesUntilEmpty(t *testing.T) {
	s := NewRoomStore()
	room := s.Create(domain.Room{Kind: domain.KindGroup})
	a, _ := newTestSession("a", domain.Profile{})
	b, _ := newTestSession("b", domain.Profile{})

	_, err := s.AddMember(room.ID, "sid-a", a)
	require.NoError(t, err)
	_, err = s.AddMember(room.ID, "sid-b", b)
	require.NoError(t, err)

	rem, err := s.RemoveMember(room.ID, "sid-a")
	require.NoError(t, err)
	require.False(t, rem.Dissolved)
	require.Len(t, rem.Remaining, 1)

	rem, err = s.RemoveMember(room.ID, "sid-b")
	require.NoError(t, err)
	require.True(t, rem.Dissolved)
	require.Empty(t, rem.Remaining)

	_, ok := s.Get(room.ID)
	require.False(t, ok)
}

func TestRemoveErrors(t *testing.T) {
	s := NewRoomStore()
	_, err := s.RemoveMember("nope", "sid-a")
	require.ErrorIs(t, err, domain.ErrRoomNotFound)

	room := s.Create(domain.Room{Kind: domain.KindGroup})
	a, _ := newTestSession("a", domain.Profile{})
	_, err = s.AddMember(room.ID, "sid-a", a)
	require.NoError(t, err)

	_, err = s.RemoveMember(room.ID, "sid-b")
	require.ErrorIs(t, err, domain.ErrNotMember)
}

func TestPublishAuthorizationAndFanOut(t *testing.T) {
	s := NewRoomStore()
	room := s.Create(domain.Room{Kind: domain.KindGroup})
	a, connA := newTestSession("a", domain.Profile{})
	b, connB := newTestSession("b", domain.Profile{})

	_, err := s.AddMember(room.ID, "sid-a", a)
	require.NoError(t, err)
	_, err = s.AddMember(room.ID, "sid-b", b)
	require.NoError(t, err)

	// Outsider never fans out.
	_, err = s.Publish(room.ID, "sid-x", []byte("offer"))
	require.ErrorIs(t, err, domain.ErrUnauthorized)
	require.Zero(t, connA.sent())
	require.Zero(t, connB.sent())

	res, err := s.Publish(room.ID, "sid-a", []byte("offer"))
	require.NoError(t, err)
	require.Equal(t, 1, res.SentTo)
	require.Zero(t, connA.sent(), "sender must not receive its own frame")
	require.Equal(t, 1, connB.sent())
}

func TestPublishReportsBackpressure(t *testing.T) {
	s := NewRoomStore()
	room := s.Create(domain.Room{Kind: domain.KindGroup})
	a, _ := newTestSession("a", domain.Profile{})
	b, connB := newTestSession("b", domain.Profile{})
	connB.reject = true

	_, err := s.AddMember(room.ID, "sid-a", a)
	require.NoError(t, err)
	_, err = s.AddMember(room.ID, "sid-b", b)
	require.NoError(t, err)

	res, err := s.Publish(room.ID, "sid-a", []byte("x"))
	require.NoError(t, err)
	require.Zero(t, res.SentTo)
	require.Equal(t, []core.SessionID{"sid-b"}, res.Dropped)
}

func TestListShowsOnlyGroupRooms(t *testing.T) {
	s := NewRoomStore()
	s.Create(domain.Room{Kind: domain.KindPair})
	g := s.Create(domain.Room{Name: "lounge", Kind: domain.KindGroup, Capacity: 8, Gate: "pw"})
	a, _ := newTestSession("a", domain.Profile{})
	_, err := s.AddMember(g.ID, "sid-a", a)
	require.NoError(t, err)

	list := s.List()
	require.Len(t, list, 1)
	require.Equal(t, g.ID, list[0].ID)
	require.Equal(t, "lounge", list[0].Name)
	require.Equal(t, 1, list[0].MemberCount)
	require.True(t, list[0].Gated)
}
