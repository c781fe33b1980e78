package app

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nvkv/pairline/internal/domain"
)

func TestFirstRequestWaits(t *testing.T) {
	rooms := NewRoomStore()
	m := NewMatchmaker(rooms)
	a, _ := newTestSession("a", domain.Profile{})

	out, err := m.RequestMatch("sid-a", a, domain.MatchFilters{})
	require.NoError(t, err)
	require.False(t, out.Matched)
	require.True(t, m.Waiting("sid-a"))
	require.Equal(t, 1, m.PoolSize())
}

func TestSecondCompatibleRequestMatchesImmediately(t *testing.T) {
	rooms := NewRoomStore()
	m := NewMatchmaker(rooms)
	a, _ := newTestSession("a", domain.Profile{})
	b, _ := newTestSession("b", domain.Profile{})

	_, err := m.RequestMatch("sid-a", a, domain.MatchFilters{})
	require.NoError(t, err)

	out, err := m.RequestMatch("sid-b", b, domain.MatchFilters{})
	require.NoError(t, err)
	require.True(t, out.Matched)
	require.Equal(t, "sid-a", string(out.PeerSID))
	require.Equal(t, domain.KindPair, out.Room.Kind)

	members, err := rooms.Members(out.Room.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)

	require.Zero(t, m.PoolSize(), "both sides left the pool the instant they matched")
	require.False(t, m.Waiting("sid-a"))
	require.False(t, m.Waiting("sid-b"))
}

func TestFiltersMustAdmitBothWays(t *testing.T) {
	rooms := NewRoomStore()
	m := NewMatchmaker(rooms)

	// A only talks to "f"; A itself is "m".
	a, _ := newTestSession("a", domain.Profile{Gender: "m"})
	_, err := m.RequestMatch("sid-a", a, domain.MatchFilters{Gender: "f"})
	require.NoError(t, err)

	// B is "f" but only talks to "f" too, so A's profile fails B's filter.
	b, _ := newTestSession("b", domain.Profile{Gender: "f"})
	out, err := m.RequestMatch("sid-b", b, domain.MatchFilters{Gender: "f"})
	require.NoError(t, err)
	require.False(t, out.Matched)
	require.Equal(t, 2, m.PoolSize())

	// C is "f" with no filter: mutual with A, who is the oldest compatible.
	c, _ := newTestSession("c", domain.Profile{Gender: "f"})
	out, err = m.RequestMatch("sid-c", c, domain.MatchFilters{})
	require.NoError(t, err)
	require.True(t, out.Matched)
	require.Equal(t, "sid-a", string(out.PeerSID))
}

func TestIncompatibleHeadDoesNotStarveTheTail(t *testing.T) {
	rooms := NewRoomStore()
	m := NewMatchmaker(rooms)

	a, _ := newTestSession("a", domain.Profile{Country: "us"})
	_, err := m.RequestMatch("sid-a", a, domain.MatchFilters{Country: "de"})
	require.NoError(t, err)

	b, _ := newTestSession("b", domain.Profile{Country: "us"})
	out, err := m.RequestMatch("sid-b", b, domain.MatchFilters{})
	require.NoError(t, err)
	require.False(t, out.Matched, "head wants de, b is us")

	// C is compatible with B even though the head A is not: the scan walks
	// past A instead of blocking on it.
	c, _ := newTestSession("c", domain.Profile{Country: "us"})
	out, err = m.RequestMatch("sid-c", c, domain.MatchFilters{Country: "us"})
	require.NoError(t, err)
	require.True(t, out.Matched)
	require.Equal(t, "sid-b", string(out.PeerSID))
	require.True(t, m.Waiting("sid-a"), "incompatible head keeps waiting")
}

func TestRepeatedRequestRefreshesFiltersKeepsPosition(t *testing.T) {
	rooms := NewRoomStore()
	m := NewMatchmaker(rooms)
	a, _ := newTestSession("a", domain.Profile{})

	_, err := m.RequestMatch("sid-a", a, domain.MatchFilters{Country: "de"})
	require.NoError(t, err)
	out, err := m.RequestMatch("sid-a", a, domain.MatchFilters{})
	require.NoError(t, err)
	require.False(t, out.Matched)
	require.Equal(t, 1, m.PoolSize(), "re-request never duplicates the pool entry")

	// The refreshed wildcard filter now lets anyone in.
	b, _ := newTestSession("b", domain.Profile{})
	out, err = m.RequestMatch("sid-b", b, domain.MatchFilters{})
	require.NoError(t, err)
	require.True(t, out.Matched)
	require.Equal(t, "sid-a", string(out.PeerSID))
}

func TestRemoveFromPool(t *testing.T) {
	rooms := NewRoomStore()
	m := NewMatchmaker(rooms)
	a, _ := newTestSession("a", domain.Profile{})

	_, err := m.RequestMatch("sid-a", a, domain.MatchFilters{})
	require.NoError(t, err)

	require.True(t, m.Remove("sid-a"))
	require.False(t, m.Remove("sid-a"), "second removal is a no-op")
	require.Zero(t, m.PoolSize())

	// A canceled waiter is invisible to later requests.
	b, _ := newTestSession("b", domain.Profile{})
	out, err := m.RequestMatch("sid-b", b, domain.MatchFilters{})
	require.NoError(t, err)
	require.False(t, out.Matched)
}
