package app

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nvkv/pairline/internal/core"
	"github.com/nvkv/pairline/internal/domain"
)

type waiter struct {
	sid        core.SessionID
	sess       core.MemberSession
	filters    domain.MatchFilters
	enqueuedAt time.Time
}

// MatchOutcome is the result of a match request. When Matched is false the
// caller has been enqueued and waits until a later request pairs with it.
type MatchOutcome struct {
	Matched bool
	Room    domain.Room
	PeerSID core.SessionID
	Peer    core.MemberSession
}

// Matchmaker pairs anonymous waiting connections into pair rooms.
// The pool is FIFO with filter compatibility: the head-to-tail scan picks
// the oldest compatible candidate, so an incompatible head never starves
// the entries behind it.
type Matchmaker struct {
	mu    sync.Mutex
	queue []*waiter
	rooms *RoomStore
}

func NewMatchmaker(rooms *RoomStore) *Matchmaker {
	return &Matchmaker{rooms: rooms}
}

// RequestMatch pops the oldest compatible candidate and pairs both sides in
// a fresh pair room, or enqueues the caller when none is compatible.
// A repeated request from a waiting connection refreshes its filters but
// keeps its queue position. The pool and the room membership mutate under
// one lock, so a connection is never in both at once.
func (m *Matchmaker) RequestMatch(sid core.SessionID, sess core.MemberSession, filters domain.MatchFilters) (MatchOutcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, w := range m.queue {
		if w.sid == sid {
			w.filters = filters
			log.Info().Str("module", "app.match").Str("sid", string(sid)).Msg("refreshed filters, still waiting")
			return MatchOutcome{}, nil
		}
	}

	for i, w := range m.queue {
		if !mutuallyCompatible(w.filters, w.sess.Profile(), filters, sess.Profile()) {
			continue
		}
		m.queue = append(m.queue[:i], m.queue[i+1:]...)

		room := m.rooms.Create(domain.Room{Kind: domain.KindPair})
		if _, err := m.rooms.AddMember(room.ID, w.sid, w.sess); err != nil {
			m.rooms.Delete(room.ID)
			return MatchOutcome{}, fmt.Errorf("seat waiting peer: %w", err)
		}
		if _, err := m.rooms.AddMember(room.ID, sid, sess); err != nil {
			m.rooms.Delete(room.ID)
			return MatchOutcome{}, fmt.Errorf("seat caller: %w", err)
		}
		log.Info().Str("module", "app.match").Str("sid", string(sid)).Str("peer", string(w.sid)).Str("room", string(room.ID)).Dur("waited", time.Since(w.enqueuedAt)).Msg("matched")
		return MatchOutcome{Matched: true, Room: room, PeerSID: w.sid, Peer: w.sess}, nil
	}

	m.queue = append(m.queue, &waiter{sid: sid, sess: sess, filters: filters, enqueuedAt: time.Now()})
	log.Info().Str("module", "app.match").Str("sid", string(sid)).Int("pool", len(m.queue)).Msg("enqueued")
	return MatchOutcome{}, nil
}

// mutuallyCompatible holds when each side's filter admits the other's profile.
func mutuallyCompatible(af domain.MatchFilters, ap *domain.Profile, bf domain.MatchFilters, bp *domain.Profile) bool {
	return af.Admits(bp) && bf.Admits(ap)
}

// Remove drops the connection from the pool. No-op when absent, so it
// doubles as cancel-match and as the disconnect hook.
func (m *Matchmaker) Remove(sid core.SessionID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, w := range m.queue {
		if w.sid == sid {
			m.queue = append(m.queue[:i], m.queue[i+1:]...)
			log.Info().Str("module", "app.match").Str("sid", string(sid)).Msg("left pool")
			return true
		}
	}
	return false
}

// Waiting reports whether the connection is currently pooled.
func (m *Matchmaker) Waiting(sid core.SessionID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range m.queue {
		if w.sid == sid {
			return true
		}
	}
	return false
}

func (m *Matchmaker) PoolSize() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}
