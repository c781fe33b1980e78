package app

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/nvkv/pairline/internal/core"
	"github.com/nvkv/pairline/internal/domain"
)

// roomState is the live membership set behind one domain.Room.
// All mutations of one room go through its own mutex, so concurrent
// joins and leaves on the same room serialize while distinct rooms
// proceed in parallel. Once closed is set the room is dead: no add
// can succeed even if the map entry has not been swept yet.
type roomState struct {
	mu      sync.Mutex
	room    domain.Room
	members map[core.SessionID]core.MemberSession
	closed  bool
}

// AddResult reports what a successful AddMember did.
type AddResult struct {
	Already bool // duplicate join, tolerated as a no-op
	Ready   bool // pair room just reached full membership
}

// RemoveResult reports what a successful RemoveMember did.
type RemoveResult struct {
	Room      domain.Room
	Dissolved bool
	Remaining []MemberSnap
}

// MemberSnap pairs a connection id with its session for fan-out.
type MemberSnap struct {
	SID     core.SessionID
	Session core.MemberSession
}

// RoomStore is the in-memory room map plus invariant enforcement:
// a pair room exists only with exactly two members and dissolves the
// instant membership drops below that; a group room dissolves when empty.
type RoomStore struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]*roomState
}

func NewRoomStore() *RoomStore {
	return &RoomStore{rooms: make(map[domain.RoomID]*roomState)}
}

// Create allocates a room with zero members. The caller must add a member
// right away or Delete the room; the store never garbage-collects on its own.
func (s *RoomStore) Create(room domain.Room) domain.Room {
	room.ID = domain.RoomID(uuid.NewString())
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.ID] = &roomState{
		room:    room,
		members: make(map[core.SessionID]core.MemberSession),
	}
	log.Info().Str("module", "app.rooms").Str("room", string(room.ID)).Str("kind", string(room.Kind)).Msg("room created")
	return room
}

func (s *RoomStore) get(id domain.RoomID) (*roomState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rs, ok := s.rooms[id]
	return rs, ok
}

// Get returns a copy of the room metadata.
func (s *RoomStore) Get(id domain.RoomID) (domain.Room, bool) {
	rs, ok := s.get(id)
	if !ok {
		return domain.Room{}, false
	}
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if rs.closed {
		return domain.Room{}, false
	}
	return rs.room, true
}

// AddMember adds the connection to the room. A duplicate join is an
// idempotent no-op, not an error. For pair rooms the result signals
// readiness once membership reaches two.
func (s *RoomStore) AddMember(id domain.RoomID, sid core.SessionID, sess core.MemberSession) (AddResult, error) {
	rs, ok := s.get(id)
	if !ok {
		return AddResult{}, domain.ErrRoomNotFound
	}
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if rs.closed {
		return AddResult{}, domain.ErrRoomNotFound
	}
	if _, ok := rs.members[sid]; ok {
		return AddResult{Already: true}, nil
	}
	if rs.room.Full(len(rs.members)) {
		return AddResult{}, domain.ErrRoomFull
	}
	rs.members[sid] = sess
	log.Info().Str("module", "app.rooms").Str("room", string(id)).Str("sid", string(sid)).Int("members", len(rs.members)).Msg("member added")
	ready := rs.room.Kind == domain.KindPair && len(rs.members) == domain.PairSize
	return AddResult{Ready: ready}, nil
}

// RemoveMember removes the connection and applies the dissolution invariant
// atomically with respect to concurrent joins on the same room.
func (s *RoomStore) RemoveMember(id domain.RoomID, sid core.SessionID) (RemoveResult, error) {
	rs, ok := s.get(id)
	if !ok {
		return RemoveResult{}, domain.ErrRoomNotFound
	}
	rs.mu.Lock()
	if rs.closed {
		rs.mu.Unlock()
		return RemoveResult{}, domain.ErrRoomNotFound
	}
	if _, ok := rs.members[sid]; !ok {
		rs.mu.Unlock()
		return RemoveResult{}, domain.ErrNotMember
	}
	delete(rs.members, sid)

	n := len(rs.members)
	dissolved := n == 0 || (rs.room.Kind == domain.KindPair && n < domain.PairSize)
	remaining := make([]MemberSnap, 0, n)
	for msid, ms := range rs.members {
		remaining = append(remaining, MemberSnap{SID: msid, Session: ms})
	}
	if dissolved {
		rs.closed = true
	}
	res := RemoveResult{Room: rs.room, Dissolved: dissolved, Remaining: remaining}
	rs.mu.Unlock()

	log.Info().Str("module", "app.rooms").Str("room", string(id)).Str("sid", string(sid)).Bool("dissolved", dissolved).Msg("member removed")
	if dissolved {
		s.sweep(id, rs)
	}
	return res, nil
}

// Delete drops a room outright, used to roll back a create whose first
// join failed.
func (s *RoomStore) Delete(id domain.RoomID) {
	rs, ok := s.get(id)
	if !ok {
		return
	}
	rs.mu.Lock()
	rs.closed = true
	rs.mu.Unlock()
	s.sweep(id, rs)
}

func (s *RoomStore) sweep(id domain.RoomID, rs *roomState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.rooms[id]; ok && cur == rs {
		delete(s.rooms, id)
		log.Info().Str("module", "app.rooms").Str("room", string(id)).Msg("room dissolved")
	}
}

// Members returns the current membership snapshot.
func (s *RoomStore) Members(id domain.RoomID) ([]MemberSnap, error) {
	rs, ok := s.get(id)
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if rs.closed {
		return nil, domain.ErrRoomNotFound
	}
	out := make([]MemberSnap, 0, len(rs.members))
	for sid, ms := range rs.members {
		out = append(out, MemberSnap{SID: sid, Session: ms})
	}
	return out, nil
}

// Snapshot is the read-only membership view used in room-users broadcasts.
func (s *RoomStore) Snapshot(id domain.RoomID) ([]core.MemberDTO, error) {
	members, err := s.Members(id)
	if err != nil {
		return nil, err
	}
	out := make([]core.MemberDTO, 0, len(members))
	for _, m := range members {
		p := m.Session.Profile()
		dto := core.MemberDTO{ID: m.SID}
		if p != nil {
			dto.Name = p.Name
			dto.Country = p.Country
			dto.Gender = p.Gender
		}
		out = append(out, dto)
	}
	return out, nil
}

// Publish fans a frame out to every member of the room except the sender.
// Membership of the sender is the sole authorization gate. Sends are
// non-blocking; recipients whose buffers are full are reported as dropped.
func (s *RoomStore) Publish(id domain.RoomID, from core.SessionID, data core.Frame) (core.PublishResult, error) {
	rs, ok := s.get(id)
	if !ok {
		return core.PublishResult{}, domain.ErrRoomNotFound
	}
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if rs.closed {
		return core.PublishResult{}, domain.ErrRoomNotFound
	}
	if _, ok := rs.members[from]; !ok {
		return core.PublishResult{}, domain.ErrUnauthorized
	}
	res := core.PublishResult{}
	for sid, m := range rs.members {
		if sid == from {
			continue
		}
		if err := m.Signal().TrySend(data); err != nil {
			res.Dropped = append(res.Dropped, sid)
			continue
		}
		res.SentTo++
	}
	log.Debug().Str("module", "app.rooms").Str("room", string(id)).Str("from", string(from)).Int("sent_to", res.SentTo).Int("dropped", len(res.Dropped)).Msg("publish result")
	return res, nil
}

// List returns directory entries for group rooms.
func (s *RoomStore) List() []core.RoomInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.RoomInfo, 0, len(s.rooms))
	for id, rs := range s.rooms {
		rs.mu.Lock()
		if !rs.closed && rs.room.Kind == domain.KindGroup {
			out = append(out, core.RoomInfo{
				ID:          id,
				Name:        rs.room.Name,
				Capacity:    rs.room.Capacity,
				MemberCount: len(rs.members),
				Gated:       rs.room.Gate != "",
			})
		}
		rs.mu.Unlock()
	}
	return out
}
