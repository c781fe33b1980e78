package core

import "github.com/nvkv/pairline/internal/domain"

// SessionID identifies one live transport connection. Assigned at connect
// time, stable for the connection lifetime, never reused.
type SessionID string

// MemberSession binds a client's profile and its transport endpoint.
// This is what rooms store and what relays fan out to.
type MemberSession interface {
	Profile() *domain.Profile
	Signal() SignalConnection
}

// NewMemberSession avoids raw literals in adapters and keeps construction obvious.
func NewMemberSession(profile *domain.Profile, conn SignalConnection) MemberSession {
	return &memberSession{profile: profile, conn: conn}
}

type memberSession struct {
	profile *domain.Profile
	conn    SignalConnection
}

func (m *memberSession) Profile() *domain.Profile { return m.profile }
func (m *memberSession) Signal() SignalConnection { return m.conn }
