package core

import "github.com/nvkv/pairline/internal/domain"

// PublishResult reports delivery stats/backpressure to the orchestrator.
type PublishResult struct {
	SentTo  int
	Dropped []SessionID
}

// MemberDTO is a read-only view for APIs and broadcasts (no transport fields).
type MemberDTO struct {
	ID      SessionID `json:"id"`
	Name    string    `json:"name"`
	Country string    `json:"country,omitempty"`
	Gender  string    `json:"gender,omitempty"`
}

// RoomInfo is the directory entry for an open group room.
type RoomInfo struct {
	ID          domain.RoomID `json:"id"`
	Name        string        `json:"name"`
	Capacity    int           `json:"capacity,omitempty"`
	MemberCount int           `json:"member_count"`
	Gated       bool          `json:"gated"`
}
