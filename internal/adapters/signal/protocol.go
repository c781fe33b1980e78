package signal

import (
	"encoding/json"
	"errors"

	"github.com/nvkv/pairline/internal/core"
	"github.com/nvkv/pairline/internal/domain"
)

// Client-to-server event names. Every frame is a JSON object with a "type"
// field the dispatcher switches on.
const (
	evRequestMatch = "request-match"
	evCancelMatch  = "cancel-match"
	evCreateRoom   = "create-room"
	evJoinRoom     = "join-room"
	evLeaveRoom    = "leave-room"
	evOffer        = "offer"
	evAnswer       = "answer"
	evCandidate    = "ice-candidate"
	evChat         = "chat"
	evPing         = "ping"
	evRTCConfig    = "rtc-config"
)

// Server-to-client event names.
const (
	evConnected     = "connected"
	evWaiting       = "waiting"
	evMatched       = "matched"
	evMatchCanceled = "match-canceled"
	evRoomCreated   = "room-created"
	evRoomJoined    = "room-joined"
	evRoomLeft      = "room-left"
	evRoomUsers     = "room-users"
	evPartnerLeft   = "partner-left"
	evPong          = "pong"
	evError         = "error"
)

// Wire error codes, mapped from the domain taxonomy.
const (
	codeRoomNotFound  = "RoomNotFound"
	codeRoomFull      = "RoomFull"
	codeAccessDenied  = "AccessDenied"
	codeAlreadyMember = "AlreadyMember"
	codeNotMember     = "NotMember"
	codeUnauthorized  = "Unauthorized"
	codeBadPayload    = "BadPayload"
	codeRateLimited   = "RateLimited"
)

type errorFrame struct {
	Type string `json:"type"`
	Code string `json:"code"`
	Op   string `json:"op,omitempty"`
}

type matchedFrame struct {
	Type      string         `json:"type"`
	RoomID    domain.RoomID  `json:"roomId"`
	PeerInfo  core.MemberDTO `json:"peerInfo"`
	IsOfferer bool           `json:"isOfferer"`
}

type roomUsersFrame struct {
	Type    string           `json:"type"`
	RoomID  domain.RoomID    `json:"roomId"`
	Members []core.MemberDTO `json:"members"`
}

// relayEnvelope is both the inbound shape of offer/answer/ice-candidate/chat
// frames and, with From filled in, the outbound one. Payload stays opaque.
type relayEnvelope struct {
	Type    string          `json:"type"`
	RoomID  domain.RoomID   `json:"roomId"`
	From    core.SessionID  `json:"from,omitempty"`
	Payload json.RawMessage `json:"payload"`
}

func errCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrRoomNotFound):
		return codeRoomNotFound
	case errors.Is(err, domain.ErrRoomFull):
		return codeRoomFull
	case errors.Is(err, domain.ErrAccessDenied):
		return codeAccessDenied
	case errors.Is(err, domain.ErrAlreadyMember):
		return codeAlreadyMember
	case errors.Is(err, domain.ErrNotMember):
		return codeNotMember
	case errors.Is(err, domain.ErrUnauthorized):
		return codeUnauthorized
	default:
		return codeBadPayload
	}
}
