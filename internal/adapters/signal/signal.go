package signal

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/nvkv/pairline/internal/app"
	"github.com/nvkv/pairline/internal/app/orch"
	"github.com/nvkv/pairline/internal/config"
	"github.com/nvkv/pairline/internal/core"
	"github.com/nvkv/pairline/internal/domain"
)

var ErrBackpressure = errors.New("backpressure")

type SignalWSController struct {
	Orch    *orch.Orchestrator
	Cfg     *config.Config
	limiter *MatchRateLimiter
}

func NewSignalWSController(o *orch.Orchestrator, cfg *config.Config) *SignalWSController {
	return &SignalWSController{
		Orch:    o,
		Cfg:     cfg,
		limiter: NewMatchRateLimiter(cfg.MatchLimit.Attempts, cfg.MatchLimit.Interval),
	}
}

type wsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *wsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *wsSignalConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleSignal upgrades the request, registers the connection and starts
// its pumps. The profile comes from query parameters; the coordinator
// never interprets it beyond match predicates.
func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}

	profile := profileFromQuery(c)
	conn := &wsSignalConn{
		conn: ws,
		send: make(chan core.Frame, 32),
	}
	sess := core.NewMemberSession(profile, conn)

	ctx, cancel := context.WithCancel(ctx)
	sid := ctl.Orch.Connect(sess, cancel)
	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("name", profile.Name).Msg("new WS connection")

	ctl.sendJSON(conn, map[string]any{
		"type":         evConnected,
		"connectionId": sid,
	})

	go ctl.writePump(ctx, sid, conn)
	go ctl.readPump(ctx, sid, conn)
}

func profileFromQuery(c *gin.Context) *domain.Profile {
	profile, err := domain.NewProfile(c.Query("name"))
	if err != nil {
		profile, _ = domain.NewProfile("stranger")
	}
	profile.Country = c.Query("country")
	profile.Gender = c.Query("gender")
	if age, err := strconv.Atoi(c.Query("age")); err == nil && age > 0 {
		profile.Age = age
	}
	return profile
}

// teardown runs once the read pump exits: room cleanup, peer notification,
// then unregistration. The transport close is the only cancellation signal.
func (ctl *SignalWSController) teardown(sid core.SessionID, conn *wsSignalConn) {
	ctl.limiter.Forget(sid)
	res := ctl.Orch.Disconnect(sid)
	ctl.notifyDeparture(res.Left)
	conn.Close()
}

// notifyDeparture tells the members left behind about a departure: the
// surviving half of a pair gets partner-left, a group gets room-users.
func (ctl *SignalWSController) notifyDeparture(res *app.RemoveResult) {
	if res == nil || len(res.Remaining) == 0 {
		return
	}
	if res.Room.Kind == domain.KindPair {
		for _, m := range res.Remaining {
			ctl.sendJSON(m.Session.Signal(), map[string]any{"type": evPartnerLeft})
		}
		return
	}
	members := make([]core.MemberDTO, 0, len(res.Remaining))
	for _, m := range res.Remaining {
		members = append(members, memberDTO(m))
	}
	frame := roomUsersFrame{Type: evRoomUsers, RoomID: res.Room.ID, Members: members}
	for _, m := range res.Remaining {
		ctl.sendJSON(m.Session.Signal(), frame)
	}
}

// broadcastRoom fans v out to every current member except one.
func (ctl *SignalWSController) broadcastRoom(roomID domain.RoomID, except core.SessionID, v any) {
	members, err := ctl.Orch.Rooms.Members(roomID)
	if err != nil {
		return
	}
	for _, m := range members {
		if m.SID == except {
			continue
		}
		ctl.sendJSON(m.Session.Signal(), v)
	}
}

func memberDTO(m app.MemberSnap) core.MemberDTO {
	dto := core.MemberDTO{ID: m.SID}
	if p := m.Session.Profile(); p != nil {
		dto.Name = p.Name
		dto.Country = p.Country
		dto.Gender = p.Gender
	}
	return dto
}
