package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/dkeye/hlsrelay/internal/app/orch"
	"github.com/dkeye/hlsrelay/internal/config"
	"github.com/dkeye/hlsrelay/internal/core"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var ErrBackpressure = errors.New("backpressure")

type SignalWSController struct {
	Orch    *orch.Orchestrator
	cfg     config.SignalConfig
	limiter *RateLimiter
}

func NewSignalWSController(o *orch.Orchestrator, cfg config.SignalConfig) *SignalWSController {
	return &SignalWSController{
		Orch:    o,
		cfg:     cfg,
		limiter: NewRateLimiter(cfg.TransportLimit, cfg.TransportInterval),
	}
}

type WsSignalConn struct {
	conn *websocket.Conn
	send chan []byte

	mu     sync.RWMutex
	closed bool
}

func (c *WsSignalConn) TrySend(b []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- b:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *WsSignalConn) Close() {
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

type welcome struct {
	Type      string         `json:"type"`
	SessionID core.SessionID `json:"sessionId"`
}

// HandleSignal upgrades the request and runs one signaling session on it.
// Each socket is its own session, so one browser can publish and watch
// from two tabs.
func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	sid := core.SessionID(uuid.NewString())
	token := c.GetString("client_token")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	if ctl.cfg.ReadLimit > 0 {
		ws.SetReadLimit(ctl.cfg.ReadLimit)
	}
	buf := ctl.cfg.SendBuffer
	if buf <= 0 {
		buf = 32
	}
	conn := &WsSignalConn{
		conn: ws,
		send: make(chan []byte, buf),
	}

	ctx, cancel := context.WithCancel(ctx)
	sess := ctl.Orch.Connect(sid, token, cancel)
	sess.SetNotifier(func(v any) { ctl.sendJSON(conn, v) })
	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("client", token).Msg("new WS connection")

	ctl.sendJSON(conn, welcome{Type: "welcome", SessionID: sid})

	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, sid, conn)
}
