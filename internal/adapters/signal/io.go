package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dkeye/hlsrelay/internal/app"
	"github.com/dkeye/hlsrelay/internal/core"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const writeWait = 5 * time.Second

// request is a client message. ID is echoed in the reply.
type request struct {
	ID   uint64          `json:"id"`
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type response struct {
	ID    uint64 `json:"id"`
	Type  string `json:"type"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

func (ctl *SignalWSController) writePump(ctx context.Context, c *WsSignalConn) {
	period := ctl.cfg.PingPeriod
	if period <= 0 {
		period = 54 * time.Second
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Msg("writePump ctx done")
			c.Close()
			return
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				log.Warn().Err(err).Str("module", "signal").Msg("writePump ping")
				c.Close()
				return
			}
		case data, ok := <-c.send:
			if !ok {
				log.Debug().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				c.Close()
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				c.Close()
				return
			}
		}
	}
}

// readPump handles the messages of one connection strictly in order.
// When it returns the session is torn down.
func (ctl *SignalWSController) readPump(ctx context.Context, cancel context.CancelFunc, sid core.SessionID, c *WsSignalConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("readPump closing")
		ctl.Orch.Disconnect(sid)
		ctl.limiter.Forget(sid)
		cancel()
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("readPump ctx done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("readPump read error")
				}
				return
			}
			ctl.handleSignal(ctx, sid, c, data)
		}
	}
}

func (ctl *SignalWSController) handleSignal(ctx context.Context, sid core.SessionID, c *WsSignalConn, data []byte) {
	var req request
	if err := json.Unmarshal(data, &req); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad json")
		return
	}

	var (
		result any
		err    error
	)
	switch req.Type {
	case "ping":
		ctl.handlePing(c)
		return
	case "getRouterRtpCapabilities":
		result = ctl.handleCapabilities()
	case "createWebRtcTransport":
		result, err = ctl.handleCreateTransport(ctx, sid)
	case "connectProducerTransport":
		err = ctl.handleConnectTransport(ctx, sid, req.Data)
	case "produce":
		result, err = ctl.handleProduce(ctx, sid, req.Data)
	case "consume":
		result, err = ctl.handleConsume(ctx, sid, req.Data)
	case "resumeConsumer":
		err = ctl.handleResumeConsumer(ctx, sid, req.Data)
	default:
		log.Warn().Str("module", "signal").Str("type", req.Type).Msg("unknown signal")
		ctl.sendJSON(c, response{ID: req.ID, Type: "response", Error: "Unknown message type"})
		return
	}

	if err != nil {
		msg := wireError(req.Type, err)
		app.SignalRequests.WithLabelValues(req.Type, "error").Inc()
		log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Str("type", req.Type).Msg(msg)
		ctl.sendJSON(c, response{ID: req.ID, Type: "response", Error: msg})
		return
	}
	app.SignalRequests.WithLabelValues(req.Type, "ok").Inc()
	ctl.sendJSON(c, response{ID: req.ID, Type: "response", Data: result})
}

func (ctl *SignalWSController) sendJSON(c *WsSignalConn, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	if err := c.TrySend(b); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("sendJSON dropped")
	}
}
