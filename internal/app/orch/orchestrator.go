package orch

import (
	"context"
	"time"

	"github.com/dkeye/hlsrelay/internal/app"
	"github.com/dkeye/hlsrelay/internal/core"
	"github.com/rs/zerolog/log"
)

// RelayFailedEvent is pushed to a session whose relay exited on its own.
type RelayFailedEvent struct {
	Type      string         `json:"type"`
	SessionID core.SessionID `json:"sessionId"`
	Error     string         `json:"error"`
}

type Orchestrator struct {
	Registry       *app.Registry
	Router         core.Router
	Relays         core.RelayManager
	RequestTimeout time.Duration
}

func (o *Orchestrator) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, o.RequestTimeout)
}

func (o *Orchestrator) session(sid core.SessionID) (*app.Session, error) {
	sess, ok := o.Registry.GetSession(sid)
	if !ok {
		return nil, app.ErrSessionNotFound
	}
	return sess, nil
}

// Connect creates and registers the session of a new signaling connection.
func (o *Orchestrator) Connect(sid core.SessionID, clientToken string, cancel context.CancelFunc) *app.Session {
	sess := app.NewSession(sid, clientToken)
	o.Registry.Bind(sess, cancel)
	return sess
}

// Disconnect stops the session's relay, closes every handle it owns and
// forgets it.
func (o *Orchestrator) Disconnect(sid core.SessionID) {
	logger := log.With().Str("module", "orch").Str("sid", string(sid)).Logger()

	sess, ok := o.Registry.GetSession(sid)
	if !ok {
		return
	}
	if o.Relays != nil && o.Relays.StopRelay(sid) {
		logger.Info().Msg("relay stopped on disconnect")
	}

	h := sess.Release()
	for _, c := range h.Consumers {
		if err := c.Close(); err != nil {
			logger.Debug().Err(err).Str("consumer", c.ID()).Msg("close consumer")
		}
	}
	for _, p := range h.Producers {
		if err := p.Close(); err != nil {
			logger.Debug().Err(err).Str("producer", p.ID()).Msg("close producer")
		}
	}
	if h.Transport != nil {
		if err := h.Transport.Close(); err != nil {
			logger.Debug().Err(err).Msg("close transport")
		}
	}
	o.Registry.Unbind(sid)
}

// OnRelayExit is installed as the relay manager's exit callback. It runs
// only for exits the manager did not ask for.
func (o *Orchestrator) OnRelayExit(sid core.SessionID, err error) {
	app.RelayFailures.Inc()
	reason := "relay exited"
	if err != nil {
		reason = err.Error()
	}
	log.Warn().Str("module", "orch").Str("sid", string(sid)).Str("reason", reason).Msg("relay failed")

	sess, ok := o.Registry.GetSession(sid)
	if !ok {
		return
	}
	sess.MarkRelayFailed(reason)
	sess.Notify(RelayFailedEvent{Type: "relayFailed", SessionID: sid, Error: reason})
}
