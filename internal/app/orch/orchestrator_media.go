package orch

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/dkeye/hlsrelay/internal/app"
	"github.com/dkeye/hlsrelay/internal/core"
	"github.com/rs/zerolog/log"
)

// CreateTransport allocates a transport for sid, closing the one it replaces.
func (o *Orchestrator) CreateTransport(ctx context.Context, sid core.SessionID) (core.TransportInfo, error) {
	sess, err := o.session(sid)
	if err != nil {
		return core.TransportInfo{}, err
	}
	ctx, cancel := o.withTimeout(ctx)
	defer cancel()

	t, err := o.Router.CreateTransport(ctx)
	if err != nil {
		return core.TransportInfo{}, fmt.Errorf("create transport: %w", err)
	}
	if prev := sess.SetTransport(t); prev != nil {
		// producers of the old transport may be feeding the relay
		if o.Relays != nil {
			o.Relays.StopRelay(sid)
		}
		sess.StopRelay()
		if err := prev.Close(); err != nil {
			log.Debug().Str("module", "orch").Str("sid", string(sid)).Err(err).Msg("close replaced transport")
		}
	}
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("transport", t.ID()).Msg("transport created")
	return t.Info(), nil
}

// lookupTransport returns the session transport. A non-empty transportID
// must name it.
func lookupTransport(sess *app.Session, transportID string) (core.Transport, error) {
	t, ok := sess.Transport()
	if !ok {
		return nil, app.ErrTransportNotFound
	}
	if transportID != "" && transportID != t.ID() {
		return nil, app.ErrTransportNotFound
	}
	return t, nil
}

func (o *Orchestrator) ConnectTransport(ctx context.Context, sid core.SessionID, transportID string, params core.ConnectParams) error {
	sess, err := o.session(sid)
	if err != nil {
		return err
	}
	t, err := lookupTransport(sess, transportID)
	if err != nil {
		return err
	}
	ctx, cancel := o.withTimeout(ctx)
	defer cancel()

	if err := t.Connect(ctx, params); err != nil {
		return fmt.Errorf("connect transport: %w", err)
	}
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("transport", t.ID()).Msg("transport connected")
	return nil
}

// Produce creates an inbound track. A video producer is relayed into HLS;
// a relay that fails to start is logged and does not fail the request.
func (o *Orchestrator) Produce(ctx context.Context, sid core.SessionID, transportID string, kind core.MediaKind, params core.RTPParameters) (string, error) {
	sess, err := o.session(sid)
	if err != nil {
		return "", err
	}
	t, err := lookupTransport(sess, transportID)
	if err != nil {
		return "", err
	}
	if !kind.Valid() {
		return "", app.ErrInvalidKind
	}
	ctx, cancel := o.withTimeout(ctx)
	defer cancel()

	p, err := t.Produce(ctx, kind, params)
	if err != nil {
		return "", fmt.Errorf("produce %s: %w", kind, err)
	}
	logger := log.With().Str("module", "orch").Str("sid", string(sid)).Str("producer", p.ID()).Logger()

	if prev := sess.AddProducer(p); prev != nil {
		if kind == core.KindVideo && o.Relays != nil {
			o.Relays.StopRelay(sid)
			sess.StopRelay()
		}
		if err := prev.Close(); err != nil {
			logger.Debug().Err(err).Msg("close replaced producer")
		}
	}
	logger.Info().Str("kind", string(kind)).Msg("producer created")

	if kind == core.KindVideo && o.Relays != nil {
		if err := o.startRelay(sess, p); err != nil {
			logger.Error().Err(err).Msg("relay start failed")
		}
	}
	return p.ID(), nil
}

func (o *Orchestrator) startRelay(sess *app.Session, p core.Producer) error {
	port, err := o.Relays.AcquirePort()
	if err != nil {
		return err
	}
	codec := p.Codec()

	// Recorded before the process runs: an exit during startup must find
	// the record to mark it failed.
	pipeCtx, cancel := context.WithCancel(context.Background())
	sess.StartRelay(app.RelayState{
		Port:      port,
		Codec:     codec.Name(),
		StartedAt: time.Now(),
	}, cancel)

	// the relay lives as long as the session, not the request
	if err := o.Relays.StartRelay(context.Background(), sess.ID, port, codec); err != nil {
		sess.StopRelay()
		return err
	}
	if pipeCtx.Err() != nil {
		// already exited and reported
		return nil
	}

	addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(port))
	if err := p.PipeTo(pipeCtx, addr); err != nil {
		o.Relays.StopRelay(sess.ID)
		sess.StopRelay()
		return fmt.Errorf("pipe to relay: %w", err)
	}
	return nil
}

// Consume creates a paused consumer of producerID on the session transport.
func (o *Orchestrator) Consume(ctx context.Context, sid core.SessionID, transportID, producerID string, caps core.RTPCapabilities) (core.Consumer, error) {
	sess, err := o.session(sid)
	if err != nil {
		return nil, err
	}
	t, err := lookupTransport(sess, transportID)
	if err != nil {
		return nil, err
	}
	if !o.Router.CanConsume(producerID, caps) {
		return nil, app.ErrCannotConsume
	}
	ctx, cancel := o.withTimeout(ctx)
	defer cancel()

	c, err := t.Consume(ctx, producerID, caps, true)
	if err != nil {
		return nil, fmt.Errorf("consume %s: %w", producerID, err)
	}
	sess.AddConsumer(c)
	log.Info().Str("module", "orch").Str("sid", string(sid)).
		Str("consumer", c.ID()).Str("producer", producerID).Msg("consumer created")
	return c, nil
}

// ResumeConsumer resumes consumerID, or the latest consumer when it is empty.
func (o *Orchestrator) ResumeConsumer(ctx context.Context, sid core.SessionID, consumerID string) error {
	sess, err := o.session(sid)
	if err != nil {
		return err
	}
	c, ok := sess.Consumer(consumerID)
	if !ok {
		return app.ErrConsumerNotFound
	}
	if err := c.Resume(); err != nil {
		return fmt.Errorf("resume consumer: %w", err)
	}
	return nil
}
