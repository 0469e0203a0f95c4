package rtc

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dkeye/hlsrelay/internal/core"
	"github.com/google/uuid"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
)

var (
	errNotConnected     = errors.New("transport not connected")
	errAlreadyConnected = errors.New("transport already connected")
	errTransportClosed  = errors.New("transport closed")
	errMissingICE       = errors.New("remote ice parameters required")
	errUnknownProducer  = errors.New("unknown producer")
)

// transport is one peer endpoint built from pion's ORTC objects: an ICE
// gatherer and transport carrying a DTLS transport. The server side is
// ICE-lite and controlled.
type transport struct {
	id     string
	router *Router

	gatherer *webrtc.ICEGatherer
	ice      *webrtc.ICETransport
	dtls     *webrtc.DTLSTransport
	info     core.TransportInfo

	mu        sync.Mutex
	connected bool
	closed    bool
	producers map[string]*producer
	consumers map[string]*consumer
}

var _ core.Transport = (*transport)(nil)

func newTransport(ctx context.Context, r *Router) (*transport, error) {
	gatherer, err := r.api.NewICEGatherer(webrtc.ICEGatherOptions{})
	if err != nil {
		return nil, fmt.Errorf("ice gatherer: %w", err)
	}
	ice := r.api.NewICETransport(gatherer)
	dtls, err := r.api.NewDTLSTransport(ice, nil)
	if err != nil {
		_ = gatherer.Close()
		return nil, fmt.Errorf("dtls transport: %w", err)
	}

	t := &transport{
		id:        uuid.NewString(),
		router:    r,
		gatherer:  gatherer,
		ice:       ice,
		dtls:      dtls,
		producers: make(map[string]*producer),
		consumers: make(map[string]*consumer),
	}

	gathered := make(chan struct{})
	var once sync.Once
	gatherer.OnLocalCandidate(func(c *webrtc.ICECandidate) {
		if c == nil {
			once.Do(func() { close(gathered) })
		}
	})
	if err := gatherer.Gather(); err != nil {
		t.stop()
		return nil, fmt.Errorf("gather: %w", err)
	}
	select {
	case <-gathered:
	case <-ctx.Done():
		t.stop()
		return nil, ctx.Err()
	}

	if err := t.collectInfo(); err != nil {
		t.stop()
		return nil, err
	}

	ice.OnConnectionStateChange(func(s webrtc.ICETransportState) {
		log.Info().Str("module", "rtc.transport").Str("transport", t.id).Str("ice_state", s.String()).Msg("ICE state")
	})
	dtls.OnStateChange(func(s webrtc.DTLSTransportState) {
		log.Info().Str("module", "rtc.transport").Str("transport", t.id).Str("dtls_state", s.String()).Msg("DTLS state")
	})
	return t, nil
}

func (t *transport) collectInfo() error {
	iceParams, err := t.gatherer.GetLocalParameters()
	if err != nil {
		return fmt.Errorf("ice parameters: %w", err)
	}
	// the router's setting engine is lite; clients pick their ICE role from this
	iceParams.ICELite = true
	candidates, err := t.gatherer.GetLocalCandidates()
	if err != nil {
		return fmt.Errorf("ice candidates: %w", err)
	}
	dtlsParams, err := t.dtls.GetLocalParameters()
	if err != nil {
		return fmt.Errorf("dtls parameters: %w", err)
	}
	t.info = core.TransportInfo{
		ID:             t.id,
		ICEParameters:  iceParams,
		ICECandidates:  candidates,
		DTLSParameters: dtlsParams,
	}
	return nil
}

func (t *transport) ID() string               { return t.id }
func (t *transport) Info() core.TransportInfo { return t.info }

// Connect starts ICE and the DTLS handshake with the remote parameters.
// It gives up and closes the transport when ctx expires first.
func (t *transport) Connect(ctx context.Context, params core.ConnectParams) error {
	if params.ICEParameters == nil {
		return errMissingICE
	}
	t.mu.Lock()
	switch {
	case t.closed:
		t.mu.Unlock()
		return errTransportClosed
	case t.connected:
		t.mu.Unlock()
		return errAlreadyConnected
	}
	t.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		if err := t.ice.SetRemoteCandidates(params.ICECandidates); err != nil {
			done <- fmt.Errorf("remote candidates: %w", err)
			return
		}
		role := webrtc.ICERoleControlled
		if err := t.ice.Start(nil, *params.ICEParameters, &role); err != nil {
			done <- fmt.Errorf("ice start: %w", err)
			return
		}
		if err := t.dtls.Start(params.DTLSParameters); err != nil {
			done <- fmt.Errorf("dtls start: %w", err)
			return
		}
		done <- nil
	}()

	select {
	case err := <-done:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		_ = t.Close()
		return ctx.Err()
	}

	t.mu.Lock()
	t.connected = true
	t.mu.Unlock()
	return nil
}

func (t *transport) Produce(ctx context.Context, kind core.MediaKind, params core.RTPParameters) (core.Producer, error) {
	t.mu.Lock()
	connected, closed := t.connected, t.closed
	t.mu.Unlock()
	if closed {
		return nil, errTransportClosed
	}
	if !connected {
		return nil, errNotConnected
	}
	if len(params.Codecs) == 0 || len(params.Encodings) == 0 || params.Encodings[0].SSRC == 0 {
		return nil, fmt.Errorf("rtp parameters need a codec and an encoding ssrc")
	}
	codec, ok := t.router.codecFor(kind, params.Codecs[0])
	if !ok {
		return nil, fmt.Errorf("unsupported %s codec %s", kind, params.Codecs[0].MimeType)
	}
	ssrc := params.Encodings[0].SSRC

	receiver, err := t.router.api.NewRTPReceiver(kind.CodecType(), t.dtls)
	if err != nil {
		return nil, fmt.Errorf("rtp receiver: %w", err)
	}
	err = receiver.Receive(webrtc.RTPReceiveParameters{
		Encodings: []webrtc.RTPDecodingParameters{{
			RTPCodingParameters: webrtc.RTPCodingParameters{
				SSRC:        webrtc.SSRC(ssrc),
				PayloadType: webrtc.PayloadType(codec.PayloadType),
			},
		}},
	})
	if err != nil {
		_ = receiver.Stop()
		return nil, fmt.Errorf("receive: %w", err)
	}
	if err := ctx.Err(); err != nil {
		_ = receiver.Stop()
		return nil, err
	}

	p := newProducer(uuid.NewString(), kind, codec, ssrc)
	p.receiver = receiver
	p.rtcpOut = t.dtls.WriteRTCP
	p.onClose = func(id string) {
		t.router.removeProducer(id)
		t.mu.Lock()
		delete(t.producers, id)
		t.mu.Unlock()
	}

	t.mu.Lock()
	t.producers[p.id] = p
	t.mu.Unlock()
	t.router.addProducer(p)

	logger := log.With().
		Str("module", "rtc.producer").
		Str("producer", p.id).
		Str("kind", string(kind)).
		Uint32("ssrc", ssrc).
		Logger()
	go p.loop(receiver.Track(), &logger)
	go p.drainRTCP()
	logger.Info().Msg("producer started")
	return p, nil
}

// Consume binds a new RTP sender to producerID. The sender can be set up
// before the transport connects; packets flow once DTLS is up.
func (t *transport) Consume(ctx context.Context, producerID string, caps core.RTPCapabilities, paused bool) (core.Consumer, error) {
	t.mu.Lock()
	closed := t.closed
	t.mu.Unlock()
	if closed {
		return nil, errTransportClosed
	}
	p, ok := t.router.producer(producerID)
	if !ok {
		return nil, errUnknownProducer
	}
	if !caps.Supports(p.codec) {
		return nil, fmt.Errorf("peer cannot receive %s", p.codec.MimeType)
	}

	id := uuid.NewString()
	track, err := webrtc.NewTrackLocalStaticRTP(codecCapability(p.codec), string(p.kind), p.id)
	if err != nil {
		return nil, fmt.Errorf("local track: %w", err)
	}
	sender, err := t.router.api.NewRTPSender(track, t.dtls)
	if err != nil {
		return nil, fmt.Errorf("rtp sender: %w", err)
	}
	if err := sender.Send(sender.GetParameters()); err != nil {
		_ = sender.Stop()
		return nil, fmt.Errorf("send: %w", err)
	}
	if err := ctx.Err(); err != nil {
		_ = sender.Stop()
		return nil, err
	}

	c := newConsumer(id, p, track, paused)
	c.sender = sender
	c.params = core.RTPParameters{
		MID:    id,
		Codecs: []core.RTPCodecParameters{p.codec},
	}
	for _, enc := range sender.GetParameters().Encodings {
		c.params.Encodings = append(c.params.Encodings, core.RTPEncoding{SSRC: uint32(enc.SSRC)})
	}
	c.onClose = func(id string) {
		t.mu.Lock()
		delete(t.consumers, id)
		t.mu.Unlock()
	}
	if err := p.addSink(c.sink); err != nil {
		_ = sender.Stop()
		return nil, err
	}

	t.mu.Lock()
	t.consumers[id] = c
	t.mu.Unlock()

	go c.readRTCP()
	log.Info().Str("module", "rtc.consumer").Str("consumer", id).Str("producer", p.id).Bool("paused", paused).Msg("consumer created")
	return c, nil
}

func (t *transport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	consumers := make([]*consumer, 0, len(t.consumers))
	for _, c := range t.consumers {
		consumers = append(consumers, c)
	}
	producers := make([]*producer, 0, len(t.producers))
	for _, p := range t.producers {
		producers = append(producers, p)
	}
	t.mu.Unlock()

	for _, c := range consumers {
		_ = c.Close()
	}
	for _, p := range producers {
		_ = p.Close()
	}
	err := t.stop()
	log.Info().Str("module", "rtc.transport").Str("transport", t.id).Msg("closed")
	return err
}

func (t *transport) stop() error {
	return errors.Join(t.dtls.Stop(), t.ice.Stop(), t.gatherer.Close())
}
