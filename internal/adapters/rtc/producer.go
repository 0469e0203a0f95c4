package rtc

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"net"
	"sync"

	"github.com/dkeye/hlsrelay/internal/core"
	"github.com/pion/rtcp"
	"github.com/pion/rtp"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var errProducerClosed = errors.New("producer closed")

// producer reads one inbound track and fans its packets out to sinks.
type producer struct {
	id    string
	kind  core.MediaKind
	codec core.RTPCodecParameters
	ssrc  uint32

	receiver *webrtc.RTPReceiver
	rtcpOut  func([]rtcp.Packet) (int, error)
	onClose  func(id string)

	mu    sync.RWMutex
	sinks map[string]*sink

	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

var _ core.Producer = (*producer)(nil)

func newProducer(id string, kind core.MediaKind, codec core.RTPCodecParameters, ssrc uint32) *producer {
	ctx, cancel := context.WithCancel(context.Background())
	return &producer{
		id:     id,
		kind:   kind,
		codec:  codec,
		ssrc:   ssrc,
		sinks:  make(map[string]*sink),
		ctx:    ctx,
		cancel: cancel,
	}
}

func (p *producer) ID() string                     { return p.id }
func (p *producer) Kind() core.MediaKind           { return p.kind }
func (p *producer) Codec() core.RTPCodecParameters { return p.codec }

// loop reads RTP from the receiver's track and forwards it to all sinks.
func (p *producer) loop(track *webrtc.TrackRemote, logger *zerolog.Logger) {
	for {
		select {
		case <-p.ctx.Done():
			logger.Info().Msg("producer closed, marking all sinks for delete")
			p.markAllDelete()
			return
		default:
		}
		pkt, _, err := track.ReadRTP()
		if err != nil {
			logger.Info().Err(err).Msg("producer read RTP stopped")
			p.markAllDelete()
			return
		}
		p.forward(pkt, logger)
	}
}

// drainRTCP keeps the receiver's interceptors running.
func (p *producer) drainRTCP() {
	for {
		if _, _, err := p.receiver.ReadRTCP(); err != nil {
			return
		}
	}
}

func (p *producer) forward(pkt *rtp.Packet, logger *zerolog.Logger) {
	p.mu.RLock()
	snapshot := make(map[string]*sink, len(p.sinks))
	maps.Copy(snapshot, p.sinks)
	p.mu.RUnlock()

	dirty := make([]string, 0, len(snapshot))
	for id, s := range snapshot {
		switch s.getState() {
		case sinkDelete:
			dirty = append(dirty, id)
		case sinkPaused:
		case sinkOk:
			if err := s.write(pkt); err != nil {
				logger.Warn().Err(err).Str("sink", id).Msg("sink write error, marking sink as delete")
				s.markDelete()
				dirty = append(dirty, id)
			}
		}
	}

	if len(dirty) > 0 {
		p.cleanupDeleted(dirty)
	}
}

func (p *producer) cleanupDeleted(dirty []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, id := range dirty {
		delete(p.sinks, id)
	}
}

func (p *producer) markAllDelete() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, s := range p.sinks {
		s.markDelete()
	}
}

func (p *producer) addSink(s *sink) error {
	if p.ctx.Err() != nil {
		return errProducerClosed
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sinks[s.id] = s
	return nil
}

func (p *producer) removeSink(id string) {
	p.mu.RLock()
	s, ok := p.sinks[id]
	p.mu.RUnlock()
	if ok {
		s.markDelete()
	}
}

// RequestKeyFrame asks the publisher for a keyframe.
func (p *producer) RequestKeyFrame() {
	if p.kind != core.KindVideo || p.rtcpOut == nil {
		return
	}
	if _, err := p.rtcpOut([]rtcp.Packet{&rtcp.PictureLossIndication{MediaSSRC: p.ssrc}}); err != nil {
		log.Debug().Str("module", "rtc.producer").Str("producer", p.id).Err(err).Msg("send PLI")
	}
}

// PipeTo sends every packet to addr from an unconnected UDP socket. The
// receiver may not be listening yet, so write errors are ignored.
func (p *producer) PipeTo(ctx context.Context, addr string) error {
	raddr, err := net.ResolveUDPAddr("udp4", addr)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", addr, err)
	}
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		return fmt.Errorf("listen udp: %w", err)
	}

	id := "pipe:" + addr
	buf := make([]byte, 1500)
	var bufMu sync.Mutex
	s := newSink(id, func(pkt *rtp.Packet) error {
		bufMu.Lock()
		defer bufMu.Unlock()
		n, err := pkt.MarshalTo(buf)
		if err != nil {
			return nil
		}
		_, _ = conn.WriteToUDP(buf[:n], raddr)
		return nil
	}, false)
	if err := p.addSink(s); err != nil {
		_ = conn.Close()
		return err
	}

	go func() {
		select {
		case <-ctx.Done():
		case <-p.ctx.Done():
		}
		p.removeSink(id)
		_ = conn.Close()
	}()

	log.Info().Str("module", "rtc.producer").Str("producer", p.id).Str("addr", addr).Msg("piping RTP")
	p.RequestKeyFrame()
	return nil
}

func (p *producer) Close() error {
	var err error
	p.once.Do(func() {
		p.cancel()
		p.markAllDelete()
		if p.receiver != nil {
			err = p.receiver.Stop()
		}
		if p.onClose != nil {
			p.onClose(p.id)
		}
	})
	return err
}
