package rtc

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"

	"github.com/dkeye/hlsrelay/internal/config"
	"github.com/dkeye/hlsrelay/internal/core"
	"github.com/pion/interceptor"
	"github.com/pion/interceptor/pkg/intervalpli"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
)

var videoRTCPFeedback = []webrtc.RTCPFeedback{
	{Type: "goog-remb"},
	{Type: "ccm", Parameter: "fir"},
	{Type: webrtc.TypeRTCPFBNACK},
	{Type: webrtc.TypeRTCPFBNACK, Parameter: "pli"},
}

// Router is the process-wide SFU. Its codec set is fixed at construction.
type Router struct {
	api  *webrtc.API
	caps core.RTPCapabilities

	mu        sync.RWMutex
	producers map[string]*producer
}

var _ core.Router = (*Router)(nil)

func codecCapability(c core.RTPCodecParameters) webrtc.RTPCodecCapability {
	rc := webrtc.RTPCodecCapability{
		MimeType:    c.MimeType,
		ClockRate:   c.ClockRate,
		Channels:    c.Channels,
		SDPFmtpLine: c.SDPFmtpLine,
	}
	if c.Kind == core.KindVideo {
		rc.RTCPFeedback = videoRTCPFeedback
	}
	return rc
}

// Codecs converts configured codecs to router codec parameters.
func Codecs(cfg []config.CodecConfig) []core.RTPCodecParameters {
	out := make([]core.RTPCodecParameters, 0, len(cfg))
	for _, c := range cfg {
		out = append(out, core.RTPCodecParameters{
			Kind:        core.MediaKind(strings.ToLower(c.Kind)),
			MimeType:    c.MimeType,
			PayloadType: c.PayloadType,
			ClockRate:   c.ClockRate,
			Channels:    c.Channels,
			SDPFmtpLine: c.SDPFmtpLine,
		})
	}
	return out
}

// NewRouter builds the webrtc API: media engine with the configured
// codecs, default interceptors plus periodic PLI, and a setting engine
// bound to the configured address and UDP port range.
func NewRouter(cfg config.MediaConfig) (*Router, error) {
	codecs := Codecs(cfg.Codecs)

	me := &webrtc.MediaEngine{}
	for _, c := range codecs {
		err := me.RegisterCodec(webrtc.RTPCodecParameters{
			RTPCodecCapability: codecCapability(c),
			PayloadType:        webrtc.PayloadType(c.PayloadType),
		}, c.Kind.CodecType())
		if err != nil {
			return nil, fmt.Errorf("register codec %s: %w", c.MimeType, err)
		}
	}

	ir := &interceptor.Registry{}
	if err := webrtc.RegisterDefaultInterceptors(me, ir); err != nil {
		return nil, fmt.Errorf("register default interceptors: %w", err)
	}
	if cfg.PLIInterval > 0 {
		pli, err := intervalpli.NewReceiverInterceptor(intervalpli.GeneratorInterval(cfg.PLIInterval))
		if err != nil {
			return nil, fmt.Errorf("create PLI interceptor: %w", err)
		}
		ir.Add(pli)
	}

	se := webrtc.SettingEngine{}
	se.SetLite(true)
	se.SetNetworkTypes([]webrtc.NetworkType{webrtc.NetworkTypeUDP4})
	if err := se.SetEphemeralUDPPortRange(cfg.RTCMinPort, cfg.RTCMaxPort); err != nil {
		return nil, fmt.Errorf("set rtc port range: %w", err)
	}
	if cfg.AnnouncedIP != "" {
		se.SetNAT1To1IPs([]string{cfg.AnnouncedIP}, webrtc.ICECandidateTypeHost)
	}
	if ip := net.ParseIP(cfg.ListenIP); ip != nil && !ip.IsUnspecified() {
		se.SetIPFilter(func(candidate net.IP) bool { return candidate.Equal(ip) })
	}
	// a loopback announced address needs a socket actually bound on loopback
	if usesLoopback(cfg) {
		se.SetIncludeLoopbackCandidate(true)
	}

	log.Info().
		Str("module", "rtc.router").
		Int("codecs", len(codecs)).
		Uint16("min_port", cfg.RTCMinPort).
		Uint16("max_port", cfg.RTCMaxPort).
		Str("announced_ip", cfg.AnnouncedIP).
		Msg("router ready")

	return &Router{
		api: webrtc.NewAPI(
			webrtc.WithMediaEngine(me),
			webrtc.WithInterceptorRegistry(ir),
			webrtc.WithSettingEngine(se),
		),
		caps:      core.RTPCapabilities{Codecs: codecs},
		producers: make(map[string]*producer),
	}, nil
}

func usesLoopback(cfg config.MediaConfig) bool {
	for _, addr := range []string{cfg.AnnouncedIP, cfg.ListenIP} {
		if ip := net.ParseIP(addr); ip != nil && ip.IsLoopback() {
			return true
		}
	}
	return false
}

func (r *Router) Capabilities() core.RTPCapabilities {
	out := core.RTPCapabilities{Codecs: make([]core.RTPCodecParameters, len(r.caps.Codecs))}
	copy(out.Codecs, r.caps.Codecs)
	return out
}

// codecFor returns the router codec matching an offered one. The payload
// type must be the router's: inbound packets are resolved by it.
func (r *Router) codecFor(kind core.MediaKind, offered core.RTPCodecParameters) (core.RTPCodecParameters, bool) {
	for _, c := range r.caps.Codecs {
		if c.Kind != kind || !strings.EqualFold(c.MimeType, offered.MimeType) || c.ClockRate != offered.ClockRate {
			continue
		}
		if offered.PayloadType != 0 && offered.PayloadType != c.PayloadType {
			continue
		}
		return c, true
	}
	return core.RTPCodecParameters{}, false
}

func (r *Router) CreateTransport(ctx context.Context) (core.Transport, error) {
	return newTransport(ctx, r)
}

func (r *Router) CanConsume(producerID string, caps core.RTPCapabilities) bool {
	p, ok := r.producer(producerID)
	if !ok {
		return false
	}
	return caps.Supports(p.codec)
}

func (r *Router) addProducer(p *producer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.producers[p.id] = p
}

func (r *Router) removeProducer(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.producers, id)
}

func (r *Router) producer(id string) (*producer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.producers[id]
	return p, ok
}
