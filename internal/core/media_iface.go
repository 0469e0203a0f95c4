package core

import (
	"context"
)

//go:generate mockgen -destination=mocks/media_mock.go -package=mocks github.com/dkeye/hlsrelay/internal/core Router,Transport,Producer,Consumer,RelayManager

// Router is the process-wide media router. It is built once at startup
// and shared read-only by every session.
type Router interface {
	// Capabilities lists the codecs the router accepts.
	Capabilities() RTPCapabilities
	// CreateTransport allocates a new ICE/DTLS endpoint.
	CreateTransport(ctx context.Context) (Transport, error)
	// CanConsume reports whether producerID exists and a peer with caps can receive it.
	CanConsume(producerID string, caps RTPCapabilities) bool
}

// Transport is one peer's network endpoint. It owns every producer and
// consumer created on it; Close releases them all.
type Transport interface {
	ID() string
	Info() TransportInfo
	Connect(ctx context.Context, params ConnectParams) error
	Produce(ctx context.Context, kind MediaKind, params RTPParameters) (Producer, error)
	Consume(ctx context.Context, producerID string, caps RTPCapabilities, paused bool) (Consumer, error)
	Close() error
}

// Producer is an inbound track.
type Producer interface {
	ID() string
	Kind() MediaKind
	Codec() RTPCodecParameters
	// PipeTo starts forwarding the track's RTP to a plain UDP address and
	// returns. Forwarding stops when ctx is done or the producer closes.
	PipeTo(ctx context.Context, addr string) error
	Close() error
}

// Consumer is an outbound track bound to a producer.
type Consumer interface {
	ID() string
	ProducerID() string
	Kind() MediaKind
	RTPParameters() RTPParameters
	Paused() bool
	Resume() error
	Close() error
}

// RelayManager runs one HLS transcoding subprocess per publishing session.
type RelayManager interface {
	// AcquirePort reserves a local UDP port for a relay input.
	AcquirePort() (int, error)
	// StartRelay takes ownership of port; it is released when the relay stops.
	StartRelay(ctx context.Context, sid SessionID, port int, codec RTPCodecParameters) error
	// StopRelay terminates the relay of sid and reports whether one was running.
	StopRelay(sid SessionID) bool
}
