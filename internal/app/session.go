package app

import (
	"context"
	"sync"
	"time"

	"github.com/dkeye/hlsrelay/internal/core"
)

// RelayState is the session's view of its HLS relay.
type RelayState struct {
	Port      int       `json:"port"`
	Codec     string    `json:"codec"`
	StartedAt time.Time `json:"startedAt"`
	Active    bool      `json:"active"`
	Failed    bool      `json:"failed"`
	Error     string    `json:"error,omitempty"`
}

// Session holds the media handles of one signaling connection.
// Requests of a connection are applied one at a time by its read loop;
// the mutex covers the relay supervisor and HTTP readers.
type Session struct {
	ID          core.SessionID
	ClientToken string
	CreatedAt   time.Time

	mu           sync.Mutex
	transport    core.Transport
	producers    map[core.MediaKind]core.Producer
	lastProducer core.Producer
	consumers    map[string]core.Consumer
	lastConsumer core.Consumer
	relay        *RelayState
	relayCancel  context.CancelFunc
	notify       func(v any)
}

func NewSession(id core.SessionID, clientToken string) *Session {
	return &Session{
		ID:          id,
		ClientToken: clientToken,
		CreatedAt:   time.Now(),
		producers:   make(map[core.MediaKind]core.Producer),
		consumers:   make(map[string]core.Consumer),
	}
}

// SetNotifier installs the push channel towards the client.
func (s *Session) SetNotifier(fn func(v any)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notify = fn
}

func (s *Session) Notify(v any) {
	s.mu.Lock()
	fn := s.notify
	s.mu.Unlock()
	if fn != nil {
		fn(v)
	}
}

// SetTransport stores t and returns the transport it replaces, if any.
func (s *Session) SetTransport(t core.Transport) core.Transport {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.transport
	s.transport = t
	if prev != nil {
		// everything built on the old transport goes away with it
		s.producers = make(map[core.MediaKind]core.Producer)
		s.consumers = make(map[string]core.Consumer)
		s.lastProducer = nil
		s.lastConsumer = nil
	}
	return prev
}

func (s *Session) Transport() (core.Transport, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transport, s.transport != nil
}

// AddProducer stores p under its kind and makes it the session's current
// producer. It returns the producer of the same kind it replaces.
func (s *Session) AddProducer(p core.Producer) core.Producer {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.producers[p.Kind()]
	s.producers[p.Kind()] = p
	s.lastProducer = p
	return prev
}

// Producer returns the most recently created producer.
func (s *Session) Producer() (core.Producer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastProducer, s.lastProducer != nil
}

func (s *Session) ProducerOf(kind core.MediaKind) (core.Producer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.producers[kind]
	return p, ok
}

func (s *Session) AddConsumer(c core.Consumer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.consumers[c.ID()] = c
	s.lastConsumer = c
}

// Consumer resolves id, or the most recent consumer when id is empty.
func (s *Session) Consumer(id string) (core.Consumer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == "" {
		return s.lastConsumer, s.lastConsumer != nil
	}
	c, ok := s.consumers[id]
	return c, ok
}

func (s *Session) ConsumerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.consumers)
}

// StartRelay records a running relay. cancel stops the RTP pipe feeding it.
func (s *Session) StartRelay(state RelayState, cancel context.CancelFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.relayCancel != nil {
		s.relayCancel()
	}
	state.Active = true
	s.relay = &state
	s.relayCancel = cancel
}

// StopRelay forgets the relay and stops its pipe. It reports whether the
// session believed a relay was active.
func (s *Session) StopRelay() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.relayCancel != nil {
		s.relayCancel()
		s.relayCancel = nil
	}
	active := s.relay != nil && s.relay.Active
	s.relay = nil
	return active
}

// MarkRelayFailed keeps the relay record for inspection but flags it dead.
func (s *Session) MarkRelayFailed(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.relayCancel != nil {
		s.relayCancel()
		s.relayCancel = nil
	}
	if s.relay == nil {
		return
	}
	s.relay.Active = false
	s.relay.Failed = true
	s.relay.Error = reason
}

func (s *Session) Relay() (RelayState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.relay == nil {
		return RelayState{}, false
	}
	return *s.relay, true
}

// Handles is every media handle a session owns.
type Handles struct {
	Transport core.Transport
	Producers []core.Producer
	Consumers []core.Consumer
}

// Release empties the session and hands back its handles for closing.
func (s *Session) Release() Handles {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := Handles{Transport: s.transport}
	for _, p := range s.producers {
		h.Producers = append(h.Producers, p)
	}
	for _, c := range s.consumers {
		h.Consumers = append(h.Consumers, c)
	}
	s.transport = nil
	s.producers = make(map[core.MediaKind]core.Producer)
	s.consumers = make(map[string]core.Consumer)
	s.lastProducer = nil
	s.lastConsumer = nil
	if s.relayCancel != nil {
		s.relayCancel()
		s.relayCancel = nil
	}
	s.relay = nil
	return h
}
