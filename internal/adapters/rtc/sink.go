package rtc

import (
	"sync/atomic"

	"github.com/pion/rtp"
)

type sinkState int32

const (
	sinkOk sinkState = iota
	sinkPaused
	sinkDelete
)

// sink is one destination of a producer's packets: a consumer track or a
// plain UDP pipe.
type sink struct {
	id    string
	write func(pkt *rtp.Packet) error
	state atomic.Int32
}

func newSink(id string, write func(pkt *rtp.Packet) error, paused bool) *sink {
	s := &sink{id: id, write: write}
	if paused {
		s.markPaused()
	}
	return s
}

func (s *sink) getState() sinkState { return sinkState(s.state.Load()) }

func (s *sink) markOk()     { s.state.Store(int32(sinkOk)) }
func (s *sink) markPaused() { s.state.Store(int32(sinkPaused)) }
func (s *sink) markDelete() { s.state.Store(int32(sinkDelete)) }
