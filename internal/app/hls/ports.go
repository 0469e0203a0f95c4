package hls

import (
	"errors"
	"net"
	"strconv"
	"sync"
)

var ErrNoPorts = errors.New("no free relay port")

// PortPool hands out local UDP ports for relay inputs, round-robin over
// [min, max]. A port is only handed out if it can currently be bound.
type PortPool struct {
	mu   sync.Mutex
	min  int
	max  int
	next int
	used map[int]struct{}
}

func NewPortPool(min, max int) *PortPool {
	return &PortPool{min: min, max: max, next: min, used: make(map[int]struct{})}
}

func (p *PortPool) Acquire() (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	size := p.max - p.min + 1
	for i := 0; i < size; i++ {
		port := p.next
		p.next++
		if p.next > p.max {
			p.next = p.min
		}
		if _, busy := p.used[port]; busy {
			continue
		}
		if !bindable(port) {
			continue
		}
		p.used[port] = struct{}{}
		return port, nil
	}
	return 0, ErrNoPorts
}

func (p *PortPool) Release(port int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.used, port)
}

func (p *PortPool) InUse() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.used)
}

func bindable(port int) bool {
	conn, err := net.ListenPacket("udp4", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)))
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}
