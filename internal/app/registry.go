package app

import (
	"context"
	"sort"
	"sync"

	"github.com/dkeye/hlsrelay/internal/core"
	"github.com/rs/zerolog/log"
)

type sessionEntry struct {
	Session *Session
	Cancel  context.CancelFunc
}

// Registry maps connection identities to their sessions. It is the one
// table shared across connections; per-session state lives in Session.
type Registry struct {
	mu       sync.RWMutex
	sessions map[core.SessionID]*sessionEntry
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[core.SessionID]*sessionEntry),
	}
}

// Bind registers sess. cancel tears down the owning connection.
func (r *Registry) Bind(sess *Session, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sess.ID] = &sessionEntry{Session: sess, Cancel: cancel}
	sessionsActive.Set(float64(len(r.sessions)))
	log.Info().Str("module", "app.registry").Str("sid", string(sess.ID)).Msg("bound session")
}

func (r *Registry) GetSession(sid core.SessionID) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.sessions[sid]; ok {
		return e.Session, true
	}
	return nil, false
}

func (r *Registry) Unbind(sid core.SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sid)
	sessionsActive.Set(float64(len(r.sessions)))
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("unbind session")
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sessions returns the registered sessions ordered by creation time.
func (r *Registry) Sessions() []*Session {
	r.mu.RLock()
	out := make([]*Session, 0, len(r.sessions))
	for _, e := range r.sessions {
		out = append(out, e.Session)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (r *Registry) Cancel(sid core.SessionID) bool {
	r.mu.RLock()
	e, ok := r.sessions[sid]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	if e.Cancel != nil {
		e.Cancel()
	}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("canceled session")
	return true
}
