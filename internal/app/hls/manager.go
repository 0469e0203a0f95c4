package hls

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/dkeye/hlsrelay/internal/app"
	"github.com/dkeye/hlsrelay/internal/config"
	"github.com/dkeye/hlsrelay/internal/core"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const (
	sdpFile      = "stream.sdp"
	playlistFile = "playlist.m3u8"
	segmentFile  = "segment_%d.ts"
)

// CommandFunc builds the transcoder command. It must not start it.
type CommandFunc func(name string, args ...string) *exec.Cmd

// ExitFunc is called when a relay exits without being stopped.
type ExitFunc func(sid core.SessionID, err error)

type Option func(*Manager)

// WithFs sets the filesystem the output directories live on.
func WithFs(fs afero.Fs) Option {
	return func(m *Manager) { m.fs = fs }
}

func WithCommand(fn CommandFunc) Option {
	return func(m *Manager) { m.command = fn }
}

// Manager runs one transcoder per publishing session and supervises it.
type Manager struct {
	cfg     config.RelayConfig
	fs      afero.Fs
	command CommandFunc
	ports   *PortPool

	mu     sync.Mutex
	relays map[core.SessionID]*Relay
	onExit ExitFunc
}

var _ core.RelayManager = (*Manager)(nil)

func NewManager(cfg config.RelayConfig, opts ...Option) *Manager {
	m := &Manager{
		cfg:     cfg,
		fs:      afero.NewOsFs(),
		command: exec.Command,
		ports:   NewPortPool(cfg.MinPort, cfg.MaxPort),
		relays:  make(map[core.SessionID]*Relay),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// OnExit installs the callback for unexpected relay exits.
func (m *Manager) OnExit(fn ExitFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onExit = fn
}

func (m *Manager) AcquirePort() (int, error) {
	return m.ports.Acquire()
}

// Dir is the output directory of sid.
func (m *Manager) Dir(sid core.SessionID) string {
	return filepath.Join(m.cfg.OutputDir, string(sid))
}

func (m *Manager) args(dir string) []string {
	return []string{
		"-protocol_whitelist", "file,udp,rtp",
		"-i", filepath.Join(dir, sdpFile),
		"-c:v", "libx264",
		"-f", "hls",
		"-hls_time", fmt.Sprint(m.cfg.SegmentDuration),
		"-hls_list_size", fmt.Sprint(m.cfg.ListSize),
		"-hls_flags", "delete_segments",
		"-hls_segment_filename", filepath.Join(dir, segmentFile),
		filepath.Join(dir, playlistFile),
	}
}

// prepare empties dir, creating it if needed, and writes the SDP file.
func (m *Manager) prepare(dir string, port int, codec core.RTPCodecParameters) error {
	if err := m.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	entries, err := afero.ReadDir(m.fs, dir)
	if err != nil {
		return fmt.Errorf("read %s: %w", dir, err)
	}
	for _, e := range entries {
		if err := m.fs.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			return fmt.Errorf("purge %s: %w", e.Name(), err)
		}
	}
	doc, err := BuildSDP(port, codec)
	if err != nil {
		return err
	}
	return afero.WriteFile(m.fs, filepath.Join(dir, sdpFile), doc, 0o644)
}

// StartRelay replaces any relay of sid with a fresh transcoder reading
// RTP on port. The manager owns port from here on, on failure as well.
func (m *Manager) StartRelay(ctx context.Context, sid core.SessionID, port int, codec core.RTPCodecParameters) error {
	logger := log.With().
		Str("module", "hls.relay").
		Str("sid", string(sid)).
		Int("port", port).
		Logger()

	if err := ctx.Err(); err != nil {
		m.ports.Release(port)
		return err
	}

	if m.StopRelay(sid) {
		logger.Info().Msg("replaced existing relay")
	}

	dir := m.Dir(sid)
	if err := m.prepare(dir, port, codec); err != nil {
		m.ports.Release(port)
		return err
	}

	cmd := m.command(m.cfg.FFmpegPath, m.args(dir)...)
	stderr, err := cmd.StderrPipe()
	if err != nil {
		m.ports.Release(port)
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		m.ports.Release(port)
		return fmt.Errorf("start %s: %w", m.cfg.FFmpegPath, err)
	}

	r := &Relay{
		SID:       sid,
		Port:      port,
		Codec:     codec,
		Dir:       dir,
		StartedAt: time.Now(),
		cmd:       cmd,
		stderr:    stderr,
		done:      make(chan struct{}),
	}
	m.mu.Lock()
	m.relays[sid] = r
	m.mu.Unlock()
	app.RelaysActive.Inc()

	logger.Info().Int("pid", cmd.Process.Pid).Str("codec", codec.Name()).Msg("relay started")
	go m.supervise(r)
	return nil
}

func (m *Manager) supervise(r *Relay) {
	logger := log.With().
		Str("module", "hls.relay").
		Str("sid", string(r.SID)).
		Logger()
	ffLogger := log.With().
		Str("module", "hls.ffmpeg").
		Str("sid", string(r.SID)).
		Logger()

	r.drain(&ffLogger)
	err := r.cmd.Wait()

	m.mu.Lock()
	if cur, ok := m.relays[r.SID]; ok && cur == r {
		delete(m.relays, r.SID)
	}
	onExit := m.onExit
	m.mu.Unlock()
	m.ports.Release(r.Port)
	app.RelaysActive.Dec()
	close(r.done)

	if r.stopping.Load() {
		logger.Info().Msg("relay stopped")
		return
	}
	logger.Warn().Err(err).Msg("relay exited unexpectedly")
	if onExit != nil {
		onExit(r.SID, err)
	}
}

// StopRelay terminates the relay of sid and waits for it to exit.
func (m *Manager) StopRelay(sid core.SessionID) bool {
	m.mu.Lock()
	r, ok := m.relays[sid]
	if ok {
		delete(m.relays, sid)
	}
	m.mu.Unlock()
	if !ok {
		return false
	}
	r.terminate(m.cfg.StopTimeout)
	return true
}

// StopAll terminates every relay. Used on shutdown.
func (m *Manager) StopAll() {
	m.mu.Lock()
	all := make([]*Relay, 0, len(m.relays))
	for sid, r := range m.relays {
		all = append(all, r)
		delete(m.relays, sid)
	}
	m.mu.Unlock()

	var wg sync.WaitGroup
	for _, r := range all {
		wg.Add(1)
		go func(r *Relay) {
			defer wg.Done()
			r.terminate(m.cfg.StopTimeout)
		}(r)
	}
	wg.Wait()
	log.Info().Str("module", "hls.relay").Int("count", len(all)).Msg("all relays stopped")
}

func (m *Manager) HasRelay(sid core.SessionID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.relays[sid]
	return ok
}

func (m *Manager) List() []RelayInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]RelayInfo, 0, len(m.relays))
	for _, r := range m.relays {
		out = append(out, r.info())
	}
	return out
}
