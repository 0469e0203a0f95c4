package hls

import (
	"bufio"
	"io"
	"os/exec"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/dkeye/hlsrelay/internal/core"
	"github.com/rs/zerolog"
)

// Relay is one running transcoder subprocess.
type Relay struct {
	SID       core.SessionID
	Port      int
	Codec     core.RTPCodecParameters
	Dir       string
	StartedAt time.Time

	cmd      *exec.Cmd
	stderr   io.Reader
	done     chan struct{}
	stopping atomic.Bool
}

// RelayInfo is a snapshot of a tracked relay.
type RelayInfo struct {
	SessionID core.SessionID `json:"sessionId"`
	Port      int            `json:"port"`
	Codec     string         `json:"codec"`
	Dir       string         `json:"dir"`
	PID       int            `json:"pid"`
	StartedAt time.Time      `json:"startedAt"`
}

func (r *Relay) info() RelayInfo {
	pid := 0
	if r.cmd.Process != nil {
		pid = r.cmd.Process.Pid
	}
	return RelayInfo{
		SessionID: r.SID,
		Port:      r.Port,
		Codec:     r.Codec.Name(),
		Dir:       r.Dir,
		PID:       pid,
		StartedAt: r.StartedAt,
	}
}

// drain logs the transcoder's stderr until the process closes it.
func (r *Relay) drain(logger *zerolog.Logger) {
	if r.stderr == nil {
		return
	}
	sc := bufio.NewScanner(r.stderr)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		logger.Debug().Msg(sc.Text())
	}
}

// terminate asks the process to exit and kills it after grace.
// It returns once the supervisor has observed the exit.
func (r *Relay) terminate(grace time.Duration) {
	r.stopping.Store(true)
	if r.cmd.Process == nil {
		return
	}
	if err := r.cmd.Process.Signal(syscall.SIGTERM); err != nil {
		_ = r.cmd.Process.Kill()
	}
	select {
	case <-r.done:
		return
	case <-time.After(grace):
	}
	_ = r.cmd.Process.Kill()
	<-r.done
}
