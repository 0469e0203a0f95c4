package orch

import (
	"path"
	"time"

	"github.com/dkeye/hlsrelay/internal/app"
	"github.com/dkeye/hlsrelay/internal/core"
)

// StreamInfo describes one session's HLS relay for the HTTP API.
type StreamInfo struct {
	SessionID core.SessionID `json:"sessionId"`
	Playlist  string         `json:"playlist"`
	Port      int            `json:"port"`
	Codec     string         `json:"codec"`
	StartedAt time.Time      `json:"startedAt"`
	State     string         `json:"state"`
	Error     string         `json:"error,omitempty"`
}

// PlaylistPath is the URL path the HLS playlist of sid is served under.
func PlaylistPath(sid core.SessionID) string {
	return path.Join("/hls", string(sid), "playlist.m3u8")
}

func streamInfo(sid core.SessionID, st app.RelayState) StreamInfo {
	state := "live"
	if st.Failed {
		state = "failed"
	}
	return StreamInfo{
		SessionID: sid,
		Playlist:  PlaylistPath(sid),
		Port:      st.Port,
		Codec:     st.Codec,
		StartedAt: st.StartedAt,
		State:     state,
		Error:     st.Error,
	}
}

func (o *Orchestrator) Streams() []StreamInfo {
	out := make([]StreamInfo, 0)
	for _, sess := range o.Registry.Sessions() {
		if st, ok := sess.Relay(); ok {
			out = append(out, streamInfo(sess.ID, st))
		}
	}
	return out
}

func (o *Orchestrator) Stream(sid core.SessionID) (StreamInfo, error) {
	sess, ok := o.Registry.GetSession(sid)
	if !ok {
		return StreamInfo{}, app.ErrRelayNotFound
	}
	st, ok := sess.Relay()
	if !ok {
		return StreamInfo{}, app.ErrRelayNotFound
	}
	return streamInfo(sid, st), nil
}
