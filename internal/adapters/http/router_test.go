package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dkeye/hlsrelay/internal/app"
	"github.com/dkeye/hlsrelay/internal/app/hls"
	"github.com/dkeye/hlsrelay/internal/app/orch"
	"github.com/dkeye/hlsrelay/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRelays []hls.RelayInfo

func (f fakeRelays) List() []hls.RelayInfo { return f }

func setup(t *testing.T) (http.Handler, *orch.Orchestrator, string) {
	dir := t.TempDir()
	cfg := &config.Config{
		Mode:       "test",
		StaticPath: t.TempDir(),
		Secret:     "test-secret",
		Relay:      config.RelayConfig{OutputDir: dir},
	}
	o := &orch.Orchestrator{Registry: app.NewRegistry()}
	return SetupRouter(context.Background(), cfg, o, fakeRelays{{SessionID: "s1", Port: 20000}}), o, dir
}

func TestHealthz(t *testing.T) {
	r, _, _ := setup(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Status   string `json:"status"`
		Sessions int    `json:"sessions"`
		Relays   int    `json:"relays"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, 1, body.Relays)

	assert.NotEmpty(t, w.Result().Cookies(), "client token cookie")
}

func TestStreamsAPI(t *testing.T) {
	r, o, _ := setup(t)

	sess := o.Connect("s1", "", nil)
	_, cancel := context.WithCancel(context.Background())
	defer cancel()
	sess.StartRelay(app.RelayState{Port: 20000, Codec: "VP8", StartedAt: time.Now()}, cancel)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/streams", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	var list struct {
		Streams []orch.StreamInfo `json:"streams"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Streams, 1)
	assert.Equal(t, "/hls/s1/playlist.m3u8", list.Streams[0].Playlist)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/streams/s1", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/streams/unknown", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServesPlaylist(t *testing.T) {
	r, _, dir := setup(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "s1"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "s1", "playlist.m3u8"), []byte("#EXTM3U\n"), 0o644))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/hls/s1/playlist.m3u8", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "#EXTM3U\n", w.Body.String())
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	r, _, _ := setup(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "hlsrelay_sessions_active")
}
