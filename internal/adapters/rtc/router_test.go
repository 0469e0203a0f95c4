package rtc

import (
	"testing"
	"time"

	"github.com/dkeye/hlsrelay/internal/config"
	"github.com/dkeye/hlsrelay/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMediaConfig() config.MediaConfig {
	return config.MediaConfig{
		ListenIP:    "0.0.0.0",
		AnnouncedIP: "127.0.0.1",
		RTCMinPort:  10000,
		RTCMaxPort:  10100,
		PLIInterval: 2 * time.Second,
		Codecs:      config.DefaultCodecs(),
	}
}

func TestNewRouterCapabilities(t *testing.T) {
	r, err := NewRouter(testMediaConfig())
	require.NoError(t, err)

	caps := r.Capabilities()
	require.Len(t, caps.Codecs, 2)
	assert.Equal(t, core.KindVideo, caps.Codecs[0].Kind)
	assert.Equal(t, "video/VP8", caps.Codecs[0].MimeType)
	assert.Equal(t, uint8(96), caps.Codecs[0].PayloadType)
	assert.Equal(t, core.KindAudio, caps.Codecs[1].Kind)
	assert.Equal(t, uint16(2), caps.Codecs[1].Channels)

	// callers get a copy
	caps.Codecs[0].MimeType = "video/H264"
	assert.Equal(t, "video/VP8", r.Capabilities().Codecs[0].MimeType)
}

func TestNewRouterRejectsBadPortRange(t *testing.T) {
	cfg := testMediaConfig()
	cfg.RTCMinPort, cfg.RTCMaxPort = 20000, 10000
	_, err := NewRouter(cfg)
	assert.Error(t, err)
}

func TestCanConsume(t *testing.T) {
	r, err := NewRouter(testMediaConfig())
	require.NoError(t, err)

	vp8 := r.Capabilities().Codecs[0]
	p := newProducer("p1", core.KindVideo, vp8, 1234)
	r.addProducer(p)

	tests := []struct {
		name       string
		producerID string
		caps       core.RTPCapabilities
		want       bool
	}{
		{
			name:       "matching codec",
			producerID: "p1",
			caps:       core.RTPCapabilities{Codecs: []core.RTPCodecParameters{{MimeType: "video/vp8", ClockRate: 90000}}},
			want:       true,
		},
		{
			name:       "different codec",
			producerID: "p1",
			caps:       core.RTPCapabilities{Codecs: []core.RTPCodecParameters{{MimeType: "video/H264", ClockRate: 90000}}},
		},
		{
			name:       "different clock rate",
			producerID: "p1",
			caps:       core.RTPCapabilities{Codecs: []core.RTPCodecParameters{{MimeType: "video/VP8", ClockRate: 48000}}},
		},
		{
			name:       "no capabilities",
			producerID: "p1",
		},
		{
			name:       "unknown producer",
			producerID: "nope",
			caps:       core.RTPCapabilities{Codecs: []core.RTPCodecParameters{vp8}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.CanConsume(tt.producerID, tt.caps))
		})
	}

	require.NoError(t, p.Close())
	r.removeProducer("p1")
	assert.False(t, r.CanConsume("p1", core.RTPCapabilities{Codecs: []core.RTPCodecParameters{vp8}}))
}

func TestCodecFor(t *testing.T) {
	r, err := NewRouter(testMediaConfig())
	require.NoError(t, err)

	c, ok := r.codecFor(core.KindVideo, core.RTPCodecParameters{MimeType: "video/VP8", ClockRate: 90000, PayloadType: 96})
	require.True(t, ok)
	assert.Equal(t, uint8(96), c.PayloadType)

	_, ok = r.codecFor(core.KindVideo, core.RTPCodecParameters{MimeType: "video/VP8", ClockRate: 90000, PayloadType: 100})
	assert.False(t, ok)

	_, ok = r.codecFor(core.KindAudio, core.RTPCodecParameters{MimeType: "video/VP8", ClockRate: 90000})
	assert.False(t, ok)
}
