package orch

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dkeye/hlsrelay/internal/app"
	"github.com/dkeye/hlsrelay/internal/app/hls"
	"github.com/dkeye/hlsrelay/internal/config"
	"github.com/dkeye/hlsrelay/internal/core"
	"github.com/dkeye/hlsrelay/internal/core/mocks"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// TestHelperProcess stands in for a transcoder that dies on startup.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	os.Stderr.WriteString("stream.sdp: Invalid data found when processing input\n")
	os.Exit(1)
}

func crashingCommand(name string, args ...string) *exec.Cmd {
	cmd := exec.Command(os.Args[0], "-test.run=TestHelperProcess")
	cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1")
	return cmd
}

func TestRelayExitDuringStartIsRecorded(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess := f.o.Connect("s1", "", nil)

	var pushed atomic.Int32
	sess.SetNotifier(func(v any) {
		if _, ok := v.(RelayFailedEvent); ok {
			pushed.Add(1)
		}
	})

	tr := f.transport("t1")
	f.router.EXPECT().CreateTransport(gomock.Any()).Return(tr, nil)
	_, err := f.o.CreateTransport(ctx, "s1")
	require.NoError(t, err)

	p := f.producer("pv", core.KindVideo)
	tr.EXPECT().Produce(gomock.Any(), core.KindVideo, gomock.Any()).Return(p, nil)
	f.relays.EXPECT().AcquirePort().Return(20000, nil)
	f.relays.EXPECT().StartRelay(gomock.Any(), core.SessionID("s1"), 20000, vp8).
		DoAndReturn(func(context.Context, core.SessionID, int, core.RTPCodecParameters) error {
			// the process exits before StartRelay returns
			f.o.OnRelayExit("s1", errors.New("exit status 1"))
			return nil
		})

	_, err = f.o.Produce(ctx, "s1", "", core.KindVideo, core.RTPParameters{})
	require.NoError(t, err)

	info, err := f.o.Stream("s1")
	require.NoError(t, err)
	assert.Equal(t, "failed", info.State)
	assert.Equal(t, "exit status 1", info.Error)
	assert.Equal(t, int32(1), pushed.Load())
}

func TestRelayCrashWhilePipeStarts(t *testing.T) {
	ctrl := gomock.NewController(t)
	router := mocks.NewMockRouter(ctrl)

	relays := hls.NewManager(config.RelayConfig{
		FFmpegPath:      "ffmpeg",
		OutputDir:       "/srv/hls",
		SegmentDuration: 2,
		ListSize:        3,
		MinPort:         42300,
		MaxPort:         42310,
		StopTimeout:     500 * time.Millisecond,
	}, hls.WithFs(afero.NewMemMapFs()), hls.WithCommand(crashingCommand))
	t.Cleanup(relays.StopAll)

	o := &Orchestrator{
		Registry:       app.NewRegistry(),
		Router:         router,
		Relays:         relays,
		RequestTimeout: 5 * time.Second,
	}
	relays.OnExit(o.OnRelayExit)

	ctx := context.Background()
	sess := o.Connect("s1", "", nil)
	var pushed atomic.Int32
	sess.SetNotifier(func(v any) {
		if _, ok := v.(RelayFailedEvent); ok {
			pushed.Add(1)
		}
	})

	tr := mocks.NewMockTransport(ctrl)
	tr.EXPECT().ID().Return("t1").AnyTimes()
	tr.EXPECT().Info().Return(core.TransportInfo{ID: "t1"}).AnyTimes()
	router.EXPECT().CreateTransport(gomock.Any()).Return(tr, nil)
	_, err := o.CreateTransport(ctx, "s1")
	require.NoError(t, err)

	p := mocks.NewMockProducer(ctrl)
	p.EXPECT().ID().Return("pv").AnyTimes()
	p.EXPECT().Kind().Return(core.KindVideo).AnyTimes()
	p.EXPECT().Codec().Return(vp8).AnyTimes()
	tr.EXPECT().Produce(gomock.Any(), core.KindVideo, gomock.Any()).Return(p, nil)

	pipeCtx := make(chan context.Context, 1)
	p.EXPECT().PipeTo(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, addr string) error {
			pipeCtx <- ctx
			time.Sleep(200 * time.Millisecond)
			return nil
		}).MaxTimes(1)

	_, err = o.Produce(ctx, "s1", "", core.KindVideo, core.RTPParameters{})
	require.NoError(t, err)

	require.Eventually(t, func() bool { return pushed.Load() == 1 }, 5*time.Second, 10*time.Millisecond)
	assert.False(t, relays.HasRelay("s1"))

	st, ok := sess.Relay()
	require.True(t, ok)
	assert.False(t, st.Active)
	assert.True(t, st.Failed)

	streams := o.Streams()
	require.Len(t, streams, 1)
	assert.Equal(t, "failed", streams[0].State)

	// the pipe, if it was started, is stopped with the relay
	select {
	case c := <-pipeCtx:
		assert.Error(t, c.Err())
	default:
	}
}
