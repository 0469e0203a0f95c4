package orch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dkeye/hlsrelay/internal/app"
	"github.com/dkeye/hlsrelay/internal/core"
	"github.com/dkeye/hlsrelay/internal/core/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var vp8 = core.RTPCodecParameters{Kind: core.KindVideo, MimeType: "video/VP8", PayloadType: 96, ClockRate: 90000}

type fixture struct {
	ctrl   *gomock.Controller
	router *mocks.MockRouter
	relays *mocks.MockRelayManager
	o      *Orchestrator
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)
	f := &fixture{
		ctrl:   ctrl,
		router: mocks.NewMockRouter(ctrl),
		relays: mocks.NewMockRelayManager(ctrl),
	}
	f.o = &Orchestrator{
		Registry:       app.NewRegistry(),
		Router:         f.router,
		Relays:         f.relays,
		RequestTimeout: time.Second,
	}
	return f
}

func (f *fixture) transport(id string) *mocks.MockTransport {
	tr := mocks.NewMockTransport(f.ctrl)
	tr.EXPECT().ID().Return(id).AnyTimes()
	tr.EXPECT().Info().Return(core.TransportInfo{ID: id}).AnyTimes()
	return tr
}

func (f *fixture) producer(id string, kind core.MediaKind) *mocks.MockProducer {
	p := mocks.NewMockProducer(f.ctrl)
	p.EXPECT().ID().Return(id).AnyTimes()
	p.EXPECT().Kind().Return(kind).AnyTimes()
	p.EXPECT().Codec().Return(vp8).AnyTimes()
	return p
}

func TestOperationsBeforePrerequisites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.o.Connect("s1", "", nil)

	err := f.o.ConnectTransport(ctx, "s1", "", core.ConnectParams{})
	assert.ErrorIs(t, err, app.ErrTransportNotFound)

	_, err = f.o.Produce(ctx, "s1", "", core.KindVideo, core.RTPParameters{})
	assert.ErrorIs(t, err, app.ErrTransportNotFound)

	_, err = f.o.Consume(ctx, "s1", "", "p1", core.RTPCapabilities{})
	assert.ErrorIs(t, err, app.ErrTransportNotFound)

	err = f.o.ResumeConsumer(ctx, "s1", "never-created")
	assert.ErrorIs(t, err, app.ErrConsumerNotFound)
}

func TestConnectTransportRejectsForeignID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.o.Connect("s1", "", nil)

	tr := f.transport("t1")
	f.router.EXPECT().CreateTransport(gomock.Any()).Return(tr, nil)
	info, err := f.o.CreateTransport(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "t1", info.ID)

	err = f.o.ConnectTransport(ctx, "s1", "other", core.ConnectParams{})
	assert.ErrorIs(t, err, app.ErrTransportNotFound)

	tr.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(nil)
	require.NoError(t, f.o.ConnectTransport(ctx, "s1", "t1", core.ConnectParams{}))
}

func TestCreateTransportClosesReplaced(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.o.Connect("s1", "", nil)

	t1 := f.transport("t1")
	t2 := f.transport("t2")
	gomock.InOrder(
		f.router.EXPECT().CreateTransport(gomock.Any()).Return(t1, nil),
		f.router.EXPECT().CreateTransport(gomock.Any()).Return(t2, nil),
	)
	f.relays.EXPECT().StopRelay(core.SessionID("s1")).Return(false)
	t1.EXPECT().Close().Return(nil)

	_, err := f.o.CreateTransport(ctx, "s1")
	require.NoError(t, err)
	_, err = f.o.CreateTransport(ctx, "s1")
	require.NoError(t, err)
}

func TestCreateTransportLibraryError(t *testing.T) {
	f := newFixture(t)
	f.o.Connect("s1", "", nil)
	boom := errors.New("boom")
	f.router.EXPECT().CreateTransport(gomock.Any()).Return(nil, boom)

	_, err := f.o.CreateTransport(context.Background(), "s1")
	assert.ErrorIs(t, err, boom)
}

func TestProduceVideoStartsRelay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess := f.o.Connect("s1", "", nil)

	tr := f.transport("t1")
	f.router.EXPECT().CreateTransport(gomock.Any()).Return(tr, nil)
	_, err := f.o.CreateTransport(ctx, "s1")
	require.NoError(t, err)

	p := f.producer("pv", core.KindVideo)
	tr.EXPECT().Produce(gomock.Any(), core.KindVideo, gomock.Any()).Return(p, nil)
	gomock.InOrder(
		f.relays.EXPECT().AcquirePort().Return(20000, nil),
		f.relays.EXPECT().StartRelay(gomock.Any(), core.SessionID("s1"), 20000, vp8).Return(nil),
		p.EXPECT().PipeTo(gomock.Any(), "127.0.0.1:20000").Return(nil),
	)

	id, err := f.o.Produce(ctx, "s1", "t1", core.KindVideo, core.RTPParameters{})
	require.NoError(t, err)
	assert.Equal(t, "pv", id)

	st, ok := sess.Relay()
	require.True(t, ok)
	assert.True(t, st.Active)
	assert.Equal(t, 20000, st.Port)
	assert.Equal(t, "VP8", st.Codec)

	streams := f.o.Streams()
	require.Len(t, streams, 1)
	assert.Equal(t, "/hls/s1/playlist.m3u8", streams[0].Playlist)
	assert.Equal(t, "live", streams[0].State)
}

func TestProduceAudioThenVideo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess := f.o.Connect("s1", "", nil)

	tr := f.transport("t1")
	f.router.EXPECT().CreateTransport(gomock.Any()).Return(tr, nil)
	_, err := f.o.CreateTransport(ctx, "s1")
	require.NoError(t, err)

	pa := f.producer("pa", core.KindAudio)
	pv := f.producer("pv", core.KindVideo)
	gomock.InOrder(
		tr.EXPECT().Produce(gomock.Any(), core.KindAudio, gomock.Any()).Return(pa, nil),
		tr.EXPECT().Produce(gomock.Any(), core.KindVideo, gomock.Any()).Return(pv, nil),
	)
	f.relays.EXPECT().AcquirePort().Return(20000, nil)
	f.relays.EXPECT().StartRelay(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	pv.EXPECT().PipeTo(gomock.Any(), gomock.Any()).Return(nil)

	_, err = f.o.Produce(ctx, "s1", "", core.KindAudio, core.RTPParameters{})
	require.NoError(t, err)
	_, err = f.o.Produce(ctx, "s1", "", core.KindVideo, core.RTPParameters{})
	require.NoError(t, err)

	got, ok := sess.Producer()
	require.True(t, ok)
	assert.Equal(t, "pv", got.ID())
}

func TestProduceRelayFailureKeepsProducer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess := f.o.Connect("s1", "", nil)

	tr := f.transport("t1")
	f.router.EXPECT().CreateTransport(gomock.Any()).Return(tr, nil)
	_, err := f.o.CreateTransport(ctx, "s1")
	require.NoError(t, err)

	p := f.producer("pv", core.KindVideo)
	tr.EXPECT().Produce(gomock.Any(), core.KindVideo, gomock.Any()).Return(p, nil)
	f.relays.EXPECT().AcquirePort().Return(20000, nil)
	f.relays.EXPECT().StartRelay(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	p.EXPECT().PipeTo(gomock.Any(), gomock.Any()).Return(errors.New("no route"))
	f.relays.EXPECT().StopRelay(core.SessionID("s1")).Return(true)

	id, err := f.o.Produce(ctx, "s1", "", core.KindVideo, core.RTPParameters{})
	require.NoError(t, err)
	assert.Equal(t, "pv", id)

	_, ok := sess.Relay()
	assert.False(t, ok)
}

func TestProduceInvalidKind(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.o.Connect("s1", "", nil)
	f.router.EXPECT().CreateTransport(gomock.Any()).Return(f.transport("t1"), nil)
	_, err := f.o.CreateTransport(ctx, "s1")
	require.NoError(t, err)

	_, err = f.o.Produce(ctx, "s1", "", core.MediaKind("data"), core.RTPParameters{})
	assert.ErrorIs(t, err, app.ErrInvalidKind)
}

func TestConsumeRejectedWhenIncompatible(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.o.Connect("viewer", "", nil)

	f.router.EXPECT().CreateTransport(gomock.Any()).Return(f.transport("t2"), nil)
	_, err := f.o.CreateTransport(ctx, "viewer")
	require.NoError(t, err)

	caps := core.RTPCapabilities{Codecs: []core.RTPCodecParameters{{MimeType: "video/H264", ClockRate: 90000}}}
	f.router.EXPECT().CanConsume("pv", caps).Return(false)

	_, err = f.o.Consume(ctx, "viewer", "t2", "pv", caps)
	assert.ErrorIs(t, err, app.ErrCannotConsume)
}

func TestConsumePausedThenResume(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.o.Connect("viewer", "", nil)

	tr := f.transport("t2")
	f.router.EXPECT().CreateTransport(gomock.Any()).Return(tr, nil)
	_, err := f.o.CreateTransport(ctx, "viewer")
	require.NoError(t, err)

	caps := core.RTPCapabilities{Codecs: []core.RTPCodecParameters{vp8}}
	c := mocks.NewMockConsumer(f.ctrl)
	c.EXPECT().ID().Return("c1").AnyTimes()
	f.router.EXPECT().CanConsume("pv", caps).Return(true)
	tr.EXPECT().Consume(gomock.Any(), "pv", caps, true).Return(c, nil)

	got, err := f.o.Consume(ctx, "viewer", "t2", "pv", caps)
	require.NoError(t, err)
	assert.Equal(t, "c1", got.ID())

	c.EXPECT().Resume().Return(nil).Times(2)
	require.NoError(t, f.o.ResumeConsumer(ctx, "viewer", "c1"))
	require.NoError(t, f.o.ResumeConsumer(ctx, "viewer", ""))
}

func TestDisconnectReleasesEverything(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.o.Connect("s1", "", nil)

	tr := f.transport("t1")
	f.router.EXPECT().CreateTransport(gomock.Any()).Return(tr, nil)
	_, err := f.o.CreateTransport(ctx, "s1")
	require.NoError(t, err)

	p := f.producer("pv", core.KindVideo)
	tr.EXPECT().Produce(gomock.Any(), core.KindVideo, gomock.Any()).Return(p, nil)
	f.relays.EXPECT().AcquirePort().Return(20000, nil)
	f.relays.EXPECT().StartRelay(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	p.EXPECT().PipeTo(gomock.Any(), gomock.Any()).Return(nil)
	_, err = f.o.Produce(ctx, "s1", "", core.KindVideo, core.RTPParameters{})
	require.NoError(t, err)

	f.relays.EXPECT().StopRelay(core.SessionID("s1")).Return(true)
	p.EXPECT().Close().Return(nil)
	tr.EXPECT().Close().Return(nil)

	f.o.Disconnect("s1")

	_, ok := f.o.Registry.GetSession("s1")
	assert.False(t, ok)
	_, err = f.o.Produce(ctx, "s1", "", core.KindVideo, core.RTPParameters{})
	assert.ErrorIs(t, err, app.ErrSessionNotFound)
	_, err = f.o.Stream("s1")
	assert.ErrorIs(t, err, app.ErrRelayNotFound)
}

func TestRelayExitMarksSessionFailed(t *testing.T) {
	f := newFixture(t)
	sess := f.o.Connect("s1", "", nil)

	var pushed []any
	sess.SetNotifier(func(v any) { pushed = append(pushed, v) })
	_, cancel := context.WithCancel(context.Background())
	sess.StartRelay(app.RelayState{Port: 20000, Codec: "VP8"}, cancel)

	f.o.OnRelayExit("s1", errors.New("exit status 1"))

	info, err := f.o.Stream("s1")
	require.NoError(t, err)
	assert.Equal(t, "failed", info.State)
	assert.Equal(t, "exit status 1", info.Error)

	require.Len(t, pushed, 1)
	ev, ok := pushed[0].(RelayFailedEvent)
	require.True(t, ok)
	assert.Equal(t, "relayFailed", ev.Type)
	assert.Equal(t, core.SessionID("s1"), ev.SessionID)
}
