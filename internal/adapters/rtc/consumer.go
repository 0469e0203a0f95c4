package rtc

import (
	"sync"

	"github.com/dkeye/hlsrelay/internal/core"
	"github.com/pion/rtcp"
	"github.com/pion/rtp"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
)

// consumer delivers a producer's packets to a peer through an RTP sender.
type consumer struct {
	id       string
	producer *producer
	track    *webrtc.TrackLocalStaticRTP
	sender   *webrtc.RTPSender
	sink     *sink
	params   core.RTPParameters
	onClose  func(id string)
	once     sync.Once
}

var _ core.Consumer = (*consumer)(nil)

func newConsumer(id string, p *producer, track *webrtc.TrackLocalStaticRTP, paused bool) *consumer {
	c := &consumer{id: id, producer: p, track: track}
	c.sink = newSink(id, func(pkt *rtp.Packet) error { return c.track.WriteRTP(pkt) }, paused)
	return c
}

func (c *consumer) ID() string                        { return c.id }
func (c *consumer) ProducerID() string                { return c.producer.id }
func (c *consumer) Kind() core.MediaKind              { return c.producer.kind }
func (c *consumer) RTPParameters() core.RTPParameters { return c.params }
func (c *consumer) Paused() bool                      { return c.sink.getState() == sinkPaused }

// Resume starts forwarding and asks the publisher for a keyframe so the
// viewer can decode immediately.
func (c *consumer) Resume() error {
	if c.sink.getState() == sinkDelete {
		return errProducerClosed
	}
	c.sink.markOk()
	c.producer.RequestKeyFrame()
	return nil
}

// readRTCP relays the viewer's keyframe requests to the publisher.
func (c *consumer) readRTCP() {
	for {
		pkts, _, err := c.sender.ReadRTCP()
		if err != nil {
			return
		}
		for _, pkt := range pkts {
			switch pkt.(type) {
			case *rtcp.PictureLossIndication, *rtcp.FullIntraRequest:
				c.producer.RequestKeyFrame()
			}
		}
	}
}

func (c *consumer) Close() error {
	var err error
	c.once.Do(func() {
		c.producer.removeSink(c.id)
		if c.sender != nil {
			err = c.sender.Stop()
		}
		if c.onClose != nil {
			c.onClose(c.id)
		}
		log.Debug().Str("module", "rtc.consumer").Str("consumer", c.id).Msg("closed")
	})
	return err
}
