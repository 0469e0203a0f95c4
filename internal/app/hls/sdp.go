package hls

import (
	"fmt"

	"github.com/dkeye/hlsrelay/internal/core"
	"github.com/pion/sdp/v3"
)

const sdpSessionName = "HLS Relay Stream"

// BuildSDP describes a single video stream arriving on 127.0.0.1:port.
func BuildSDP(port int, codec core.RTPCodecParameters) ([]byte, error) {
	if codec.ClockRate == 0 {
		return nil, fmt.Errorf("codec %s: missing clock rate", codec.MimeType)
	}
	media := &sdp.MediaDescription{
		MediaName: sdp.MediaName{
			Media:  "video",
			Port:   sdp.RangedPort{Value: port},
			Protos: []string{"RTP", "AVP"},
		},
	}
	media = media.WithCodec(codec.PayloadType, codec.Name(), codec.ClockRate, 0, codec.SDPFmtpLine)

	sd := &sdp.SessionDescription{
		Version: 0,
		Origin: sdp.Origin{
			Username:       "-",
			SessionID:      0,
			SessionVersion: 0,
			NetworkType:    "IN",
			AddressType:    "IP4",
			UnicastAddress: "127.0.0.1",
		},
		SessionName: sdp.SessionName(sdpSessionName),
		ConnectionInformation: &sdp.ConnectionInformation{
			NetworkType: "IN",
			AddressType: "IP4",
			Address:     &sdp.Address{Address: "127.0.0.1"},
		},
		TimeDescriptions: []sdp.TimeDescription{
			{Timing: sdp.Timing{StartTime: 0, StopTime: 0}},
		},
		MediaDescriptions: []*sdp.MediaDescription{media},
	}
	return sd.Marshal()
}
