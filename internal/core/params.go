package core

import (
	"strings"

	"github.com/pion/webrtc/v4"
)

// SessionID identifies one signaling connection.
type SessionID string

type MediaKind string

const (
	KindAudio MediaKind = "audio"
	KindVideo MediaKind = "video"
)

func (k MediaKind) Valid() bool { return k == KindAudio || k == KindVideo }

func (k MediaKind) CodecType() webrtc.RTPCodecType {
	switch k {
	case KindAudio:
		return webrtc.RTPCodecTypeAudio
	case KindVideo:
		return webrtc.RTPCodecTypeVideo
	default:
		return 0
	}
}

// RTPCodecParameters describes one negotiated codec.
type RTPCodecParameters struct {
	Kind        MediaKind `json:"kind,omitempty"`
	MimeType    string    `json:"mimeType"`
	PayloadType uint8     `json:"payloadType"`
	ClockRate   uint32    `json:"clockRate"`
	Channels    uint16    `json:"channels,omitempty"`
	SDPFmtpLine string    `json:"sdpFmtpLine,omitempty"`
}

// Name is the encoding name as it appears in an rtpmap line, e.g. "VP8".
func (c RTPCodecParameters) Name() string {
	if i := strings.IndexByte(c.MimeType, '/'); i >= 0 {
		return c.MimeType[i+1:]
	}
	return c.MimeType
}

type RTPEncoding struct {
	SSRC uint32 `json:"ssrc"`
}

type RTPParameters struct {
	MID       string               `json:"mid,omitempty"`
	Codecs    []RTPCodecParameters `json:"codecs"`
	Encodings []RTPEncoding        `json:"encodings"`
}

// RTPCapabilities is the codec set a peer declares it can receive.
type RTPCapabilities struct {
	Codecs []RTPCodecParameters `json:"codecs"`
}

// Supports reports whether codec appears in caps with the same mime type
// and clock rate. Mime types compare case-insensitively.
func (caps RTPCapabilities) Supports(codec RTPCodecParameters) bool {
	for _, c := range caps.Codecs {
		if strings.EqualFold(c.MimeType, codec.MimeType) && c.ClockRate == codec.ClockRate {
			return true
		}
	}
	return false
}

// TransportInfo is what a client needs to reach a server transport.
type TransportInfo struct {
	ID             string                `json:"id"`
	ICEParameters  webrtc.ICEParameters  `json:"iceParameters"`
	ICECandidates  []webrtc.ICECandidate `json:"iceCandidates"`
	DTLSParameters webrtc.DTLSParameters `json:"dtlsParameters"`
}

// ConnectParams finalizes a transport. ICE parameters are optional on the
// wire but the ICE transport cannot start without the remote credentials.
type ConnectParams struct {
	DTLSParameters webrtc.DTLSParameters `json:"dtlsParameters"`
	ICEParameters  *webrtc.ICEParameters `json:"iceParameters,omitempty"`
	ICECandidates  []webrtc.ICECandidate `json:"iceCandidates,omitempty"`
}
