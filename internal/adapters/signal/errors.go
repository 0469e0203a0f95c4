package signal

import (
	"errors"

	"github.com/dkeye/hlsrelay/internal/app"
)

var (
	errBadPayload  = errors.New("bad payload")
	errRateLimited = errors.New("rate limited")
)

var genericErrors = map[string]string{
	"createWebRtcTransport":    "Failed to create transport",
	"connectProducerTransport": "Failed to connect transport",
	"produce":                  "Failed to produce",
	"consume":                  "Failed to consume",
	"resumeConsumer":           "Failed to resume consumer",
}

// sessionLookups names what a request looks up first; after disconnect
// that lookup is what is missing.
var sessionLookups = map[string]string{
	"connectProducerTransport": "Transport not found",
	"produce":                  "Transport not found",
	"consume":                  "Transport not found",
	"resumeConsumer":           "Consumer not found",
}

// wireError is the error string the client sees for a failed msgType.
func wireError(msgType string, err error) string {
	switch {
	case errors.Is(err, app.ErrTransportNotFound):
		return "Transport not found"
	case errors.Is(err, app.ErrCannotConsume):
		return "Cannot consume"
	case errors.Is(err, app.ErrConsumerNotFound):
		return "Consumer not found"
	case errors.Is(err, app.ErrInvalidKind):
		return "Invalid media kind"
	case errors.Is(err, errBadPayload):
		return "Bad request"
	case errors.Is(err, errRateLimited):
		return "Too many requests"
	case errors.Is(err, app.ErrSessionNotFound):
		if msg, ok := sessionLookups[msgType]; ok {
			return msg
		}
	}
	if msg, ok := genericErrors[msgType]; ok {
		return msg
	}
	return "Internal error"
}
