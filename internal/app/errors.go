package app

import "errors"

var (
	ErrTransportNotFound = errors.New("transport not found")
	ErrProducerNotFound  = errors.New("producer not found")
	ErrConsumerNotFound  = errors.New("consumer not found")
	ErrCannotConsume     = errors.New("cannot consume")
	ErrRelayNotFound     = errors.New("relay not found")
	ErrSessionNotFound   = errors.New("session not found")
	ErrInvalidKind       = errors.New("invalid media kind")
)
