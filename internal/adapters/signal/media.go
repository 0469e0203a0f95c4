package signal

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dkeye/hlsrelay/internal/core"
	"github.com/pion/webrtc/v4"
)

func decode(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", errBadPayload, err)
	}
	return nil
}

func (ctl *SignalWSController) handleCreateTransport(ctx context.Context, sid core.SessionID) (core.TransportInfo, error) {
	if !ctl.limiter.Allow(sid) {
		return core.TransportInfo{}, errRateLimited
	}
	return ctl.Orch.CreateTransport(ctx, sid)
}

func (ctl *SignalWSController) handleConnectTransport(ctx context.Context, sid core.SessionID, data json.RawMessage) error {
	var p struct {
		TransportID    string                `json:"transportId"`
		DTLSParameters webrtc.DTLSParameters `json:"dtlsParameters"`
		ICEParameters  *webrtc.ICEParameters `json:"iceParameters,omitempty"`
		ICECandidates  []webrtc.ICECandidate `json:"iceCandidates,omitempty"`
	}
	if err := decode(data, &p); err != nil {
		return err
	}
	return ctl.Orch.ConnectTransport(ctx, sid, p.TransportID, core.ConnectParams{
		DTLSParameters: p.DTLSParameters,
		ICEParameters:  p.ICEParameters,
		ICECandidates:  p.ICECandidates,
	})
}

type produceReply struct {
	ID string `json:"id"`
}

func (ctl *SignalWSController) handleProduce(ctx context.Context, sid core.SessionID, data json.RawMessage) (produceReply, error) {
	var p struct {
		TransportID   string             `json:"transportId"`
		Kind          core.MediaKind     `json:"kind"`
		RTPParameters core.RTPParameters `json:"rtpParameters"`
	}
	if err := decode(data, &p); err != nil {
		return produceReply{}, err
	}
	id, err := ctl.Orch.Produce(ctx, sid, p.TransportID, p.Kind, p.RTPParameters)
	if err != nil {
		return produceReply{}, err
	}
	return produceReply{ID: id}, nil
}

type consumeReply struct {
	ID            string             `json:"id"`
	Kind          core.MediaKind     `json:"kind"`
	RTPParameters core.RTPParameters `json:"rtpParameters"`
	ProducerID    string             `json:"producerId"`
}

func (ctl *SignalWSController) handleConsume(ctx context.Context, sid core.SessionID, data json.RawMessage) (consumeReply, error) {
	var p struct {
		TransportID     string               `json:"transportId"`
		ProducerID      string               `json:"producerId"`
		RTPCapabilities core.RTPCapabilities `json:"rtpCapabilities"`
	}
	if err := decode(data, &p); err != nil {
		return consumeReply{}, err
	}
	c, err := ctl.Orch.Consume(ctx, sid, p.TransportID, p.ProducerID, p.RTPCapabilities)
	if err != nil {
		return consumeReply{}, err
	}
	return consumeReply{
		ID:            c.ID(),
		Kind:          c.Kind(),
		RTPParameters: c.RTPParameters(),
		ProducerID:    c.ProducerID(),
	}, nil
}

func (ctl *SignalWSController) handleResumeConsumer(ctx context.Context, sid core.SessionID, data json.RawMessage) error {
	var p struct {
		ConsumerID string `json:"consumerId"`
	}
	if err := decode(data, &p); err != nil {
		return err
	}
	return ctl.Orch.ResumeConsumer(ctx, sid, p.ConsumerID)
}
