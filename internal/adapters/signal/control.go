package signal

import "github.com/dkeye/hlsrelay/internal/core"

func (ctl *SignalWSController) handlePing(
	conn *WsSignalConn,
) {
	resp := struct {
		Type string `json:"type"`
	}{
		Type: "pong",
	}
	ctl.sendJSON(conn, resp)
}

func (ctl *SignalWSController) handleCapabilities() core.RTPCapabilities {
	return ctl.Orch.Router.Capabilities()
}
