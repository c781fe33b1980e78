package signal

import "github.com/pion/webrtc/v4"

func (ctl *SignalWSController) handlePing(
	conn *wsSignalConn,
) {
	resp := struct {
		Type string `json:"type"`
	}{
		Type: evPong,
	}
	ctl.sendJSON(conn, resp)
}

// handleRTCConfig hands the client the ICE server set so both peers of a
// pair dial the same STUN/TURN infrastructure.
func (ctl *SignalWSController) handleRTCConfig(
	conn *wsSignalConn,
) {
	resp := struct {
		Type       string             `json:"type"`
		ICEServers []webrtc.ICEServer `json:"iceServers"`
	}{
		Type:       evRTCConfig,
		ICEServers: ctl.Cfg.RTCConfiguration().ICEServers,
	}
	ctl.sendJSON(conn, resp)
}
