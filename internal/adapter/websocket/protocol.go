package websocket

import "encoding/json"

type MessageType string

const (
	MsgLocationUpdate MessageType = "LOCATION_UPDATE"
	MsgLocationAck    MessageType = "LOCATION_ACK"
	MsgError          MessageType = "ERROR"
)

type Envelope struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// AckPayload answers a LOCATION_UPDATE. Errors is empty when the update committed.
type AckPayload struct {
	Errors []string `json:"errors"`
}

type outbound struct {
	Type    MessageType `json:"type"`
	Payload any         `json:"payload"`
}

// NewLocationAck builds a LOCATION_ACK frame. A nil errs means the update committed.
func NewLocationAck(errs []string) any {
	if errs == nil {
		errs = []string{}
	}
	return outbound{Type: MsgLocationAck, Payload: AckPayload{Errors: errs}}
}
