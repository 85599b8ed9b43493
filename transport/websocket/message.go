package websocket

import (
	"encoding/json"
	"fmt"
)

const (
	actionState = "board:state"
	actionMark  = "board:mark"
	actionReset = "board:reset"
	actionError = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type markPayload struct {
	Row    *int `json:"row"`
	Column *int `json:"column"`
}

type errorPayload struct {
	Error string `json:"error"`
}

func newMessage(action string, payload any) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("failed to marshal %s payload: %w", action, err)
	}

	return Message{Action: action, Payload: data}, nil
}
