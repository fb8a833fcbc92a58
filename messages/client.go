package messages

import "encoding/json"

// ClientMessage represents a message from a frontend client
type ClientMessage struct {
	Type    string          `json:"type"` // "utterance", "control"
	Payload json.RawMessage `json:"payload"`
}

// UtterancePayload carries one transcribed fragment of caller speech.
// Final marks the fragment as the end of the caller's turn.
type UtterancePayload struct {
	Text  string `json:"text"`
	Final bool   `json:"final,omitempty"`
}

// ControlPayload contains control commands
type ControlPayload struct {
	Action string `json:"action"` // "ping", "end_turn", "barge_in", "reset", "end_call"
}
