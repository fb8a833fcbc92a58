package messages

// Error codes
const (
	ErrCodeInvalidMessage   = "INVALID_MESSAGE"
	ErrCodeDialogueError    = "DIALOGUE_ERROR"
	ErrCodeSessionFailed    = "SESSION_FAILED"
	ErrCodeConnectionClosed = "CONNECTION_CLOSED"
	ErrCodeRateLimited      = "RATE_LIMITED"
	ErrCodeBufferFull       = "BUFFER_FULL"
)

// Message types
const (
	TypeText   = "text"
	TypeStatus = "status"
	TypeError  = "error"
)

// ServerMessage represents a message sent to a frontend client
type ServerMessage struct {
	Type      string      `json:"type"` // "text", "status", "error"
	SessionID string      `json:"sessionId,omitempty"`
	Payload   interface{} `json:"payload"`
}

// TextResponsePayload contains one agent reply. EndCall tells the client
// the agent is hanging up after this utterance.
type TextResponsePayload struct {
	Text    string `json:"text"`
	EndCall bool   `json:"endCall,omitempty"`
}

// StatusPayload contains status updates
type StatusPayload struct {
	Status  string `json:"status"` // "connected", "turn_complete", "interrupted", "disconnected"
	Message string `json:"message,omitempty"`
}

// ErrorPayload contains error information
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewTextMessage creates an agent reply message
func NewTextMessage(sessionID, text string, endCall bool) *ServerMessage {
	return &ServerMessage{
		Type:      TypeText,
		SessionID: sessionID,
		Payload: TextResponsePayload{
			Text:    text,
			EndCall: endCall,
		},
	}
}

// NewStatusMessage creates a status message
func NewStatusMessage(sessionID, status, message string) *ServerMessage {
	return &ServerMessage{
		Type:      TypeStatus,
		SessionID: sessionID,
		Payload: StatusPayload{
			Status:  status,
			Message: message,
		},
	}
}

// NewErrorMessage creates an error message
func NewErrorMessage(sessionID, code, message string) *ServerMessage {
	return &ServerMessage{
		Type:      TypeError,
		SessionID: sessionID,
		Payload: ErrorPayload{
			Code:    code,
			Message: message,
		},
	}
}
