package session

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/room4-2/InsureConverse/dialogue"
	"github.com/room4-2/InsureConverse/messages"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
)

const (
	writeBufferSize = 256
	writeTimeout    = 10 * time.Second
)

// ClientSession represents a single caller's connection
type ClientSession struct {
	ID           string
	ClientConn   *websocket.Conn
	Dialogue     *dialogue.Manager
	State        *dialogue.SessionState
	Transcript   *TranscriptBuffer // buffer for incoming utterance fragments
	Playback     *Playback         // in-flight agent utterance, for barge-in
	CreatedAt    time.Time
	LastActivity time.Time

	// Use channels for non-blocking writes
	writeChan chan any

	mu        sync.RWMutex
	closed    bool
	CloseChan chan struct{}
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewClientSession creates a session bound to one WebSocket connection
func NewClientSession(id string, clientConn *websocket.Conn, dlg *dialogue.Manager, maxTranscriptSize int) *ClientSession {
	ctx, cancel := context.WithCancel(context.Background())

	clientConn.SetReadLimit(64 * 1024)
	clientConn.EnableWriteCompression(true)

	return &ClientSession{
		ID:           id,
		ClientConn:   clientConn,
		Dialogue:     dlg,
		State:        dialogue.NewSessionState(),
		Transcript:   NewTranscriptBuffer(maxTranscriptSize),
		Playback:     &Playback{},
		CreatedAt:    time.Now(),
		LastActivity: time.Now(),
		writeChan:    make(chan any, writeBufferSize),
		CloseChan:    make(chan struct{}),
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Start begins the bidirectional message handling
func (cs *ClientSession) Start() {
	go cs.writePump()
	cs.queueMessage(messages.NewStatusMessage(cs.ID, "connected", "Session established"))
	cs.queueMessage(messages.NewTextMessage(cs.ID, dialogue.Greeting, false))
	go cs.handleClientMessages()
}

// writePump handles all outgoing messages in a single goroutine
func (cs *ClientSession) writePump() {
	defer func() {
		// Send close message before exiting
		cs.ClientConn.SetWriteDeadline(time.Now().Add(writeTimeout))
		cs.ClientConn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		)
	}()

	for {
		select {
		case <-cs.CloseChan:
			// Drain whatever was queued before the close so the caller
			// still hears the goodbye.
			for {
				select {
				case msg, ok := <-cs.writeChan:
					if !ok {
						return
					}
					if err := cs.writeJSON(msg); err != nil {
						return
					}
				default:
					return
				}
			}
		case msg, ok := <-cs.writeChan:
			if !ok {
				return
			}
			if err := cs.writeJSON(msg); err != nil {
				return
			}

			n := len(cs.writeChan)
			for i := 0; i < n; i++ {
				select {
				case msg, ok := <-cs.writeChan:
					if !ok {
						return
					}
					if err := cs.writeJSON(msg); err != nil {
						return
					}
				default:
					// No more messages, continue outer loop
				}
			}
		}
	}
}

func (cs *ClientSession) writeJSON(msg any) error {
	data, err := sonic.Marshal(msg)
	if err != nil {
		return err
	}
	cs.ClientConn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return cs.ClientConn.WriteMessage(websocket.TextMessage, data)
}

// queueMessage adds a message to the write queue (non-blocking)
func (cs *ClientSession) queueMessage(msg any) {
	cs.mu.RLock()
	closed := cs.closed
	cs.mu.RUnlock()
	if closed {
		return
	}
	select {
	case cs.writeChan <- msg:
		cs.mu.Lock()
		cs.LastActivity = time.Now()
		cs.mu.Unlock()
	default:
		// Queue full, drop message (shouldn't happen with proper sizing)
	}
}

// Close terminates the session and cleans up resources
func (cs *ClientSession) Close() error {
	cs.mu.Lock()
	if cs.closed {
		cs.mu.Unlock()
		return nil
	}
	cs.closed = true
	cs.mu.Unlock()

	cs.cancel()
	cs.Playback.Interrupt()

	// Close the write channel first to stop writePump
	close(cs.writeChan)

	// Signal close (for other goroutines waiting on this)
	close(cs.CloseChan)

	if cs.Transcript != nil {
		cs.Transcript.Clear()
	}

	if cs.ClientConn != nil {
		cs.ClientConn.Close()
	}

	return nil
}

// IsClosed returns whether the session is closed
func (cs *ClientSession) IsClosed() bool {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.closed
}

func (cs *ClientSession) handleClientMessages() {
	defer cs.Close()

	for {
		select {
		case <-cs.CloseChan:
			return
		default:
			messageType, message, err := cs.ClientConn.ReadMessage()
			if err != nil {
				return
			}

			cs.mu.Lock()
			cs.LastActivity = time.Now()
			cs.mu.Unlock()

			// Binary frames carry raw transcript bytes from lightweight
			// clients; buffer them like any other fragment.
			if messageType == websocket.BinaryMessage {
				cs.Playback.Interrupt()
				if err := cs.Transcript.Append(string(message)); err != nil {
					cs.queueMessage(messages.NewErrorMessage(cs.ID, messages.ErrCodeBufferFull,
						fmt.Sprintf("Transcript buffer full (max %d bytes)", cs.Transcript.MaxSize())))
				}
				continue
			}

			var clientMsg messages.ClientMessage
			if err := sonic.Unmarshal(message, &clientMsg); err != nil {
				cs.queueMessage(messages.NewErrorMessage(cs.ID, messages.ErrCodeInvalidMessage, "Invalid message format"))
				continue
			}

			cs.processClientMessage(&clientMsg)
		}
	}
}

func (cs *ClientSession) processClientMessage(msg *messages.ClientMessage) {
	switch msg.Type {
	case "utterance":
		var payload messages.UtterancePayload
		if err := sonic.Unmarshal(msg.Payload, &payload); err != nil {
			cs.queueMessage(messages.NewErrorMessage(cs.ID, messages.ErrCodeInvalidMessage, "Invalid utterance payload"))
			return
		}
		// The caller talking over the agent cuts the agent short.
		if cs.Playback.Speaking() {
			cs.Playback.Interrupt()
			cs.queueMessage(messages.NewStatusMessage(cs.ID, "interrupted", ""))
		}
		if err := cs.Transcript.Append(payload.Text); err != nil {
			cs.queueMessage(messages.NewErrorMessage(cs.ID, messages.ErrCodeBufferFull,
				fmt.Sprintf("Transcript buffer full (max %d bytes)", cs.Transcript.MaxSize())))
			return
		}
		if payload.Final {
			cs.handleEndTurn()
		}

	case "control":
		var payload messages.ControlPayload
		if err := sonic.Unmarshal(msg.Payload, &payload); err != nil {
			cs.queueMessage(messages.NewErrorMessage(cs.ID, messages.ErrCodeInvalidMessage, "Invalid control payload"))
			return
		}
		cs.handleControlMessage(&payload)

	default:
		cs.queueMessage(messages.NewErrorMessage(cs.ID, messages.ErrCodeInvalidMessage, "Unknown message type: "+msg.Type))
	}
}

func (cs *ClientSession) handleControlMessage(payload *messages.ControlPayload) {
	switch payload.Action {
	case "ping":
		cs.queueMessage(messages.NewStatusMessage(cs.ID, "pong", ""))
	case "end_turn":
		cs.handleEndTurn()
	case "barge_in":
		cs.Playback.Interrupt()
		cs.queueMessage(messages.NewStatusMessage(cs.ID, "interrupted", ""))
	case "reset":
		cs.State = dialogue.NewSessionState()
		cs.Transcript.Clear()
		cs.queueMessage(messages.NewStatusMessage(cs.ID, "reset", "Conversation state cleared"))
	case "end_call":
		cs.queueMessage(messages.NewTextMessage(cs.ID, "Okay — ending the call. Goodbye!", true))
		cs.queueMessage(messages.NewStatusMessage(cs.ID, "disconnected", ""))
		cs.Close()
	default:
		cs.queueMessage(messages.NewErrorMessage(cs.ID, messages.ErrCodeInvalidMessage, "Unknown control action: "+payload.Action))
	}
}

// handleEndTurn flushes the transcript and runs one dialogue turn
func (cs *ClientSession) handleEndTurn() {
	if cs.Transcript.IsEmpty() {
		log.Printf("⚠️ [%s] end_turn received but transcript is empty, ignoring", cs.ID[:8])
		return
	}
	fragmentCount := cs.Transcript.FragmentCount()

	userText := cs.Transcript.Flush()
	log.Printf("📤 [%s] Running dialogue turn: %d bytes (%d fragments)", cs.ID[:8], len(userText), fragmentCount)

	cs.runTurn(userText)
}

// runTurn drives the dialogue manager for one utterance and queues the
// reply. The reply is registered as the live playback only while the turn
// runs; a fragment arriving mid-turn barges in, but once the reply is
// queued nothing is speaking anymore.
func (cs *ClientSession) runTurn(userText string) {
	cs.Playback.Begin(cs.ctx)
	defer cs.Playback.Finish()

	res, err := cs.Dialogue.HandleTurn(userText, cs.State)
	if err != nil {
		log.Printf("❌ [%s] Dialogue error: %v", cs.ID[:8], err)
		cs.queueMessage(messages.NewErrorMessage(cs.ID, messages.ErrCodeDialogueError, err.Error()))
		return
	}

	cs.queueMessage(messages.NewTextMessage(cs.ID, res.ResponseText, res.EndCall))
	cs.queueMessage(messages.NewStatusMessage(cs.ID, "turn_complete", ""))

	if res.EndCall {
		cs.queueMessage(messages.NewStatusMessage(cs.ID, "disconnected", ""))
		cs.Close()
	}
}
