package session

import (
	"context"
	"sync"
)

// Playback tracks the in-flight agent utterance for one call so that a
// caller speaking over it can cut it short. Begin cancels any previous
// playback before handing out a fresh context; the client-side renderer
// is expected to stop on cancellation.
type Playback struct {
	mu       sync.Mutex
	cancel   context.CancelFunc
	speaking bool
}

// Begin starts a new playback, interrupting any previous one. The
// returned context is cancelled when the playback is interrupted or the
// parent expires.
func (p *Playback) Begin(parent context.Context) context.Context {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		p.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	p.cancel = cancel
	p.speaking = true
	return ctx
}

// Interrupt cancels the current playback, if any. Safe to call at any
// time, including with no playback in flight.
func (p *Playback) Interrupt() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.speaking = false
}

// Finish marks the current playback as completed normally.
func (p *Playback) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.speaking = false
}

// Speaking reports whether an agent utterance is currently in flight.
func (p *Playback) Speaking() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.speaking
}
