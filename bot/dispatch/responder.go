package dispatch

import (
	"context"
	"fmt"
	"sync"
)

// ResponseState tracks what has been sent for an event
type ResponseState int

const (
	StateNone ResponseState = iota
	StateDeferred
	StateReplied
)

// Responder answers a single event and never sends two initial responses.
// The first Send replies (or edits a deferred reply); later Sends follow up.
type Responder struct {
	mu        sync.Mutex
	transport Transport
	event     *Event
	state     ResponseState
}

// NewResponder creates a responder for event
func NewResponder(transport Transport, event *Event) *Responder {
	return &Responder{transport: transport, event: event}
}

// State returns the current response state
func (r *Responder) State() ResponseState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Replied reports whether a terminal answer has been delivered
func (r *Responder) Replied() bool {
	return r.State() == StateReplied
}

// Defer acknowledges the event. It is a no-op once anything was sent.
func (r *Responder) Defer(ctx context.Context, ephemeral bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateNone {
		return nil
	}
	if err := r.transport.DeferReply(ctx, r.event, ephemeral); err != nil {
		return fmt.Errorf("failed to defer reply: %w", err)
	}
	r.state = StateDeferred
	return nil
}

// Send delivers reply as a reply, an edit of the deferred reply or a follow-up
func (r *Responder) Send(ctx context.Context, reply *Reply) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	switch r.state {
	case StateNone:
		err = r.transport.SendReply(ctx, r.event, reply)
	case StateDeferred:
		err = r.transport.EditReply(ctx, r.event, reply)
	default:
		err = r.transport.FollowUp(ctx, r.event, reply)
	}
	if err != nil {
		return fmt.Errorf("failed to send reply: %w", err)
	}
	r.state = StateReplied
	return nil
}
