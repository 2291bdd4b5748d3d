// Package audit captures structured audit events emitted from domain logic.
// It is append-only and transport-agnostic so stores and sinks can fan out.
package audit

import (
	"context"
	"time"
)

// Event action names emitted by the registration workflow.
const (
	ActionOngRegistered = "ong.registered"
)

// Event records one key action. Subject identifies what the action applied
// to (organization ID for registrations).
type Event struct {
	Timestamp time.Time
	Action    string
	Subject   string
	Actor     string
	RequestID string
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}

// Publisher appends events straight to a store. Tests and small deployments
// use it; the channel publisher + worker pair is the asynchronous path.
type Publisher struct {
	store Store
}

func NewPublisher(store Store) *Publisher {
	return &Publisher{store: store}
}

func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	return p.store.Append(ctx, event)
}
