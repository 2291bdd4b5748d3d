package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublisher_StampsTimestamp(t *testing.T) {
	store := NewInMemoryStore()
	pub := NewPublisher(store)

	require.NoError(t, pub.Emit(context.Background(), Event{Action: ActionOngRegistered, Subject: "ong-1"}))

	events, err := store.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.False(t, events[0].Timestamp.IsZero())
	assert.Equal(t, ActionOngRegistered, events[0].Action)
}

func TestInMemoryStore_ListRecent(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()
	for _, subject := range []string{"a", "b", "c"} {
		require.NoError(t, store.Append(ctx, Event{Action: ActionOngRegistered, Subject: subject}))
	}

	events, err := store.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "b", events[0].Subject)
	assert.Equal(t, "c", events[1].Subject)

	all, err := store.ListRecent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestWorker_PersistsEvents(t *testing.T) {
	store := NewInMemoryStore()
	inbox := make(chan Event, 4)
	worker := NewWorker(store, inbox)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	pub := NewChannelPublisher(inbox)
	require.NoError(t, pub.Emit(ctx, Event{Action: ActionOngRegistered, Subject: "ong-1"}))

	require.Eventually(t, func() bool {
		events, err := store.ListRecent(context.Background(), 1)
		return err == nil && len(events) == 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

// A full inbox must never stall the caller.
func TestChannelPublisher_DropsWhenFull(t *testing.T) {
	inbox := make(chan Event, 1)
	pub := NewChannelPublisher(inbox)

	ctx := context.Background()
	require.NoError(t, pub.Emit(ctx, Event{Subject: "kept"}))
	require.NoError(t, pub.Emit(ctx, Event{Subject: "dropped"}))

	assert.Equal(t, "kept", (<-inbox).Subject)
	select {
	case ev := <-inbox:
		t.Fatalf("unexpected buffered event %q", ev.Subject)
	default:
	}
}
