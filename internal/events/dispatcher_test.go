package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher(zap.NewNop())

	var received []Event
	dispatcher.Subscribe(EventTicketPaused, func(ctx context.Context, event Event) error {
		received = append(received, event)
		return nil
	})

	event := Event{ID: "e1", Type: EventTicketPaused, TicketID: "t1"}
	require.NoError(t, dispatcher.Publish(context.Background(), event))

	require.Len(t, received, 1)
	assert.Equal(t, "t1", received[0].TicketID)
}

func TestDispatcherIgnoresUnrelatedTypes(t *testing.T) {
	dispatcher := NewInMemoryDispatcher(zap.NewNop())

	called := false
	dispatcher.Subscribe(EventTicketPaused, func(ctx context.Context, event Event) error {
		called = true
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventTicketResumed}))

	assert.False(t, called)
}

func TestDispatcherContinuesPastFailingHandler(t *testing.T) {
	dispatcher := NewInMemoryDispatcher(zap.NewNop())

	dispatcher.Subscribe(EventSLAStatusChanged, func(ctx context.Context, event Event) error {
		return errors.New("handler exploded")
	})
	secondRan := false
	dispatcher.Subscribe(EventSLAStatusChanged, func(ctx context.Context, event Event) error {
		secondRan = true
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{Type: EventSLAStatusChanged, TicketID: "t1"})

	require.NoError(t, err)
	assert.True(t, secondRan)
}
