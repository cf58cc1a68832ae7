package events

import (
	"context"
	"testing"
	"time"

	"alcyxob/coaching-app/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestInProcessBus_DispatchesToSubscribers(t *testing.T) {
	bus := NewInProcessBus()

	var received []domain.Event
	bus.Subscribe(domain.EventCheckInResponded, func(ctx context.Context, event domain.Event) {
		received = append(received, event)
	})
	bus.Subscribe(domain.EventCheckInResponded, func(ctx context.Context, event domain.Event) {
		received = append(received, event)
	})

	event := domain.NewCheckInRespondedEvent("user-1", "conv-1", "ci-1", 1, time.Now())
	require.NoError(t, bus.Publish(context.Background(), event))

	require.Len(t, received, 2, "every subscriber sees the event")
	require.Equal(t, "ci-1", received[0].CheckInID)
}

func TestInProcessBus_IgnoresUnsubscribedTypes(t *testing.T) {
	bus := NewInProcessBus()

	called := false
	bus.Subscribe(domain.EventPlanActivated, func(ctx context.Context, event domain.Event) {
		called = true
	})

	err := bus.Publish(context.Background(), domain.NewCheckInCreatedEvent("user-1", "conv-1", "ci-1", time.Now()))
	require.NoError(t, err, "publishing with no subscribers is not an error")
	require.False(t, called)
}
