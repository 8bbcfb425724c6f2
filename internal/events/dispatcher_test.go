package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestPublishContinuesAfterHandlerError(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	d := NewInMemoryDispatcher(zap.New(core))

	var calls []string
	d.Subscribe(EventTicketCreated, func(context.Context, Event) error {
		calls = append(calls, "first")
		return errors.New("sink unavailable")
	})
	d.Subscribe(EventTicketCreated, func(context.Context, Event) error {
		calls = append(calls, "second")
		return nil
	})

	err := d.Publish(context.Background(), New(EventTicketCreated, 1, 42, nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, calls)

	entries := logs.FilterMessage("event handler failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "ticket_created", entries[0].ContextMap()["event"])
	assert.Equal(t, int64(42), entries[0].ContextMap()["entity_id"])
}

func TestPublishWithoutListeners(t *testing.T) {
	d := NewInMemoryDispatcher(nil)
	err := d.Publish(context.Background(), New(EventUserDeleted, 1, 7, nil))
	require.NoError(t, err)
}
