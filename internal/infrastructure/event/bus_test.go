package event

import (
	"context"
	"errors"
	"testing"

	"github.com/bizops/backend/internal/domain/inventory"
	"github.com/bizops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingHandler struct {
	types   []string
	handled []shared.DomainEvent
	err     error
	panics  bool
}

func (h *recordingHandler) EventTypes() []string {
	return h.types
}

func (h *recordingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	if h.panics {
		panic("handler exploded")
	}
	h.handled = append(h.handled, event)
	return h.err
}

func submittedEvent() shared.DomainEvent {
	return inventory.NewMovementRequestSubmittedEvent(uuid.New(), uuid.New(), uuid.New(), inventory.RequestTypeMovement)
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	ctx := context.Background()

	t.Run("routes events to matching handlers", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		submitted := &recordingHandler{types: []string{"inventory.request.submitted"}}
		stock := &recordingHandler{types: []string{"inventory.stock.changed"}}
		bus.Subscribe(submitted)
		bus.Subscribe(stock)

		require.NoError(t, bus.Publish(ctx, submittedEvent()))

		assert.Len(t, submitted.handled, 1)
		assert.Empty(t, stock.handled)
	})

	t.Run("fans out to multiple handlers", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		first := &recordingHandler{types: []string{"inventory.request.submitted"}}
		second := &recordingHandler{types: []string{"inventory.request.submitted"}}
		bus.Subscribe(first)
		bus.Subscribe(second)

		require.NoError(t, bus.Publish(ctx, submittedEvent(), submittedEvent()))

		assert.Len(t, first.handled, 2)
		assert.Len(t, second.handled, 2)
	})

	t.Run("a failing handler does not block the others", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		failing := &recordingHandler{types: []string{"inventory.request.submitted"}, err: errors.New("boom")}
		healthy := &recordingHandler{types: []string{"inventory.request.submitted"}}
		bus.Subscribe(failing)
		bus.Subscribe(healthy)

		require.NoError(t, bus.Publish(ctx, submittedEvent()))

		assert.Len(t, healthy.handled, 1)
	})

	t.Run("a panicking handler is contained", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		panicking := &recordingHandler{types: []string{"inventory.request.submitted"}, panics: true}
		healthy := &recordingHandler{types: []string{"inventory.request.submitted"}}
		bus.Subscribe(panicking)
		bus.Subscribe(healthy)

		require.NoError(t, bus.Publish(ctx, submittedEvent()))

		assert.Len(t, healthy.handled, 1)
	})

	t.Run("events with no handlers are dropped silently", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		require.NoError(t, bus.Publish(ctx, submittedEvent()))
	})
}

func TestAuditLogHandler(t *testing.T) {
	handler := NewAuditLogHandler(zap.NewNop())

	assert.Contains(t, handler.EventTypes(), "inventory.request.submitted")
	assert.Contains(t, handler.EventTypes(), "inventory.request.approved")
	assert.Contains(t, handler.EventTypes(), "inventory.request.rejected")
	assert.Contains(t, handler.EventTypes(), "inventory.stock.changed")

	event := inventory.NewStockLevelChangedEvent(
		uuid.New(), uuid.New(), uuid.New(), uuid.New(),
		decimal.NewFromInt(5), decimal.NewFromInt(15),
	)
	require.NoError(t, handler.Handle(context.Background(), event))
}
