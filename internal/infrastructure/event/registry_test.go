package event

import (
	"context"
	"testing"

	"github.com/estatecrm/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

type recordingHandler struct {
	eventTypes []string
	handled    []shared.DomainEvent
}

func newRecordingHandler(eventTypes ...string) *recordingHandler {
	return &recordingHandler{eventTypes: eventTypes}
}

func (h *recordingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.handled = append(h.handled, event)
	return nil
}

func (h *recordingHandler) EventTypes() []string {
	return h.eventTypes
}

func TestHandlerRegistry_TypedRegistration(t *testing.T) {
	registry := NewHandlerRegistry()
	handler := newRecordingHandler("lead.created", "lead.converted")

	registry.Register(handler, "lead.created", "lead.converted")

	assert.Equal(t, []shared.EventHandler{handler}, registry.GetHandlers("lead.created"))
	assert.Equal(t, []shared.EventHandler{handler}, registry.GetHandlers("lead.converted"))
	assert.Empty(t, registry.GetHandlers("sale.completed"))
}

func TestHandlerRegistry_WildcardReceivesEverything(t *testing.T) {
	registry := NewHandlerRegistry()
	handler := newRecordingHandler()

	registry.Register(handler)

	assert.Len(t, registry.GetHandlers("lead.created"), 1)
	assert.Len(t, registry.GetHandlers("task.completed"), 1)
}

func TestHandlerRegistry_TypedHandlersPrecedeWildcard(t *testing.T) {
	registry := NewHandlerRegistry()
	typed := newRecordingHandler("lead.created")
	wildcard := newRecordingHandler()

	registry.Register(typed, "lead.created")
	registry.Register(wildcard)

	handlers := registry.GetHandlers("lead.created")
	assert.Equal(t, []shared.EventHandler{typed, wildcard}, handlers)

	handlers = registry.GetHandlers("sale.approved")
	assert.Equal(t, []shared.EventHandler{wildcard}, handlers)
}

func TestHandlerRegistry_UnregisterTyped(t *testing.T) {
	registry := NewHandlerRegistry()
	first := newRecordingHandler("lead.created")
	second := newRecordingHandler("lead.created")

	registry.Register(first, "lead.created")
	registry.Register(second, "lead.created")
	assert.Len(t, registry.GetHandlers("lead.created"), 2)

	registry.Unregister(first)

	assert.Equal(t, []shared.EventHandler{second}, registry.GetHandlers("lead.created"))
}

func TestHandlerRegistry_UnregisterWildcard(t *testing.T) {
	registry := NewHandlerRegistry()
	handler := newRecordingHandler()

	registry.Register(handler)
	assert.Len(t, registry.GetHandlers("lead.created"), 1)

	registry.Unregister(handler)

	assert.Empty(t, registry.GetHandlers("lead.created"))
}

func TestHandlerRegistry_GetAllHandlers(t *testing.T) {
	registry := NewHandlerRegistry()
	leadHandler := newRecordingHandler("lead.created")
	saleHandler := newRecordingHandler("sale.completed")
	auditLog := newRecordingHandler()

	registry.Register(leadHandler, "lead.created")
	registry.Register(saleHandler, "sale.completed")
	registry.Register(auditLog)

	assert.Len(t, registry.GetAllHandlers(), 3)
}

func TestHandlerRegistry_GetAllHandlers_DeduplicatesAcrossTypes(t *testing.T) {
	registry := NewHandlerRegistry()
	handler := newRecordingHandler("lead.created", "lead.converted")

	registry.Register(handler, "lead.created", "lead.converted")

	assert.Len(t, registry.GetAllHandlers(), 1)
}
