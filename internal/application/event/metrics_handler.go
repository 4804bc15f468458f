package event

import (
	"context"

	"github.com/estatecrm/backend/internal/domain/crm"
	"github.com/estatecrm/backend/internal/domain/sales"
	"github.com/estatecrm/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PipelineRecorder receives pipeline counter updates. It is implemented by
// telemetry.PipelineMetrics.
type PipelineRecorder interface {
	RecordLeadCreated(ctx context.Context, source string)
	RecordLeadConverted(ctx context.Context, source string)
	RecordSaleCompleted(ctx context.Context, amount decimal.Decimal)
}

// PipelineMetricsHandler feeds pipeline counters from domain events, so the
// services stay free of telemetry concerns.
type PipelineMetricsHandler struct {
	recorder PipelineRecorder
}

// NewPipelineMetricsHandler creates a new PipelineMetricsHandler
func NewPipelineMetricsHandler(recorder PipelineRecorder) *PipelineMetricsHandler {
	return &PipelineMetricsHandler{recorder: recorder}
}

// Handle updates the matching counter for the event
func (h *PipelineMetricsHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *crm.LeadCreatedEvent:
		h.recorder.RecordLeadCreated(ctx, e.Source)
	case *crm.LeadConvertedEvent:
		h.recorder.RecordLeadConverted(ctx, e.Source)
	case *sales.SaleStatusChangedEvent:
		if e.NewStatus == sales.SaleStatusCompleted {
			h.recorder.RecordSaleCompleted(ctx, e.FinalAmount)
		}
	}
	return nil
}

// EventTypes returns the event types the handler subscribes to
func (h *PipelineMetricsHandler) EventTypes() []string {
	return []string{
		crm.EventLeadCreated,
		crm.EventLeadConverted,
		sales.EventSaleStatusChanged,
	}
}
