// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// PipelineMetrics provides business metrics for the sales pipeline.
// It tracks lead intake, conversions, closed sales, and task health.
type PipelineMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	leadCreatedTotal            *Counter
	leadConvertedTotal          *Counter
	saleCompletedTotal          *Counter
	saleAmountTotal             *Counter
	notificationDispatchedTotal *Counter

	// Gauge metrics (point-in-time values)
	openLeadCount    *Gauge
	overdueTaskCount *Gauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	// Data provider for periodic collection
	snapshotProvider PipelineSnapshotProvider
}

// PipelineSnapshotProvider provides pipeline state for periodic metrics
// collection. This interface allows the telemetry layer to query pipeline
// state without depending on the domain packages directly.
type PipelineSnapshotProvider interface {
	// GetOpenLeadCountByStatus returns the count of non-terminal leads per status
	GetOpenLeadCountByStatus(ctx context.Context) (map[string]int64, error)

	// GetOverdueTaskCount returns the count of open tasks past their due time
	GetOverdueTaskCount(ctx context.Context) (int64, error)
}

// PipelineMetricsConfig holds configuration for pipeline metrics.
type PipelineMetricsConfig struct {
	Meter            metric.Meter
	Logger           *zap.Logger
	CollectInterval  time.Duration // Default: 5 minutes
	SnapshotProvider PipelineSnapshotProvider
}

// NewPipelineMetrics creates a new PipelineMetrics instance.
func NewPipelineMetrics(cfg PipelineMetricsConfig) (*PipelineMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	pm := &PipelineMetrics{
		meter:            cfg.Meter,
		logger:           logger,
		stopChan:         make(chan struct{}),
		snapshotProvider: cfg.SnapshotProvider,
	}

	var err error

	// Lead metrics
	pm.leadCreatedTotal, err = NewCounter(
		cfg.Meter,
		"crm_lead_created_total",
		"Total number of leads captured",
		"{leads}",
	)
	if err != nil {
		return nil, err
	}

	pm.leadConvertedTotal, err = NewCounter(
		cfg.Meter,
		"crm_lead_converted_total",
		"Total number of leads converted to clients",
		"{leads}",
	)
	if err != nil {
		return nil, err
	}

	// Sale metrics
	pm.saleCompletedTotal, err = NewCounter(
		cfg.Meter,
		"crm_sale_completed_total",
		"Total number of completed sales",
		"{sales}",
	)
	if err != nil {
		return nil, err
	}

	pm.saleAmountTotal, err = NewCounter(
		cfg.Meter,
		"crm_sale_amount_total",
		"Total completed sale amount in cents",
		"{cents}",
	)
	if err != nil {
		return nil, err
	}

	// Notification metrics
	pm.notificationDispatchedTotal, err = NewCounter(
		cfg.Meter,
		"crm_notification_dispatched_total",
		"Total number of notifications dispatched",
		"{notifications}",
	)
	if err != nil {
		return nil, err
	}

	// Pipeline gauge metrics
	pm.openLeadCount, err = NewGauge(
		cfg.Meter,
		"crm_open_lead_count",
		"Current number of non-terminal leads",
		"{leads}",
	)
	if err != nil {
		return nil, err
	}

	pm.overdueTaskCount, err = NewGauge(
		cfg.Meter,
		"crm_overdue_task_count",
		"Number of open tasks past their due time",
		"{tasks}",
	)
	if err != nil {
		return nil, err
	}

	return pm, nil
}

// =============================================================================
// Lead Metrics
// =============================================================================

// RecordLeadCreated records a lead capture event.
// This should be called from the application layer when a lead is created.
func (pm *PipelineMetrics) RecordLeadCreated(ctx context.Context, source string) {
	pm.leadCreatedTotal.Inc(ctx,
		AttrLeadSource.String(source),
	)
}

// RecordLeadConverted records a lead-to-client conversion event.
func (pm *PipelineMetrics) RecordLeadConverted(ctx context.Context, source string) {
	pm.leadConvertedTotal.Inc(ctx,
		AttrLeadSource.String(source),
	)
}

// =============================================================================
// Sale Metrics
// =============================================================================

// RecordSaleCompleted records a completed sale and its amount.
// Amount should be the final sale price.
func (pm *PipelineMetrics) RecordSaleCompleted(ctx context.Context, amount decimal.Decimal) {
	pm.saleCompletedTotal.Inc(ctx)

	// Convert to cents (multiply by 100)
	amountCents := amount.Mul(decimal.NewFromInt(100)).IntPart()
	pm.saleAmountTotal.Add(ctx, amountCents)
}

// =============================================================================
// Notification Metrics
// =============================================================================

// RecordNotificationDispatched records a dispatched notification.
// This should be called when the async dispatcher completes a delivery.
func (pm *PipelineMetrics) RecordNotificationDispatched(ctx context.Context, notificationType string) {
	pm.notificationDispatchedTotal.Inc(ctx,
		AttrNotificationType.String(notificationType),
	)
}

// =============================================================================
// Periodic Collection
// =============================================================================

// StartPeriodicCollection starts periodic collection of gauge metrics.
// It collects pipeline snapshots every interval (default: 5 minutes).
// This is non-blocking - use Stop() to stop collection.
func (pm *PipelineMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	pm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}

		go pm.runPeriodicCollection(ctx, interval)
	})
}

// runPeriodicCollection runs the periodic collection loop.
func (pm *PipelineMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect immediately on start
	pm.collectPipelineSnapshot(ctx)

	for {
		select {
		case <-pm.stopChan:
			pm.logger.Info("Stopping periodic pipeline metrics collection")
			return
		case <-ctx.Done():
			pm.logger.Info("Context cancelled, stopping periodic pipeline metrics collection")
			return
		case <-ticker.C:
			pm.collectPipelineSnapshot(ctx)
		}
	}
}

// collectPipelineSnapshot collects pipeline gauge metrics.
func (pm *PipelineMetrics) collectPipelineSnapshot(ctx context.Context) {
	if pm.snapshotProvider == nil {
		pm.logger.Debug("No snapshot provider configured, skipping pipeline metrics collection")
		return
	}

	openByStatus, err := pm.snapshotProvider.GetOpenLeadCountByStatus(ctx)
	if err != nil {
		pm.logger.Warn("Failed to get open lead counts", zap.Error(err))
	} else {
		for status, count := range openByStatus {
			pm.openLeadCount.Record(ctx, count,
				AttrLeadStatus.String(status),
			)
		}
	}

	overdue, err := pm.snapshotProvider.GetOverdueTaskCount(ctx)
	if err != nil {
		pm.logger.Warn("Failed to get overdue task count", zap.Error(err))
	} else {
		pm.overdueTaskCount.Record(ctx, overdue)
	}
}

// Stop stops the periodic collection.
func (pm *PipelineMetrics) Stop() {
	pm.stopOnce.Do(func() {
		close(pm.stopChan)
	})
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewPipelineMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
