// Package telemetry provides OpenTelemetry integration for distributed tracing.
package telemetry

import (
	"context"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	Enabled         bool
	// LogFullSQL includes query parameters in spans. Leave off in
	// production; lead and client rows carry contact data.
	LogFullSQL      bool
	SlowQueryThresh time.Duration
	DBSystem        string
}

// DefaultDBTracingConfig returns the secure defaults: tracing off, query
// variables stripped, 200ms slow-query threshold.
func DefaultDBTracingConfig() DBTracingConfig {
	return DBTracingConfig{
		Enabled:         false,
		LogFullSQL:      false,
		SlowQueryThresh: 200 * time.Millisecond,
		DBSystem:        "postgresql",
	}
}

// DBTracingPlugin wires otelgorm into a gorm DB and layers slow-query and
// error marking on top of the spans otelgorm creates.
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

// NewDBTracingPlugin creates a plugin with the given configuration
func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	return &DBTracingPlugin{config: cfg, logger: logger}
}

// RegisterOtelGorm registers otelgorm plus the timing callbacks on db.
// A disabled config is a no-op, not an error.
func (p *DBTracingPlugin) RegisterOtelGorm(db *gorm.DB) error {
	if !p.config.Enabled {
		p.logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(p.config.DBSystem)}
	if !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}

	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}
	if err := p.registerTimingCallbacks(db); err != nil {
		return err
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.config.LogFullSQL),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
		zap.String("db_system", p.config.DBSystem),
	)
	return nil
}

// registerTimingCallbacks brackets every gorm operation with a start-time
// capture and the span enrichment callback.
func (p *DBTracingPlugin) registerTimingCallbacks(db *gorm.DB) error {
	markStart := func(db *gorm.DB) {
		if db.Statement.Context != nil {
			db.Statement.Context = WithQueryStartTime(db.Statement.Context)
		}
	}

	registrations := []func() error{
		func() error { return db.Callback().Create().Before("gorm:create").Register("otel_timing:before_create", markStart) },
		func() error { return db.Callback().Query().Before("gorm:query").Register("otel_timing:before_query", markStart) },
		func() error { return db.Callback().Update().Before("gorm:update").Register("otel_timing:before_update", markStart) },
		func() error { return db.Callback().Delete().Before("gorm:delete").Register("otel_timing:before_delete", markStart) },
		func() error { return db.Callback().Row().Before("gorm:row").Register("otel_timing:before_row", markStart) },
		func() error { return db.Callback().Raw().Before("gorm:raw").Register("otel_timing:before_raw", markStart) },
		func() error { return db.Callback().Create().After("gorm:create").Register("otel_slow_query:create", p.enrichSpan) },
		func() error { return db.Callback().Query().After("gorm:query").Register("otel_slow_query:query", p.enrichSpan) },
		func() error { return db.Callback().Update().After("gorm:update").Register("otel_slow_query:update", p.enrichSpan) },
		func() error { return db.Callback().Delete().After("gorm:delete").Register("otel_slow_query:delete", p.enrichSpan) },
		func() error { return db.Callback().Row().After("gorm:row").Register("otel_slow_query:row", p.enrichSpan) },
		func() error { return db.Callback().Raw().After("gorm:raw").Register("otel_slow_query:raw", p.enrichSpan) },
	}

	for _, register := range registrations {
		if err := register(); err != nil {
			return err
		}
	}
	return nil
}

// enrichSpan runs after each operation inside the otelgorm span. It records
// row counts and table names, marks real errors, and flags slow queries.
func (p *DBTracingPlugin) enrichSpan(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}

	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}

	if db.Statement.RowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	}
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}

	// not-found is a domain outcome, not a failure
	if db.Error != nil && db.Error != gorm.ErrRecordNotFound {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	startTime, ok := ctx.Value(queryStartTimeKey).(time.Time)
	if !ok {
		return
	}
	elapsed := time.Since(startTime)
	if elapsed <= p.config.SlowQueryThresh {
		return
	}

	span.SetAttributes(
		attribute.Bool("db.slow_query", true),
		attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
	)
	span.AddEvent("slow_query_warning", trace.WithAttributes(
		attribute.Int64("duration_ms", elapsed.Milliseconds()),
		attribute.Int64("threshold_ms", p.config.SlowQueryThresh.Milliseconds()),
	))
}

type contextKey string

const queryStartTimeKey contextKey = "otel_query_start_time"

// WithQueryStartTime stamps the context with the current time so the after
// callback can compute query duration.
func WithQueryStartTime(ctx context.Context) context.Context {
	return context.WithValue(ctx, queryStartTimeKey, time.Now())
}
