package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ContactNote is a simple model for testing database operations
type ContactNote struct {
	ID        uint   `gorm:"primaryKey"`
	Body      string `gorm:"size:200"`
	CreatedAt time.Time
}

// setupTestDB creates a new SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&ContactNote{})
	require.NoError(t, err)

	return db
}

// setupTracerWithExporter creates a tracer provider with a span recorder for testing
func setupTracerWithExporter(t *testing.T) (*trace.TracerProvider, *tracetest.SpanRecorder) {
	spanRecorder := tracetest.NewSpanRecorder()
	tp := trace.NewTracerProvider(trace.WithSpanProcessor(spanRecorder))
	return tp, spanRecorder
}

func newTestPlugin(thresh time.Duration) *DBTracingPlugin {
	cfg := DBTracingConfig{
		Enabled:         true,
		LogFullSQL:      false,
		SlowQueryThresh: thresh,
		DBSystem:        "sqlite",
	}
	return NewDBTracingPlugin(cfg, zap.NewNop())
}

func TestDefaultDBTracingConfig(t *testing.T) {
	cfg := DefaultDBTracingConfig()

	assert.False(t, cfg.Enabled)
	assert.False(t, cfg.LogFullSQL, "query parameters must stay out of spans by default")
	assert.Equal(t, 200*time.Millisecond, cfg.SlowQueryThresh)
	assert.Equal(t, "postgresql", cfg.DBSystem)
}

func TestNewDBTracingPlugin(t *testing.T) {
	logger := zap.NewNop()
	cfg := DefaultDBTracingConfig()
	cfg.Enabled = true

	plugin := NewDBTracingPlugin(cfg, logger)

	assert.NotNil(t, plugin)
	assert.Equal(t, cfg, plugin.config)
}

func TestDBTracingPlugin_RegisterOtelGorm_Disabled(t *testing.T) {
	db := setupTestDB(t)
	logger := zap.NewNop()

	cfg := DefaultDBTracingConfig()
	cfg.Enabled = false

	plugin := NewDBTracingPlugin(cfg, logger)
	err := plugin.RegisterOtelGorm(db)

	assert.NoError(t, err)
}

func TestDBTracingPlugin_RegisterOtelGorm_Enabled(t *testing.T) {
	db := setupTestDB(t)

	plugin := newTestPlugin(200 * time.Millisecond)
	err := plugin.RegisterOtelGorm(db)

	assert.NoError(t, err)
}

func TestDBTracingPlugin_RegisterOtelGorm_WithFullSQL(t *testing.T) {
	db := setupTestDB(t)
	logger := zap.NewNop()

	cfg := DBTracingConfig{
		Enabled:         true,
		LogFullSQL:      true,
		SlowQueryThresh: 200 * time.Millisecond,
		DBSystem:        "sqlite",
	}

	plugin := NewDBTracingPlugin(cfg, logger)
	err := plugin.RegisterOtelGorm(db)

	assert.NoError(t, err)
}

func TestDBTracingPlugin_RegisterOtelGorm_DoubleRegistration(t *testing.T) {
	db := setupTestDB(t)

	plugin := newTestPlugin(200 * time.Millisecond)

	// First registration should succeed
	err := plugin.RegisterOtelGorm(db)
	assert.NoError(t, err)

	// Second registration should fail (duplicate plugin/callback names)
	err = plugin.RegisterOtelGorm(db)
	assert.Error(t, err)
}

func TestSlowQueryCallback_RowsAffected(t *testing.T) {
	db := setupTestDB(t)
	tp, spanRecorder := setupTracerWithExporter(t)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	tracer := tp.Tracer("test")
	ctx, span := tracer.Start(context.Background(), "rows-affected-test")

	db = db.WithContext(ctx)
	plugin := newTestPlugin(200 * time.Millisecond)

	// Create multiple records
	notes := []ContactNote{{Body: "first"}, {Body: "second"}, {Body: "third"}}
	result := db.Create(&notes)
	require.NoError(t, result.Error)

	plugin.enrichSpan(result.Statement.DB)
	span.End()

	spans := spanRecorder.Ended()
	require.NotEmpty(t, spans)

	testSpan := spans[0]
	foundRows := false
	for _, attr := range testSpan.Attributes() {
		if attr.Key == "db.rows_affected" {
			foundRows = true
			assert.Equal(t, int64(3), attr.Value.AsInt64())
			break
		}
	}
	assert.True(t, foundRows, "db.rows_affected attribute should be present")
}

func TestSlowQueryCallback_TableAttribute(t *testing.T) {
	db := setupTestDB(t)
	tp, spanRecorder := setupTracerWithExporter(t)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	tracer := tp.Tracer("test")
	ctx, span := tracer.Start(context.Background(), "table-test")

	db = db.WithContext(ctx)
	plugin := newTestPlugin(200 * time.Millisecond)

	result := db.Create(&ContactNote{Body: "tabled"})
	require.NoError(t, result.Error)

	plugin.enrichSpan(result.Statement.DB)
	span.End()

	spans := spanRecorder.Ended()
	require.NotEmpty(t, spans)

	testSpan := spans[0]
	for _, attr := range testSpan.Attributes() {
		if attr.Key == "db.sql.table" {
			assert.Equal(t, "contact_notes", attr.Value.AsString())
			break
		}
	}
}

func TestSlowQueryCallback_SlowQuery(t *testing.T) {
	// Very low threshold so any query counts as slow
	plugin := newTestPlugin(1 * time.Nanosecond)

	db := setupTestDB(t)
	tp, spanRecorder := setupTracerWithExporter(t)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	tracer := tp.Tracer("test")
	ctx, span := tracer.Start(context.Background(), "slow-query-test")

	// Set query start time in context
	ctx = WithQueryStartTime(ctx)
	time.Sleep(1 * time.Millisecond)

	db = db.WithContext(ctx)
	var note ContactNote
	db.First(&note)

	plugin.enrichSpan(db.Statement.DB)
	span.End()

	spans := spanRecorder.Ended()
	require.NotEmpty(t, spans)

	testSpan := spans[0]
	foundEvent := false
	for _, event := range testSpan.Events() {
		if event.Name == "slow_query_warning" {
			foundEvent = true
			for _, attr := range event.Attributes {
				if attr.Key == "duration_ms" {
					assert.True(t, attr.Value.AsInt64() >= 0)
				}
			}
		}
	}
	// Event may or may not be recorded depending on timing
	_ = foundEvent
}

func TestSlowQueryCallback_RecordNotFoundIsNotAnError(t *testing.T) {
	db := setupTestDB(t)
	tp, spanRecorder := setupTracerWithExporter(t)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	tracer := tp.Tracer("test")
	ctx, span := tracer.Start(context.Background(), "error-test")

	db = db.WithContext(ctx)
	plugin := newTestPlugin(200 * time.Millisecond)

	// Missing record sets db.Error = ErrRecordNotFound
	var note ContactNote
	tx := db.First(&note, 99999)

	plugin.enrichSpan(tx)
	span.End()

	spans := spanRecorder.Ended()
	require.NotEmpty(t, spans)

	testSpan := spans[0]
	assert.NotEqual(t, codes.Error, testSpan.Status().Code)
}

func TestSlowQueryCallback_NonRecordingSpan(t *testing.T) {
	db := setupTestDB(t)
	plugin := newTestPlugin(200 * time.Millisecond)

	// Context without a span
	ctx := context.Background()
	db = db.WithContext(ctx)

	// Should not panic without a recording span
	plugin.enrichSpan(db)
}

func TestSlowQueryCallback_NilContext(t *testing.T) {
	plugin := newTestPlugin(200 * time.Millisecond)

	// DB without context
	db := setupTestDB(t)

	// Should not panic with nil context
	plugin.enrichSpan(db)
}

func TestWithQueryStartTime(t *testing.T) {
	ctx := context.Background()
	ctx = WithQueryStartTime(ctx)

	startTime, ok := ctx.Value(queryStartTimeKey).(time.Time)
	assert.True(t, ok)
	assert.WithinDuration(t, time.Now(), startTime, 1*time.Second)
}

func TestDBTracingPlugin_IntegrationWithOtelGorm(t *testing.T) {
	db := setupTestDB(t)
	tp, spanRecorder := setupTracerWithExporter(t)
	defer func() { _ = tp.Shutdown(context.Background()) }()
	logger := zap.NewNop()

	cfg := DBTracingConfig{
		Enabled:         true,
		LogFullSQL:      true,
		SlowQueryThresh: 200 * time.Millisecond,
		DBSystem:        "sqlite",
	}

	plugin := NewDBTracingPlugin(cfg, logger)
	err := plugin.RegisterOtelGorm(db)
	require.NoError(t, err)

	// Create a traced context
	tracer := tp.Tracer("test")
	ctx, span := tracer.Start(context.Background(), "integration-test")

	// Perform database operations
	db = db.WithContext(ctx)
	result := db.Create(&ContactNote{Body: "integration-test"})
	require.NoError(t, result.Error)

	var found ContactNote
	result = db.First(&found, "body = ?", "integration-test")
	require.NoError(t, result.Error)
	assert.Equal(t, "integration-test", found.Body)

	span.End()

	// Check that spans were recorded
	spans := spanRecorder.Ended()
	assert.NotEmpty(t, spans)
}

