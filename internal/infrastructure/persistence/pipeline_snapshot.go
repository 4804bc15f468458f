package persistence

import (
	"context"
	"time"

	"github.com/estatecrm/backend/internal/domain/crm"
	"github.com/estatecrm/backend/internal/domain/task"
	"github.com/estatecrm/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPipelineSnapshotProvider reads pipeline gauge values straight from
// the database. It backs the periodic telemetry collection and is kept
// separate from the repositories so the metrics queries can stay cheap
// aggregate scans.
type GormPipelineSnapshotProvider struct {
	db *gorm.DB
}

// NewGormPipelineSnapshotProvider creates a new GormPipelineSnapshotProvider
func NewGormPipelineSnapshotProvider(db *gorm.DB) *GormPipelineSnapshotProvider {
	return &GormPipelineSnapshotProvider{db: db}
}

// GetOpenLeadCountByStatus returns the count of non-terminal leads per status
func (p *GormPipelineSnapshotProvider) GetOpenLeadCountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}

	var rows []statusCount
	err := p.db.WithContext(ctx).Model(&models.LeadModel{}).
		Select("status, COUNT(*) as count").
		Where("status NOT IN ?", []crm.LeadStatus{crm.LeadStatusConverted, crm.LeadStatusLost}).
		Group("status").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// GetOverdueTaskCount returns the count of open tasks past their due time
func (p *GormPipelineSnapshotProvider) GetOverdueTaskCount(ctx context.Context) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).Model(&models.TaskModel{}).
		Where("due_at IS NOT NULL AND due_at < ? AND status NOT IN ?",
			time.Now(), []task.TaskStatus{task.TaskStatusCompleted, task.TaskStatusCancelled}).
		Count(&count).Error
	return count, err
}
