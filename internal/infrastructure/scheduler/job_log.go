package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/milkroute/backend/internal/infrastructure/persistence/models"
)

const (
	jobStatusRunning = "RUNNING"
	jobStatusSuccess = "SUCCESS"
	jobStatusFailed  = "FAILED"
)

// JobLogRepository records scheduled job runs for auditing
type JobLogRepository struct {
	db *gorm.DB
}

// NewJobLogRepository creates a new JobLogRepository
func NewJobLogRepository(db *gorm.DB) *JobLogRepository {
	return &JobLogRepository{db: db}
}

// RecordStart records the start of a job run
func (r *JobLogRepository) RecordStart(ctx context.Context, jobName string) (uuid.UUID, error) {
	now := time.Now()
	record := &models.SchedulerJobModel{
		JobName:   jobName,
		Status:    jobStatusRunning,
		StartedAt: now,
	}
	record.ID = uuid.New()
	record.CreatedAt = now
	record.UpdatedAt = now

	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return uuid.Nil, err
	}
	return record.ID, nil
}

// RecordComplete records the outcome of a job run
func (r *JobLogRepository) RecordComplete(ctx context.Context, id uuid.UUID, detail string, runErr error) error {
	now := time.Now()
	status := jobStatusSuccess
	errMsg := ""
	if runErr != nil {
		status = jobStatusFailed
		errMsg = runErr.Error()
	}

	return r.db.WithContext(ctx).
		Model(&models.SchedulerJobModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":      status,
			"detail":      detail,
			"error":       errMsg,
			"finished_at": now,
			"updated_at":  now,
		}).Error
}

// LastRun returns the most recent run for a job name
func (r *JobLogRepository) LastRun(ctx context.Context, jobName string) (*models.SchedulerJobModel, error) {
	var record models.SchedulerJobModel
	if err := r.db.WithContext(ctx).
		Where("job_name = ?", jobName).
		Order("started_at DESC").
		First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}
