package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// cronTickerInterval is the interval at which the scheduler checks for due jobs
const cronTickerInterval = 1 * time.Minute

// Config holds configuration for the cron scheduler
type Config struct {
	// Enabled indicates if the scheduler is enabled
	Enabled bool
	// JobTimeout is the maximum time a single job run may take
	JobTimeout time.Duration
	// RetryAttempts is the number of retry attempts for failed runs
	RetryAttempts int
	// RetryDelay is the delay between retries
	RetryDelay time.Duration
}

// DefaultConfig returns default scheduler configuration
func DefaultConfig() Config {
	return Config{
		Enabled:       true,
		JobTimeout:    10 * time.Minute,
		RetryAttempts: 3,
		RetryDelay:    2 * time.Minute,
	}
}

// ParseCronSchedule parses a cron expression "minute hour * * *" to extract
// hour and minute. Returns defaults (5:00) if the expression is empty.
func ParseCronSchedule(cronExpr string) (hour, minute int, err error) {
	hour = 5
	minute = 0

	if cronExpr == "" {
		return hour, minute, nil
	}

	parts := strings.Fields(cronExpr)
	if len(parts) < 2 {
		return hour, minute, nil
	}

	if parts[0] != "*" {
		if val, parseErr := parseIntOrDefault(parts[0], 0); parseErr == nil {
			minute = val
		}
	}
	if parts[1] != "*" {
		if val, parseErr := parseIntOrDefault(parts[1], 5); parseErr == nil {
			hour = val
		}
	}

	if minute < 0 || minute > 59 {
		return 5, 0, fmt.Errorf("minute must be 0-59, got %d", minute)
	}
	if hour < 0 || hour > 23 {
		return 5, 0, fmt.Errorf("hour must be 0-23, got %d", hour)
	}

	return hour, minute, nil
}

// parseIntOrDefault parses an int string or returns default
func parseIntOrDefault(s string, defaultVal int) (int, error) {
	if s == "" || s == "*" {
		return defaultVal, nil
	}
	var val int
	for _, c := range s {
		if c < '0' || c > '9' {
			return defaultVal, ErrInvalidConfig
		}
		val = val*10 + int(c-'0')
	}
	return val, nil
}

// RunFunc executes one job run and returns a human-readable detail for the
// job log
type RunFunc func(ctx context.Context) (string, error)

// Job is one daily task with its own fire time
type Job struct {
	Name   string
	Hour   int
	Minute int
	Run    RunFunc

	mu        sync.Mutex
	lastRunAt *time.Time
	nextRunAt *time.Time
}

// NewJob creates a job firing daily at the hour and minute extracted from the
// cron expression
func NewJob(name, cronExpr string, run RunFunc) (*Job, error) {
	hour, minute, err := ParseCronSchedule(cronExpr)
	if err != nil {
		return nil, err
	}
	job := &Job{Name: name, Hour: hour, Minute: minute, Run: run}
	job.calculateNextRun(time.Now())
	return job, nil
}

// shouldRun checks whether this job fires at the given wall-clock minute
func (j *Job) shouldRun(now time.Time) bool {
	return now.Hour() == j.Hour && now.Minute() == j.Minute
}

func (j *Job) calculateNextRun(now time.Time) {
	next := time.Date(now.Year(), now.Month(), now.Day(), j.Hour, j.Minute, 0, 0, now.Location())
	if now.After(next) {
		next = next.AddDate(0, 0, 1)
	}
	j.mu.Lock()
	j.nextRunAt = &next
	j.mu.Unlock()
}

func (j *Job) markRun(now time.Time) {
	j.mu.Lock()
	j.lastRunAt = &now
	j.mu.Unlock()
}

// Status reports the job's run bookkeeping
func (j *Job) Status() map[string]any {
	j.mu.Lock()
	defer j.mu.Unlock()
	return map[string]any{
		"name":        j.Name,
		"hour":        j.Hour,
		"minute":      j.Minute,
		"last_run_at": j.lastRunAt,
		"next_run_at": j.nextRunAt,
	}
}

// CronScheduler fires registered daily jobs at their configured times.
// Each run is logged to the scheduler job table and retried on failure.
type CronScheduler struct {
	config Config
	jobs   []*Job
	jobLog *JobLogRepository
	logger *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewCronScheduler creates a scheduler over the given jobs
func NewCronScheduler(config Config, jobLog *JobLogRepository, logger *zap.Logger, jobs ...*Job) *CronScheduler {
	return &CronScheduler{
		config: config,
		jobs:   jobs,
		jobLog: jobLog,
		logger: logger,
	}
}

// Start starts the scheduler loop
func (s *CronScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.loop(ctx)

	for _, job := range s.jobs {
		s.logger.Info("Scheduled daily job",
			zap.String("job", job.Name),
			zap.Int("hour", job.Hour),
			zap.Int("minute", job.Minute))
	}

	return nil
}

// Stop stops the scheduler, waiting for the loop to exit
func (s *CronScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Cron scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Cron scheduler stop timed out")
		return ctx.Err()
	}
}

func (s *CronScheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(cronTickerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			for _, job := range s.jobs {
				if job.shouldRun(now) {
					s.runJob(ctx, job)
					job.calculateNextRun(now)
				}
			}
		}
	}
}

// runJob runs one job with timeout and retries, logging the run outcome
func (s *CronScheduler) runJob(ctx context.Context, job *Job) {
	job.markRun(time.Now())

	var logID uuid.UUID
	if s.jobLog != nil {
		var logErr error
		logID, logErr = s.jobLog.RecordStart(ctx, job.Name)
		if logErr != nil {
			s.logger.Warn("Failed to record job start",
				zap.String("job", job.Name),
				zap.Error(logErr))
		}
	}

	detail, err := s.runWithRetry(ctx, job)
	if err != nil {
		s.logger.Error("Scheduled job failed",
			zap.String("job", job.Name),
			zap.Error(err))
		if s.jobLog != nil && logID != uuid.Nil {
			_ = s.jobLog.RecordComplete(ctx, logID, detail, err)
		}
		return
	}

	s.logger.Info("Scheduled job finished",
		zap.String("job", job.Name),
		zap.String("detail", detail))
	if s.jobLog != nil && logID != uuid.Nil {
		_ = s.jobLog.RecordComplete(ctx, logID, detail, nil)
	}
}

func (s *CronScheduler) runWithRetry(ctx context.Context, job *Job) (string, error) {
	var detail string
	var err error

	attempts := s.config.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		runCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
		detail, err = job.Run(runCtx)
		cancel()

		if err == nil {
			return detail, nil
		}

		s.logger.Warn("Job run failed",
			zap.String("job", job.Name),
			zap.Int("attempt", attempt),
			zap.Error(err))

		if attempt < attempts {
			select {
			case <-ctx.Done():
				return detail, ctx.Err()
			case <-time.After(s.config.RetryDelay):
			}
		}
	}

	return detail, err
}

// TriggerManualRun runs a named job immediately, outside its schedule.
// A background context keeps the run alive after the calling request returns.
func (s *CronScheduler) TriggerManualRun(name string) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.mu.Unlock()

	for _, job := range s.jobs {
		if job.Name == name {
			go s.runJob(context.Background(), job)
			return nil
		}
	}
	return ErrJobNotFound
}

// GetStatus returns the scheduler and per-job status
func (s *CronScheduler) GetStatus() map[string]any {
	s.mu.Lock()
	running := s.isRunning
	s.mu.Unlock()

	jobs := make([]map[string]any, len(s.jobs))
	for i, job := range s.jobs {
		jobs[i] = job.Status()
	}

	return map[string]any{
		"enabled":    s.config.Enabled,
		"is_running": running,
		"jobs":       jobs,
	}
}
