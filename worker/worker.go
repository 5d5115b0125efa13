package worker

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"wastewise-backend/models"
	"wastewise-backend/utils"
	"wastewise-backend/utils/logger"

	"github.com/robfig/cron"
)

const provisionTimeout = 15 * time.Minute

// TokenCleaner drops expired entries from the access-token blacklist
type TokenCleaner interface {
	CleanupExpiredTokens() int
}

// Worker runs table provisioning and token blacklist cleanup on a cron schedule
type Worker struct {
	state   *models.Worker
	setup   *TableSetup
	locks   *LockManager
	status  *StatusManager
	cleaner TokenCleaner
	logger  logger.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// DefaultConfig returns the worker configuration for cfg's environment
func DefaultConfig(cfg *models.Config) *models.WorkerConfig {
	env := cfg.AppEnv
	if env == "" {
		env = "development"
	}
	return &models.WorkerConfig{
		ProvisionSchedule: getCronScheduleForEnvironment(env),
		CleanupSchedule:   "0 */5 * * * *",
		LockTimeout:       30 * time.Minute,
		MaxRetries:        5,
		RetryDelay:        2 * time.Second,
		BackoffMultiplier: 2.0,
		Environment:       env,
		RequiredTables:    cfg.Tables,
		LockFilePath:      filepath.Join(os.TempDir(), fmt.Sprintf("wastewise-infrastructure-%s.lock", env)),
		StatusFilePath:    filepath.Join(os.TempDir(), fmt.Sprintf("wastewise-status-%s.json", env)),
		DryRun:            os.Getenv("INFRASTRUCTURE_DRY_RUN") == "true",
	}
}

// NewWorker creates a worker. db may be nil, in which case only token cleanup runs.
func NewWorker(cfg *models.Config, wcfg *models.WorkerConfig, db models.TableProvisioner, cleaner TokenCleaner, log logger.Logger) (*Worker, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if log == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if err := validateWorkerConfig(wcfg); err != nil {
		return nil, fmt.Errorf("invalid worker configuration: %w", err)
	}

	hostname, err := os.Hostname()
	if err != nil || hostname == "" {
		hostname = "localhost"
	}

	w := &Worker{
		state: &models.Worker{
			Config:       cfg,
			WorkerConfig: wcfg,
			CronJob:      cron.New(),
			OwnerID:      fmt.Sprintf("worker-%s-%s", hostname, utils.GenerateUUID()[:8]),
		},
		locks:   NewLockManager(wcfg.LockFilePath, wcfg.LockTimeout, wcfg.Environment),
		status:  NewStatusManager(wcfg.StatusFilePath),
		cleaner: cleaner,
		logger:  log,
	}
	if db != nil {
		w.setup = NewTableSetup(db, cfg, log)
	}
	w.ctx, w.cancel = context.WithCancel(context.Background())
	return w, nil
}

// Start schedules the jobs. The first provisioning run is left to the caller
// through RunProvisioning so startup can wait for the tables.
func (w *Worker) Start() error {
	w.state.Mu.Lock()
	defer w.state.Mu.Unlock()

	if w.state.IsRunning {
		return fmt.Errorf("worker is already running")
	}
	if w.ctx.Err() != nil {
		return fmt.Errorf("worker has been stopped")
	}

	wcfg := w.state.WorkerConfig
	if w.cleaner != nil {
		if err := w.state.CronJob.AddFunc(wcfg.CleanupSchedule, w.cleanupJob); err != nil {
			return fmt.Errorf("failed to add cleanup job: %w", err)
		}
	}

	if w.setup == nil {
		if err := w.status.Begin(wcfg.Environment, models.StatusIdle); err != nil {
			w.logger.Warnf("Failed to write worker status: %v", err)
		}
	} else {
		if err := w.state.CronJob.AddFunc(wcfg.ProvisionSchedule, w.provisionJob); err != nil {
			return fmt.Errorf("failed to add provisioning job: %w", err)
		}
	}

	w.state.CronJob.Start()
	w.state.IsRunning = true
	w.logger.WithFields(map[string]interface{}{
		"owner":     w.state.OwnerID,
		"provision": wcfg.ProvisionSchedule,
		"cleanup":   wcfg.CleanupSchedule,
	}).Info("Infrastructure worker started")
	return nil
}

// Stop halts the scheduler and cancels any running provisioning
func (w *Worker) Stop() {
	w.state.StopOnce.Do(func() {
		w.state.Mu.Lock()
		defer w.state.Mu.Unlock()

		w.cancel()
		w.state.CronJob.Stop()
		w.state.IsRunning = false
		w.logger.Info("Infrastructure worker stopped")
	})
}

// IsRunning reports whether the scheduler is active
func (w *Worker) IsRunning() bool {
	w.state.Mu.Lock()
	defer w.state.Mu.Unlock()
	return w.state.IsRunning
}

func (w *Worker) provisionJob() {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Errorf("Provisioning job panicked: %v", r)
		}
	}()

	ctx, cancel := context.WithTimeout(w.ctx, provisionTimeout)
	defer cancel()

	if err := w.RunProvisioning(ctx); err != nil {
		w.logger.Errorf("Provisioning run failed: %v", err)
	}
}

func (w *Worker) cleanupJob() {
	if removed := w.cleaner.CleanupExpiredTokens(); removed > 0 {
		w.logger.Infof("Removed %d expired tokens from the blacklist", removed)
	}
}

// RunProvisioning creates missing tables under the provisioning lock, retrying
// with exponential backoff. A run that finds the lock held elsewhere is a no-op.
func (w *Worker) RunProvisioning(ctx context.Context) error {
	if w.setup == nil {
		return nil
	}
	wcfg := w.state.WorkerConfig

	lock, err := w.locks.AcquireLock(w.state.OwnerID)
	if err != nil {
		w.logger.Infof("Skipping provisioning: %v", err)
		return nil
	}
	defer func() {
		if err := w.locks.ReleaseLock(lock); err != nil {
			w.logger.Warnf("Failed to release provisioning lock: %v", err)
		}
	}()

	if err := w.status.Begin(wcfg.Environment, models.StatusRunning); err != nil {
		w.logger.Warnf("Failed to write worker status: %v", err)
	}

	if wcfg.DryRun {
		w.logger.Info("Dry run, no tables will be created")
		return w.status.MarkCompleted(nil)
	}

	var lastErr error
	for attempt := 0; attempt <= wcfg.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := w.calculateRetryDelay(attempt)
			w.logger.Infof("Retrying provisioning in %v (attempt %d/%d)", delay, attempt+1, wcfg.MaxRetries+1)
			if err := w.status.MarkRetrying(attempt, lastErr.Error()); err != nil {
				w.logger.Warnf("Failed to write worker status: %v", err)
			}

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				w.status.MarkFailed(ctx.Err().Error())
				return ctx.Err()
			}
		}

		created, err := w.setup.EnsureTables(ctx)
		if err == nil {
			w.logger.Infof("Provisioning completed, %d tables created", len(created))
			return w.status.MarkCompleted(created)
		}
		lastErr = err
		w.logger.Errorf("Provisioning attempt %d failed: %v", attempt+1, err)
	}

	w.status.MarkFailed(lastErr.Error())
	return fmt.Errorf("provisioning failed after %d attempts: %w", wcfg.MaxRetries+1, lastErr)
}

// calculateRetryDelay returns RetryDelay * BackoffMultiplier^(retryCount-1)
func (w *Worker) calculateRetryDelay(retryCount int) time.Duration {
	wcfg := w.state.WorkerConfig
	factor := math.Pow(wcfg.BackoffMultiplier, float64(retryCount-1))
	return time.Duration(float64(wcfg.RetryDelay) * factor)
}

// validateWorkerConfig validates the worker configuration
func validateWorkerConfig(config *models.WorkerConfig) error {
	if config == nil {
		return fmt.Errorf("worker config cannot be nil")
	}
	if config.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if config.LockTimeout <= 0 {
		return fmt.Errorf("lock timeout must be positive")
	}
	if config.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}
	if config.RetryDelay <= 0 {
		return fmt.Errorf("retry delay must be positive")
	}
	if config.BackoffMultiplier < 1.0 {
		return fmt.Errorf("backoff multiplier must be at least 1.0")
	}
	if config.LockFilePath == "" {
		return fmt.Errorf("lock file path is required")
	}
	if config.StatusFilePath == "" {
		return fmt.Errorf("status file path is required")
	}
	for _, schedule := range []string{config.ProvisionSchedule, config.CleanupSchedule} {
		if _, err := cron.Parse(schedule); err != nil {
			return fmt.Errorf("invalid cron schedule '%s': %w", schedule, err)
		}
	}
	return nil
}

// getCronScheduleForEnvironment returns environment-specific cron schedules
func getCronScheduleForEnvironment(env string) string {
	switch env {
	case "development":
		return "0 */1 * * * *"
	case "production":
		return "0 */15 * * * *"
	default:
		return "0 */10 * * * *"
	}
}
