package worker

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"wastewise-backend/models"
)

// StatusManager persists the latest provisioning result to a JSON file
// that the API reads for GET /admin/worker-status.
type StatusManager struct {
	statusFilePath string
	mu             sync.Mutex
	current        *models.ExecutionResult
}

// NewStatusManager creates a new status manager
func NewStatusManager(statusPath string) *StatusManager {
	return &StatusManager{statusFilePath: statusPath}
}

// Begin starts a new run record in status
func (sm *StatusManager) Begin(env string, status models.WorkerStatus) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.current = &models.ExecutionResult{
		Status:        status,
		StartTime:     time.Now(),
		Environment:   env,
		TablesCreated: []string{},
		Success:       status == models.StatusIdle,
	}
	return sm.save()
}

// MarkRetrying records a failed attempt that will be retried
func (sm *StatusManager) MarkRetrying(retryCount int, message string) error {
	return sm.update(func(r *models.ExecutionResult) {
		r.Status = models.StatusRetrying
		r.RetryCount = retryCount
		r.ErrorMessage = message
	})
}

// MarkCompleted finishes the run successfully
func (sm *StatusManager) MarkCompleted(tablesCreated []string) error {
	return sm.update(func(r *models.ExecutionResult) {
		r.Status = models.StatusCompleted
		r.Success = true
		r.ErrorMessage = ""
		r.TablesCreated = append([]string{}, tablesCreated...)
	})
}

// MarkFailed finishes the run with an error
func (sm *StatusManager) MarkFailed(message string) error {
	return sm.update(func(r *models.ExecutionResult) {
		r.Status = models.StatusFailed
		r.Success = false
		r.ErrorMessage = message
	})
}

// LoadStatus reads the status file
func (sm *StatusManager) LoadStatus() (*models.ExecutionResult, error) {
	data, err := os.ReadFile(sm.statusFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read status file: %w", err)
	}

	var result models.ExecutionResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal status: %w", err)
	}
	return &result, nil
}

func (sm *StatusManager) update(fn func(*models.ExecutionResult)) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.current == nil {
		return fmt.Errorf("no provisioning run in progress")
	}
	fn(sm.current)
	return sm.save()
}

// save must be called with mu held
func (sm *StatusManager) save() error {
	if err := os.MkdirAll(filepath.Dir(sm.statusFilePath), 0755); err != nil {
		return fmt.Errorf("failed to create status directory: %w", err)
	}

	r := sm.current
	if r.Status == models.StatusCompleted || r.Status == models.StatusFailed {
		now := time.Now()
		r.EndTime = &now
		r.Duration = now.Sub(r.StartTime)
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal status: %w", err)
	}
	return writeFileAtomic(sm.statusFilePath, data)
}
