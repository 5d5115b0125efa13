package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"wastewise-backend/models"
	"wastewise-backend/utils/logger"
)

// InfrastructureService reports on the background provisioning worker
type InfrastructureService struct {
	statusFilePath string
	staleAfter     time.Duration
	logger         logger.Logger
}

func NewInfrastructureService(statusFilePath string, log logger.Logger) *InfrastructureService {
	return &InfrastructureService{
		statusFilePath: statusFilePath,
		staleAfter:     30 * time.Minute,
		logger:         log,
	}
}

// GetWorkerStatus reads the last provisioning result written by the worker
func (s *InfrastructureService) GetWorkerStatus(ctx context.Context) (*models.ExecutionResult, error) {
	data, err := os.ReadFile(s.statusFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read worker status file: %w", err)
	}

	var result models.ExecutionResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal worker status: %w", err)
	}
	return &result, nil
}

// IsWorkerHealthy reports whether the last provisioning run left the store usable
func (s *InfrastructureService) IsWorkerHealthy(ctx context.Context) (bool, string) {
	result, err := s.GetWorkerStatus(ctx)
	if err != nil {
		return false, "worker status unavailable"
	}

	switch result.Status {
	case models.StatusCompleted:
		if result.Success {
			return true, "tables provisioned"
		}
		return false, result.ErrorMessage
	case models.StatusRunning, models.StatusRetrying:
		if time.Since(result.StartTime) > s.staleAfter {
			return false, fmt.Sprintf("worker has been %s since %s", result.Status, result.StartTime.Format(time.RFC3339))
		}
		return true, fmt.Sprintf("worker is %s", result.Status)
	case models.StatusFailed:
		return false, result.ErrorMessage
	default:
		return true, string(result.Status)
	}
}
