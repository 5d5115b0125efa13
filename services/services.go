package services

import (
	"wastewise-backend/events"
	"wastewise-backend/models"
	"wastewise-backend/repository"
	"wastewise-backend/storage"
	"wastewise-backend/utils/logger"
)

// Service implements ServiceContainerInterface
type Service struct {
	userService           UserServiceInterface
	pickupService         PickupServiceInterface
	workflowService       WorkflowServiceInterface
	verificationService   VerificationServiceInterface
	reportService         ReportServiceInterface
	infrastructureService InfrastructureServiceInterface
}

// NewService creates a new service container with all dependencies injected.
// proofs may be nil when photo storage is disabled.
func NewService(
	repoContainer repository.RepositoryContainerInterface,
	publisher events.Publisher,
	proofs storage.ProofStore,
	logger logger.Logger,
	config *models.Config,
	workerStatusPath string,
) ServiceContainerInterface {
	users := repoContainer.GetUserRepository()
	pickups := repoContainer.GetPickupRepository()
	verification := NewVerificationService(users, pickups, config, logger)

	return &Service{
		userService:           NewUserService(users, pickups, logger),
		pickupService:         NewPickupService(pickups, users, publisher, logger),
		workflowService:       NewWorkflowService(pickups, users, verification, proofs, publisher, logger),
		verificationService:   verification,
		reportService:         NewReportService(pickups),
		infrastructureService: NewInfrastructureService(workerStatusPath, logger),
	}
}

// GetUserService returns the user service interface
func (s *Service) GetUserService() UserServiceInterface {
	return s.userService
}

// GetPickupService returns the pickup service interface
func (s *Service) GetPickupService() PickupServiceInterface {
	return s.pickupService
}

// GetWorkflowService returns the workflow engine
func (s *Service) GetWorkflowService() WorkflowServiceInterface {
	return s.workflowService
}

// GetVerificationService returns the verification gate
func (s *Service) GetVerificationService() VerificationServiceInterface {
	return s.verificationService
}

// GetReportService returns the report service interface
func (s *Service) GetReportService() ReportServiceInterface {
	return s.reportService
}

// GetInfrastructureService returns the infrastructure service interface
func (s *Service) GetInfrastructureService() InfrastructureServiceInterface {
	return s.infrastructureService
}
