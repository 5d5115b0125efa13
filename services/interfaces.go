package services

import (
	"context"
	"time"

	"wastewise-backend/models"
)

// WorkflowServiceInterface is the single entrypoint for pickup status changes
type WorkflowServiceInterface interface {
	AttemptTransition(ctx context.Context, actor *models.Principal, requestID string, desired models.PickupStatus, payload *models.TransitionPayload) (*models.PickupRequest, error)
}

// PickupServiceInterface defines the contract for pickup request creation and reads
type PickupServiceInterface interface {
	CreateRequest(ctx context.Context, actor *models.Principal, in *models.CreatePickupRequest) (*models.PickupView, error)
	ListForResident(ctx context.Context, actor *models.Principal) ([]*models.PickupView, error)
	GetForResident(ctx context.Context, actor *models.Principal, id string) (*models.PickupView, error)
	ListAll(ctx context.Context, filter *models.PickupFilter) ([]*models.PickupView, error)
	GetByID(ctx context.Context, id string) (*models.PickupView, error)
	ListAssignedToCrew(ctx context.Context, actor *models.Principal) ([]*models.PickupView, error)
	View(ctx context.Context, req *models.PickupRequest) (*models.PickupView, error)
}

// VerificationServiceInterface is the Verification Gate plus QR issuance
type VerificationServiceInterface interface {
	VerificationGate
	IssueQRCode(ctx context.Context, residentID string) (*models.QRCode, error)
	QRCodePNG(ctx context.Context, residentID string) ([]byte, error)
}

// UserServiceInterface defines the contract for account management
type UserServiceInterface interface {
	RegisterResident(ctx context.Context, req *models.RegisterResidentRequest) (*models.User, error)
	RegisterCrew(ctx context.Context, req *models.RegisterCrewRequest) (*models.User, error)
	RegisterAdmin(ctx context.Context, req *models.RegisterAdminRequest) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	ListUsers(ctx context.Context, filter *models.UserFilter) ([]*models.User, error)
	UpdateUserStatus(ctx context.Context, actor *models.Principal, id string, status models.UserStatus) (*models.User, error)
	ListCrewMembers(ctx context.Context) ([]*models.CrewMember, error)
	EnsureAdmin(ctx context.Context, name, email, password string) (bool, error)
}

// ReportServiceInterface defines the contract for administrator reports
type ReportServiceInterface interface {
	WasteLevels(ctx context.Context, from, to *time.Time) (*models.WasteLevelReport, error)
}

// InfrastructureServiceInterface defines the contract for worker status reporting
type InfrastructureServiceInterface interface {
	GetWorkerStatus(ctx context.Context) (*models.ExecutionResult, error)
	IsWorkerHealthy(ctx context.Context) (bool, string)
}

// ServiceContainerInterface defines the main service container contract
type ServiceContainerInterface interface {
	GetUserService() UserServiceInterface
	GetPickupService() PickupServiceInterface
	GetWorkflowService() WorkflowServiceInterface
	GetVerificationService() VerificationServiceInterface
	GetReportService() ReportServiceInterface
	GetInfrastructureService() InfrastructureServiceInterface
}
