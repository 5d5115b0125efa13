package repository

import (
	"context"

	"wastewise-backend/models"
)

// UserRepositoryInterface defines the contract for user repository operations
type UserRepositoryInterface interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context, filter *models.UserFilter) ([]*models.User, error)
	UpdateUserStatus(ctx context.Context, id string, status models.UserStatus) (*models.User, error)
	RecordLogin(ctx context.Context, id string) error
}

// PickupRepositoryInterface is the Pickup Request Store.
// ApplyTransition is the only way a stored request changes after Create.
type PickupRepositoryInterface interface {
	Create(ctx context.Context, req *models.PickupRequest) (*models.PickupRequest, error)
	Get(ctx context.Context, id string) (*models.PickupRequest, error)
	ListForResident(ctx context.Context, residentID string) ([]*models.PickupRequest, error)
	ListAll(ctx context.Context, filter *models.PickupFilter) ([]*models.PickupRequest, error)
	ListAssignedToCrew(ctx context.Context, crewID string) ([]*models.PickupRequest, error)
	ApplyTransition(ctx context.Context, id string, change *models.TransitionChange) (*models.PickupRequest, error)
}

// RepositoryContainerInterface defines the contract for the repository container
type RepositoryContainerInterface interface {
	GetUserRepository() UserRepositoryInterface
	GetPickupRepository() PickupRepositoryInterface
}
