package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"wastewise-backend/models"
	"wastewise-backend/repository"
	"wastewise-backend/utils"
	"wastewise-backend/utils/logger"
)

type UserService struct {
	repo    repository.UserRepositoryInterface
	pickups repository.PickupRepositoryInterface
	logger  logger.Logger
}

func NewUserService(repo repository.UserRepositoryInterface, pickups repository.PickupRepositoryInterface, log logger.Logger) *UserService {
	return &UserService{
		repo:    repo,
		pickups: pickups,
		logger:  log,
	}
}

// RegisterResident creates a self-registered resident account
func (s *UserService) RegisterResident(ctx context.Context, req *models.RegisterResidentRequest) (*models.User, error) {
	return s.register(ctx, &models.User{
		Name:          req.Name,
		Email:         req.Email,
		Role:          models.UserRoleResident,
		Address:       req.Address,
		ContactNumber: req.ContactNumber,
	}, req.Password)
}

// RegisterCrew creates a collection crew member account
func (s *UserService) RegisterCrew(ctx context.Context, req *models.RegisterCrewRequest) (*models.User, error) {
	return s.register(ctx, &models.User{
		Name:          req.Name,
		Email:         req.Email,
		Role:          models.UserRoleCollectionCrewMember,
		Address:       req.Address,
		ContactNumber: req.ContactNumber,
		EmployeeID:    req.EmployeeID,
		Vehicle:       req.Vehicle,
	}, req.Password)
}

// RegisterAdmin creates another administrator account
func (s *UserService) RegisterAdmin(ctx context.Context, req *models.RegisterAdminRequest) (*models.User, error) {
	return s.register(ctx, &models.User{
		Name:          req.Name,
		Email:         req.Email,
		Role:          models.UserRoleAdministrator,
		Address:       req.Address,
		ContactNumber: req.ContactNumber,
	}, req.Password)
}

func (s *UserService) register(ctx context.Context, user *models.User, password string) (*models.User, error) {
	user.Name = strings.TrimSpace(user.Name)
	user.Email = utils.NormalizeEmail(user.Email)
	user.Status = models.UserStatusActive

	if user.Email == "" {
		return nil, models.NewValidation("email", "email is required")
	}
	if len(password) < 8 {
		return nil, models.NewValidation("password", "password must be at least 8 characters")
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = hash

	created, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}
	s.logger.Infof("Registered %s %s", created.Role, created.ID)
	return created, nil
}

// Authenticate checks credentials. Unknown emails, wrong passwords and
// non-active accounts all fail with the same Unauthenticated error.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.NewUnauthenticated("invalid email or password")
	}
	if err != nil {
		return nil, err
	}
	if !utils.CheckPassword(user.PasswordHash, password) {
		return nil, models.NewUnauthenticated("invalid email or password")
	}
	if user.Status != models.UserStatusActive {
		return nil, models.NewUnauthenticated("account is not active")
	}

	if err := s.repo.RecordLogin(ctx, user.ID); err != nil {
		s.logger.Warnf("Failed to record login for %s: %v", user.ID, err)
	}
	return user, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.repo.GetUserByID(ctx, id)
}

func (s *UserService) ListUsers(ctx context.Context, filter *models.UserFilter) ([]*models.User, error) {
	if filter != nil && filter.Role != "" && !filter.Role.Valid() {
		return nil, models.NewValidation("role", "unknown role")
	}
	return s.repo.ListUsers(ctx, filter)
}

// UpdateUserStatus changes another account's status
func (s *UserService) UpdateUserStatus(ctx context.Context, actor *models.Principal, id string, status models.UserStatus) (*models.User, error) {
	switch status {
	case models.UserStatusActive, models.UserStatusInactive, models.UserStatusSuspended:
	default:
		return nil, models.NewValidation("status", "status must be active, inactive or suspended")
	}
	if actor != nil && actor.ID == id {
		return nil, models.NewForbidden("you cannot change the status of your own account")
	}

	user, err := s.repo.UpdateUserStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.logger.Infof("User %s status changed to %s", id, status)
	return user, nil
}

// ListCrewMembers returns active crew with their current assignment load
func (s *UserService) ListCrewMembers(ctx context.Context) ([]*models.CrewMember, error) {
	crew, err := s.repo.ListUsers(ctx, &models.UserFilter{
		Role:   models.UserRoleCollectionCrewMember,
		Status: models.UserStatusActive,
	})
	if err != nil {
		return nil, err
	}

	roster := make([]*models.CrewMember, 0, len(crew))
	for _, member := range crew {
		assigned, err := s.pickups.ListAssignedToCrew(ctx, member.ID)
		if err != nil {
			return nil, err
		}
		roster = append(roster, &models.CrewMember{
			PersonSummary:     member.Summary(),
			EmployeeID:        member.EmployeeID,
			ActiveAssignments: len(assigned),
		})
	}
	return roster, nil
}

// EnsureAdmin creates the first administrator when none exists.
// It reports whether an account was created.
func (s *UserService) EnsureAdmin(ctx context.Context, name, email, password string) (bool, error) {
	if email == "" || password == "" {
		return false, nil
	}

	admins, err := s.repo.ListUsers(ctx, &models.UserFilter{Role: models.UserRoleAdministrator})
	if err != nil {
		return false, err
	}
	if len(admins) > 0 {
		return false, nil
	}

	if name == "" {
		name = "Administrator"
	}
	_, err = s.RegisterAdmin(ctx, &models.RegisterAdminRequest{
		Name:     name,
		Email:    email,
		Password: password,
		Address:  "-",
	})
	if errors.Is(err, models.ErrAlreadyExists) {
		s.logger.Warnf("Seed administrator email %s is already used by a non-admin account", email)
		return false, nil
	}
	if err != nil {
		return false, err
	}
	s.logger.Infof("Seeded first administrator %s", utils.NormalizeEmail(email))
	return true, nil
}
