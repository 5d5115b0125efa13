package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"wastewise-backend/dal"
	"wastewise-backend/models"
	"wastewise-backend/utils"
	"wastewise-backend/utils/logger"
)

type UserRepository struct {
	db     dal.DatabaseClientInterface
	config *models.Config
	logger logger.Logger
}

// NewUserRepository creates a new DynamoDB-backed user repository
func NewUserRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		config: cfg,
		logger: log,
	}
}

func (r *UserRepository) table() string {
	return r.config.Table("users")
}

func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	user.Email = utils.NormalizeEmail(user.Email)

	existing, err := r.GetUserByEmail(ctx, user.Email)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewAlreadyExists("user with this email already exists")
	}

	now := time.Now().UTC()
	user.ID = utils.GenerateUUID()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Status == "" {
		user.Status = models.UserStatusActive
	}

	if err := r.db.PutItemIfNotExists(ctx, r.table(), "id", user); err != nil {
		r.logger.Errorf("Failed to create user: %v", err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	r.logger.Infof("User created successfully: %s (%s)", user.ID, user.Role)
	return user, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if id == "" {
		return nil, models.NewValidation("id", "user id is required")
	}

	var user models.User
	err := r.db.GetItem(ctx, models.QueryConfig{
		TableName: r.table(),
		KeyName:   "id",
		KeyValue:  id,
		KeyType:   models.StringType,
	}, &user)
	if errors.Is(err, dal.ErrItemNotFound) {
		return nil, models.NewNotFound("user", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}
	return &user, nil
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	email = utils.NormalizeEmail(email)

	var user models.User
	err := r.db.GetItem(ctx, models.QueryConfig{
		TableName: r.table(),
		IndexName: "email-index",
		KeyName:   "email",
		KeyValue:  email,
		KeyType:   models.StringType,
	}, &user)
	if errors.Is(err, dal.ErrItemNotFound) {
		return nil, models.NewNotFound("user", email)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) ListUsers(ctx context.Context, filter *models.UserFilter) ([]*models.User, error) {
	var users []*models.User
	var err error

	if filter != nil && filter.Role != "" {
		err = r.db.QueryByIndex(ctx, r.table(), "role-index", "role", string(filter.Role), &users)
	} else {
		err = r.db.Scan(ctx, r.table(), &users)
	}
	if err != nil {
		r.logger.Errorf("Failed to list users: %v", err)
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	result := make([]*models.User, 0, len(users))
	for _, u := range users {
		if filter.Matches(u) {
			result = append(result, u)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r *UserRepository) UpdateUserStatus(ctx context.Context, id string, status models.UserStatus) (*models.User, error) {
	var user models.User
	err := r.db.ConditionalUpdate(ctx, &models.ConditionalUpdate{
		TableName: r.table(),
		KeyName:   "id",
		KeyValue:  id,
		Set: map[string]interface{}{
			"status":     status,
			"updated_at": time.Now().UTC(),
		},
	}, &user)
	if errors.Is(err, dal.ErrConditionFailed) {
		return nil, models.NewNotFound("user", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update user status: %w", err)
	}

	r.logger.Infof("User %s status set to %s", id, status)
	return &user, nil
}

func (r *UserRepository) RecordLogin(ctx context.Context, id string) error {
	err := r.db.UpdateItem(ctx, r.table(), "id", id, map[string]interface{}{
		"last_login_at": time.Now().UTC(),
	})
	if errors.Is(err, dal.ErrItemNotFound) {
		return models.NewNotFound("user", id)
	}
	return err
}
