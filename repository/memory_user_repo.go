package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"wastewise-backend/models"
	"wastewise-backend/utils"
	"wastewise-backend/utils/logger"
)

// MemoryUserRepository keeps accounts in process memory
type MemoryUserRepository struct {
	mu      sync.RWMutex
	users   map[string]*models.User
	byEmail map[string]string
	logger  logger.Logger
}

func NewMemoryUserRepository(log logger.Logger) *MemoryUserRepository {
	return &MemoryUserRepository{
		users:   make(map[string]*models.User),
		byEmail: make(map[string]string),
		logger:  log,
	}
}

func (r *MemoryUserRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user.Email = utils.NormalizeEmail(user.Email)
	if _, ok := r.byEmail[user.Email]; ok {
		return nil, models.NewAlreadyExists("user with this email already exists")
	}

	now := time.Now().UTC()
	user.ID = utils.GenerateUUID()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Status == "" {
		user.Status = models.UserStatusActive
	}

	stored := *user
	r.users[user.ID] = &stored
	r.byEmail[user.Email] = user.ID

	r.logger.Infof("User created successfully: %s (%s)", user.ID, user.Role)
	return copyUser(&stored), nil
}

func (r *MemoryUserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, models.NewNotFound("user", id)
	}
	return copyUser(u), nil
}

func (r *MemoryUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	email = utils.NormalizeEmail(email)
	id, ok := r.byEmail[email]
	if !ok {
		return nil, models.NewNotFound("user", email)
	}
	return copyUser(r.users[id]), nil
}

func (r *MemoryUserRepository) ListUsers(ctx context.Context, filter *models.UserFilter) ([]*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.User, 0, len(r.users))
	for _, u := range r.users {
		if filter.Matches(u) {
			result = append(result, copyUser(u))
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r *MemoryUserRepository) UpdateUserStatus(ctx context.Context, id string, status models.UserStatus) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, models.NewNotFound("user", id)
	}
	u.Status = status
	u.UpdatedAt = time.Now().UTC()
	return copyUser(u), nil
}

func (r *MemoryUserRepository) RecordLogin(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return models.NewNotFound("user", id)
	}
	now := time.Now().UTC()
	u.LastLoginAt = &now
	return nil
}

func copyUser(u *models.User) *models.User {
	c := *u
	if u.LastLoginAt != nil {
		t := *u.LastLoginAt
		c.LastLoginAt = &t
	}
	return &c
}
