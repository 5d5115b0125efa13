package repository

import (
	"fmt"

	"wastewise-backend/dal"
	"wastewise-backend/models"
	"wastewise-backend/utils/logger"
)

type Repository struct {
	User   UserRepositoryInterface
	Pickup PickupRepositoryInterface
}

// NewRepository wires the repositories for the configured store driver.
// db may be nil when the driver is "memory".
func NewRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) (*Repository, error) {
	switch cfg.StoreDriver {
	case "memory":
		log.Warn("Using in-memory store, data will not survive a restart")
		return &Repository{
			User:   NewMemoryUserRepository(log),
			Pickup: NewMemoryPickupRepository(log),
		}, nil
	case "dynamodb":
		if db == nil {
			return nil, fmt.Errorf("dynamodb store selected but no database client was provided")
		}
		return &Repository{
			User:   NewUserRepository(db, cfg, log),
			Pickup: NewPickupRepository(db, cfg, log),
		}, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func (r *Repository) GetUserRepository() UserRepositoryInterface {
	return r.User
}

func (r *Repository) GetPickupRepository() PickupRepositoryInterface {
	return r.Pickup
}
