package services

import (
	"context"
	"errors"
	"strings"

	"wastewise-backend/events"
	"wastewise-backend/models"
	"wastewise-backend/repository"
	"wastewise-backend/utils"
	"wastewise-backend/utils/logger"
)

// PickupService handles pickup request creation and the role-scoped read views
type PickupService struct {
	pickups   repository.PickupRepositoryInterface
	users     repository.UserRepositoryInterface
	publisher events.Publisher
	logger    logger.Logger
}

func NewPickupService(pickups repository.PickupRepositoryInterface, users repository.UserRepositoryInterface, publisher events.Publisher, log logger.Logger) *PickupService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &PickupService{
		pickups:   pickups,
		users:     users,
		publisher: publisher,
		logger:    log,
	}
}

// CreateRequest files a new PENDING pickup request for the calling resident
func (s *PickupService) CreateRequest(ctx context.Context, actor *models.Principal, in *models.CreatePickupRequest) (*models.PickupView, error) {
	if !actor.HasRole(models.UserRoleResident) {
		return nil, models.NewForbidden("only residents may request pickups")
	}
	if err := validateCreate(in); err != nil {
		return nil, err
	}

	req, err := s.pickups.Create(ctx, &models.PickupRequest{
		RequestType:   in.RequestType,
		Description:   strings.TrimSpace(in.Description),
		ScheduledDate: in.ScheduledDate.UTC(),
		Location:      in.Location,
		ResidentID:    actor.ID,
	})
	if err != nil {
		return nil, err
	}
	pickupCreated.WithLabelValues(string(req.RequestType)).Inc()

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.publisher.Publish(pubCtx, &models.PickupEvent{
		EventID:     utils.GenerateUUID(),
		Type:        models.EventPickupCreated,
		PickupID:    req.ID,
		RequestID:   req.RequestID,
		RequestType: req.RequestType,
		To:          req.Status,
		ResidentID:  req.ResidentID,
		ActorID:     actor.ID,
		ActorRole:   actor.Role,
		OccurredAt:  req.CreatedAt,
	}); err != nil {
		s.logger.Errorf("Failed to publish %s for pickup %s: %v", models.EventPickupCreated, req.ID, err)
	}

	return s.View(ctx, req)
}

func validateCreate(in *models.CreatePickupRequest) error {
	if in == nil {
		return models.NewValidation("body", "request body is required")
	}
	if !in.RequestType.Valid() {
		return models.NewValidation("requestType", "unknown request type")
	}
	if strings.TrimSpace(in.Description) == "" {
		return models.NewValidation("description", "description is required")
	}
	if in.ScheduledDate.IsZero() {
		return models.NewValidation("scheduledDate", "scheduled date is required")
	}
	if loc := in.Location; loc != nil {
		if loc.Latitude < -90 || loc.Latitude > 90 || loc.Longitude < -180 || loc.Longitude > 180 {
			return models.NewValidation("location", "location is out of range")
		}
	}
	return nil
}

// ListForResident returns the caller's own requests ordered by scheduled date
func (s *PickupService) ListForResident(ctx context.Context, actor *models.Principal) ([]*models.PickupView, error) {
	if !actor.HasRole(models.UserRoleResident) {
		return nil, models.NewForbidden("only residents have pickup requests")
	}
	reqs, err := s.pickups.ListForResident(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, reqs)
}

// GetForResident returns one of the caller's requests. Other residents' requests are reported as not found.
func (s *PickupService) GetForResident(ctx context.Context, actor *models.Principal, id string) (*models.PickupView, error) {
	if !actor.HasRole(models.UserRoleResident) {
		return nil, models.NewForbidden("only residents have pickup requests")
	}
	req, err := s.pickups.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.ResidentID != actor.ID {
		return nil, models.NewNotFound("pickup request", id)
	}
	return s.View(ctx, req)
}

func (s *PickupService) ListAll(ctx context.Context, filter *models.PickupFilter) ([]*models.PickupView, error) {
	reqs, err := s.pickups.ListAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, reqs)
}

func (s *PickupService) GetByID(ctx context.Context, id string) (*models.PickupView, error) {
	req, err := s.pickups.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.View(ctx, req)
}

// ListAssignedToCrew returns the caller's APPROVED and IN_PROGRESS assignments
func (s *PickupService) ListAssignedToCrew(ctx context.Context, actor *models.Principal) ([]*models.PickupView, error) {
	if !actor.HasRole(models.UserRoleCollectionCrewMember) {
		return nil, models.NewForbidden("only collection crew members have assignments")
	}
	reqs, err := s.pickups.ListAssignedToCrew(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, reqs)
}

// View embeds resident and crew summaries into req
func (s *PickupService) View(ctx context.Context, req *models.PickupRequest) (*models.PickupView, error) {
	views, err := s.views(ctx, []*models.PickupRequest{req})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (s *PickupService) views(ctx context.Context, reqs []*models.PickupRequest) ([]*models.PickupView, error) {
	people := make(map[string]*models.PersonSummary)
	lookup := func(id string) (*models.PersonSummary, error) {
		if id == "" {
			return nil, nil
		}
		if summary, ok := people[id]; ok {
			return summary, nil
		}
		user, err := s.users.GetUserByID(ctx, id)
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Warnf("Pickup references unknown user %s", id)
			people[id] = nil
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		people[id] = user.Summary()
		return people[id], nil
	}

	out := make([]*models.PickupView, 0, len(reqs))
	for _, req := range reqs {
		resident, err := lookup(req.ResidentID)
		if err != nil {
			return nil, err
		}
		crew, err := lookup(req.AssignedCrewID)
		if err != nil {
			return nil, err
		}
		out = append(out, &models.PickupView{
			PickupRequest: req,
			Resident:      resident,
			AssignedCrew:  crew,
		})
	}
	return out, nil
}
