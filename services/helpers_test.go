package services

import (
	"context"
	"io"
	"sync"
	"time"

	"wastewise-backend/models"
	"wastewise-backend/repository"
	"wastewise-backend/utils/logger"

	"github.com/stretchr/testify/mock"
)

func discardLogger() logger.Logger {
	return logger.NewLoggerWithOutput("error", "text", io.Discard)
}

func testConfig() *models.Config {
	return &models.Config{
		JWTSecret:  "test-secret",
		QRSecret:   "test-qr-secret",
		QRTokenTTL: time.Hour,
	}
}

// recordingPublisher keeps every published event in memory
type recordingPublisher struct {
	mu     sync.Mutex
	events []*models.PickupEvent
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event *models.PickupEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) Events() []*models.PickupEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*models.PickupEvent, len(p.events))
	copy(out, p.events)
	return out
}

// MockProofStore implements storage.ProofStore for testing
type MockProofStore struct {
	mock.Mock
}

func (m *MockProofStore) UploadProof(ctx context.Context, pickupID string, photo *models.ProofPhoto) (string, error) {
	args := m.Called(ctx, pickupID, photo)
	return args.String(0), args.Error(1)
}

// testEnv wires the services over the in-memory store
type testEnv struct {
	users        *repository.MemoryUserRepository
	pickups      *repository.MemoryPickupRepository
	publisher    *recordingPublisher
	verification *VerificationService
	workflow     *WorkflowService
	pickupSvc    *PickupService

	admin    *models.Principal
	crew1    *models.Principal
	crew2    *models.Principal
	resident *models.Principal
	other    *models.Principal
}

func newTestEnv(cfg *models.Config) *testEnv {
	log := discardLogger()
	env := &testEnv{
		users:     repository.NewMemoryUserRepository(log),
		pickups:   repository.NewMemoryPickupRepository(log),
		publisher: &recordingPublisher{},
	}
	env.verification = NewVerificationService(env.users, env.pickups, cfg, log)
	env.workflow = NewWorkflowService(env.pickups, env.users, env.verification, nil, env.publisher, log)
	env.pickupSvc = NewPickupService(env.pickups, env.users, env.publisher, log)

	env.admin = env.addUser("admin@example.com", models.UserRoleAdministrator)
	env.crew1 = env.addUser("c1@example.com", models.UserRoleCollectionCrewMember)
	env.crew2 = env.addUser("c2@example.com", models.UserRoleCollectionCrewMember)
	env.resident = env.addUser("res@example.com", models.UserRoleResident)
	env.other = env.addUser("other@example.com", models.UserRoleResident)
	return env
}

func (e *testEnv) addUser(email string, role models.UserRole) *models.Principal {
	u, err := e.users.CreateUser(context.Background(), &models.User{
		Name:    string(role) + " " + email,
		Email:   email,
		Role:    role,
		Address: "1 Test Street",
	})
	if err != nil {
		panic(err)
	}
	return u.Principal()
}

func (e *testEnv) newPending() *models.PickupRequest {
	req, err := e.pickups.Create(context.Background(), &models.PickupRequest{
		RequestType:   models.RequestTypeEWaste,
		Description:   "old monitor",
		ScheduledDate: time.Now().Add(48 * time.Hour).UTC(),
		ResidentID:    e.resident.ID,
	})
	if err != nil {
		panic(err)
	}
	return req
}

func (e *testEnv) token(residentID string) string {
	qr, err := e.verification.IssueQRCode(context.Background(), residentID)
	if err != nil {
		panic(err)
	}
	return qr.Payload
}
