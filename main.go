package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wastewise-backend/controller"
	"wastewise-backend/dal"
	_ "wastewise-backend/docs"
	"wastewise-backend/events"
	"wastewise-backend/middelware"
	"wastewise-backend/models"
	"wastewise-backend/repository"
	"wastewise-backend/services"
	"wastewise-backend/storage"
	"wastewise-backend/utils"
	"wastewise-backend/utils/logger"
	"wastewise-backend/worker"

	"github.com/gin-gonic/gin"
)

const (
	shutdownTimeout = 15 * time.Second
	seedAttempts    = 5
	seedRetryDelay  = 2 * time.Second
)

var config *models.Config

func Init() {
	var err error
	config, err = utils.GetConfig()
	if err != nil {
		log.Fatal(err)
	}
}

// @title WasteWise Backend API
// @version 1.0
// @description Waste collection pickup workflow: residents request pickups, administrators approve and assign crews,
// @description crews collect and prove completion with the resident's QR code.
// @description
// @description ## Authentication
// @description 1. **POST /auth/register** creates a resident account.
// @description 2. **POST /auth/login** returns a JWT.
// @description 3. Use the login bar above or click **Authorize** and paste `Bearer <token>`.

// @contact.name API Support
// @contact.email support@wastewise.local

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8081
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Authorization header using the Bearer scheme. Enter 'Bearer' [space] and then your token.
func main() {
	Init()

	appLogger := logger.NewLogger(config.LogLevel, config.LogFormat)
	appLogger.WithFields(map[string]interface{}{
		"app":     config.AppName,
		"version": config.AppVersion,
		"env":     config.AppEnv,
		"store":   config.StoreDriver,
	}).Info("Starting service")

	if config.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// interfaces stay nil unless their backing client exists
	var db dal.DatabaseClientInterface
	var provisioner models.TableProvisioner
	if config.StoreDriver == "dynamodb" {
		client, err := dal.NewDynamoDBClient(config, appLogger)
		if err != nil {
			appLogger.Fatalf("Failed to create DynamoDB client: %v", err)
		}
		db = client
		provisioner = client
	}

	repo, err := repository.NewRepository(db, config, appLogger)
	if err != nil {
		appLogger.Fatalf("Failed to create repositories: %v", err)
	}

	publisher, err := events.NewPublisher(config, appLogger)
	if err != nil {
		appLogger.Fatalf("Failed to create event publisher: %v", err)
	}
	defer publisher.Close()

	var proofs storage.ProofStore
	uploader, err := storage.NewS3Uploader(config, appLogger)
	if err != nil {
		appLogger.Fatalf("Failed to create S3 uploader: %v", err)
	}
	if uploader != nil {
		proofs = uploader
	}

	workerConfig := worker.DefaultConfig(config)
	appLogger.Debugf("Worker config: %s", utils.PrintPrettyJSON(workerConfig))
	svc := services.NewService(repo, publisher, proofs, appLogger, config, workerConfig.StatusFilePath)

	jwtManager := middelware.NewJWTManager(config, appLogger, repo.GetUserRepository())

	infraWorker, err := worker.NewWorker(config, workerConfig, provisioner, jwtManager, appLogger)
	if err != nil {
		appLogger.Fatalf("Failed to create infrastructure worker: %v", err)
	}

	if err := prepareStore(context.Background(), infraWorker, svc.GetUserService(), config, appLogger, seedRetryDelay); err != nil {
		appLogger.Fatalf("Failed to prepare store: %v", err)
	}

	if err := infraWorker.Start(); err != nil {
		appLogger.Fatalf("Failed to start infrastructure worker: %v", err)
	}
	defer infraWorker.Stop()

	r := gin.New()
	if err := controller.NewController(config, appLogger, svc, jwtManager).RegisterRoutes(r, config.BasePath); err != nil {
		appLogger.Fatalf("Failed to register routes: %v", err)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", config.AppHost, config.AppPort),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Infof("Listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Errorf("Server shutdown failed: %v", err)
	}
}

// prepareStore creates missing tables and then seeds the first administrator.
// Seeding is retried since another instance may hold the provisioning lock
// while its tables are still being created.
func prepareStore(ctx context.Context, w *worker.Worker, users services.UserServiceInterface, cfg *models.Config, log logger.Logger, retryDelay time.Duration) error {
	if err := w.RunProvisioning(ctx); err != nil {
		return fmt.Errorf("failed to provision tables: %w", err)
	}

	var err error
	for attempt := 1; attempt <= seedAttempts; attempt++ {
		var created bool
		created, err = users.EnsureAdmin(ctx, cfg.AdminSeedName, cfg.AdminSeedEmail, cfg.AdminSeedPassword)
		if err == nil {
			if created {
				log.Infof("Seeded administrator %s", cfg.AdminSeedEmail)
			}
			return nil
		}
		log.Warnf("Seeding administrator failed (attempt %d/%d): %v", attempt, seedAttempts, err)

		if attempt < seedAttempts {
			select {
			case <-time.After(retryDelay * time.Duration(attempt)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return fmt.Errorf("failed to seed administrator: %w", err)
}
