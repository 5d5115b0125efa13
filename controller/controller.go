package controller

import (
	"net/http"

	"wastewise-backend/middelware"
	"wastewise-backend/models"
	"wastewise-backend/services"
	"wastewise-backend/utils/logger"
	"wastewise-backend/utils/swagger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Controller struct {
	Auth     *AuthController
	Resident *ResidentController
	Admin    *AdminController
	Crew     *CrewController

	jwtManager *middelware.JWTManager
	config     *models.Config
	logger     logger.Logger
}

func NewController(cfg *models.Config, log logger.Logger, svc services.ServiceContainerInterface, jwtManager *middelware.JWTManager) *Controller {
	return &Controller{
		Auth:       NewAuthController(svc.GetUserService(), jwtManager, cfg, log),
		Resident:   NewResidentController(svc.GetPickupService(), svc.GetVerificationService(), log),
		Admin:      NewAdminController(svc, log),
		Crew:       NewCrewController(svc.GetPickupService(), svc.GetWorkflowService(), log),
		jwtManager: jwtManager,
		config:     cfg,
		logger:     log,
	}
}

// RegisterRoutes installs the middleware chain and every route on r
func (c *Controller) RegisterRoutes(r *gin.Engine, basePath string) error {
	logging := middelware.NewLoggingMiddleware(c.logger)
	r.Use(logging.Recovery(), logging.StructuredLogger(), middelware.NewCORSMiddleware(c.config).CORS())
	if c.config.MetricsEnabled {
		r.Use(middelware.Metrics())
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// Health check endpoint (no auth required)
	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": c.config.AppVersion,
			"service": c.config.AppName,
		})
	})

	swaggerConfig := swagger.SwaggerConfig{
		Title:         c.config.AppName + " API",
		SwaggerDocURL: "/swagger/doc.json",
		AuthURL:       basePath + "/auth/login",
	}
	r.GET("/swagger", swagger.ServeSwaggerUI(swaggerConfig))
	r.GET("/swagger/index.html", swagger.ServeSwaggerUI(swaggerConfig))
	r.GET("/swagger/doc.json", swagger.ServeDoc())

	rateLimit, err := middelware.RateLimit(c.config, middelware.NewRateLimitStore(c.config, c.logger), c.logger)
	if err != nil {
		return err
	}
	api := r.Group(basePath, rateLimit)

	auth := c.jwtManager.AuthMiddleware()
	admin := c.jwtManager.RequireRole(models.UserRoleAdministrator)

	// Authentication
	authGroup := api.Group("/auth")
	authGroup.POST("/login", c.Auth.Login)
	authGroup.POST("/register", c.Auth.Register)
	authGroup.POST("/validate", c.Auth.ValidateToken)
	authGroup.POST("/logout", auth, c.Auth.Logout)
	authGroup.POST("/register-crew", auth, admin, c.Auth.RegisterCrew)
	authGroup.POST("/register-admin", auth, admin, c.Auth.RegisterAdmin)

	// Resident
	resident := api.Group("/resident", auth, c.jwtManager.RequireRole(models.UserRoleResident))
	resident.GET("/requests", c.Resident.ListRequests)
	resident.POST("/requests", c.Resident.CreateRequest)
	resident.GET("/requests/:id", c.Resident.GetRequest)
	resident.GET("/qr-code", c.Resident.GetQRCode)
	resident.GET("/qr-code.png", c.Resident.GetQRCodePNG)

	// Administrator
	adminGroup := api.Group("/admin", auth, admin)
	adminGroup.GET("/pickup-requests", c.Admin.ListPickupRequests)
	adminGroup.GET("/pickup-requests/:id", c.Admin.GetPickupRequest)
	adminGroup.PUT("/pickup-requests/:id", c.Admin.TransitionPickupRequest)
	adminGroup.GET("/crew-members", c.Admin.ListCrewMembers)
	adminGroup.GET("/users", c.Admin.ListUsers)
	adminGroup.PUT("/users/:id/status", c.Admin.UpdateUserStatus)
	adminGroup.GET("/reports/waste-levels", c.Admin.WasteLevels)
	adminGroup.GET("/worker-status", c.Admin.GetWorkerStatus)

	// Collection crew
	crew := api.Group("/crew", auth, c.jwtManager.RequireRole(models.UserRoleCollectionCrewMember))
	crew.GET("/pickup-requests", c.Crew.ListAssignments)
	crew.PUT("/pickup-requests/:id/start", c.Crew.StartCollection)
	crew.PUT("/pickup-requests/:id/complete", c.Crew.CompleteCollection)

	return nil
}
