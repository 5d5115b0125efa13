package controller

import (
	"net/http"

	"wastewise-backend/middelware"
	"wastewise-backend/models"
	"wastewise-backend/services"
	"wastewise-backend/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type AuthController struct {
	userService services.UserServiceInterface
	jwtManager  *middelware.JWTManager
	config      *models.Config
	validator   *validator.Validate
	logger      logger.Logger
}

func NewAuthController(userService services.UserServiceInterface, jwtManager *middelware.JWTManager, cfg *models.Config, log logger.Logger) *AuthController {
	return &AuthController{
		userService: userService,
		jwtManager:  jwtManager,
		config:      cfg,
		validator:   validator.New(),
		logger:      log,
	}
}

// Login handles POST /api/v1/auth/login
// @Summary Log in
// @Description Authenticate with email and password and receive a bearer token plus the user profile
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login credentials"
// @Success 200 {object} models.APIResponse{data=models.LoginResponse} "Login successful"
// @Failure 400 {object} models.APIResponse "Bad Request - Invalid credentials format"
// @Failure 401 {object} models.APIResponse "Unauthorized - Invalid email or password"
// @Router /auth/login [post]
func (h *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	user, err := h.userService.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, "Login failed", err)
		return
	}

	token, err := h.jwtManager.GenerateToken(user)
	if err != nil {
		h.logger.Errorf("Failed to generate token for %s: %v", user.ID, err)
		respondError(c, "Login failed", err)
		return
	}

	respondSuccess(c, http.StatusOK, "Login successful", models.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(h.config.JWTExpiresIn.Seconds()),
		User:        user,
	})
}

// Register handles POST /api/v1/auth/register
// @Summary Register a resident
// @Description Self-registration for residents
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.RegisterResidentRequest true "Registration request"
// @Success 201 {object} models.APIResponse{data=models.User} "Resident registered successfully"
// @Failure 400 {object} models.APIResponse "Bad Request - Invalid registration data"
// @Failure 409 {object} models.APIResponse "Conflict - Email already registered"
// @Router /auth/register [post]
func (h *AuthController) Register(c *gin.Context) {
	var req models.RegisterResidentRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	user, err := h.userService.RegisterResident(c.Request.Context(), &req)
	if err != nil {
		respondError(c, "Failed to register resident", err)
		return
	}
	respondSuccess(c, http.StatusCreated, "Resident registered successfully", user)
}

// RegisterCrew handles POST /api/v1/auth/register-crew
// @Summary Register a collection crew member
// @Tags Authentication
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.RegisterCrewRequest true "Crew registration request"
// @Success 201 {object} models.APIResponse{data=models.User} "Crew member registered successfully"
// @Failure 400 {object} models.APIResponse "Bad Request - Invalid registration data"
// @Failure 403 {object} models.APIResponse "Forbidden - Administrators only"
// @Failure 409 {object} models.APIResponse "Conflict - Email already registered"
// @Router /auth/register-crew [post]
func (h *AuthController) RegisterCrew(c *gin.Context) {
	var req models.RegisterCrewRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	user, err := h.userService.RegisterCrew(c.Request.Context(), &req)
	if err != nil {
		respondError(c, "Failed to register crew member", err)
		return
	}
	respondSuccess(c, http.StatusCreated, "Crew member registered successfully", user)
}

// RegisterAdmin handles POST /api/v1/auth/register-admin
// @Summary Register an administrator
// @Tags Authentication
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.RegisterAdminRequest true "Administrator registration request"
// @Success 201 {object} models.APIResponse{data=models.User} "Administrator registered successfully"
// @Failure 403 {object} models.APIResponse "Forbidden - Administrators only"
// @Failure 409 {object} models.APIResponse "Conflict - Email already registered"
// @Router /auth/register-admin [post]
func (h *AuthController) RegisterAdmin(c *gin.Context) {
	var req models.RegisterAdminRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	user, err := h.userService.RegisterAdmin(c.Request.Context(), &req)
	if err != nil {
		respondError(c, "Failed to register administrator", err)
		return
	}
	respondSuccess(c, http.StatusCreated, "Administrator registered successfully", user)
}

// Logout handles POST /api/v1/auth/logout
// @Summary Log out
// @Description Revoke the bearer token used for this call
// @Tags Authentication
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.APIResponse "Logged out successfully"
// @Failure 401 {object} models.APIResponse "Unauthorized"
// @Router /auth/logout [post]
func (h *AuthController) Logout(c *gin.Context) {
	claims, ok := middelware.ClaimsFrom(c)
	if !ok {
		respondError(c, "Logout failed", models.NewUnauthenticated("user not authenticated"))
		return
	}

	if claims.ExpiresAt != nil {
		h.jwtManager.RevokeToken(claims.ID, claims.ExpiresAt.Time)
	}
	h.logger.Infof("User %s logged out", claims.UserID)
	respondSuccess(c, http.StatusOK, "Logged out successfully", nil)
}

// ValidateToken handles POST /api/v1/auth/validate
// @Summary Validate a token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.TokenValidationRequest true "Token to validate"
// @Success 200 {object} models.APIResponse{data=models.JWTClaims} "Token is valid"
// @Failure 401 {object} models.APIResponse "Unauthorized - Token invalid, expired or revoked"
// @Router /auth/validate [post]
func (h *AuthController) ValidateToken(c *gin.Context) {
	var req models.TokenValidationRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	claims, err := h.jwtManager.ValidateToken(c.Request.Context(), req.Token)
	if err != nil {
		respondError(c, "Token is invalid", err)
		return
	}
	respondSuccess(c, http.StatusOK, "Token is valid", claims)
}
