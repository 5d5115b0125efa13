package middelware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wastewise-backend/models"
	"wastewise-backend/repository"
	"wastewise-backend/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// AuthMiddlewareTestSuite defines a test suite for auth middleware functions
type AuthMiddlewareTestSuite struct {
	suite.Suite
	config     *models.Config
	users      *repository.MemoryUserRepository
	jwtManager *JWTManager
	resident   *models.User
	admin      *models.User
}

// SetupTest runs before each test
func (suite *AuthMiddlewareTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	log := logger.NewLoggerWithOutput("error", "text", io.Discard)
	suite.config = &models.Config{
		AppName:      "TestApp",
		JWTSecret:    "test-secret-key-for-testing",
		JWTExpiresIn: time.Hour,
	}
	suite.users = repository.NewMemoryUserRepository(log)
	suite.jwtManager = NewJWTManager(suite.config, log, suite.users)

	var err error
	suite.resident, err = suite.users.CreateUser(context.Background(), &models.User{
		Name: "Rita Resident", Email: "rita@example.com", Role: models.UserRoleResident, Address: "1 Elm St",
	})
	suite.Require().NoError(err)
	suite.admin, err = suite.users.CreateUser(context.Background(), &models.User{
		Name: "Ada Admin", Email: "ada@example.com", Role: models.UserRoleAdministrator,
	})
	suite.Require().NoError(err)
}

func (suite *AuthMiddlewareTestSuite) router(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.GET("/protected", append(handlers, func(c *gin.Context) {
		principal, _ := PrincipalFrom(c)
		c.JSON(http.StatusOK, gin.H{"id": principal.ID, "role": principal.Role})
	})...)
	return r
}

func (suite *AuthMiddlewareTestSuite) do(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) models.APIResponse {
	var resp models.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp
}

func (suite *AuthMiddlewareTestSuite) TestGenerateAndValidateToken() {
	token, err := suite.jwtManager.GenerateToken(suite.resident)
	suite.Require().NoError(err)
	suite.NotEmpty(token)

	claims, err := suite.jwtManager.ValidateToken(context.Background(), token)
	suite.Require().NoError(err)
	suite.Equal(suite.resident.ID, claims.UserID)
	suite.Equal(models.UserRoleResident, claims.Role)
	suite.Equal("TestApp", claims.Issuer)
	suite.NotEmpty(claims.ID)
}

func (suite *AuthMiddlewareTestSuite) TestValidateToken_Failures() {
	valid, err := suite.jwtManager.GenerateToken(suite.resident)
	suite.Require().NoError(err)

	expiredClaims := models.JWTClaims{
		UserID: suite.resident.ID,
		Role:   models.UserRoleResident,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "expired",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, expiredClaims).SignedString([]byte(suite.config.JWTSecret))
	suite.Require().NoError(err)

	wrongKey, err := jwt.NewWithClaims(jwt.SigningMethodHS256, models.JWTClaims{
		UserID:           suite.resident.ID,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte("another-secret"))
	suite.Require().NoError(err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"expired", expired},
		{"wrong signing key", wrongKey},
		{"truncated", valid[:len(valid)-4]},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := suite.jwtManager.ValidateToken(context.Background(), tt.token)
			suite.Error(err)
			suite.True(errors.Is(err, models.ErrUnauthenticated))
		})
	}
}

func (suite *AuthMiddlewareTestSuite) TestValidateToken_RevokedToken() {
	token, err := suite.jwtManager.GenerateToken(suite.resident)
	suite.Require().NoError(err)
	claims, err := suite.jwtManager.ValidateToken(context.Background(), token)
	suite.Require().NoError(err)

	suite.jwtManager.RevokeToken(claims.ID, claims.ExpiresAt.Time)

	_, err = suite.jwtManager.ValidateToken(context.Background(), token)
	suite.True(errors.Is(err, models.ErrUnauthenticated))
	suite.Contains(err.Error(), "revoked")
}

func (suite *AuthMiddlewareTestSuite) TestValidateToken_InactiveUser() {
	token, err := suite.jwtManager.GenerateToken(suite.resident)
	suite.Require().NoError(err)

	_, err = suite.users.UpdateUserStatus(context.Background(), suite.resident.ID, models.UserStatusSuspended)
	suite.Require().NoError(err)

	_, err = suite.jwtManager.ValidateToken(context.Background(), token)
	suite.True(errors.Is(err, models.ErrUnauthenticated))
	suite.Contains(err.Error(), "suspended")
}

func (suite *AuthMiddlewareTestSuite) TestValidateToken_RoleMismatch() {
	forged := *suite.resident
	forged.Role = models.UserRoleAdministrator
	token, err := suite.jwtManager.GenerateToken(&forged)
	suite.Require().NoError(err)

	_, err = suite.jwtManager.ValidateToken(context.Background(), token)
	suite.True(errors.Is(err, models.ErrUnauthenticated))
}

func (suite *AuthMiddlewareTestSuite) TestValidateToken_UnknownUser() {
	token, err := suite.jwtManager.GenerateToken(&models.User{ID: "ghost", Role: models.UserRoleResident})
	suite.Require().NoError(err)

	_, err = suite.jwtManager.ValidateToken(context.Background(), token)
	suite.True(errors.Is(err, models.ErrUnauthenticated))
}

func (suite *AuthMiddlewareTestSuite) TestResolve() {
	token, err := suite.jwtManager.GenerateToken(suite.admin)
	suite.Require().NoError(err)

	principal, err := suite.jwtManager.Resolve(context.Background(), token)
	suite.Require().NoError(err)
	suite.Equal(suite.admin.ID, principal.ID)
	suite.Equal(models.UserRoleAdministrator, principal.Role)
	suite.Equal("Ada Admin", principal.Name)
}

func (suite *AuthMiddlewareTestSuite) TestCleanupExpiredTokens() {
	suite.jwtManager.RevokeToken("old", time.Now().Add(-time.Minute))
	suite.jwtManager.RevokeToken("fresh", time.Now().Add(time.Hour))

	removed := suite.jwtManager.CleanupExpiredTokens()

	suite.Equal(1, removed)
	suite.NotContains(suite.jwtManager.BlacklistedTokens, "old")
	suite.Contains(suite.jwtManager.BlacklistedTokens, "fresh")
}

func (suite *AuthMiddlewareTestSuite) TestAuthMiddleware() {
	token, err := suite.jwtManager.GenerateToken(suite.resident)
	suite.Require().NoError(err)
	r := suite.router(suite.jwtManager.AuthMiddleware())

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"empty bearer", "Bearer ", http.StatusUnauthorized},
		{"invalid token", "Bearer nope", http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusOK},
		{"case insensitive scheme", "bearer " + token, http.StatusOK},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			w := suite.do(r, tt.header)
			suite.Equal(tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusUnauthorized {
				resp := decodeError(suite.T(), w)
				suite.Equal(models.ErrorTypeAuthentication, resp.Error.Type)
				suite.Equal("error", resp.Status)
			}
		})
	}
}

func (suite *AuthMiddlewareTestSuite) TestAuthMiddleware_SetsContext() {
	token, err := suite.jwtManager.GenerateToken(suite.resident)
	suite.Require().NoError(err)

	r := gin.New()
	r.GET("/protected", suite.jwtManager.AuthMiddleware(), func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		suite.True(ok)
		suite.Equal(suite.resident.ID, claims.UserID)
		suite.Equal(suite.resident.ID, c.GetString(UserIDKey))
		c.Status(http.StatusNoContent)
	})

	w := suite.do(r, "Bearer "+token)
	suite.Equal(http.StatusNoContent, w.Code)
}

func (suite *AuthMiddlewareTestSuite) TestAuthMiddleware_PrincipalMatchesResolve() {
	token, err := suite.jwtManager.GenerateToken(suite.admin)
	suite.Require().NoError(err)
	resolved, err := suite.jwtManager.Resolve(context.Background(), token)
	suite.Require().NoError(err)

	var seen *models.Principal
	r := gin.New()
	r.GET("/protected", suite.jwtManager.AuthMiddleware(), func(c *gin.Context) {
		seen, _ = PrincipalFrom(c)
		c.Status(http.StatusNoContent)
	})

	w := suite.do(r, "Bearer "+token)
	suite.Equal(http.StatusNoContent, w.Code)
	suite.Require().NotNil(seen)
	suite.Equal(*resolved, *seen)
}

func (suite *AuthMiddlewareTestSuite) TestRequireRole() {
	residentToken, err := suite.jwtManager.GenerateToken(suite.resident)
	suite.Require().NoError(err)
	adminToken, err := suite.jwtManager.GenerateToken(suite.admin)
	suite.Require().NoError(err)

	r := suite.router(suite.jwtManager.AuthMiddleware(), suite.jwtManager.RequireRole(models.UserRoleAdministrator))

	w := suite.do(r, "Bearer "+adminToken)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.do(r, "Bearer "+residentToken)
	suite.Equal(http.StatusForbidden, w.Code)
	resp := decodeError(suite.T(), w)
	suite.Equal(models.ErrorTypeAuthorization, resp.Error.Type)
}

func (suite *AuthMiddlewareTestSuite) TestRequireRole_WithoutAuthentication() {
	r := suite.router(suite.jwtManager.RequireRole(models.UserRoleAdministrator))

	w := suite.do(r, "")
	suite.Equal(http.StatusUnauthorized, w.Code)
}

// TestAuthMiddlewareTestSuite runs the test suite
func TestAuthMiddlewareTestSuite(t *testing.T) {
	suite.Run(t, new(AuthMiddlewareTestSuite))
}

func TestCORSOriginMatching(t *testing.T) {
	m := NewCORSMiddleware(&models.Config{CORSOrigins: []string{"https://app.example.com", "*.wastewise.io"}})

	assert.True(t, m.isOriginAllowed("https://app.example.com"))
	assert.True(t, m.isOriginAllowed("https://admin.wastewise.io"))
	assert.True(t, m.isOriginAllowed("https://wastewise.io"))
	assert.False(t, m.isOriginAllowed("https://evil.com"))
	assert.False(t, m.isOriginAllowed("https://notwastewise.io"))
}

func TestCORSPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(NewCORSMiddleware(&models.Config{CORSOrigins: []string{"https://app.example.com"}}).CORS())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := logger.NewLoggerWithOutput("error", "text", io.Discard)
	cfg := &models.Config{RateLimitRequestsPerMinute: 2, RateLimitStore: "memory"}

	limit, err := RateLimit(cfg, NewRateLimitStore(cfg, log), log)
	require.NoError(t, err)

	r := gin.New()
	r.Use(limit)
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
