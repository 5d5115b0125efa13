package middelware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"wastewise-backend/models"
	"wastewise-backend/repository"
	"wastewise-backend/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Context keys set by AuthMiddleware
const (
	PrincipalKey = "principal"
	ClaimsKey    = "jwt_claims"
	UserIDKey    = "user_id"
)

// JWTManager is the Identity & Role Context: it issues, validates and revokes access tokens
type JWTManager struct {
	Config            *models.Config
	Logger            logger.Logger
	UserRepo          repository.UserRepositoryInterface
	BlacklistedTokens map[string]time.Time // token ID -> expiry of the revoked token
	TokenMutex        sync.RWMutex
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(cfg *models.Config, log logger.Logger, userRepo repository.UserRepositoryInterface) *JWTManager {
	return &JWTManager{
		Config:            cfg,
		Logger:            log,
		UserRepo:          userRepo,
		BlacklistedTokens: make(map[string]time.Time),
	}
}

// GenerateToken generates a JWT token for a user
func (j *JWTManager) GenerateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := models.JWTClaims{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   user.Role,
		Status: user.Status,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   user.ID,
			Issuer:    j.Config.AppName,
			Audience:  jwt.ClaimStrings{j.Config.AppName},
			ExpiresAt: jwt.NewNumericDate(now.Add(j.Config.JWTExpiresIn)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(j.Config.JWTSecret))
	if err != nil {
		j.Logger.Errorf("Failed to sign JWT token: %v", err)
		return "", err
	}

	j.Logger.Debugf("Generated JWT token for user: %s", user.ID)
	return tokenString, nil
}

// ValidateToken validates a JWT token and cross-verifies its subject against the user store.
// Every failure is an Unauthenticated error.
func (j *JWTManager) ValidateToken(ctx context.Context, tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Prevent algorithm confusion attacks
		if method, ok := token.Method.(*jwt.SigningMethodHMAC); !ok || method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(j.Config.JWTSecret), nil
	})
	if err != nil {
		return nil, models.NewUnauthenticated(fmt.Sprintf("invalid token: %v", err))
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, models.NewUnauthenticated("invalid token")
	}

	now := time.Now()
	if claims.ExpiresAt == nil || claims.ExpiresAt.Before(now) {
		return nil, models.NewUnauthenticated("token expired")
	}
	if claims.NotBefore != nil && claims.NotBefore.After(now) {
		return nil, models.NewUnauthenticated("token not yet valid")
	}

	j.TokenMutex.RLock()
	expiry, revoked := j.BlacklistedTokens[claims.ID]
	j.TokenMutex.RUnlock()
	if revoked && expiry.After(now) {
		return nil, models.NewUnauthenticated("token has been revoked")
	}

	if j.UserRepo != nil {
		user, err := j.UserRepo.GetUserByID(ctx, claims.UserID)
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.NewUnauthenticated("user not found")
		}
		if err != nil {
			j.Logger.Errorf("Failed to verify user in database: %v", err)
			return nil, models.NewUnauthenticated("user verification failed")
		}
		if user.Status != models.UserStatusActive {
			return nil, models.NewUnauthenticated(fmt.Sprintf("user account is %s", user.Status))
		}
		if user.Role != claims.Role {
			return nil, models.NewUnauthenticated("token role no longer matches account")
		}
	}

	return claims, nil
}

// Resolve turns a bearer credential into the calling principal
func (j *JWTManager) Resolve(ctx context.Context, credential string) (*models.Principal, error) {
	principal, _, err := j.resolve(ctx, credential)
	return principal, err
}

// resolve is Resolve plus the validated claims, which logout needs
func (j *JWTManager) resolve(ctx context.Context, credential string) (*models.Principal, *models.JWTClaims, error) {
	claims, err := j.ValidateToken(ctx, credential)
	if err != nil {
		return nil, nil, err
	}
	return &models.Principal{
		ID:    claims.UserID,
		Role:  claims.Role,
		Name:  claims.Name,
		Email: claims.Email,
	}, claims, nil
}

// RevokeToken blacklists tokenID until expiry (logout)
func (j *JWTManager) RevokeToken(tokenID string, expiry time.Time) {
	j.TokenMutex.Lock()
	defer j.TokenMutex.Unlock()

	j.BlacklistedTokens[tokenID] = expiry
	j.Logger.Debugf("Revoked token %s", tokenID)
}

// CleanupExpiredTokens removes expired tokens from blacklist and returns how many were dropped
func (j *JWTManager) CleanupExpiredTokens() int {
	j.TokenMutex.Lock()
	defer j.TokenMutex.Unlock()

	now := time.Now()
	removed := 0
	for tokenID, expiry := range j.BlacklistedTokens {
		if expiry.Before(now) {
			delete(j.BlacklistedTokens, tokenID)
			removed++
		}
	}
	j.Logger.Debugf("Cleaned up %d expired blacklisted tokens", removed)
	return removed
}

// AuthMiddleware validates the bearer token and stores the principal in the context
func (j *JWTManager) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "Missing Authorization header", models.ErrorTypeAuthentication, "Authorization header is required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			abortWithError(c, http.StatusUnauthorized, "Invalid Authorization header format", models.ErrorTypeAuthentication, "Authorization header must be in format: Bearer <token>")
			return
		}

		principal, claims, err := j.resolve(c.Request.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			j.Logger.Warnf("Token validation failed: %v", err)
			abortWithError(c, http.StatusUnauthorized, "Invalid or expired token", models.ErrorTypeAuthentication, err.Error())
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(ClaimsKey, claims)
		c.Set(PrincipalKey, principal)
		c.Next()
	}
}

// RequireRole middleware rejects principals whose role is not listed
func (j *JWTManager) RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := PrincipalFrom(c)
		if !ok {
			abortWithError(c, http.StatusUnauthorized, "Authentication required", models.ErrorTypeAuthentication, "User not authenticated")
			return
		}

		if !principal.HasRole(roles...) {
			j.Logger.Warnf("User %s with role %s denied, requires one of %v", principal.ID, principal.Role, roles)
			abortWithError(c, http.StatusForbidden, "Insufficient permissions", models.ErrorTypeAuthorization, fmt.Sprintf("Required role: %v", roles))
			return
		}
		c.Next()
	}
}

// PrincipalFrom returns the principal stored by AuthMiddleware
func PrincipalFrom(c *gin.Context) (*models.Principal, bool) {
	v, ok := c.Get(PrincipalKey)
	if !ok {
		return nil, false
	}
	p, ok := v.(*models.Principal)
	return p, ok && p != nil
}

// ClaimsFrom returns the claims stored by AuthMiddleware
func ClaimsFrom(c *gin.Context) (*models.JWTClaims, bool) {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*models.JWTClaims)
	return claims, ok && claims != nil
}

func abortWithError(c *gin.Context, status int, message, errType, details string) {
	c.AbortWithStatusJSON(status, models.APIResponse{
		Status:  "error",
		Code:    status,
		Message: message,
		Error: &models.APIError{
			Type:    errType,
			Details: details,
		},
	})
}
