package utils

import (
	"os"
	"regexp"
	"testing"
	"time"

	"wastewise-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// UtilsTestSuite defines a test suite for utils functions
type UtilsTestSuite struct {
	suite.Suite
	originalEnv map[string]string
}

var configEnvVars = []string{
	"APP_NAME", "APP_ENV", "APP_PORT",
	"JWT_SECRET", "JWT_EXPIRES_IN",
	"STORE_DRIVER", "DYNAMODB_TABLE_PREFIX",
	"QR_TOKEN_TTL", "QR_SECRET", "STRICT_RESIDENT_MATCH",
	"RATE_LIMIT_STORE", "REDIS_URL",
	"LOG_LEVEL", "LOG_FORMAT",
}

func (suite *UtilsTestSuite) SetupTest() {
	suite.originalEnv = make(map[string]string)
	for _, envVar := range configEnvVars {
		suite.originalEnv[envVar] = os.Getenv(envVar)
		os.Unsetenv(envVar)
	}
}

func (suite *UtilsTestSuite) TearDownTest() {
	for envVar, value := range suite.originalEnv {
		if value != "" {
			os.Setenv(envVar, value)
		} else {
			os.Unsetenv(envVar)
		}
	}
}

func (suite *UtilsTestSuite) TestGetConfigDefaults() {
	config, err := GetConfig()
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), "WasteWise Backend", config.AppName)
	assert.Equal(suite.T(), "8081", config.AppPort)
	assert.Equal(suite.T(), "dynamodb", config.StoreDriver)
	assert.Equal(suite.T(), 60*time.Minute, config.JWTExpiresIn)
	assert.Equal(suite.T(), 24*time.Hour, config.QRTokenTTL)
	assert.False(suite.T(), config.StrictResidentMatch)
	assert.Equal(suite.T(), config.JWTSecret, config.QRSecret)
	assert.Equal(suite.T(), []string{"users", "pickups", "request_codes"}, config.Tables)
	assert.Equal(suite.T(), "/api/v1", config.BasePath)
}

func (suite *UtilsTestSuite) TestGetConfigFromEnvironment() {
	os.Setenv("STORE_DRIVER", "memory")
	os.Setenv("JWT_EXPIRES_IN", "15m")
	os.Setenv("STRICT_RESIDENT_MATCH", "true")
	os.Setenv("QR_SECRET", "qr-secret")

	config, err := GetConfig()
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), "memory", config.StoreDriver)
	assert.Equal(suite.T(), 15*time.Minute, config.JWTExpiresIn)
	assert.True(suite.T(), config.StrictResidentMatch)
	assert.Equal(suite.T(), "qr-secret", config.QRSecret)
}

func (suite *UtilsTestSuite) TestValidateRejectsDefaultSecretInProduction() {
	cfg := &models.Config{
		AppEnv:         "production",
		JWTSecret:      defaultJWTSecret,
		StoreDriver:    "dynamodb",
		RateLimitStore: "memory",
		JWTExpiresIn:   time.Hour,
		QRTokenTTL:     time.Hour,
	}
	assert.Error(suite.T(), validate(cfg))
}

func (suite *UtilsTestSuite) TestValidateRejectsUnknownDrivers() {
	base := func() *models.Config {
		return &models.Config{
			JWTSecret:      "s",
			StoreDriver:    "memory",
			RateLimitStore: "memory",
			JWTExpiresIn:   time.Hour,
			QRTokenTTL:     time.Hour,
		}
	}

	cfg := base()
	cfg.StoreDriver = "postgres"
	assert.Error(suite.T(), validate(cfg))

	cfg = base()
	cfg.RateLimitStore = "redis"
	assert.Error(suite.T(), validate(cfg), "redis store needs a URL")

	cfg = base()
	cfg.RateLimitStore = "redis"
	cfg.RedisURL = "redis://localhost:6379/0"
	assert.NoError(suite.T(), validate(cfg))
}

func (suite *UtilsTestSuite) TestGenerateRequestCode() {
	pattern := regexp.MustCompile(`^REQ-[0-9A-F]{8}$`)
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code := GenerateRequestCode()
		assert.Regexp(suite.T(), pattern, code)
		seen[code] = true
	}
	assert.Greater(suite.T(), len(seen), 190)
}

func (suite *UtilsTestSuite) TestPasswordHashing() {
	hash, err := HashPassword("securePassword123")
	require.NoError(suite.T(), err)
	assert.NotEqual(suite.T(), "securePassword123", hash)
	assert.True(suite.T(), CheckPassword(hash, "securePassword123"))
	assert.False(suite.T(), CheckPassword(hash, "wrong"))
}

func (suite *UtilsTestSuite) TestParseDate() {
	d, err := ParseDate("2026-11-02")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 2026, d.Year())

	_, err = ParseDate("2026-11-02T09:00:00Z")
	assert.NoError(suite.T(), err)

	_, err = ParseDate("02/11/2026")
	assert.Error(suite.T(), err)
}

func (suite *UtilsTestSuite) TestNormalizeEmail() {
	assert.Equal(suite.T(), "jane@example.com", NormalizeEmail("  Jane@Example.COM "))
}

func TestUtilsTestSuite(t *testing.T) {
	suite.Run(t, new(UtilsTestSuite))
}
