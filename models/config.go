package models

import "time"

// Config holds all configuration for the application
type Config struct {
	// Application
	AppName    string `mapstructure:"app_name"`
	AppVersion string `mapstructure:"app_version"`
	AppEnv     string `mapstructure:"app_env"`
	AppHost    string `mapstructure:"app_host"`
	AppPort    string `mapstructure:"app_port"`

	// JWT
	JWTSecret    string        `mapstructure:"jwt_secret"`
	JWTExpiresIn time.Duration `mapstructure:"jwt_expires_in"`

	// Storage driver: "dynamodb" or "memory"
	StoreDriver string `mapstructure:"store_driver"`

	// AWS
	AWSRegion           string `mapstructure:"aws_region"`
	AWSAccessKeyID      string `mapstructure:"aws_access_key_id"`
	AWSSecretAccessKey  string `mapstructure:"aws_secret_access_key"`
	DynamoDBEndpoint    string `mapstructure:"dynamodb_endpoint"`
	DynamoDBTablePrefix string `mapstructure:"dynamodb_table_prefix"`

	// Proof-of-collection photos (disabled when bucket is empty)
	S3Bucket       string `mapstructure:"s3_bucket"`
	S3Region       string `mapstructure:"s3_region"`
	S3PublicDomain string `mapstructure:"s3_public_domain"`
	S3Endpoint     string `mapstructure:"s3_endpoint"`

	// Verification Gate
	QRTokenTTL          time.Duration `mapstructure:"qr_token_ttl"`
	QRSecret            string        `mapstructure:"qr_secret"`
	StrictResidentMatch bool          `mapstructure:"strict_resident_match"`

	// First administrator, created when no administrator exists
	AdminSeedEmail    string `mapstructure:"admin_seed_email"`
	AdminSeedPassword string `mapstructure:"admin_seed_password"`
	AdminSeedName     string `mapstructure:"admin_seed_name"`

	// Integration events
	RabbitMQEnabled  bool   `mapstructure:"rabbitmq_enabled"`
	RabbitMQURL      string `mapstructure:"rabbitmq_url"`
	RabbitMQExchange string `mapstructure:"rabbitmq_exchange"`

	// Logging
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	// CORS
	CORSOrigins []string `mapstructure:"cors_origins"`

	// Rate Limiting
	RateLimitRequestsPerMinute int    `mapstructure:"rate_limit_requests_per_minute"`
	RateLimitStore             string `mapstructure:"rate_limit_store"`
	RedisURL                   string `mapstructure:"redis_url"`

	// Metrics
	MetricsEnabled bool `mapstructure:"metrics_enabled"`

	// Base Path
	BasePath string `mapstructure:"basePath"`

	Tables []string `mapstructure:"tables"`
}

// Table returns the prefixed DynamoDB table name for base
func (c *Config) Table(base string) string {
	if c.DynamoDBTablePrefix == "" {
		return base
	}
	return c.DynamoDBTablePrefix + "_" + base
}
