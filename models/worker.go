package models

import (
	"context"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/robfig/cron"
)

// TableProvisioner is the subset of the DAL used to provision tables
type TableProvisioner interface {
	CreateTable(ctx context.Context, input *dynamodb.CreateTableInput) error
	DescribeTable(ctx context.Context, tableName string) (*dynamodb.DescribeTableOutput, error)
}

// WorkerConfig holds configuration for the background worker
type WorkerConfig struct {
	ProvisionSchedule string `json:"provision_schedule"`
	CleanupSchedule   string `json:"cleanup_schedule"`

	LockTimeout time.Duration `json:"lock_timeout"`

	MaxRetries        int           `json:"max_retries"`
	RetryDelay        time.Duration `json:"retry_delay"`
	BackoffMultiplier float64       `json:"backoff_multiplier"`

	Environment    string   `json:"environment"`
	RequiredTables []string `json:"required_tables"`

	LockFilePath   string `json:"lock_file_path"`
	StatusFilePath string `json:"status_file_path"`

	DryRun bool `json:"dry_run"`
}

// Worker holds the runtime state of the background worker
type Worker struct {
	Config       *Config
	WorkerConfig *WorkerConfig
	CronJob      *cron.Cron
	OwnerID      string
	IsRunning    bool

	Mu       sync.Mutex
	StopOnce sync.Once
}

// LockInfo represents provisioning lock information
type LockInfo struct {
	ID          string    `json:"id"`
	Owner       string    `json:"owner"`
	AcquiredAt  time.Time `json:"acquired_at"`
	ExpiresAt   time.Time `json:"expires_at"`
	Environment string    `json:"environment"`
}

// WorkerStatus represents the provisioning state
type WorkerStatus string

const (
	StatusIdle      WorkerStatus = "idle"
	StatusRunning   WorkerStatus = "running"
	StatusCompleted WorkerStatus = "completed"
	StatusFailed    WorkerStatus = "failed"
	StatusRetrying  WorkerStatus = "retrying"
)

// ExecutionResult holds the result of a provisioning run
type ExecutionResult struct {
	Success       bool          `json:"success"`
	Status        WorkerStatus  `json:"status"`
	StartTime     time.Time     `json:"start_time"`
	EndTime       *time.Time    `json:"end_time,omitempty"`
	Duration      time.Duration `json:"duration"`
	TablesCreated []string      `json:"tables_created"`
	ErrorMessage  string        `json:"error_message,omitempty"`
	RetryCount    int           `json:"retry_count"`
	Environment   string        `json:"environment"`
}
