package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"wastewise-backend/infrastructure"
	"wastewise-backend/models"
	"wastewise-backend/utils/logger"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

// TableSetup creates the DynamoDB tables the repositories expect
type TableSetup struct {
	db     models.TableProvisioner
	config *models.Config
	logger logger.Logger
}

// NewTableSetup creates a new table setup handler
func NewTableSetup(db models.TableProvisioner, cfg *models.Config, log logger.Logger) *TableSetup {
	return &TableSetup{
		db:     db,
		config: cfg,
		logger: log,
	}
}

// baseTables returns the configured tables, or every table in the embedded schema
func (ts *TableSetup) baseTables() []string {
	if len(ts.config.Tables) > 0 {
		return ts.config.Tables
	}
	return infrastructure.BaseTables()
}

// EnsureTables creates every missing table and returns the names it created.
// Existing tables are left untouched.
func (ts *TableSetup) EnsureTables(ctx context.Context) ([]string, error) {
	created := []string{}
	for _, base := range ts.baseTables() {
		name := ts.config.Table(base)

		exists, err := ts.tableExists(ctx, name)
		if err != nil {
			return created, fmt.Errorf("failed to describe table %s: %w", name, err)
		}
		if exists {
			ts.logger.Debugf("Table %s already exists, skipping creation", name)
			continue
		}

		input, err := infrastructure.GetTable(base, name)
		if err != nil {
			return created, err
		}
		if err := ts.db.CreateTable(ctx, input); err != nil {
			if isResourceInUseError(err) {
				ts.logger.Infof("Table %s is being created by another process", name)
				continue
			}
			return created, fmt.Errorf("failed to create table %s: %w", name, err)
		}

		ts.logger.Infof("Created table %s", name)
		created = append(created, name)
	}
	return created, nil
}

func (ts *TableSetup) tableExists(ctx context.Context, tableName string) (bool, error) {
	_, err := ts.db.DescribeTable(ctx, tableName)
	if err != nil {
		if isTableNotFoundError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// isTableNotFoundError checks if error indicates table not found
func isTableNotFoundError(err error) bool {
	if err == nil {
		return false
	}

	var notFound *types.ResourceNotFoundException
	if errors.As(err, &notFound) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == "ResourceNotFoundException"
	}

	return strings.Contains(err.Error(), "ResourceNotFoundException")
}

func isResourceInUseError(err error) bool {
	var inUse *types.ResourceInUseException
	if errors.As(err, &inUse) {
		return true
	}
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "ResourceInUseException"
}
