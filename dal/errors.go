package dal

import (
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

var (
	// ErrItemNotFound is returned by GetItem when no item has the key
	ErrItemNotFound = errors.New("item not found")
	// ErrConditionFailed is returned when a conditional write is rejected
	ErrConditionFailed = errors.New("conditional check failed")
)

// IsConditionalCheckFailed reports whether err is DynamoDB's rejection of a condition expression
func IsConditionalCheckFailed(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrConditionFailed) {
		return true
	}
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == "ConditionalCheckFailedException"
	}
	return false
}

// IsTableNotFound reports whether err means the table does not exist
func IsTableNotFound(err error) bool {
	if err == nil {
		return false
	}
	var rnf *types.ResourceNotFoundException
	if errors.As(err, &rnf) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == "ResourceNotFoundException"
	}
	return false
}

// IsResourceInUse reports whether a CreateTable failed because the table already exists
func IsResourceInUse(err error) bool {
	var riu *types.ResourceInUseException
	if errors.As(err, &riu) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == "ResourceInUseException"
	}
	return false
}
