package models

import (
	"errors"
	"fmt"
)

// Error kinds of the pickup workflow. Match them with errors.Is.
var (
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrValidation        = errors.New("validation error")
	ErrConflict          = errors.New("conflict")
	ErrTokenMismatch     = errors.New("token mismatch")
	ErrTokenExpired      = errors.New("token expired")
	ErrAlreadyExists     = errors.New("already exists")
)

// WorkflowError is a classified error. Kind is one of the sentinels above and
// Err an optional cause; both are visible to errors.Is and errors.As.
type WorkflowError struct {
	Kind    error
	Message string
	Field   string
	Err     error
}

func (e *WorkflowError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.Error()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap exposes both the kind and the cause
func (e *WorkflowError) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func NewUnauthenticated(msg string) error {
	return &WorkflowError{Kind: ErrUnauthenticated, Message: msg}
}

func NewForbidden(msg string) error {
	return &WorkflowError{Kind: ErrForbidden, Message: msg}
}

func NewNotFound(entity, id string) error {
	return &WorkflowError{Kind: ErrNotFound, Message: fmt.Sprintf("%s %s not found", entity, id)}
}

func NewInvalidTransition(from, to PickupStatus) error {
	return &WorkflowError{Kind: ErrInvalidTransition, Message: fmt.Sprintf("cannot transition from %s to %s", from, to)}
}

func NewValidation(field, msg string) error {
	return &WorkflowError{Kind: ErrValidation, Message: msg, Field: field}
}

func NewConflict(msg string) error {
	return &WorkflowError{Kind: ErrConflict, Message: msg}
}

func NewTokenMismatch(msg string) error {
	return &WorkflowError{Kind: ErrTokenMismatch, Message: msg}
}

func NewTokenExpired(msg string) error {
	return &WorkflowError{Kind: ErrTokenExpired, Message: msg}
}

func NewAlreadyExists(msg string) error {
	return &WorkflowError{Kind: ErrAlreadyExists, Message: msg}
}

// NewVerificationFailed reports a failed Verification Gate as Forbidden,
// keeping the gate's own error reachable for errors.Is.
func NewVerificationFailed(cause error) error {
	return &WorkflowError{Kind: ErrForbidden, Message: "verification failed", Err: cause}
}

// ErrorField returns the offending field of a validation error, if any
func ErrorField(err error) string {
	var we *WorkflowError
	if errors.As(err, &we) {
		return we.Field
	}
	return ""
}
