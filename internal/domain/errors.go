package domain

import (
	"errors"
	"strings"
)

// Error kinds. Every error returned by a service unwraps to one of these,
// or is treated as a storage failure.
var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicate    = errors.New("record already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("authentication required")
	ErrForbidden    = errors.New("access forbidden")
)

// Rule violations surfaced to clients as-is.
var (
	ErrMembershipCancelled  = NewRuleError(ErrValidation, "membership is cancelled")
	ErrMembershipNotActive  = NewRuleError(ErrValidation, "membership is not active")
	ErrMembershipExpired    = NewRuleError(ErrValidation, "membership has expired")
	ErrEventFull            = NewRuleError(ErrValidation, "event is at full capacity")
	ErrAlreadyRegistered    = NewRuleError(ErrValidation, "member is already registered for this event")
	ErrNotRegistered        = NewRuleError(ErrValidation, "member is not registered for this event")
	ErrNoRegistrations      = NewRuleError(ErrValidation, "no registrations to remove")
	ErrCapacityTooLow       = NewRuleError(ErrValidation, "capacity cannot be less than current registrations")
	ErrInvalidCredentials   = NewRuleError(ErrUnauthorized, "invalid username or password")
	ErrAccountNotVerified   = NewRuleError(ErrForbidden, "account not verified by admin")
	ErrMembershipNotFound   = NewRuleError(ErrNotFound, "membership not found")
	ErrDurationNotFound     = NewRuleError(ErrNotFound, "duration not found")
	ErrEventNotFound        = NewRuleError(ErrNotFound, "event not found")
	ErrTransactionNotFound  = NewRuleError(ErrNotFound, "transaction not found")
	ErrMaintenanceNotFound  = NewRuleError(ErrNotFound, "maintenance task not found")
	ErrUserNotFound         = NewRuleError(ErrNotFound, "user not found")
	ErrDuplicateMembership  = NewRuleError(ErrDuplicate, "membership number already exists")
	ErrDuplicateDuration    = NewRuleError(ErrDuplicate, "this duration already exists")
	ErrDuplicateUser        = NewRuleError(ErrDuplicate, "username or email already exists")
	ErrInvalidRefreshToken  = NewRuleError(ErrUnauthorized, "invalid or expired refresh token")
	ErrArchiveNotConfigured = errors.New("report archive is not configured")
)

// RuleError is a client-facing message tagged with an error kind.
type RuleError struct {
	kind error
	msg  string
}

// NewRuleError creates a RuleError that unwraps to kind.
func NewRuleError(kind error, msg string) *RuleError {
	return &RuleError{kind: kind, msg: msg}
}

func (e *RuleError) Error() string { return e.msg }

func (e *RuleError) Unwrap() error { return e.kind }

// FieldError describes a single failing request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every failing field of a request.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return strings.Join(parts, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Add appends a field failure.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// OrNil returns nil when no field failed.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}
