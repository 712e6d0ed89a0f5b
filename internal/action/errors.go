package action

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when no item exists for an (analysis, id) pair.
var ErrNotFound = errors.New("action: not found")

// FieldError names one offending field of a payload.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports malformed or missing input.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "action: validation failed: " + strings.Join(parts, "; ")
}

// add records a problem with field.
func (e *ValidationError) add(field, format string, args ...any) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// orNil returns e when it holds at least one field error.
func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// GuardError reports a transition whose precondition does not hold.
type GuardError struct {
	Code    string
	Message string
}

func (e *GuardError) Error() string {
	return "action: " + e.Message
}

// Is matches guard errors by code so wrapped copies compare equal to the sentinels.
func (e *GuardError) Is(target error) bool {
	t, ok := target.(*GuardError)
	return ok && t.Code == e.Code
}

var (
	ErrRollbackPlanRequired = &GuardError{
		Code:    "rollback_plan_required",
		Message: "rollback plan required before moving a high-risk or change-controlled action to In-Progress",
	}
	ErrVerificationRequired = &GuardError{
		Code:    "verification_evidence_required",
		Message: "verification evidence required (result, checkedBy, checkedAt) before moving action to Done",
	}
)
