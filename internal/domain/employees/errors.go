package employees

import (
	"errors"
	"strings"
)

var (
	ErrNotFound     = errors.New("Employee not found")
	ErrConflict     = errors.New("Employee with this email already exists")
	ErrInvalidInput = errors.New("invalid input")
)

type Issue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError lists every field problem in form order.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return ErrInvalidInput.Error()
	}
	reasons := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		reasons = append(reasons, issue.Reason)
	}
	return strings.Join(reasons, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// Message is the first issue, the one surfaced to API callers.
func (e *ValidationError) Message() string {
	if len(e.Issues) == 0 {
		return ErrInvalidInput.Error()
	}
	return e.Issues[0].Reason
}
