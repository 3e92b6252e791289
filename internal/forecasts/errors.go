package forecasts

import (
	"errors"
	"fmt"
	"strings"
)

var ErrNotFound = errors.New("not found")

const (
	ErrorCodeValidation     = "validation_error"
	ErrorCodeUnknownService = "unknown_service"
	ErrorCodeInternal       = "internal_error"
)

// FieldIssue points at a single invalid input field.
type FieldIssue struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

// ValidationError collects input problems detected before scoring.
type ValidationError struct {
	Details []FieldIssue
}

func (e *ValidationError) Error() string {
	issues := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		issues = append(issues, fmt.Sprintf("%s: %s", d.Field, d.Issue))
	}
	return "invalid change request: " + strings.Join(issues, "; ")
}

// UnknownServiceError reports services_touched entries absent from the
// dependency graph, along with the known universe so callers can
// self-correct.
type UnknownServiceError struct {
	Unknown []string
	Known   []string
}

func (e *UnknownServiceError) Error() string {
	return fmt.Sprintf("one or more services are not in the dependency graph: %s", strings.Join(e.Unknown, ", "))
}
