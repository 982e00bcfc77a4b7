package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound         = errors.New("resource not found")
	ErrAnalysisNotFound = fmt.Errorf("%w: analysis", ErrNotFound)
	ErrTargetNotFound   = fmt.Errorf("%w: target column", ErrNotFound)

	// Input errors
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnsupportedFormat  = errors.New("unsupported file format")
	ErrEmptyDataset       = errors.New("dataset is empty")
	ErrInvalidTaskType    = fmt.Errorf("%w: task type", ErrInvalidInput)
	ErrMalformedRow       = fmt.Errorf("%w: malformed row", ErrInvalidInput)
	ErrDuplicateColumn    = fmt.Errorf("%w: duplicate column", ErrInvalidInput)
	ErrStageFailed        = errors.New("pipeline stage failed")
	ErrStageSkipped       = errors.New("pipeline stage skipped")
	ErrStoreNotConfigured = errors.New("analysis store not configured")
)

// Error constructors with context
func NewValidationError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidInput, field, reason)
}

func NewTargetNotFoundError(column string) error {
	return fmt.Errorf("%w: %q", ErrTargetNotFound, column)
}

func NewStageError(stage string, cause any) error {
	return fmt.Errorf("%w: %s: %v", ErrStageFailed, stage, cause)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrUnsupportedFormat) ||
		errors.Is(err, ErrEmptyDataset)
}
