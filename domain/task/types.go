package task

import (
	"fmt"
	"strings"

	"gomlready/domain/core"
)

// Type is the supervised learning task.
type Type string

const (
	Classification Type = "classification"
	Regression     Type = "regression"
)

// ParseType accepts "classification" or "regression", case-insensitively.
// An empty string means no override and returns nil.
func ParseType(s string) (*Type, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch Type(s) {
	case "":
		return nil, nil
	case Classification, Regression:
		t := Type(s)
		return &t, nil
	}
	return nil, fmt.Errorf("%w: %q", core.ErrInvalidTaskType, s)
}

// Ptr returns a pointer to t.
func (t Type) Ptr() *Type { return &t }

// PotentialTarget is a scored candidate target column.
type PotentialTarget struct {
	Column         string  `json:"column"`
	Type           string  `json:"type"`
	Unique         int     `json:"unique"`
	NullPercentage float64 `json:"null_percentage"`
	Score          int     `json:"score"`
	LikelyTask     Type    `json:"likely_task"`
}

// Detection is the Task/Target Detector's output. TaskType and
// TargetColumn are nil when no target was found.
type Detection struct {
	TaskType         *Type             `json:"task_type"`
	TargetColumn     *string           `json:"target_column"`
	Confidence       float64           `json:"confidence"`
	Reasoning        []string          `json:"reasoning"`
	NumClasses       *int              `json:"num_classes,omitempty"`
	PotentialTargets []PotentialTarget `json:"potential_targets,omitempty"`
	BalanceRatio     *float64          `json:"balance_ratio,omitempty"`
	IsImbalanced     bool              `json:"is_imbalanced"`
}

// Is reports whether the detected task type equals t.
func (d *Detection) Is(t Type) bool {
	return d != nil && d.TaskType != nil && *d.TaskType == t
}

// Target returns the target column or "".
func (d *Detection) Target() string {
	if d == nil || d.TargetColumn == nil {
		return ""
	}
	return *d.TargetColumn
}

// TypeName returns the task type or "".
func (d *Detection) TypeName() string {
	if d == nil || d.TaskType == nil {
		return ""
	}
	return string(*d.TaskType)
}
