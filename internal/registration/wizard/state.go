package wizard

import (
	"time"

	"agora/internal/registration/models"
	"agora/internal/registration/validation"
)

// State is the wizard's top-level state.
type State string

const (
	StateEditing    State = "editing"
	StateSubmitting State = "submitting"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

// StepStatus tracks progress through a single step.
type StepStatus string

const (
	StepUntouched  StepStatus = "untouched"
	StepInProgress StepStatus = "in_progress"
	StepPassed     StepStatus = "passed"
)

// FieldError is the single failure surfaced for a step.
type FieldError struct {
	Field validation.FieldKind `json:"field"`
	Code  validation.ErrorCode `json:"code"`
}

// Redirect tells the presentation layer where to go after success.
type Redirect struct {
	URL   string        `json:"url"`
	After time.Duration `json:"after"`
}

// Transition describes the effect of an Advance call.
type Transition struct {
	From  int
	To    int
	State State
	// Error is set when validation blocked the step.
	Error *FieldError
	// Submission is the frozen draft handed to provisioning when the final
	// step passes. It is a deep copy; the wizard keeps its own draft.
	Submission *models.Draft
}

// Blocked reports whether validation kept the wizard on the same step.
func (t Transition) Blocked() bool {
	return t.Error != nil
}

// Snapshot is the persisted form of a wizard.
type Snapshot struct {
	ID        string             `json:"id"`
	Flow      string             `json:"flow"`
	Current   int                `json:"current"`
	State     State              `json:"state"`
	Status    map[int]StepStatus `json:"status"`
	Draft     models.Draft       `json:"draft"`
	LastError *FieldError        `json:"last_error,omitempty"`
	Failure   string             `json:"failure,omitempty"`
	Redirect  *Redirect          `json:"redirect,omitempty"`
	UpdatedAt time.Time          `json:"updated_at"`
}
