package provisioning

import (
	"fmt"
	"slices"

	id "agora/pkg/domain"
	dErrors "agora/pkg/domain-errors"
)

// PhaseID names a unit of work in the provisioning run.
type PhaseID string

const (
	PhaseIdentity         PhaseID = "identity.create"
	PhaseArtifactUpload   PhaseID = "artifact.upload"
	PhaseArtifactMetadata PhaseID = "artifact.metadata"
	PhaseContactUpdate    PhaseID = "profile.contact"
	PhaseRoleProfile      PhaseID = "profile.role"
)

// PhaseStatus is the result of one phase.
type PhaseStatus string

const (
	StatusSucceeded       PhaseStatus = "succeeded"
	StatusSkippedOptional PhaseStatus = "skipped_optional"
	StatusFailedFatal     PhaseStatus = "failed_fatal"
	StatusFailedNonFatal  PhaseStatus = "failed_non_fatal"
)

// PhaseResult records what happened in one phase. Subject names the
// artifact category for per-artifact phases.
type PhaseResult struct {
	Phase   PhaseID     `json:"phase"`
	Subject string      `json:"subject,omitempty"`
	Status  PhaseStatus `json:"status"`
	Detail  string      `json:"detail,omitempty"`
	Err     error       `json:"-"`
}

// Outcome is the ordered, immutable record of one provisioning attempt.
type Outcome struct {
	accountID id.UserID
	phases    []PhaseResult
}

// NewOutcome assembles an outcome from phase results in execution order.
func NewOutcome(accountID id.UserID, phases []PhaseResult) Outcome {
	return Outcome{accountID: accountID, phases: slices.Clone(phases)}
}

// Succeeded is true iff no phase failed fatally.
func (o Outcome) Succeeded() bool {
	_, failed := o.fatal()
	return !failed && len(o.phases) > 0
}

// AccountID is the created identity, or the nil id when identity creation failed.
func (o Outcome) AccountID() id.UserID {
	return o.accountID
}

// Phases returns a copy of the per-phase results in execution order.
func (o Outcome) Phases() []PhaseResult {
	return slices.Clone(o.phases)
}

// NonFatalFailures lists failures that were recorded but did not abort.
func (o Outcome) NonFatalFailures() []PhaseResult {
	var out []PhaseResult
	for _, p := range o.phases {
		if p.Status == StatusFailedNonFatal {
			out = append(out, p)
		}
	}
	return out
}

// Err returns the fatal failure as an external-call error, or nil.
func (o Outcome) Err() error {
	p, failed := o.fatal()
	if !failed {
		return nil
	}
	return dErrors.Wrap(p.Err, dErrors.CodeExternalCall, fmt.Sprintf("%s failed", p.Phase))
}

// Reason is a short description of the fatal failure for the wizard.
func (o Outcome) Reason() string {
	p, failed := o.fatal()
	if !failed {
		return ""
	}
	switch p.Phase {
	case PhaseIdentity:
		return "account could not be created"
	case PhaseRoleProfile:
		return "account created but profile setup failed"
	}
	return string(p.Phase) + " failed"
}

func (o Outcome) fatal() (PhaseResult, bool) {
	for _, p := range o.phases {
		if p.Status == StatusFailedFatal {
			return p, true
		}
	}
	return PhaseResult{}, false
}
