package service

import (
	"context"
	"errors"
	"fmt"

	"agora/internal/audit"
	"agora/internal/registration/models"
	"agora/internal/registration/provisioning"
	"agora/internal/registration/validation"
	"agora/internal/registration/wizard"
	id "agora/pkg/domain"
	dErrors "agora/pkg/domain-errors"
	"agora/pkg/platform/sentinel"
)

// Start opens a new registration on step 1 of the named flow.
func (s *Service) Start(ctx context.Context, flowName string) (View, error) {
	flow, ok := s.flows[flowName]
	if !ok {
		return View{}, dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("unknown registration flow %q", flowName))
	}
	w := wizard.New(id.NewDraftID(), flow, s.wizardOptions(ctx)...)
	if err := s.save(ctx, w); err != nil {
		return View{}, err
	}
	s.emit(ctx, audit.Event{Action: audit.ActionStarted, DraftID: w.ID(), Flow: flow.Name})
	s.logger.InfoContext(ctx, "registration started", "draft_id", w.ID().String(), "flow", flow.Name)
	return newView(w), nil
}

// Get returns the current view of a registration.
func (s *Service) Get(ctx context.Context, draftID id.DraftID) (View, error) {
	w, err := s.load(ctx, draftID)
	if err != nil {
		return View{}, err
	}
	return newView(w), nil
}

// SetField edits one field on the current step and returns its live validation.
func (s *Service) SetField(ctx context.Context, draftID id.DraftID, field validation.FieldKind, value string) (View, FieldResult, error) {
	return s.edit(ctx, draftID, field, func(w *wizard.Wizard) (validation.Result, error) {
		return w.Set(field, value)
	})
}

// SetCapabilities replaces the capability selection.
func (s *Service) SetCapabilities(ctx context.Context, draftID id.DraftID, tags []string) (View, FieldResult, error) {
	return s.edit(ctx, draftID, validation.FieldCapabilities, func(w *wizard.Wizard) (validation.Result, error) {
		return w.SetCapabilities(tags)
	})
}

// AttachArtifact stores a verification document on the draft, replacing any
// earlier one of the same category. An invalid artifact is kept and blocks
// the step on Advance.
func (s *Service) AttachArtifact(ctx context.Context, draftID id.DraftID, artifact models.Artifact) (View, FieldResult, error) {
	if !artifact.Category.IsValid() {
		return View{}, FieldResult{}, dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("unknown artifact category %q", artifact.Category))
	}
	return s.edit(ctx, draftID, validation.FieldArtifact, func(w *wizard.Wizard) (validation.Result, error) {
		return w.AttachArtifact(artifact)
	})
}

// RemoveArtifact drops the document of the given category.
func (s *Service) RemoveArtifact(ctx context.Context, draftID id.DraftID, category models.ArtifactCategory) (View, error) {
	if !category.IsValid() {
		return View{}, dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("unknown artifact category %q", category))
	}
	w, err := s.load(ctx, draftID)
	if err != nil {
		return View{}, err
	}
	if err := w.RemoveArtifact(category); err != nil {
		return View{}, err
	}
	if err := s.save(ctx, w); err != nil {
		return View{}, err
	}
	return newView(w), nil
}

func (s *Service) edit(ctx context.Context, draftID id.DraftID, field validation.FieldKind, apply func(*wizard.Wizard) (validation.Result, error)) (View, FieldResult, error) {
	w, err := s.load(ctx, draftID)
	if err != nil {
		return View{}, FieldResult{}, err
	}
	res, err := apply(w)
	if err != nil {
		return View{}, FieldResult{}, err
	}
	s.recordValidation(field, res)
	if err := s.save(ctx, w); err != nil {
		return View{}, FieldResult{}, err
	}
	return newView(w), newFieldResult(field, res), nil
}

// Retreat moves back one step.
func (s *Service) Retreat(ctx context.Context, draftID id.DraftID) (View, error) {
	w, err := s.load(ctx, draftID)
	if err != nil {
		return View{}, err
	}
	from := w.CurrentStep()
	if err := w.Retreat(); err != nil {
		return View{}, err
	}
	s.recordStep(w.Flow().Name, from, "retreated")
	if err := s.save(ctx, w); err != nil {
		return View{}, err
	}
	return newView(w), nil
}

// Advance validates the current step and moves forward. Passing the final
// step submits the draft and runs provisioning before returning.
//
// Concurrent calls for one draft within this process share a single
// execution. Across processes, the move into submission is a conditional
// save, and a draft already submitting is rejected with a conflict.
func (s *Service) Advance(ctx context.Context, draftID id.DraftID) (View, error) {
	v, err, _ := s.submissions.Do(draftID.String(), func() (any, error) {
		return s.advance(ctx, draftID)
	})
	if err != nil {
		return View{}, err
	}
	return v.(View), nil
}

func (s *Service) advance(ctx context.Context, draftID id.DraftID) (View, error) {
	w, err := s.load(ctx, draftID)
	if err != nil {
		return View{}, err
	}
	if w.State() == wizard.StateSubmitting {
		return View{}, dErrors.New(dErrors.CodeConflict, "registration is already being submitted")
	}

	prior := w.State()
	flow := w.Flow()
	tr, err := w.Advance()
	if err != nil {
		return View{}, err
	}

	if tr.Blocked() {
		s.recordStep(flow.Name, tr.From, "blocked")
		if s.metrics != nil {
			s.metrics.IncValidationFailure(string(tr.Error.Field), string(tr.Error.Code))
		}
		if err := s.save(ctx, w); err != nil {
			return View{}, err
		}
		return newView(w), nil
	}
	s.recordStep(flow.Name, tr.From, "passed")

	if tr.Submission == nil {
		if err := s.save(ctx, w); err != nil {
			return View{}, err
		}
		return newView(w), nil
	}

	if err := s.sessions.SaveIf(ctx, w.Snapshot(), prior); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return View{}, dErrors.New(dErrors.CodeConflict, "registration is already being submitted")
		}
		if errors.Is(err, sentinel.ErrNotFound) {
			return View{}, dErrors.New(dErrors.CodeNotFound, "registration not found or expired")
		}
		return View{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save registration")
	}
	return s.submit(ctx, w, *tr.Submission)
}

// submit runs provisioning for a wizard in the submitting state and records
// the terminal outcome. The saga is not bound to the caller's cancellation:
// abandoning it midway would leave a half-provisioned account.
func (s *Service) submit(ctx context.Context, w *wizard.Wizard, draft models.Draft) (View, error) {
	flow := w.Flow()
	base := audit.Event{DraftID: w.ID(), Flow: flow.Name, Email: draft.Email}

	submitted := base
	submitted.Action = audit.ActionSubmitted
	s.emit(ctx, submitted)

	outcome := s.provisioner.Provision(context.WithoutCancel(ctx), flow.Role, draft)

	final := base
	final.AccountID = outcome.AccountID()
	for _, p := range outcome.NonFatalFailures() {
		final.NonFatal = append(final.NonFatal, phaseLabel(p))
	}

	if outcome.Succeeded() {
		if err := w.Succeed(); err != nil {
			return View{}, err
		}
		final.Action = audit.ActionSucceeded
		s.logger.InfoContext(ctx, "registration succeeded",
			"draft_id", w.ID().String(),
			"account_id", outcome.AccountID().String(),
			"non_fatal_failures", len(final.NonFatal),
		)
		s.recordOutcome(flow.Name, "succeeded")
	} else {
		if err := w.Fail(outcome.Reason()); err != nil {
			return View{}, err
		}
		final.Action = audit.ActionFailed
		final.Reason = outcome.Reason()
		s.logger.ErrorContext(ctx, "registration failed",
			"draft_id", w.ID().String(),
			"account_id", outcome.AccountID().String(),
			"error", outcome.Err(),
		)
		s.recordOutcome(flow.Name, "failed")
	}
	s.emit(ctx, final)

	if err := s.save(ctx, w); err != nil {
		return View{}, err
	}
	v := newView(w)
	v.Provisioning = newProvisioningView(outcome)
	return v, nil
}

func phaseLabel(p provisioning.PhaseResult) string {
	if p.Subject == "" {
		return string(p.Phase)
	}
	return string(p.Phase) + ":" + p.Subject
}

func (s *Service) recordStep(flow string, step int, result string) {
	if s.metrics != nil {
		s.metrics.IncStep(flow, step, result)
	}
}

func (s *Service) recordOutcome(flow, outcome string) {
	if s.metrics != nil {
		s.metrics.IncOutcome(flow, outcome)
	}
}
