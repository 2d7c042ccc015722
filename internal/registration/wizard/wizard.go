// Package wizard implements the bounded linear registration wizard.
//
// A Wizard has one writer at a time: the service loads it, applies exactly
// one user event, and saves it. Validation failures never escape as errors;
// they only change the wizard's state. Errors are returned solely for events
// that are illegal in the current state.
package wizard

import (
	"fmt"
	"strings"
	"time"

	"agora/internal/registration/models"
	"agora/internal/registration/validation"
	id "agora/pkg/domain"
	dErrors "agora/pkg/domain-errors"
	pstrings "agora/pkg/platform/strings"
)

// Wizard holds a registration draft and the current step.
//
// Invariants:
//   - current is in [1, len(steps)]
//   - current only moves past step k when status[k] is StepPassed
//   - retreating sets the target step back to StepInProgress
//   - the draft is only mutated while editing
type Wizard struct {
	id     id.DraftID
	flow   models.Flow
	engine *validation.Engine
	clock  func() time.Time
	steps  []Step

	current   int
	state     State
	status    map[int]StepStatus
	draft     models.Draft
	required  FieldSet
	lastError *FieldError
	failure   string
	redirect  *Redirect
}

// Option configures a Wizard.
type Option func(*Wizard)

// WithClock sets the time source used by date rules.
func WithClock(clock func() time.Time) Option {
	return func(w *Wizard) {
		if clock != nil {
			w.clock = clock
		}
	}
}

// WithEngine sets the validation engine.
func WithEngine(engine *validation.Engine) Option {
	return func(w *Wizard) {
		if engine != nil {
			w.engine = engine
		}
	}
}

// New starts a wizard on the first step.
func New(draftID id.DraftID, flow models.Flow, opts ...Option) *Wizard {
	w := &Wizard{
		id:      draftID,
		flow:    flow,
		engine:  validation.NewEngine(),
		clock:   time.Now,
		steps:   Steps(),
		current: StepPersonal,
		state:   StateEditing,
		status:  make(map[int]StepStatus),
	}
	for _, opt := range opts {
		opt(w)
	}
	for _, s := range w.steps {
		w.status[s.Index] = StepUntouched
	}
	w.status[w.current] = StepInProgress
	w.required = RequiredFields(w.current, w.draft)
	return w
}

// Restore rebuilds a wizard from a snapshot.
func Restore(s Snapshot, flow models.Flow, opts ...Option) (*Wizard, error) {
	draftID, err := id.ParseDraftID(s.ID)
	if err != nil {
		return nil, err
	}
	if s.Flow != flow.Name {
		return nil, dErrors.New(dErrors.CodeInvariantViolation,
			fmt.Sprintf("snapshot flow %q does not match %q", s.Flow, flow.Name))
	}
	w := New(draftID, flow, opts...)
	if s.Current < 1 || s.Current > len(w.steps) {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "snapshot step out of range")
	}
	w.current = s.Current
	w.state = s.State
	for k, v := range s.Status {
		w.status[k] = v
	}
	w.draft = s.Draft
	w.lastError = s.LastError
	w.failure = s.Failure
	w.redirect = s.Redirect
	w.required = RequiredFields(w.current, w.draft)
	return w, nil
}

// Snapshot captures the wizard for persistence.
func (w *Wizard) Snapshot() Snapshot {
	status := make(map[int]StepStatus, len(w.status))
	for k, v := range w.status {
		status[k] = v
	}
	return Snapshot{
		ID:        w.id.String(),
		Flow:      w.flow.Name,
		Current:   w.current,
		State:     w.state,
		Status:    status,
		Draft:     w.draft.Clone(),
		LastError: w.lastError,
		Failure:   w.failure,
		Redirect:  w.redirect,
		UpdatedAt: w.clock(),
	}
}

func (w *Wizard) ID() id.DraftID         { return w.id }
func (w *Wizard) Flow() models.Flow      { return w.flow }
func (w *Wizard) State() State           { return w.state }
func (w *Wizard) CurrentStep() int       { return w.current }
func (w *Wizard) TotalSteps() int        { return len(w.steps) }
func (w *Wizard) LastError() *FieldError { return w.lastError }
func (w *Wizard) Failure() string        { return w.failure }
func (w *Wizard) Redirect() *Redirect    { return w.redirect }

// Required returns the fields currently required on the current step.
func (w *Wizard) Required() FieldSet {
	return append(FieldSet(nil), w.required...)
}

// StepStatus returns the progress of step index.
func (w *Wizard) StepStatus(index int) StepStatus {
	return w.status[index]
}

// Draft returns a copy of the in-progress draft.
func (w *Wizard) Draft() models.Draft {
	return w.draft.Clone()
}

// Set writes a scalar field on the current step and returns its live
// validation result. Required-ness is re-evaluated on every change.
func (w *Wizard) Set(kind validation.FieldKind, value string) (validation.Result, error) {
	if err := w.beginEdit(kind); err != nil {
		return validation.Result{}, err
	}
	if kind == validation.FieldCapabilities || kind == validation.FieldArtifact {
		return validation.Result{}, dErrors.New(dErrors.CodeBadRequest,
			fmt.Sprintf("field %q is not a scalar field", kind))
	}
	assign(&w.draft, kind, value)
	w.touch()
	if kind == validation.FieldTermsAccepted {
		// the draft keeps only the parsed flag; report on what was sent
		return w.validateValue(kind, value), nil
	}
	return w.validateField(kind), nil
}

// SetCapabilities replaces the selected capability tags. Tags are trimmed,
// lower-cased and deduplicated before validation.
func (w *Wizard) SetCapabilities(tags []string) (validation.Result, error) {
	if err := w.beginEdit(validation.FieldCapabilities); err != nil {
		return validation.Result{}, err
	}
	w.draft.Capabilities = pstrings.Tags(tags)
	w.touch()
	return w.validateField(validation.FieldCapabilities), nil
}

// AttachArtifact adds or replaces the attachment for the artifact's category.
// An invalid artifact is still stored so the step reports it on Advance.
func (w *Wizard) AttachArtifact(a models.Artifact) (validation.Result, error) {
	if err := w.beginEdit(validation.FieldArtifact); err != nil {
		return validation.Result{}, err
	}
	if !a.Category.IsValid() {
		return validation.Result{}, dErrors.New(dErrors.CodeBadRequest,
			fmt.Sprintf("unknown artifact category %q", a.Category))
	}
	w.draft.PutArtifact(a)
	w.touch()
	return w.validateArtifact(a), nil
}

// RemoveArtifact detaches the artifact of category.
func (w *Wizard) RemoveArtifact(category models.ArtifactCategory) error {
	if err := w.beginEdit(validation.FieldArtifact); err != nil {
		return err
	}
	w.draft.RemoveArtifact(category)
	w.touch()
	return nil
}

// Advance validates every field on the current step. On failure the wizard
// stays put and the most relevant failure is recorded. On success it moves
// to the next step, or on the last step freezes the draft for submission.
func (w *Wizard) Advance() (Transition, error) {
	if !w.editable() {
		return Transition{}, w.illegal("advance")
	}
	from := w.current
	if fe := w.validateStep(from); fe != nil {
		w.lastError = fe
		w.status[from] = StepInProgress
		return Transition{From: from, To: from, State: w.state, Error: fe}, nil
	}

	w.lastError = nil
	w.status[from] = StepPassed
	if from < len(w.steps) {
		w.current = from + 1
		w.state = StateEditing
		w.status[w.current] = StepInProgress
		w.required = RequiredFields(w.current, w.draft)
		return Transition{From: from, To: w.current, State: w.state}, nil
	}

	w.state = StateSubmitting
	w.failure = ""
	submission := w.draft.Clone()
	return Transition{From: from, To: from, State: w.state, Submission: &submission}, nil
}

// Retreat moves back one step without discarding collected data. It never
// fails while the wizard is editable; on the first step it only resets the
// step's status.
func (w *Wizard) Retreat() error {
	if !w.editable() {
		return w.illegal("retreat")
	}
	if w.current > StepPersonal {
		w.current--
	}
	w.state = StateEditing
	w.failure = ""
	w.status[w.current] = StepInProgress
	w.lastError = nil
	w.required = RequiredFields(w.current, w.draft)
	return nil
}

// Succeed records a successful provisioning run and schedules the redirect.
// Secrets and artifact payloads are dropped from the draft.
func (w *Wizard) Succeed() error {
	if w.state != StateSubmitting {
		return w.illegal("succeed")
	}
	w.state = StateSucceeded
	w.redirect = &Redirect{URL: w.flow.SignInURL, After: w.flow.RedirectDelay}
	w.draft.Password = ""
	w.draft.ConfirmPassword = ""
	for i := range w.draft.Artifacts {
		w.draft.Artifacts[i].Data = nil
	}
	return nil
}

// Fail records a fatal provisioning failure. The wizard stays on the final
// step, which must be validated again before resubmitting.
func (w *Wizard) Fail(reason string) error {
	if w.state != StateSubmitting {
		return w.illegal("fail")
	}
	w.state = StateFailed
	w.failure = reason
	w.status[w.current] = StepInProgress
	return nil
}

func (w *Wizard) editable() bool {
	return w.state == StateEditing || w.state == StateFailed
}

func (w *Wizard) illegal(event string) error {
	return dErrors.New(dErrors.CodeInvalidState,
		fmt.Sprintf("cannot %s while registration is %s", event, w.state))
}

func (w *Wizard) beginEdit(kind validation.FieldKind) error {
	if !w.editable() {
		return w.illegal("edit")
	}
	if !w.steps[w.current-1].Has(kind) {
		return dErrors.New(dErrors.CodeBadRequest,
			fmt.Sprintf("field %q is not on step %d", kind, w.current))
	}
	return nil
}

func (w *Wizard) touch() {
	w.state = StateEditing
	w.failure = ""
	w.status[w.current] = StepInProgress
	w.required = RequiredFields(w.current, w.draft)
}

// validateStep checks every field of step and returns the most relevant
// failure by code priority, ties broken by field order.
func (w *Wizard) validateStep(step int) *FieldError {
	var best *FieldError
	consider := func(kind validation.FieldKind, r validation.Result) {
		if r.OK() {
			return
		}
		if best == nil || r.Code().Priority() < best.Code.Priority() {
			best = &FieldError{Field: kind, Code: r.Code()}
		}
	}
	for _, kind := range w.steps[step-1].Fields {
		if kind == validation.FieldArtifact {
			for _, a := range w.draft.Artifacts {
				consider(kind, w.validateArtifact(a))
			}
			continue
		}
		consider(kind, w.validateField(kind))
	}
	return best
}

func (w *Wizard) validateField(kind validation.FieldKind) validation.Result {
	return w.validateValue(kind, fieldValue(w.draft, kind))
}

func (w *Wizard) validateValue(kind validation.FieldKind, value string) validation.Result {
	opts := []validation.Option{
		validation.WithRequired(w.required.Has(kind)),
		validation.WithNow(w.clock()),
	}
	switch kind {
	case validation.FieldCapabilities:
		return w.engine.ValidateSet(kind, w.draft.Capabilities, opts...)
	case validation.FieldPassword:
		opts = append(opts, validation.WithMinLength(w.flow.MinPasswordLength))
	case validation.FieldConfirmPassword:
		opts = append(opts, validation.WithPrimary(w.draft.Password))
	case validation.FieldDateOfBirth:
		if w.flow.MinimumAge > 0 {
			opts = append(opts, validation.WithMinimumAge(w.flow.MinimumAge))
		}
	}
	return w.engine.Validate(kind, value, opts...)
}

func (w *Wizard) validateArtifact(a models.Artifact) validation.Result {
	return w.engine.ValidateArtifact(a.ContentType, validation.WithContentBytes(a.Size()))
}

func assign(d *models.Draft, kind validation.FieldKind, v string) {
	switch kind {
	case validation.FieldFirstName:
		d.FirstName = v
	case validation.FieldLastName:
		d.LastName = v
	case validation.FieldEmail:
		d.Email = v
	case validation.FieldPassword:
		d.Password = v
	case validation.FieldConfirmPassword:
		d.ConfirmPassword = v
	case validation.FieldDateOfBirth:
		d.DateOfBirth = v
	case validation.FieldCallingCode:
		d.CallingCode = v
	case validation.FieldPhone:
		d.Phone = v
	case validation.FieldAffiliation:
		d.Affiliation = v
	case validation.FieldAffiliationOther:
		d.AffiliationOther = v
	case validation.FieldCourse:
		d.Course = v
	case validation.FieldBio:
		d.Bio = v
	case validation.FieldAvailability:
		d.Availability = v
	case validation.FieldTermsAccepted:
		d.TermsAccepted = strings.TrimSpace(v) == "true"
	}
}

func fieldValue(d models.Draft, kind validation.FieldKind) string {
	switch kind {
	case validation.FieldFirstName:
		return d.FirstName
	case validation.FieldLastName:
		return d.LastName
	case validation.FieldEmail:
		return d.Email
	case validation.FieldPassword:
		return d.Password
	case validation.FieldConfirmPassword:
		return d.ConfirmPassword
	case validation.FieldDateOfBirth:
		return d.DateOfBirth
	case validation.FieldCallingCode:
		return d.CallingCode
	case validation.FieldPhone:
		return d.Phone
	case validation.FieldAffiliation:
		return d.Affiliation
	case validation.FieldAffiliationOther:
		return d.AffiliationOther
	case validation.FieldCourse:
		return d.Course
	case validation.FieldBio:
		return d.Bio
	case validation.FieldAvailability:
		return d.Availability
	case validation.FieldTermsAccepted:
		if d.TermsAccepted {
			return "true"
		}
	}
	return ""
}
