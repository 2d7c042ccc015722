package service

import (
	"agora/internal/registration/models"
	"agora/internal/registration/provisioning"
	"agora/internal/registration/validation"
	"agora/internal/registration/wizard"
	id "agora/pkg/domain"
)

// View is what callers see of a registration. It never carries the
// password or artifact payloads.
type View struct {
	ID           id.DraftID                `json:"id"`
	Flow         string                    `json:"flow"`
	Step         int                       `json:"step"`
	TotalSteps   int                       `json:"total_steps"`
	State        wizard.State              `json:"state"`
	Status       map[int]wizard.StepStatus `json:"status"`
	Required     []validation.FieldKind    `json:"required"`
	Draft        DraftView                 `json:"draft"`
	LastError    *FieldErrorView           `json:"last_error,omitempty"`
	Failure      string                    `json:"failure,omitempty"`
	Redirect     *RedirectView             `json:"redirect,omitempty"`
	Provisioning *ProvisioningView         `json:"provisioning,omitempty"`
}

// DraftView is the draft without secrets.
type DraftView struct {
	FirstName        string         `json:"first_name"`
	LastName         string         `json:"last_name"`
	Email            string         `json:"email"`
	PasswordSet      bool           `json:"password_set"`
	DateOfBirth      string         `json:"date_of_birth"`
	CallingCode      string         `json:"calling_code"`
	Phone            string         `json:"phone"`
	Affiliation      string         `json:"affiliation"`
	AffiliationOther string         `json:"affiliation_other"`
	Course           string         `json:"course"`
	Capabilities     []string       `json:"capabilities"`
	Bio              string         `json:"bio"`
	Availability     string         `json:"availability"`
	TermsAccepted    bool           `json:"terms_accepted"`
	Artifacts        []ArtifactView `json:"artifacts"`
}

type ArtifactView struct {
	Category    models.ArtifactCategory `json:"category"`
	Filename    string                  `json:"filename"`
	ContentType string                  `json:"content_type"`
	SizeBytes   int64                   `json:"size_bytes"`
}

// FieldErrorView pairs a failure code with its user-facing message.
type FieldErrorView struct {
	Field   validation.FieldKind `json:"field"`
	Code    validation.ErrorCode `json:"code"`
	Message string               `json:"message"`
}

type RedirectView struct {
	URL          string  `json:"url"`
	AfterSeconds float64 `json:"after_seconds"`
}

// ProvisioningView summarises the last provisioning run.
type ProvisioningView struct {
	Succeeded bool        `json:"succeeded"`
	AccountID id.UserID   `json:"account_id,omitzero"`
	Phases    []PhaseView `json:"phases"`
}

type PhaseView struct {
	Phase   provisioning.PhaseID     `json:"phase"`
	Subject string                   `json:"subject,omitempty"`
	Status  provisioning.PhaseStatus `json:"status"`
}

// FieldResult is the live validation result for one edited field.
type FieldResult struct {
	Field   validation.FieldKind `json:"field"`
	Valid   bool                 `json:"valid"`
	Code    validation.ErrorCode `json:"code,omitempty"`
	Message string               `json:"message,omitempty"`
}

func newFieldResult(field validation.FieldKind, res validation.Result) FieldResult {
	out := FieldResult{Field: field, Valid: res.OK()}
	if !res.OK() {
		out.Code = res.Code()
		out.Message = res.Code().Message()
	}
	return out
}

func newView(w *wizard.Wizard) View {
	snap := w.Snapshot()
	v := View{
		ID:         w.ID(),
		Flow:       snap.Flow,
		Step:       snap.Current,
		TotalSteps: w.TotalSteps(),
		State:      snap.State,
		Status:     snap.Status,
		Required:   []validation.FieldKind(w.Required()),
		Draft:      newDraftView(snap.Draft),
		Failure:    snap.Failure,
	}
	if fe := snap.LastError; fe != nil {
		v.LastError = &FieldErrorView{Field: fe.Field, Code: fe.Code, Message: fe.Code.Message()}
	}
	if r := snap.Redirect; r != nil {
		v.Redirect = &RedirectView{URL: r.URL, AfterSeconds: r.After.Seconds()}
	}
	return v
}

func newDraftView(d models.Draft) DraftView {
	v := DraftView{
		FirstName:        d.FirstName,
		LastName:         d.LastName,
		Email:            d.Email,
		PasswordSet:      d.Password != "",
		DateOfBirth:      d.DateOfBirth,
		CallingCode:      d.CallingCode,
		Phone:            d.Phone,
		Affiliation:      d.Affiliation,
		AffiliationOther: d.AffiliationOther,
		Course:           d.Course,
		Capabilities:     d.Capabilities,
		Bio:              d.Bio,
		Availability:     d.Availability,
		TermsAccepted:    d.TermsAccepted,
		Artifacts:        make([]ArtifactView, 0, len(d.Artifacts)),
	}
	for _, a := range d.Artifacts {
		v.Artifacts = append(v.Artifacts, ArtifactView{
			Category:    a.Category,
			Filename:    a.Filename,
			ContentType: a.ContentType,
			SizeBytes:   a.Size(),
		})
	}
	return v
}

func newProvisioningView(o provisioning.Outcome) *ProvisioningView {
	v := &ProvisioningView{Succeeded: o.Succeeded(), AccountID: o.AccountID()}
	for _, p := range o.Phases() {
		v.Phases = append(v.Phases, PhaseView{Phase: p.Phase, Subject: p.Subject, Status: p.Status})
	}
	return v
}
