package wizard

import (
	"slices"

	"agora/internal/registration/models"
	"agora/internal/registration/validation"
)

const (
	StepPersonal     = 1
	StepCapabilities = 2
	StepVerification = 3
)

// Step is one fixed page of the wizard. Fields are listed in the order
// failures are reported when two fields fail at the same chain stage.
type Step struct {
	Index  int
	Name   string
	Fields []validation.FieldKind
}

// Has reports whether kind is collected on this step.
func (s Step) Has(kind validation.FieldKind) bool {
	return slices.Contains(s.Fields, kind)
}

var steps = []Step{
	{
		Index: StepPersonal,
		Name:  "personal",
		Fields: []validation.FieldKind{
			validation.FieldFirstName,
			validation.FieldLastName,
			validation.FieldEmail,
			validation.FieldPassword,
			validation.FieldConfirmPassword,
			validation.FieldDateOfBirth,
			validation.FieldCallingCode,
			validation.FieldPhone,
			validation.FieldAffiliation,
			validation.FieldAffiliationOther,
			validation.FieldCourse,
		},
	},
	{
		Index: StepCapabilities,
		Name:  "capabilities",
		Fields: []validation.FieldKind{
			validation.FieldCapabilities,
			validation.FieldBio,
			validation.FieldAvailability,
		},
	},
	{
		Index: StepVerification,
		Name:  "verification",
		Fields: []validation.FieldKind{
			validation.FieldTermsAccepted,
			validation.FieldArtifact,
		},
	},
}

// Steps returns the ordered step list.
func Steps() []Step {
	return slices.Clone(steps)
}

// FieldSet is an ordered set of field kinds.
type FieldSet []validation.FieldKind

func (s FieldSet) Has(kind validation.FieldKind) bool {
	return slices.Contains(s, kind)
}

// RequiredFields returns the fields that must be present before the wizard
// can leave step. It is recomputed from the draft on every change, so a
// controlling field (the affiliation selector) toggles its dependent field.
func RequiredFields(step int, d models.Draft) FieldSet {
	switch step {
	case StepPersonal:
		set := FieldSet{
			validation.FieldFirstName,
			validation.FieldLastName,
			validation.FieldEmail,
			validation.FieldPassword,
			validation.FieldConfirmPassword,
			validation.FieldDateOfBirth,
			validation.FieldCallingCode,
			validation.FieldPhone,
			validation.FieldAffiliation,
		}
		if d.Affiliation == validation.AffiliationOther {
			set = append(set, validation.FieldAffiliationOther)
		}
		return append(set, validation.FieldCourse)
	case StepCapabilities:
		return FieldSet{validation.FieldCapabilities}
	case StepVerification:
		return FieldSet{validation.FieldTermsAccepted}
	}
	return nil
}
