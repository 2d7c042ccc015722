package models

import (
	"slices"
	"strings"

	"agora/pkg/email"
)

// ArtifactCategory tags an uploaded verification document.
type ArtifactCategory string

const (
	ArtifactIdentityDocument ArtifactCategory = "identity_document"
	ArtifactEnrollmentProof  ArtifactCategory = "enrollment_proof"
)

// IsValid reports whether c is a known category.
func (c ArtifactCategory) IsValid() bool {
	return c == ArtifactIdentityDocument || c == ArtifactEnrollmentProof
}

// Artifact is a binary file attached to the draft for manual verification.
type Artifact struct {
	Category    ArtifactCategory `json:"category"`
	Filename    string           `json:"filename"`
	ContentType string           `json:"content_type"`
	Data        []byte           `json:"data"`
}

// Size is the payload length in bytes.
func (a Artifact) Size() int64 {
	return int64(len(a.Data))
}

// Draft accumulates every field collected across the wizard steps.
//
// Invariants:
//   - Owned by exactly one wizard until submission
//   - Handed to provisioning only as a Clone, never by reference
//   - At most one artifact per category
type Draft struct {
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	ConfirmPassword  string `json:"confirm_password"`
	DateOfBirth      string `json:"date_of_birth"`
	CallingCode      string `json:"calling_code"`
	Phone            string `json:"phone"`
	Affiliation      string `json:"affiliation"`
	AffiliationOther string `json:"affiliation_other"`
	Course           string `json:"course"`

	Capabilities []string `json:"capabilities"`
	Bio          string   `json:"bio"`
	Availability string   `json:"availability"`

	TermsAccepted bool       `json:"terms_accepted"`
	Artifacts     []Artifact `json:"artifacts"`
}

// Clone returns a deep copy so the receiver can keep mutating its own draft.
func (d Draft) Clone() Draft {
	out := d
	out.Capabilities = slices.Clone(d.Capabilities)
	if d.Artifacts != nil {
		out.Artifacts = make([]Artifact, len(d.Artifacts))
		for i, a := range d.Artifacts {
			a.Data = slices.Clone(a.Data)
			out.Artifacts[i] = a
		}
	}
	return out
}

// DisplayName joins the name fields, falling back to the email local part.
func (d Draft) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(d.FirstName) + " " + strings.TrimSpace(d.LastName))
	if name != "" {
		return name
	}
	return email.DisplayName(d.Email)
}

// ResolvedAffiliation returns the free-text affiliation when the selector is "other".
func (d Draft) ResolvedAffiliation(otherSentinel string) string {
	if d.Affiliation == otherSentinel {
		return strings.TrimSpace(d.AffiliationOther)
	}
	return strings.TrimSpace(d.Affiliation)
}

// Artifact returns the attachment for category, if any.
func (d Draft) Artifact(category ArtifactCategory) (Artifact, bool) {
	for _, a := range d.Artifacts {
		if a.Category == category {
			return a, true
		}
	}
	return Artifact{}, false
}

// PutArtifact replaces any existing attachment of the same category.
func (d *Draft) PutArtifact(a Artifact) {
	d.RemoveArtifact(a.Category)
	d.Artifacts = append(d.Artifacts, a)
}

// RemoveArtifact drops the attachment for category.
func (d *Draft) RemoveArtifact(category ArtifactCategory) {
	d.Artifacts = slices.DeleteFunc(d.Artifacts, func(a Artifact) bool {
		return a.Category == category
	})
}
