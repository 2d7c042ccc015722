package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraft_CloneIsDeep(t *testing.T) {
	d := Draft{
		Email:        "jane@uni.ac.uk",
		Capabilities: []string{"tutoring"},
		Artifacts: []Artifact{{
			Category: ArtifactIdentityDocument,
			Filename: "passport.pdf",
			Data:     []byte("pdf"),
		}},
	}

	c := d.Clone()
	d.Capabilities[0] = "changed"
	d.Artifacts[0].Data[0] = 'X'
	d.Email = "other@uni.ac.uk"

	assert.Equal(t, "tutoring", c.Capabilities[0])
	assert.Equal(t, []byte("pdf"), c.Artifacts[0].Data)
	assert.Equal(t, "jane@uni.ac.uk", c.Email)
}

func TestDraft_Artifacts(t *testing.T) {
	var d Draft
	d.PutArtifact(Artifact{Category: ArtifactIdentityDocument, Filename: "a.pdf"})
	d.PutArtifact(Artifact{Category: ArtifactEnrollmentProof, Filename: "b.pdf"})
	d.PutArtifact(Artifact{Category: ArtifactIdentityDocument, Filename: "c.pdf"})

	require.Len(t, d.Artifacts, 2)
	got, ok := d.Artifact(ArtifactIdentityDocument)
	require.True(t, ok)
	assert.Equal(t, "c.pdf", got.Filename)

	d.RemoveArtifact(ArtifactEnrollmentProof)
	_, ok = d.Artifact(ArtifactEnrollmentProof)
	assert.False(t, ok)
}

func TestDraft_DisplayName(t *testing.T) {
	assert.Equal(t, "Jane Doe", Draft{FirstName: " Jane ", LastName: "Doe"}.DisplayName())
	assert.Equal(t, "Jane Doe", Draft{Email: "jane.doe@uni.ac.uk"}.DisplayName())
}

func TestDraft_ResolvedAffiliation(t *testing.T) {
	d := Draft{Affiliation: "other", AffiliationOther: " Open University "}
	assert.Equal(t, "Open University", d.ResolvedAffiliation("other"))

	d.Affiliation = "Imperial College"
	assert.Equal(t, "Imperial College", d.ResolvedAffiliation("other"))
}
