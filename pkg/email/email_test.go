package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayName(t *testing.T) {
	cases := map[string]string{
		"jane.doe@uni.ac.uk":  "Jane Doe",
		"sam_lee+reg@x.org":   "Sam Lee Reg",
		"  élodie@example.fr": "Élodie",
		"...@example.com":     "",
		"plain":               "Plain",
	}
	for in, want := range cases {
		assert.Equal(t, want, DisplayName(in), in)
	}
}

func TestLocalPart(t *testing.T) {
	assert.Equal(t, "jane", LocalPart("jane@@uni.ac.uk"))
	assert.Equal(t, "", LocalPart("@uni.ac.uk"))
}
