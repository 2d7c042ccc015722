package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

// TestValidateEmail_FirstViolatedRule pins each address to the first check it
// breaks, never a later, more generic one.
func TestValidateEmail_FirstViolatedRule(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  ErrorCode
	}{
		{"empty", "", CodeRequired},
		{"whitespace only", "   \t", CodeRequired},
		{"no at sign", "jane.uni.ac.uk", CodeMissingAt},
		{"empty local part", "@uni.ac.uk", CodeInvalidLocalPart},
		{"bare at sign", "@", CodeInvalidLocalPart},
		{"empty domain", "jane@", CodeMissingDomain},
		{"double at leaves empty domain", "jane@@uni.ac.uk", CodeMissingDomain},
		{"consecutive dots in local part", "a..b@x.com", CodeConsecutiveDots},
		{"consecutive dots in domain", "jane@uni..ac.uk", CodeConsecutiveDots},
		{"local part starts with dot", ".jane@uni.ac.uk", CodeStartsWithDot},
		{"local part is a dot", ".@x", CodeStartsWithDot},
		{"local part ends with dot", "jane.@uni.ac.uk", CodeEndsWithDot},
		{"domain without dot", "jane@localhost", CodeMissingTLD},
		{"second segment is the domain", "a@b@c.com", CodeMissingTLD},
		{"single letter tld", "jane@uni.c", CodeMissingTLD},
		{"trailing dot in domain", "jane@uni.", CodeMissingTLD},
		{"space in local part", "jane doe@uni.ac.uk", CodeInvalidEmail},
		{"label starting with hyphen", "jane@-uni.ac.uk", CodeInvalidEmail},
		{"numeric tld", "jane@uni.123", CodeInvalidEmail},
		{"valid academic address", "jane@uni.ac.uk", ""},
		{"valid with plus tag", "jane.doe+market@example.com", ""},
		{"surrounding whitespace trimmed", "  jane@example.org  ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateEmail(tt.input)
			assert.Equal(t, tt.want, got.Code(), "input %q", tt.input)
		})
	}
}

func TestValidateEmail_MessagesAreDistinct(t *testing.T) {
	seen := map[string]ErrorCode{}
	for _, code := range []ErrorCode{
		CodeRequired, CodeMissingAt, CodeInvalidLocalPart, CodeMissingDomain,
		CodeConsecutiveDots, CodeStartsWithDot, CodeEndsWithDot, CodeMissingTLD, CodeInvalidEmail,
	} {
		msg := code.Message()
		prev, dup := seen[msg]
		assert.False(t, dup, "%s shares a message with %s", code, prev)
		seen[msg] = code
	}
}

func TestValidateEmail_Properties(t *testing.T) {
	t.Run("validation is pure", func(t *testing.T) {
		rapid.Check(t, func(r *rapid.T) {
			s := rapid.String().Draw(r, "email")
			assert.Equal(r, ValidateEmail(s), ValidateEmail(s))
		})
	})

	t.Run("non-blank input without at sign reports missing at", func(t *testing.T) {
		rapid.Check(t, func(r *rapid.T) {
			s := rapid.StringMatching(`[a-z.]{0,10}[a-z][a-z.]{0,10}`).Draw(r, "email")
			assert.Equal(r, CodeMissingAt, ValidateEmail(s).Code())
		})
	})

	t.Run("consecutive dots win over later rules", func(t *testing.T) {
		rapid.Check(t, func(r *rapid.T) {
			local := rapid.StringMatching(`\.?[a-z]{1,5}\.\.[a-z]{0,5}\.?`).Draw(r, "local")
			domain := rapid.StringMatching(`[a-z]{1,8}(\.[a-z]{0,3})?`).Draw(r, "domain")
			assert.Equal(r, CodeConsecutiveDots, ValidateEmail(local+"@"+domain).Code())
		})
	})

	t.Run("well formed addresses are valid", func(t *testing.T) {
		rapid.Check(t, func(r *rapid.T) {
			local := rapid.StringMatching(`[a-z0-9]{1,8}([._+-][a-z0-9]{1,8})?`).Draw(r, "local")
			domain := rapid.StringMatching(`[a-z0-9]{1,10}(-[a-z0-9]{1,10})?\.[a-z]{2,6}`).Draw(r, "domain")
			assert.True(r, ValidateEmail(local+"@"+domain).OK())
		})
	})
}
