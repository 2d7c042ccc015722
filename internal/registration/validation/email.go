package validation

import (
	"regexp"
	"strings"
)

// emailPattern is deliberately conservative. Labels are 1..63 characters with
// internal hyphens only and the final label is at least two letters.
var emailPattern = regexp.MustCompile(
	"^[A-Za-z0-9.!#$%&'*+/=?^_`{|}~-]+" +
		`@(?:[A-Za-z0-9](?:[A-Za-z0-9-]{0,61}[A-Za-z0-9])?\.)+[A-Za-z]{2,63}$`,
)

// ValidateEmail runs the email sub-chain. Every check is evaluated in a fixed
// order so an address always maps to the first rule it breaks.
//
// The address is split on '@' and only the first two segments are taken as
// local part and domain, so "jane@@uni.ac.uk" has an empty domain.
func ValidateEmail(raw string) Result {
	email := strings.TrimSpace(raw)
	if email == "" {
		return Invalid(CodeRequired)
	}
	if code := emailFormat(email); code != "" {
		return Invalid(code)
	}
	return Valid()
}

// emailFormat covers every check after presence.
func emailFormat(email string) ErrorCode {
	if !strings.Contains(email, "@") {
		return CodeMissingAt
	}
	parts := strings.Split(email, "@")
	local, domain := parts[0], parts[1]

	switch {
	case local == "":
		return CodeInvalidLocalPart
	case domain == "":
		return CodeMissingDomain
	case strings.Contains(email, ".."):
		return CodeConsecutiveDots
	case strings.HasPrefix(local, "."):
		return CodeStartsWithDot
	case strings.HasSuffix(local, "."):
		return CodeEndsWithDot
	case !strings.Contains(domain, "."):
		return CodeMissingTLD
	}
	if tld := domain[strings.LastIndex(domain, ".")+1:]; len(tld) < 2 {
		return CodeMissingTLD
	}
	if !emailPattern.MatchString(email) {
		return CodeInvalidEmail
	}
	return ""
}
