// Package validation classifies registration field input.
//
// Every field kind has a rule chain evaluated in a fixed order:
// presence, format, length/range, cross-field match, domain rule.
// Evaluation stops at the first failing rule and returns its code.
// The engine is pure: identical input and options always yield an
// identical Result, and failures are values, never errors.
package validation

import (
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Rules is the rule chain for one field kind. Nil funcs and zero bounds are skipped.
type Rules struct {
	Required  bool
	Format    func(v string) ErrorCode
	MinLength int // characters
	MaxLength int // characters
	MaxBytes  int // encoded length, for limits set by storage rather than people
	Range     func(v string, p Params) ErrorCode
	Match     bool
	Domain    func(v string, p Params) ErrorCode

	// Set-valued fields.
	ItemFormat func(v string) ErrorCode
	MaxItems   int
}

// Params carries per-invocation inputs that are not part of the raw value.
type Params struct {
	Required     *bool
	MinLength    int
	Primary      string
	Now          time.Time
	MinimumAge   int
	ContentBytes int64
}

// Option adjusts Params for a single call.
type Option func(*Params)

// WithRequired overrides the kind's default required-ness.
func WithRequired(required bool) Option {
	return func(p *Params) { p.Required = &required }
}

// WithMinLength overrides the minimum length, used for password fields whose
// minimum differs between registration flows.
func WithMinLength(n int) Option {
	return func(p *Params) { p.MinLength = n }
}

// WithPrimary sets the value a confirmation field must equal.
func WithPrimary(v string) Option {
	return func(p *Params) { p.Primary = v }
}

// WithNow pins the reference date for date rules.
func WithNow(t time.Time) Option {
	return func(p *Params) { p.Now = t }
}

// WithMinimumAge sets the age gate in completed years.
func WithMinimumAge(years int) Option {
	return func(p *Params) { p.MinimumAge = years }
}

// WithContentBytes sets the payload size for artifact validation.
func WithContentBytes(n int64) Option {
	return func(p *Params) { p.ContentBytes = n }
}

// Engine validates fields against a catalogue of rule chains.
type Engine struct {
	rules map[FieldKind]Rules
}

// NewEngine returns an engine with the registration field catalogue.
func NewEngine() *Engine {
	return &Engine{rules: defaultRules()}
}

// Rules returns the chain for kind.
func (e *Engine) Rules(kind FieldKind) (Rules, bool) {
	r, ok := e.rules[kind]
	return r, ok
}

// Validate runs kind's chain over raw. Unknown kinds are valid.
func (e *Engine) Validate(kind FieldKind, raw string, opts ...Option) Result {
	rules, ok := e.rules[kind]
	if !ok {
		return Valid()
	}
	p := buildParams(opts)

	v := strings.TrimSpace(raw)
	if kind == FieldPassword || kind == FieldConfirmPassword {
		v = raw
	}
	if strings.TrimSpace(v) == "" {
		if required(rules, p) {
			return Invalid(CodeRequired)
		}
		return Valid()
	}

	if rules.Format != nil {
		if code := rules.Format(v); code != "" {
			return Invalid(code)
		}
	}

	minLength := rules.MinLength
	if p.MinLength > 0 {
		minLength = p.MinLength
	}
	n := utf8.RuneCountInString(v)
	if minLength > 0 && n < minLength {
		return Invalid(CodeTooShort)
	}
	if rules.MaxLength > 0 && n > rules.MaxLength {
		return Invalid(CodeTooLong)
	}
	if rules.MaxBytes > 0 && len(v) > rules.MaxBytes {
		return Invalid(CodeTooLong)
	}
	if rules.Range != nil {
		if code := rules.Range(v, p); code != "" {
			return Invalid(code)
		}
	}

	if rules.Match && v != p.Primary {
		return Invalid(CodeFieldMismatch)
	}

	if rules.Domain != nil {
		if code := rules.Domain(v, p); code != "" {
			return Invalid(code)
		}
	}
	return Valid()
}

// ValidateSet runs a set-valued chain: presence (non-empty), item format,
// then item count.
func (e *Engine) ValidateSet(kind FieldKind, values []string, opts ...Option) Result {
	rules, ok := e.rules[kind]
	if !ok {
		return Valid()
	}
	p := buildParams(opts)

	if len(values) == 0 {
		if required(rules, p) {
			return Invalid(CodeRequired)
		}
		return Valid()
	}
	if rules.ItemFormat != nil {
		for _, v := range values {
			if code := rules.ItemFormat(v); code != "" {
				return Invalid(code)
			}
		}
	}
	if rules.MaxItems > 0 && len(values) > rules.MaxItems {
		return Invalid(CodeOutOfRange)
	}
	return Valid()
}

// ValidateArtifact checks an attached file by media type and size.
func (e *Engine) ValidateArtifact(contentType string, opts ...Option) Result {
	return e.Validate(FieldArtifact, contentType, opts...)
}

func buildParams(opts []Option) Params {
	p := Params{MinimumAge: DefaultMinimumAge}
	for _, opt := range opts {
		opt(&p)
	}
	if p.Now.IsZero() {
		p.Now = time.Now()
	}
	return p
}

func required(r Rules, p Params) bool {
	if p.Required != nil {
		return *p.Required
	}
	return r.Required
}

var (
	phonePattern       = regexp.MustCompile(`^[0-9][0-9 -]*[0-9]$`)
	callingCodePattern = regexp.MustCompile(`^\+[1-9][0-9]{0,3}$`)
	tagPattern         = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{1,31}$`)
)

func defaultRules() map[FieldKind]Rules {
	name := Rules{Required: true, Format: personName, MaxLength: 50}
	return map[FieldKind]Rules{
		FieldFirstName: name,
		FieldLastName:  name,
		FieldEmail: {
			Required:  true,
			Format:    emailFormat,
			MaxLength: 254,
		},
		FieldPassword: {
			Required:  true,
			MinLength: DefaultMinPasswordLength,
			MaxBytes:  MaxPasswordLength,
		},
		FieldConfirmPassword: {
			Required: true,
			Match:    true,
		},
		FieldDateOfBirth: {
			Required: true,
			Format:   dateFormat,
			Range:    birthDateRange,
			Domain:   minimumAge,
		},
		FieldCallingCode: {
			Required: true,
			Format:   pattern(callingCodePattern),
		},
		FieldPhone: {
			Required: true,
			Format:   pattern(phonePattern),
			Range:    phoneDigits,
		},
		FieldAffiliation:      {Required: true, MaxLength: 100},
		FieldAffiliationOther: {MaxLength: 100},
		FieldCourse:           {Required: true, MaxLength: 100},
		FieldCapabilities: {
			Required:   true,
			ItemFormat: pattern(tagPattern),
			MaxItems:   MaxCapabilities,
		},
		FieldBio:           {MaxLength: 500},
		FieldAvailability:  {MaxLength: 200},
		FieldTermsAccepted: {Required: true, Format: boolLiteral, Domain: accepted},
		FieldArtifact: {
			Required: true,
			Format:   artifactType,
			Range:    artifactSize,
		},
	}
}

func pattern(re *regexp.Regexp) func(string) ErrorCode {
	return func(v string) ErrorCode {
		if !re.MatchString(v) {
			return CodeFormatInvalid
		}
		return ""
	}
}

func boolLiteral(v string) ErrorCode {
	if v != "true" && v != "false" {
		return CodeFormatInvalid
	}
	return ""
}

// accepted treats a declined checkbox like a missing one.
func accepted(v string, _ Params) ErrorCode {
	if v != "true" {
		return CodeRequired
	}
	return ""
}

func personName(v string) ErrorCode {
	for _, r := range v {
		if unicode.IsLetter(r) || r == ' ' || r == '\'' || r == '-' || r == '.' {
			continue
		}
		return CodeFormatInvalid
	}
	return ""
}

func dateFormat(v string) ErrorCode {
	if _, err := ParseDate(v); err != nil {
		return CodeFormatInvalid
	}
	return ""
}

func birthDateRange(v string, p Params) ErrorCode {
	dob, _ := ParseDate(v)
	y, m, d := p.Now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if dob.After(today) || dob.Year() < 1900 {
		return CodeOutOfRange
	}
	return ""
}

func minimumAge(v string, p Params) ErrorCode {
	dob, _ := ParseDate(v)
	if AgeAt(dob, p.Now) < p.MinimumAge {
		return CodeUnderage
	}
	return ""
}

func phoneDigits(v string, _ Params) ErrorCode {
	digits := 0
	for _, r := range v {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	switch {
	case digits < 6:
		return CodeTooShort
	case digits > 15:
		return CodeTooLong
	}
	return ""
}

func artifactType(v string) ErrorCode {
	if _, ok := ArtifactContentTypes[strings.ToLower(v)]; !ok {
		return CodeFormatInvalid
	}
	return ""
}

func artifactSize(_ string, p Params) ErrorCode {
	if p.ContentBytes <= 0 || p.ContentBytes > MaxArtifactBytes {
		return CodeOutOfRange
	}
	return ""
}
