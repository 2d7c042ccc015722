package validation

// ErrorCode names the specific reason a field failed validation.
type ErrorCode string

const (
	CodeRequired ErrorCode = "required"

	// Email sub-chain, in evaluation order.
	CodeMissingAt        ErrorCode = "missing_at"
	CodeInvalidLocalPart ErrorCode = "invalid_local_part"
	CodeMissingDomain    ErrorCode = "missing_domain"
	CodeConsecutiveDots  ErrorCode = "consecutive_dots"
	CodeStartsWithDot    ErrorCode = "starts_with_dot"
	CodeEndsWithDot      ErrorCode = "ends_with_dot"
	CodeMissingTLD       ErrorCode = "missing_tld"
	CodeInvalidEmail     ErrorCode = "invalid_format"

	CodeFormatInvalid ErrorCode = "format_invalid"
	CodeTooShort      ErrorCode = "too_short"
	CodeTooLong       ErrorCode = "too_long"
	CodeOutOfRange    ErrorCode = "out_of_range"
	CodeFieldMismatch ErrorCode = "field_mismatch"
	CodeUnderage      ErrorCode = "underage"
)

// Category groups codes into the registration error taxonomy.
type Category string

const (
	CategoryRequiredFieldMissing Category = "required_field_missing"
	CategoryFormatInvalid        Category = "format_invalid"
	CategoryFieldMismatch        Category = "field_mismatch"
	CategoryRangeViolation       Category = "range_violation"
)

// Stage is the position of a rule in a field's chain. Lower stages run first.
type Stage int

const (
	StagePresence Stage = iota
	StageFormat
	StageRange
	StageMatch
	StageDomain
)

type codeInfo struct {
	stage    Stage
	category Category
	message  string
}

var codes = map[ErrorCode]codeInfo{
	CodeRequired:         {StagePresence, CategoryRequiredFieldMissing, "This field is required."},
	CodeMissingAt:        {StageFormat, CategoryFormatInvalid, "Email address must contain an @ symbol."},
	CodeInvalidLocalPart: {StageFormat, CategoryFormatInvalid, "Email address needs a name before the @ symbol."},
	CodeMissingDomain:    {StageFormat, CategoryFormatInvalid, "Email address needs a domain after the @ symbol."},
	CodeConsecutiveDots:  {StageFormat, CategoryFormatInvalid, "Email address cannot contain consecutive dots."},
	CodeStartsWithDot:    {StageFormat, CategoryFormatInvalid, "Email address cannot start with a dot."},
	CodeEndsWithDot:      {StageFormat, CategoryFormatInvalid, "The part before the @ symbol cannot end with a dot."},
	CodeMissingTLD:       {StageFormat, CategoryFormatInvalid, "Email domain needs a valid extension such as .com or .ac.uk."},
	CodeInvalidEmail:     {StageFormat, CategoryFormatInvalid, "Please enter a valid email address."},
	CodeFormatInvalid:    {StageFormat, CategoryFormatInvalid, "This value is not in the expected format."},
	CodeTooShort:         {StageRange, CategoryRangeViolation, "This value is too short."},
	CodeTooLong:          {StageRange, CategoryRangeViolation, "This value is too long."},
	CodeOutOfRange:       {StageRange, CategoryRangeViolation, "This value is outside the allowed range."},
	CodeFieldMismatch:    {StageMatch, CategoryFieldMismatch, "The values do not match."},
	CodeUnderage:         {StageDomain, CategoryRangeViolation, "You must meet the minimum age to register."},
}

// Stage returns the chain stage that produces c.
func (c ErrorCode) Stage() Stage {
	return codes[c].stage
}

// Category returns the taxonomy bucket of c.
func (c ErrorCode) Category() Category {
	return codes[c].category
}

// Message returns the default user-facing text for c. Callers may localize.
func (c ErrorCode) Message() string {
	if info, ok := codes[c]; ok {
		return info.message
	}
	return string(c)
}

var categoryPriority = map[Category]int{
	CategoryRequiredFieldMissing: 0,
	CategoryFormatInvalid:        1,
	CategoryFieldMismatch:        2,
	CategoryRangeViolation:       3,
}

// Priority ranks c against failures on other fields of the same step:
// missing values first, then format errors, then mismatched confirmations,
// then range violations including the age gate. Lower is more relevant.
func (c ErrorCode) Priority() int {
	if p, ok := categoryPriority[c.Category()]; ok {
		return p
	}
	return len(categoryPriority)
}
