package validation

// Result is the outcome of one validation call: valid, or invalid with
// exactly one code. The zero value is valid.
type Result struct {
	code ErrorCode
}

// Valid returns a passing result.
func Valid() Result {
	return Result{}
}

// Invalid returns a failing result with code.
func Invalid(code ErrorCode) Result {
	return Result{code: code}
}

func (r Result) OK() bool {
	return r.code == ""
}

// Code is empty for valid results.
func (r Result) Code() ErrorCode {
	return r.code
}

func (r Result) String() string {
	if r.OK() {
		return "valid"
	}
	return "invalid(" + string(r.code) + ")"
}
