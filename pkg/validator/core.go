package validator

import (
	"errors"
	"strings"
)

type Numeric interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// ValidationError is one failed rule. Code is a stable identifier such as
// "required" or "max_length" that clients can switch on.
type ValidationError struct {
	Field   string
	Code    string
	Message string
}

// ValidationErrors is what Apply returns when any rule fails.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	var b strings.Builder
	b.WriteString("validation failed: ")
	for i, e := range ve {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(e.Field)
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

func (ve ValidationErrors) Has(field string) bool {
	for _, e := range ve {
		if e.Field == field {
			return true
		}
	}
	return false
}

// Map groups messages by field, the shape of "details" in JSON error responses.
func (ve ValidationErrors) Map() map[string][]string {
	if len(ve) == 0 {
		return nil
	}
	out := make(map[string][]string, len(ve))
	for _, e := range ve {
		out[e.Field] = append(out[e.Field], e.Message)
	}
	return out
}

// Rule is a deferred check together with the error it reports.
type Rule struct {
	Check func() bool
	Error ValidationError
}

func newRule(field, code, message string, check func() bool) Rule {
	return Rule{Check: check, Error: ValidationError{Field: field, Code: code, Message: message}}
}

// Apply runs every rule and collects all failures, so clients see each bad
// field at once.
func Apply(rules ...Rule) error {
	var errs ValidationErrors
	for _, r := range rules {
		if !r.Check() {
			errs = append(errs, r.Error)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// When applies rule only if cond holds.
func When(cond bool, rule Rule) Rule {
	return Rule{
		Check: func() bool { return !cond || rule.Check() },
		Error: rule.Error,
	}
}

// ExtractValidationErrors returns the ValidationErrors wrapped in err, if any.
func ExtractValidationErrors(err error) ValidationErrors {
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}

func IsValidationError(err error) bool {
	return ExtractValidationErrors(err) != nil
}
