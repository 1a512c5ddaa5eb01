package form

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/oakwood-commons/uideck/internal/record"
	"github.com/oakwood-commons/uideck/internal/schema"
)

// Errors maps field names to their validation message.
type Errors map[string]string

func (e Errors) clone() Errors {
	out := make(Errors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// FieldError is one entry of Errors in field order.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorList returns the current errors in field order.
func (f *Form) ErrorList() []FieldError {
	var out []FieldError
	for _, fld := range f.fields {
		name := fld.Base().Name
		if msg, ok := f.errors[name]; ok {
			out = append(out, FieldError{Field: name, Message: msg})
		}
	}
	return out
}

func label(b schema.FieldBase) string {
	if b.Label != "" {
		return b.Label
	}
	return b.Name
}

func isEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case []string:
		return len(x) == 0
	}
	return false
}

// validateField applies, in order: required, custom validators, number
// parsing, pattern, length bounds and value bounds. The first failure wins.
func (f *Form) validateField(fld schema.FormField) string {
	b := fld.Base()
	raw := f.values[b.Name]
	lbl := label(b)

	if b.Required && isEmpty(raw) {
		return lbl + " is required"
	}

	typed := typedValue(fld, raw)
	if b.Validate != nil {
		if msg := b.Validate(typed); msg != "" {
			return msg
		}
	}
	if b.ValidateExpr != "" && f.eval != nil {
		fallback := b.ExprMessage
		if fallback == "" {
			fallback = lbl + " is invalid"
		}
		msg, err := f.eval.Validate(b.ValidateExpr, typed, fallback)
		if err != nil {
			f.log.Error(err, "validator expression failed", "field", b.Name)
			return fallback
		}
		if msg != "" {
			return msg
		}
	}

	if isEmpty(raw) {
		return ""
	}

	switch v := fld.(type) {
	case schema.TextField:
		s, _ := raw.(string)
		if v.Pattern != "" {
			re, err := regexp.Compile(v.Pattern)
			if err != nil || !re.MatchString(s) {
				return lbl + " format is invalid"
			}
		}
		if msg := checkLength(lbl, s, v.MinLength, v.MaxLength); msg != "" {
			return msg
		}
		if v.Min != "" && s < v.Min {
			return fmt.Sprintf("%s must be at least %s", lbl, v.Min)
		}
		if v.Max != "" && s > v.Max {
			return fmt.Sprintf("%s must be at most %s", lbl, v.Max)
		}
	case schema.TextAreaField:
		s, _ := raw.(string)
		if msg := checkLength(lbl, s, v.MinLength, v.MaxLength); msg != "" {
			return msg
		}
	case schema.NumberField:
		n, ok := typed.(float64)
		if !ok {
			return lbl + " must be a number"
		}
		if v.Min != nil && n < *v.Min {
			return fmt.Sprintf("%s must be at least %s", lbl, formatNumber(*v.Min))
		}
		if v.Max != nil && n > *v.Max {
			return fmt.Sprintf("%s must be at most %s", lbl, formatNumber(*v.Max))
		}
	case schema.SelectField, schema.RadioField, schema.CheckboxField:
		if msg := checkChoices(lbl, schema.Options(fld), raw); msg != "" {
			return msg
		}
	}
	return ""
}

func checkLength(lbl, s string, minLen, maxLen int) string {
	n := utf8.RuneCountInString(s)
	if minLen > 0 && n < minLen {
		return fmt.Sprintf("%s must be at least %d characters", lbl, minLen)
	}
	if maxLen > 0 && n > maxLen {
		return fmt.Sprintf("%s must be at most %d characters", lbl, maxLen)
	}
	return ""
}

// checkChoices rejects values that are not among the options.
func checkChoices(lbl string, options []schema.Option, raw any) string {
	allowed := make(map[string]bool, len(options))
	for _, o := range options {
		allowed[o.Value] = true
	}
	var picked []string
	switch v := raw.(type) {
	case string:
		picked = []string{v}
	case []string:
		picked = v
	}
	for _, p := range picked {
		if !allowed[p] {
			return fmt.Sprintf("%s has an invalid option %q", lbl, p)
		}
	}
	return ""
}

func formatNumber(n float64) string {
	return record.Stringify(n)
}

// ParseNumber is the number parsing used for number fields.
func ParseNumber(s string) (float64, bool) {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return n, err == nil
}
