// Package form holds the state machine behind the generic form renderer:
// field values, per-field validation and the submission lifecycle. It has
// no terminal dependencies so every rule can be tested directly.
package form

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/uideck/internal/celx"
	"github.com/oakwood-commons/uideck/internal/schema"
)

// Phase is the submission state of a form.
type Phase int

const (
	Idle Phase = iota
	Submitting
	Submitted
	Failed
)

func (p Phase) String() string {
	switch p {
	case Submitting:
		return "submitting"
	case Submitted:
		return "submitted"
	case Failed:
		return "failed"
	}
	return "idle"
}

const (
	// DefaultSuccessMessage is shown after a successful submission.
	DefaultSuccessMessage = "Form submitted successfully!"
	// FailureMessage is shown after onSubmit returns an error.
	FailureMessage = "Submission failed. Please try again."
)

var (
	// ErrUnknownField is returned by Set for names not in the form.
	ErrUnknownField = errors.New("unknown form field")
	// ErrBusy is returned while a submission is in flight.
	ErrBusy = errors.New("form is submitting")
)

// Data is the snapshot handed to the submission callback. It holds every
// configured field name.
type Data map[string]any

// SubmitFunc receives validated form data.
type SubmitFunc func(ctx context.Context, data Data) error

// Form tracks values, errors and phase for a fixed list of fields.
type Form struct {
	fields  []schema.FormField
	index   map[string]int
	values  map[string]any
	errors  map[string]string
	phase   Phase
	success bool
	eval    *celx.Evaluator
	log     logr.Logger
}

// Option configures a Form.
type Option func(*formOptions)

type formOptions struct {
	initial     Data
	eval        *celx.Evaluator
	log         logr.Logger
	showSuccess bool
}

// WithInitialData seeds values ahead of field defaults.
func WithInitialData(d Data) Option {
	return func(o *formOptions) { o.initial = d }
}

// WithEvaluator sets the CEL evaluator used for ValidateExpr.
func WithEvaluator(e *celx.Evaluator) Option {
	return func(o *formOptions) { o.eval = e }
}

// WithLogger sets the logger used for submission failures.
func WithLogger(l logr.Logger) Option {
	return func(o *formOptions) { o.log = l }
}

// WithSuccessState makes a successful submission enter Submitted.
func WithSuccessState(show bool) Option {
	return func(o *formOptions) { o.showSuccess = show }
}

// New validates the descriptors and seeds each value from the initial
// data, then the field default, then the field's zero value.
func New(fields []schema.FormField, opts ...Option) (*Form, error) {
	if err := schema.ValidateFormFields(fields); err != nil {
		return nil, err
	}
	o := formOptions{log: logr.Discard()}
	for _, opt := range opts {
		opt(&o)
	}
	f := &Form{
		fields:  fields,
		index:   make(map[string]int, len(fields)),
		values:  make(map[string]any, len(fields)),
		errors:  map[string]string{},
		success: o.showSuccess,
		eval:    o.eval,
		log:     o.log,
	}
	needsEval := false
	for i, fld := range fields {
		b := fld.Base()
		f.index[b.Name] = i
		var v any
		if iv, ok := o.initial[b.Name]; ok && iv != nil {
			v = iv
		} else {
			v = b.Default
		}
		f.values[b.Name] = normalize(fld, v)
		if b.ValidateExpr != "" {
			needsEval = true
		}
	}
	if needsEval {
		if f.eval == nil {
			e, err := celx.Default()
			if err != nil {
				return nil, err
			}
			f.eval = e
		}
		for _, fld := range fields {
			if expr := fld.Base().ValidateExpr; expr != "" {
				if err := f.eval.Compile(expr); err != nil {
					return nil, fmt.Errorf("%w: field %q validator: %v", schema.ErrInvalidDescriptor, fld.Base().Name, err)
				}
			}
		}
	}
	return f, nil
}

// normalize coerces v into the editor representation of fld: []string for
// multi-valued fields, string otherwise.
func normalize(fld schema.FormField, v any) any {
	if schema.MultiValued(fld) {
		switch x := v.(type) {
		case []string:
			return append([]string(nil), x...)
		case []any:
			out := make([]string, 0, len(x))
			for _, e := range x {
				out = append(out, fmt.Sprint(e))
			}
			return out
		case string:
			if x == "" {
				return []string{}
			}
			return []string{x}
		case nil:
			return []string{}
		}
		return []string{fmt.Sprint(v)}
	}
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	}
	return fmt.Sprint(v)
}

// Fields returns the configured fields in order.
func (f *Form) Fields() []schema.FormField { return f.fields }

// Field returns the field named name.
func (f *Form) Field(name string) (schema.FormField, bool) {
	i, ok := f.index[name]
	if !ok {
		return nil, false
	}
	return f.fields[i], true
}

// Phase returns the submission phase.
func (f *Form) Phase() Phase { return f.phase }

// Value returns the editor value of name: a string, or []string for
// multi-valued fields.
func (f *Form) Value(name string) any { return f.values[name] }

// Text returns the value of name as a string.
func (f *Form) Text(name string) string {
	s, _ := f.values[name].(string)
	return s
}

// Selected returns the value of a multi-valued field.
func (f *Form) Selected(name string) []string {
	s, _ := f.values[name].([]string)
	return s
}

// Set stores a new value for name and clears that field's error. Other
// errors are left alone and nothing is re-validated.
func (f *Form) Set(name string, v any) error {
	if f.phase == Submitting {
		return ErrBusy
	}
	fld, ok := f.Field(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	f.values[name] = normalize(fld, v)
	delete(f.errors, name)
	if f.phase == Failed {
		f.phase = Idle
	}
	return nil
}

// Toggle adds or removes option from a multi-valued field.
func (f *Form) Toggle(name, option string) error {
	cur := f.Selected(name)
	next := make([]string, 0, len(cur)+1)
	found := false
	for _, v := range cur {
		if v == option {
			found = true
			continue
		}
		next = append(next, v)
	}
	if !found {
		next = append(next, option)
	}
	return f.Set(name, next)
}

// Error returns the current error for name.
func (f *Form) Error(name string) string { return f.errors[name] }

// Errors returns the current errors keyed by field name.
func (f *Form) Errors() Errors {
	out := make(Errors, len(f.errors))
	for k, v := range f.errors {
		out[k] = v
	}
	return out
}

// Validate checks every field in order, collecting all errors.
func (f *Form) Validate() Errors {
	errs := Errors{}
	for _, fld := range f.fields {
		if msg := f.validateField(fld); msg != "" {
			errs[fld.Base().Name] = msg
		}
	}
	f.errors = errs
	return errs.clone()
}

// Begin validates and, when every field passes, enters Submitting and
// returns the data snapshot. It returns false when validation failed or a
// submission is already in flight.
func (f *Form) Begin() (Data, bool) {
	if f.phase == Submitting {
		return nil, false
	}
	if errs := f.Validate(); len(errs) > 0 {
		f.phase = Idle
		return nil, false
	}
	f.phase = Submitting
	return f.Data(), true
}

// Finish records the outcome of the submission started by Begin.
func (f *Form) Finish(err error) {
	if f.phase != Submitting {
		return
	}
	switch {
	case err != nil:
		f.log.Error(err, "form submission failed")
		f.phase = Failed
	case f.success:
		f.phase = Submitted
	default:
		f.phase = Idle
	}
}

// Submit runs Begin, onSubmit and Finish synchronously. It returns the
// validation errors, if any, and the callback error.
func (f *Form) Submit(ctx context.Context, onSubmit SubmitFunc) (Errors, error) {
	data, ok := f.Begin()
	if !ok {
		if f.phase == Submitting {
			return nil, ErrBusy
		}
		return f.Errors(), nil
	}
	var err error
	if onSubmit != nil {
		err = onSubmit(ctx, data)
	}
	f.Finish(err)
	return nil, err
}

// Reset restores field defaults, ignoring initial data, clears errors and
// returns to Idle.
func (f *Form) Reset() {
	for _, fld := range f.fields {
		b := fld.Base()
		f.values[b.Name] = normalize(fld, b.Default)
	}
	f.errors = map[string]string{}
	f.phase = Idle
}

// Data returns the typed snapshot of every field. Number fields become
// float64 when they parse and nil when empty.
func (f *Form) Data() Data {
	d := make(Data, len(f.fields))
	for _, fld := range f.fields {
		name := fld.Base().Name
		d[name] = typedValue(fld, f.values[name])
	}
	return d
}

func typedValue(fld schema.FormField, v any) any {
	switch v := v.(type) {
	case []string:
		return append([]string(nil), v...)
	case string:
		if _, ok := fld.(schema.NumberField); ok {
			s := strings.TrimSpace(v)
			if s == "" {
				return nil
			}
			if n, err := strconv.ParseFloat(s, 64); err == nil {
				return n
			}
		}
		return v
	}
	return v
}
