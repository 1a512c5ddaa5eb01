package schema

import (
	"fmt"
	"regexp"
)

// FieldType is the closed set of form input types.
type FieldType string

const (
	TypeText          FieldType = "text"
	TypeEmail         FieldType = "email"
	TypePassword      FieldType = "password"
	TypeNumber        FieldType = "number"
	TypeTel           FieldType = "tel"
	TypeURL           FieldType = "url"
	TypeDate          FieldType = "date"
	TypeTime          FieldType = "time"
	TypeDateTimeLocal FieldType = "datetime-local"
	TypeTextArea      FieldType = "textarea"
	TypeSelect        FieldType = "select"
	TypeCheckbox      FieldType = "checkbox"
	TypeRadio         FieldType = "radio"
	TypeFile          FieldType = "file"
)

// textKinds are the FieldType values a TextField may carry.
var textKinds = map[FieldType]bool{
	TypeText: true, TypeEmail: true, TypePassword: true, TypeTel: true,
	TypeURL: true, TypeDate: true, TypeTime: true, TypeDateTimeLocal: true,
}

// FieldBase carries the attributes shared by every form field.
type FieldBase struct {
	Name        string
	Label       string
	Placeholder string
	HelpText    string
	Default     any
	Required    bool
	Disabled    bool
	// Validate returns a non-empty message to reject value.
	Validate func(value any) string
	// ValidateExpr is a CEL expression over `value` yielding a message
	// string (empty accepts) or a bool (false rejects).
	ValidateExpr string
	// ExprMessage is reported when ValidateExpr yields false.
	ExprMessage string
}

// Base returns the shared attributes.
func (b FieldBase) Base() FieldBase { return b }

// FormField is implemented only by the variant types in this package.
type FormField interface {
	Base() FieldBase
	Type() FieldType
	formField()
}

// Option is one choice of a select, checkbox group or radio group.
type Option struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// TextField is a single line input. Kind selects the concrete input type.
type TextField struct {
	FieldBase
	Kind      FieldType
	Pattern   string
	MinLength int
	MaxLength int
	// Min and Max bound the value lexically, as for dates and times.
	Min string
	Max string
}

// NumberField is a numeric input.
type NumberField struct {
	FieldBase
	Min  *float64
	Max  *float64
	Step float64
}

// TextAreaField is a multi-line input.
type TextAreaField struct {
	FieldBase
	Rows      int
	MinLength int
	MaxLength int
}

// SelectField picks one option, or several when Multiple is set.
type SelectField struct {
	FieldBase
	Options  []Option
	Multiple bool
}

// CheckboxField collects the values of every checked option.
type CheckboxField struct {
	FieldBase
	Options []Option
}

// RadioField picks exactly one option.
type RadioField struct {
	FieldBase
	Options []Option
}

// FileField collects file paths.
type FileField struct {
	FieldBase
	Accept   string
	Multiple bool
}

func (f TextField) Type() FieldType {
	if f.Kind == "" {
		return TypeText
	}
	return f.Kind
}
func (NumberField) Type() FieldType   { return TypeNumber }
func (TextAreaField) Type() FieldType { return TypeTextArea }
func (SelectField) Type() FieldType   { return TypeSelect }
func (CheckboxField) Type() FieldType { return TypeCheckbox }
func (RadioField) Type() FieldType    { return TypeRadio }
func (FileField) Type() FieldType     { return TypeFile }

func (TextField) formField()     {}
func (NumberField) formField()   {}
func (TextAreaField) formField() {}
func (SelectField) formField()   {}
func (CheckboxField) formField() {}
func (RadioField) formField()    {}
func (FileField) formField()     {}

// VisibleRows returns the configured row count, defaulting to 4.
func (f TextAreaField) VisibleRows() int {
	if f.Rows <= 0 {
		return 4
	}
	return f.Rows
}

// NewSelect builds a SelectField, rejecting an empty option list.
func NewSelect(base FieldBase, options []Option, multiple bool) (SelectField, error) {
	if err := checkOptions(base.Name, options); err != nil {
		return SelectField{}, err
	}
	return SelectField{FieldBase: base, Options: options, Multiple: multiple}, nil
}

// NewCheckbox builds a CheckboxField, rejecting an empty option list.
func NewCheckbox(base FieldBase, options []Option) (CheckboxField, error) {
	if err := checkOptions(base.Name, options); err != nil {
		return CheckboxField{}, err
	}
	return CheckboxField{FieldBase: base, Options: options}, nil
}

// NewRadio builds a RadioField, rejecting an empty option list.
func NewRadio(base FieldBase, options []Option) (RadioField, error) {
	if err := checkOptions(base.Name, options); err != nil {
		return RadioField{}, err
	}
	return RadioField{FieldBase: base, Options: options}, nil
}

// NewText builds a TextField of the given kind, compiling its pattern.
func NewText(base FieldBase, kind FieldType, pattern string) (TextField, error) {
	if kind == "" {
		kind = TypeText
	}
	if !textKinds[kind] {
		return TextField{}, fmt.Errorf("%w: field %q: %q is not a text input type", ErrInvalidDescriptor, base.Name, kind)
	}
	if pattern != "" {
		if _, err := regexp.Compile(pattern); err != nil {
			return TextField{}, fmt.Errorf("%w: field %q pattern: %v", ErrInvalidDescriptor, base.Name, err)
		}
	}
	return TextField{FieldBase: base, Kind: kind, Pattern: pattern}, nil
}

func checkOptions(name string, options []Option) error {
	if len(options) == 0 {
		return fmt.Errorf("%w: field %q needs at least one option", ErrInvalidDescriptor, name)
	}
	seen := map[string]bool{}
	for _, o := range options {
		if seen[o.Value] {
			return fmt.Errorf("%w: field %q has duplicate option %q", ErrInvalidDescriptor, name, o.Value)
		}
		seen[o.Value] = true
	}
	return nil
}

// Options returns the choices of a choice field, or nil.
func Options(f FormField) []Option {
	switch v := f.(type) {
	case SelectField:
		return v.Options
	case CheckboxField:
		return v.Options
	case RadioField:
		return v.Options
	}
	return nil
}

// MultiValued reports whether the field's value is a []string.
func MultiValued(f FormField) bool {
	switch v := f.(type) {
	case CheckboxField:
		return true
	case SelectField:
		return v.Multiple
	case FileField:
		return true
	}
	return false
}

// ValidateFormFields checks names are present and unique, choice fields
// have options, text kinds are valid and patterns compile.
func ValidateFormFields(fields []FormField) error {
	seen := map[string]bool{}
	for i, f := range fields {
		if f == nil {
			return fmt.Errorf("%w: form field %d is nil", ErrInvalidDescriptor, i)
		}
		name := f.Base().Name
		if name == "" {
			return fmt.Errorf("%w: form field %d has no name", ErrInvalidDescriptor, i)
		}
		if seen[name] {
			return fmt.Errorf("%w: duplicate form field %q", ErrInvalidDescriptor, name)
		}
		seen[name] = true
		switch v := f.(type) {
		case SelectField, CheckboxField, RadioField:
			if err := checkOptions(name, Options(f)); err != nil {
				return err
			}
		case TextField:
			if _, err := NewText(v.FieldBase, v.Type(), v.Pattern); err != nil {
				return err
			}
		}
	}
	return nil
}
