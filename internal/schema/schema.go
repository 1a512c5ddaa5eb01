// Package schema describes how records are projected into columns, detail
// fields and form inputs. Descriptors are plain values built by the catalog
// and consumed by the list, item and form components.
package schema

import (
	"errors"
	"fmt"

	"github.com/oakwood-commons/uideck/internal/record"
)

// ErrInvalidDescriptor is wrapped by every descriptor validation failure.
var ErrInvalidDescriptor = errors.New("invalid descriptor")

// DefaultSection is the implicit section for fields without one. It renders
// without a heading.
const DefaultSection = "default"

// Extractor projects a value out of a record. It must not mutate r.
type Extractor func(r record.Record) any

// Renderer formats an extracted value for display.
type Renderer func(v any, r record.Record) string

// Key returns an Extractor reading r[key].
func Key(key string) Extractor {
	return func(r record.Record) any { return r.Get(key) }
}

// Column describes one list column.
type Column struct {
	Key      string
	Label    string
	Value    Extractor
	Render   Renderer
	Width    int
	Sortable bool
}

// Display renders the column value for r.
func (c Column) Display(r record.Record) string {
	return display(c.Value, c.Render, r)
}

// Field describes one entry of an item detail view.
type Field struct {
	Key        string
	Label      string
	Value      Extractor
	Render     Renderer
	Section    string
	Highlight  bool
	Span       int
	Badge      bool
	BadgeColor string
}

// DefaultBadgeColor is used for badge fields without a color.
const DefaultBadgeColor = "#667eea"

// Display renders the field value for r.
func (f Field) Display(r record.Record) string {
	return display(f.Value, f.Render, r)
}

// EffectiveSpan clamps Span into 1..4.
func (f Field) EffectiveSpan() int {
	switch {
	case f.Span < 1:
		return 1
	case f.Span > 4:
		return 4
	}
	return f.Span
}

// EffectiveBadgeColor returns BadgeColor or the default.
func (f Field) EffectiveBadgeColor() string {
	if f.BadgeColor == "" {
		return DefaultBadgeColor
	}
	return f.BadgeColor
}

// Status is the label and color of a list item's status chip.
type Status struct {
	Label string
	Color string
}

func display(value Extractor, render Renderer, r record.Record) string {
	var v any
	if value != nil {
		v = value(r)
	}
	if render != nil {
		return render(v, r)
	}
	return record.Stringify(v)
}

// Section is a named group of detail fields.
type Section struct {
	Name   string
	Fields []Field
}

// Labeled reports whether the section renders a heading.
func (s Section) Labeled() bool { return s.Name != DefaultSection }

// Sections groups fields by section name in order of first appearance.
func Sections(fields []Field) []Section {
	var out []Section
	index := map[string]int{}
	for _, f := range fields {
		name := f.Section
		if name == "" {
			name = DefaultSection
		}
		i, ok := index[name]
		if !ok {
			i = len(out)
			index[name] = i
			out = append(out, Section{Name: name})
		}
		out[i].Fields = append(out[i].Fields, f)
	}
	return out
}

// ValidateColumns checks that keys are unique and every column can extract a value.
func ValidateColumns(cols []Column) error {
	seen := map[string]bool{}
	for i, c := range cols {
		if c.Key == "" {
			return fmt.Errorf("%w: column %d has no key", ErrInvalidDescriptor, i)
		}
		if seen[c.Key] {
			return fmt.Errorf("%w: duplicate column key %q", ErrInvalidDescriptor, c.Key)
		}
		seen[c.Key] = true
		if c.Value == nil {
			return fmt.Errorf("%w: column %q has no extractor", ErrInvalidDescriptor, c.Key)
		}
	}
	return nil
}

// ValidateFields checks that keys are unique, extractors are set and spans are in range.
func ValidateFields(fields []Field) error {
	seen := map[string]bool{}
	for i, f := range fields {
		if f.Key == "" {
			return fmt.Errorf("%w: field %d has no key", ErrInvalidDescriptor, i)
		}
		if seen[f.Key] {
			return fmt.Errorf("%w: duplicate field key %q", ErrInvalidDescriptor, f.Key)
		}
		seen[f.Key] = true
		if f.Value == nil {
			return fmt.Errorf("%w: field %q has no extractor", ErrInvalidDescriptor, f.Key)
		}
		if f.Span < 0 || f.Span > 4 {
			return fmt.Errorf("%w: field %q span %d out of range 1-4", ErrInvalidDescriptor, f.Key, f.Span)
		}
	}
	return nil
}
