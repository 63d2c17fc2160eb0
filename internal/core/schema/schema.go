// Package schema validates and normalizes request input against declarative
// field lists. Type, bound and format checks are evaluated by per-field JSON
// Schema documents; sanitizing transforms and defaults run afterwards.
package schema

import (
	"fmt"
	"strings"
)

// RootPath marks a violation that applies to the whole value.
const RootPath = "root"

// Violation is a single failed constraint.
type Violation struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationError lists every violation found in one input.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Path+": "+v.Message)
	}
	return strings.Join(parts, ", ")
}

// Has reports whether a violation was recorded for path.
func (e *ValidationError) Has(path string) bool {
	for _, v := range e.Violations {
		if v.Path == path {
			return true
		}
	}
	return false
}

// Schema is an ordered, immutable list of fields. Composition methods
// return new schemas and never modify the receiver.
type Schema struct {
	fields []Field
}

// Object builds a schema from fields. Later fields replace earlier ones
// with the same name.
func Object(fields ...Field) Schema {
	return Schema{}.Extend(fields...)
}

// Extend adds fields, replacing existing fields with the same name in place.
func (s Schema) Extend(fields ...Field) Schema {
	out := make([]Field, len(s.fields), len(s.fields)+len(fields))
	copy(out, s.fields)
	for _, f := range fields {
		f = f.Compile()
		if i := indexOf(out, f.name); i >= 0 {
			out[i] = f
			continue
		}
		out = append(out, f)
	}
	return Schema{fields: out}
}

// Omit drops the named fields.
func (s Schema) Omit(names ...string) Schema {
	drop := make(map[string]struct{}, len(names))
	for _, n := range names {
		drop[n] = struct{}{}
	}
	out := make([]Field, 0, len(s.fields))
	for _, f := range s.fields {
		if _, ok := drop[f.name]; ok {
			continue
		}
		out = append(out, f)
	}
	return Schema{fields: out}
}

// Partial marks every field optional. Defaults are dropped so absent fields
// stay absent, which is what update payloads need.
func (s Schema) Partial() Schema {
	out := make([]Field, len(s.fields))
	for i, f := range s.fields {
		f.optional = true
		f.hasDefault = false
		f.def = nil
		out[i] = f
	}
	return Schema{fields: out}
}

// Fields returns a copy of the field list.
func (s Schema) Fields() []Field {
	return append([]Field(nil), s.fields...)
}

// Field looks up a field by name.
func (s Schema) Field(name string) (Field, bool) {
	if i := indexOf(s.fields, name); i >= 0 {
		return s.fields[i], true
	}
	return Field{}, false
}

// Parse validates input, which must be a decoded JSON object. Fields not
// declared in the schema are dropped. A JSON null counts as absent.
func (s Schema) Parse(input any) (Values, error) {
	obj, ok := input.(map[string]any)
	if !ok {
		return nil, &ValidationError{Violations: []Violation{{
			Path:    RootPath,
			Message: fmt.Sprintf("Expected object, received %s", typeName(input)),
		}}}
	}

	out := make(Values, len(s.fields))
	var violations []Violation
	for _, f := range s.fields {
		raw, present := obj[f.name]
		if raw == nil {
			present = false
		}
		v, set, vs := f.parse(raw, present, f.name)
		if len(vs) > 0 {
			violations = append(violations, vs...)
			continue
		}
		if set {
			out[f.name] = v
		}
	}

	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}
	return out, nil
}

func indexOf(fields []Field, name string) int {
	for i, f := range fields {
		if f.name == name {
			return i
		}
	}
	return -1
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, int, int64:
		return "number"
	case []any:
		return "array"
	default:
		return fmt.Sprintf("%T", v)
	}
}
