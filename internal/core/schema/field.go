package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	santhosh "github.com/santhosh-tekuri/jsonschema/v5"
)

// Kind is the JSON type a field accepts.
type Kind int

const (
	KindAny Kind = iota
	KindString
	KindInteger
	KindNumber
	KindBoolean
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	default:
		return "any"
	}
}

// TransformFunc normalizes a value that already passed the type and bound
// checks. A returned error becomes a violation at the field path.
type TransformFunc func(v any) (any, error)

// Field describes one named value. Builder methods return a modified copy
// so a Field can be shared between schemas.
type Field struct {
	name       string
	kind       Kind
	optional   bool
	minLength  *int
	maxLength  *int
	minimum    *float64
	maximum    *float64
	pattern    string
	format     string
	enum       []string
	transform  TransformFunc
	def        any
	hasDefault bool
	coerce     bool
	fallback   int64

	compiled *santhosh.Schema
}

func newField(name string, kind Kind) Field {
	return Field{name: name, kind: kind}
}

// String declares a string field.
func String(name string) Field { return newField(name, KindString) }

// Int declares an integer field.
func Int(name string) Field { return newField(name, KindInteger) }

// Number declares a numeric field.
func Number(name string) Field { return newField(name, KindNumber) }

// Bool declares a boolean field.
func Bool(name string) Field { return newField(name, KindBoolean) }

// Enum declares a string field restricted to values.
func Enum(name string, values ...string) Field {
	f := newField(name, KindString)
	f.enum = append([]string(nil), values...)
	return f
}

func (f Field) Name() string { return f.name }

func (f Field) Kind() Kind { return f.kind }

func (f Field) IsOptional() bool { return f.optional }

func (f Field) Optional() Field {
	f.optional = true
	return f
}

func (f Field) Required() Field {
	f.optional = false
	return f
}

func (f Field) MinLength(n int) Field {
	f.minLength = &n
	f.compiled = nil
	return f
}

func (f Field) MaxLength(n int) Field {
	f.maxLength = &n
	f.compiled = nil
	return f
}

// Min sets the inclusive lower bound of a numeric field.
func (f Field) Min(v float64) Field {
	f.minimum = &v
	f.compiled = nil
	return f
}

// Max sets the inclusive upper bound of a numeric field.
func (f Field) Max(v float64) Field {
	f.maximum = &v
	f.compiled = nil
	return f
}

func (f Field) Pattern(expr string) Field {
	f.pattern = expr
	f.compiled = nil
	return f
}

// Format asserts a JSON Schema format such as "date-time" or "email".
func (f Field) Format(name string) Field {
	f.format = name
	f.compiled = nil
	return f
}

func (f Field) Transform(fn TransformFunc) Field {
	f.transform = fn
	return f
}

// Default is substituted when the field is absent. It implies Optional.
func (f Field) Default(v any) Field {
	f.def = jsonValue(v)
	f.hasDefault = true
	f.optional = true
	return f
}

// Coerce parses the raw value as an integer instead of type checking it.
// Unparseable, NaN or zero input yields fallback; the result is clamped to
// Min and Max rather than rejected.
func (f Field) Coerce(fallback int64) Field {
	f.coerce = true
	f.fallback = fallback
	f.optional = true
	f.compiled = nil
	return f
}

// Compile returns a copy with its JSON Schema compiled. It panics when the
// constraints do not form a valid document, like regexp.MustCompile.
func (f Field) Compile() Field {
	if f.compiled != nil {
		return f
	}
	compiled, err := compileDocument(f.document())
	if err != nil {
		panic(fmt.Sprintf("schema: compile field %q: %v", f.name, err))
	}
	f.compiled = compiled
	return f
}

// Parse validates a single value such as a path parameter. Violations are
// reported at the root path.
func (f Field) Parse(input any) (any, error) {
	f = f.Compile()
	v, set, violations := f.parse(input, input != nil, RootPath)
	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}
	if !set {
		return nil, nil
	}
	return v, nil
}

func (f Field) parse(raw any, present bool, path string) (any, bool, []Violation) {
	if !present {
		switch {
		case f.coerce:
			return f.clamp(float64(f.fallback)), true, nil
		case f.hasDefault:
			return f.def, true, nil
		case f.optional:
			return nil, false, nil
		default:
			return nil, false, []Violation{{Path: path, Message: "Required"}}
		}
	}

	raw = jsonValue(raw)
	if violations := f.check(raw, path); len(violations) > 0 {
		return nil, false, violations
	}

	value := raw
	if f.coerce {
		value = f.clamp(coerceInt(raw, f.fallback))
	}

	if f.transform != nil {
		out, err := f.transform(value)
		if err != nil {
			return nil, false, []Violation{{Path: path, Message: err.Error()}}
		}
		value = out
	}
	return value, true, nil
}

func (f Field) check(raw any, path string) []Violation {
	if f.compiled == nil {
		f = f.Compile()
	}
	err := f.compiled.Validate(raw)
	if err == nil {
		return nil
	}

	ve, ok := err.(*santhosh.ValidationError)
	if !ok {
		return []Violation{{Path: path, Message: err.Error()}}
	}

	var out []Violation
	collectViolations(ve, path, &out)
	if len(out) == 0 {
		out = append(out, Violation{Path: path, Message: ve.Message})
	}
	return out
}

func (f Field) clamp(v float64) float64 {
	if f.minimum != nil && v < *f.minimum {
		v = *f.minimum
	}
	if f.maximum != nil && v > *f.maximum {
		v = *f.maximum
	}
	return v
}

func (f Field) document() map[string]any {
	doc := map[string]any{}
	if f.coerce {
		doc["type"] = []string{"string", "number"}
		return doc
	}

	switch f.kind {
	case KindString, KindInteger, KindNumber, KindBoolean:
		doc["type"] = f.kind.String()
	}
	if len(f.enum) > 0 {
		doc["enum"] = f.enum
	}
	if f.minLength != nil {
		doc["minLength"] = *f.minLength
	}
	if f.maxLength != nil {
		doc["maxLength"] = *f.maxLength
	}
	if f.minimum != nil {
		doc["minimum"] = *f.minimum
	}
	if f.maximum != nil {
		doc["maximum"] = *f.maximum
	}
	if f.pattern != "" {
		doc["pattern"] = f.pattern
	}
	if f.format != "" {
		doc["format"] = f.format
	}
	return doc
}

func compileDocument(doc map[string]any) (*santhosh.Schema, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	compiler := santhosh.NewCompiler()
	compiler.Draft = santhosh.Draft7
	compiler.AssertFormat = true
	if err := compiler.AddResource("field.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	return compiler.Compile("field.json")
}

func collectViolations(ve *santhosh.ValidationError, path string, out *[]Violation) {
	if len(ve.Causes) == 0 {
		*out = append(*out, Violation{Path: joinPath(path, ve.InstanceLocation), Message: ve.Message})
		return
	}
	for _, cause := range ve.Causes {
		collectViolations(cause, path, out)
	}
}

// joinPath appends a JSON pointer such as "/0/name" to a dotted path.
func joinPath(base, pointer string) string {
	pointer = strings.Trim(pointer, "/")
	if pointer == "" {
		return base
	}
	return base + "." + strings.ReplaceAll(pointer, "/", ".")
}

// coerceInt reads a leading integer the way query strings are usually read:
// optional whitespace, an optional sign and at least one digit.
func coerceInt(raw any, fallback int64) float64 {
	var n float64
	switch v := raw.(type) {
	case float64:
		n = math.Trunc(v)
	case string:
		parsed, ok := parseLeadingInt(v)
		if !ok {
			return float64(fallback)
		}
		n = parsed
	default:
		return float64(fallback)
	}
	if n == 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return float64(fallback)
	}
	return n
}

func parseLeadingInt(s string) (float64, bool) {
	s = strings.TrimLeft(s, " \t\n\r")
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}

	var n float64
	digits := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + float64(c-'0')
		digits++
	}
	if digits == 0 {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}

// jsonValue maps Go integer types onto float64 so values set in code look
// like decoded JSON.
func jsonValue(v any) any {
	switch t := v.(type) {
	case int:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case float32:
		return float64(t)
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return f
		}
	}
	return v
}
