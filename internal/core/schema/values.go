package schema

import (
	"math"
	"time"
)

// Values holds normalized output. Numbers are float64 and timestamps stay
// strings so the map can be validated again unchanged.
type Values map[string]any

func (v Values) Has(name string) bool {
	_, ok := v[name]
	return ok
}

func (v Values) String(name string) string {
	s, _ := v[name].(string)
	return s
}

// StringPtr returns nil when the field was absent.
func (v Values) StringPtr(name string) *string {
	s, ok := v[name].(string)
	if !ok {
		return nil
	}
	return &s
}

func (v Values) Int(name string) int {
	switch n := v[name].(type) {
	case float64:
		return int(math.Trunc(n))
	case int:
		return n
	case int64:
		return int(n)
	default:
		return 0
	}
}

// IntPtr returns nil when the field was absent.
func (v Values) IntPtr(name string) *int {
	if !v.Has(name) {
		return nil
	}
	n := v.Int(name)
	return &n
}

// Time parses an RFC 3339 field. The zero time is returned when the field
// is absent or unparseable.
func (v Values) Time(name string) time.Time {
	s, ok := v[name].(string)
	if !ok {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

// TimePtr returns nil when the field was absent.
func (v Values) TimePtr(name string) *time.Time {
	if !v.Has(name) {
		return nil
	}
	t := v.Time(name)
	return &t
}
