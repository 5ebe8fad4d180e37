package rule

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

// ParamKind is the declared type of a rule parameter.
type ParamKind uint8

const (
	ParamInt ParamKind = iota
	ParamBool
	ParamString
	ParamList // list of strings
)

func (k ParamKind) String() string {
	switch k {
	case ParamInt:
		return "int"
	case ParamBool:
		return "bool"
	case ParamString:
		return "string"
	case ParamList:
		return "list"
	default:
		return "unknown"
	}
}

var (
	// ErrParamType reports a value of the wrong type.
	ErrParamType = errors.New("wrong parameter type")
	// ErrParamRange reports a value outside the allowed range.
	ErrParamRange = errors.New("parameter out of range")
)

// Param declares a rule parameter and its default.
type Param struct {
	Name    string
	Kind    ParamKind
	Default any // int, bool, string or []string
	Doc     string
	Min     int // lower bound for ParamInt
}

// Coerce converts a value decoded from YAML, TOML or JSON into the
// parameter's canonical Go type.
func (p Param) Coerce(v any) (any, error) {
	switch p.Kind {
	case ParamInt:
		n, ok := asInt(v)
		if !ok {
			return nil, fmt.Errorf("%s: expected int, got %T: %w", p.Name, v, ErrParamType)
		}
		if n < p.Min {
			return nil, fmt.Errorf("%s: %d is below minimum %d: %w", p.Name, n, p.Min, ErrParamRange)
		}
		return n, nil
	case ParamBool:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("%s: expected bool, got %T: %w", p.Name, v, ErrParamType)
		}
		return b, nil
	case ParamString:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%s: expected string, got %T: %w", p.Name, v, ErrParamType)
		}
		return s, nil
	case ParamList:
		switch list := v.(type) {
		case []string:
			return slices.Clone(list), nil
		case []any:
			out := make([]string, 0, len(list))
			for _, item := range list {
				s, ok := item.(string)
				if !ok {
					return nil, fmt.Errorf("%s: list items must be strings, got %T: %w", p.Name, item, ErrParamType)
				}
				out = append(out, s)
			}
			return out, nil
		}
		return nil, fmt.Errorf("%s: expected list, got %T: %w", p.Name, v, ErrParamType)
	}
	return nil, fmt.Errorf("%s: unknown parameter kind: %w", p.Name, ErrParamType)
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		if n > math.MaxInt32 || n < math.MinInt32 {
			return 0, false
		}
		return int(n), true
	case uint64:
		if n > math.MaxInt32 {
			return 0, false
		}
		return int(n), true
	case float64:
		// JSON numbers
		if n != math.Trunc(n) || n > math.MaxInt32 || n < math.MinInt32 {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}

// Params holds resolved parameter values keyed by name.
type Params map[string]any

// Int returns an int parameter or zero.
func (p Params) Int(name string) int {
	n, _ := p[name].(int)
	return n
}

// Bool returns a bool parameter or false.
func (p Params) Bool(name string) bool {
	b, _ := p[name].(bool)
	return b
}

// String returns a string parameter or "".
func (p Params) String(name string) string {
	s, _ := p[name].(string)
	return s
}

// List returns a list parameter or nil.
func (p Params) List(name string) []string {
	l, _ := p[name].([]string)
	return l
}
