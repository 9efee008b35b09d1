package tools

import (
	"encoding/json"
	"fmt"
	"math"
	"unicode/utf8"
)

// ParamType is the wire type of a tool parameter.
type ParamType string

const (
	TypeString  ParamType = "string"
	TypeInteger ParamType = "integer"
	TypeBoolean ParamType = "boolean"
)

// Param declares a single tool parameter: its type, whether it is required,
// an optional default applied when the caller omits it, and value bounds
// (enum membership for strings, inclusive ranges for integers, a length
// ceiling for strings).
type Param struct {
	Name        string
	Description string
	Type        ParamType
	Required    bool
	Default     interface{}
	Enum        []string
	Min         *int
	Max         *int
	MaxLen      int
}

// Descriptor declares a tool: its unique name, a human-readable description,
// and the parameters dispatch validates before the handler runs.
type Descriptor struct {
	Name        string
	Description string
	Params      []Param
}

// Args holds validated, defaulted arguments for a handler invocation.
// Values are guaranteed to match their declared parameter types, so the
// typed getters do not re-check.
type Args map[string]interface{}

// String returns the named string argument.
func (a Args) String(name string) string {
	v, _ := a[name].(string)
	return v
}

// Int returns the named integer argument.
func (a Args) Int(name string) int {
	v, _ := a[name].(int)
	return v
}

// Bool returns the named boolean argument.
func (a Args) Bool(name string) bool {
	v, _ := a[name].(bool)
	return v
}

// Has reports whether the argument was supplied or defaulted.
func (a Args) Has(name string) bool {
	_, ok := a[name]
	return ok
}

// IntRange is a convenience for declaring an inclusive integer bound.
func IntRange(min, max int) (*int, *int) {
	return &min, &max
}

// check validates the descriptor itself. Run once at registration so
// dispatch never has to cope with a malformed schema.
func (d Descriptor) check() error {
	if d.Name == "" {
		return fmt.Errorf("tool descriptor requires a name")
	}
	seen := make(map[string]bool, len(d.Params))
	for _, p := range d.Params {
		if p.Name == "" {
			return fmt.Errorf("tool %q declares a parameter without a name", d.Name)
		}
		if seen[p.Name] {
			return fmt.Errorf("tool %q declares parameter %q twice", d.Name, p.Name)
		}
		seen[p.Name] = true

		switch p.Type {
		case TypeString, TypeInteger, TypeBoolean:
		default:
			return fmt.Errorf("tool %q parameter %q has unsupported type %q", d.Name, p.Name, p.Type)
		}
		if len(p.Enum) > 0 && p.Type != TypeString {
			return fmt.Errorf("tool %q parameter %q: enum is only valid for strings", d.Name, p.Name)
		}
		if (p.Min != nil || p.Max != nil) && p.Type != TypeInteger {
			return fmt.Errorf("tool %q parameter %q: range bounds are only valid for integers", d.Name, p.Name)
		}
		if p.Required && p.Default != nil {
			return fmt.Errorf("tool %q parameter %q: required parameters cannot carry defaults", d.Name, p.Name)
		}
		if p.Default != nil {
			if _, err := coerceValue(p, p.Default); err != nil {
				return fmt.Errorf("tool %q parameter %q: default does not satisfy its own schema: %v", d.Name, p.Name, err)
			}
		}
	}
	return nil
}

// apply validates raw arguments against the descriptor and returns a
// defaulted Args map. All failures are InvalidArgument; no handler or
// driver call happens before this succeeds.
func (d Descriptor) apply(raw map[string]interface{}) (Args, *Error) {
	args := make(Args, len(d.Params))

	for _, p := range d.Params {
		v, present := raw[p.Name]
		if !present || v == nil {
			if p.Required {
				return nil, InvalidArgumentf("missing required parameter %q", p.Name)
			}
			if p.Default != nil {
				coerced, _ := coerceValue(p, p.Default)
				args[p.Name] = coerced
			}
			continue
		}

		coerced, err := coerceValue(p, v)
		if err != nil {
			return nil, InvalidArgumentf("parameter %q: %v", p.Name, err)
		}
		args[p.Name] = coerced
	}

	return args, nil
}

// coerceValue checks a single value against the parameter's type and bounds,
// returning the normalized Go value. JSON transports deliver integers as
// float64, so whole floats are accepted for integer parameters.
func coerceValue(p Param, v interface{}) (interface{}, error) {
	switch p.Type {
	case TypeString:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected a string, got %T", v)
		}
		// Length limits count characters, not bytes, so multibyte text
		// is not penalized.
		if p.MaxLen > 0 && utf8.RuneCountInString(s) > p.MaxLen {
			return nil, fmt.Errorf("exceeds maximum length of %d characters", p.MaxLen)
		}
		if len(p.Enum) > 0 {
			for _, allowed := range p.Enum {
				if s == allowed {
					return s, nil
				}
			}
			return nil, fmt.Errorf("must be one of %v", p.Enum)
		}
		return s, nil

	case TypeInteger:
		n, err := toInt(v)
		if err != nil {
			return nil, err
		}
		if p.Min != nil && n < *p.Min {
			return nil, fmt.Errorf("must be at least %d", *p.Min)
		}
		if p.Max != nil && n > *p.Max {
			return nil, fmt.Errorf("must be at most %d", *p.Max)
		}
		return n, nil

	case TypeBoolean:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("expected a boolean, got %T", v)
		}
		return b, nil
	}

	return nil, fmt.Errorf("unsupported parameter type %q", p.Type)
}

// toInt normalizes the integer encodings seen across JSON decoding and
// direct Go callers.
func toInt(v interface{}) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("expected an integer, got %v", n)
		}
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("expected an integer, got %q", n.String())
		}
		return int(i), nil
	default:
		return 0, fmt.Errorf("expected an integer, got %T", v)
	}
}
