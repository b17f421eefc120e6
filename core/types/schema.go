package types

import (
	"fmt"
	"math"
)

// ParamType represents the expected kind of a parameter slot
type ParamType string

const (
	TypeString ParamType = "string"
	TypeInt    ParamType = "integer"
	TypeFloat  ParamType = "float"
	TypeBool   ParamType = "boolean"
	TypeArray  ParamType = "array"

	// TypeAny accepts whatever the coercer produced, unconverted.
	TypeAny ParamType = "any"
)

// ParamSchema describes a single parameter slot
type ParamSchema struct {
	Name        string    // Slot name (flag name for named slots)
	Type        ParamType // Expected kind
	Description string    // Human-readable description
	Optional    bool      // Set by a default; positional slots without one are required
	Default     any       // Value used when the slot is absent (may be nil)
	Items       ParamType // Element kind for TypeArray (empty = TypeAny)
	Format      Format    // String format (uri, cidr, semver, duration, ...); empty = none
}

// ElementType returns the element kind of an array slot.
func (p *ParamSchema) ElementType() ParamType {
	if p.Items == "" {
		return TypeAny
	}
	return p.Items
}

// isValidParamType checks if a ParamType is valid
func isValidParamType(typ ParamType) bool {
	switch typ {
	case TypeString, TypeInt, TypeFloat, TypeBool, TypeArray, TypeAny:
		return true
	default:
		return false
	}
}

// validateParam checks a single slot for structural errors
func validateParam(where string, p ParamSchema) error {
	if p.Name == "" {
		return fmt.Errorf("%s: parameter name cannot be empty", where)
	}
	if p.Type == "" {
		return fmt.Errorf("%s parameter %q: type cannot be empty", where, p.Name)
	}
	if !isValidParamType(p.Type) {
		return fmt.Errorf("%s parameter %q: unknown type %q", where, p.Name, p.Type)
	}
	if p.Items != "" {
		if p.Type != TypeArray {
			return fmt.Errorf("%s parameter %q: element type set on non-array type %q", where, p.Name, p.Type)
		}
		if p.Items == TypeArray || !isValidParamType(p.Items) {
			return fmt.Errorf("%s parameter %q: invalid element type %q", where, p.Name, p.Items)
		}
	}
	if !finite(p.Default) {
		return fmt.Errorf("%s parameter %q: default %v is not a finite number", where, p.Name, p.Default)
	}
	if p.Format != "" {
		if !IsValidFormat(p.Format) {
			return fmt.Errorf("%s parameter %q: unknown format %q", where, p.Name, p.Format)
		}
		if p.Type != TypeString && (p.Type != TypeArray || p.Items != TypeString) {
			return fmt.Errorf("%s parameter %q: format %q needs a string slot", where, p.Name, p.Format)
		}
	}
	return nil
}

// finite reports whether v holds no NaN or infinite floats. JSON has no
// spelling for them, so they cannot appear in a contract schema.
func finite(v any) bool {
	switch x := v.(type) {
	case float64:
		return !math.IsInf(x, 0) && !math.IsNaN(x)
	case float32:
		return finite(float64(x))
	case []any:
		for _, item := range x {
			if !finite(item) {
				return false
			}
		}
	}
	return true
}
