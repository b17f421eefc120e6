package types

import (
	"fmt"
	"strconv"
	"strings"
)

// ValueKind identifies which field in Value is valid
type ValueKind uint8

const (
	ValueString ValueKind = iota // Str field valid
	ValueInt                     // Int field valid
	ValueFloat                   // Float field valid
	ValueBool                    // Bool field valid
	ValueNull                    // no field valid ("None")
	ValueList                    // List field valid (flag followed by several values)
)

// String returns a string representation of the ValueKind
func (k ValueKind) String() string {
	switch k {
	case ValueString:
		return "string"
	case ValueInt:
		return "integer"
	case ValueFloat:
		return "float"
	case ValueBool:
		return "boolean"
	case ValueNull:
		return "null"
	case ValueList:
		return "list"
	default:
		return fmt.Sprintf("ValueKind(%d)", uint8(k))
	}
}

// Value is a union type for coerced command-line values.
// Only one field should be set based on Kind.
type Value struct {
	Kind ValueKind

	// Union fields (only one valid per Kind)
	Str   string  // For ValueString
	Int   int64   // For ValueInt
	Float float64 // For ValueFloat
	Bool  bool    // For ValueBool
	List  []Value // For ValueList

	// Raw is the token the scalar was coerced from. Empty for lists and
	// for the implicit true of a bare switch.
	Raw string

	// Implicit marks the true bound to a flag that had no value tokens.
	Implicit bool
}

// StringValue returns a string Value for raw.
func StringValue(raw string) Value {
	return Value{Kind: ValueString, Str: raw, Raw: raw}
}

// IntValue returns an integer Value coerced from raw.
func IntValue(n int64, raw string) Value {
	return Value{Kind: ValueInt, Int: n, Raw: raw}
}

// FloatValue returns a float Value coerced from raw.
func FloatValue(f float64, raw string) Value {
	return Value{Kind: ValueFloat, Float: f, Raw: raw}
}

// BoolValue returns a boolean Value coerced from raw ("True" or "False").
func BoolValue(b bool, raw string) Value {
	return Value{Kind: ValueBool, Bool: b, Raw: raw}
}

// NullValue returns the null Value coerced from raw ("None").
func NullValue(raw string) Value {
	return Value{Kind: ValueNull, Raw: raw}
}

// SwitchValue returns the true bound to a bare flag.
func SwitchValue() Value {
	return Value{Kind: ValueBool, Bool: true, Implicit: true}
}

// ListValue returns a list Value holding items in order.
func ListValue(items ...Value) Value {
	return Value{Kind: ValueList, List: items}
}

// IsScalar reports whether v is anything but a list.
func (v Value) IsScalar() bool {
	return v.Kind != ValueList
}

// Token returns the token text v was coerced from, if any.
func (v Value) Token() (string, bool) {
	if v.Kind == ValueList || v.Implicit {
		return "", false
	}
	return v.Raw, true
}

// Interface returns the native Go form of v: string, int64, float64, bool,
// nil or []any.
func (v Value) Interface() any {
	switch v.Kind {
	case ValueString:
		return v.Str
	case ValueInt:
		return v.Int
	case ValueFloat:
		return v.Float
	case ValueBool:
		return v.Bool
	case ValueList:
		items := make([]any, len(v.List))
		for i, item := range v.List {
			items[i] = item.Interface()
		}
		return items
	default:
		return nil
	}
}

// String renders v for display. Strings are quoted so that "42" and 42 stay
// distinguishable.
func (v Value) String() string {
	switch v.Kind {
	case ValueString:
		return strconv.Quote(v.Str)
	case ValueInt:
		return strconv.FormatInt(v.Int, 10)
	case ValueFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case ValueBool:
		return strconv.FormatBool(v.Bool)
	case ValueNull:
		return "null"
	case ValueList:
		parts := make([]string, len(v.List))
		for i, item := range v.List {
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return v.Kind.String()
	}
}
