package binder

import (
	"fmt"
	"math"
	"reflect"
	"sort"

	"github.com/aledsdavies/clicake/core/types"
)

// tokenAware returns the native form of val for slot. String slots receive
// the token text rather than the coerced scalar, so "08" stays "08".
func tokenAware(val types.Value, slot types.ParamSchema) any {
	wantsText := slot.Type == types.TypeString ||
		(slot.Type == types.TypeArray && slot.ElementType() == types.TypeString)
	if !wantsText {
		return val.Interface()
	}

	if val.Kind == types.ValueList {
		items := make([]any, len(val.List))
		for i, item := range val.List {
			items[i] = textOf(item)
		}
		return items
	}
	return textOf(val)
}

func textOf(val types.Value) any {
	if val.Kind == types.ValueNull {
		return nil
	}
	if raw, ok := val.Token(); ok {
		return raw
	}
	return val.Interface()
}

// conform converts a normalised value to slot's kind
func conform(x any, slot types.ParamSchema) (any, error) {
	if slot.Type == types.TypeArray {
		elem := types.ParamSchema{Name: slot.Name, Type: slot.ElementType()}
		list, ok := x.([]any)
		if !ok {
			if x == nil {
				return nil, nil
			}
			list = []any{x}
		}
		out := make([]any, len(list))
		for i, item := range list {
			c, err := conform(item, elem)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out[i] = c
		}
		return out, nil
	}
	return conformScalar(x, slot.Type)
}

func conformScalar(x any, typ types.ParamType) (any, error) {
	if x == nil {
		return nil, nil
	}

	switch typ {
	case types.TypeAny:
		if !jsonShaped(x) {
			return nil, fmt.Errorf("unsupported value of type %T", x)
		}
		return x, nil
	case types.TypeString:
		if s, ok := x.(string); ok {
			return s, nil
		}
	case types.TypeInt:
		if n, ok := x.(int64); ok {
			return n, nil
		}
	case types.TypeFloat:
		switch v := x.(type) {
		case float64:
			return v, nil
		case int64:
			return float64(v), nil
		}
	case types.TypeBool:
		if b, ok := x.(bool); ok {
			return b, nil
		}
	}
	return nil, fmt.Errorf("%s is not %s", kindOf(x), typ)
}

// normalize converts Go values to the JSON-shaped forms the binder works
// with: int64, float64, []any and map[string]any.
func normalize(x any) any {
	switch v := x.(type) {
	case nil, string, bool, int64, float64:
		return v
	case int:
		return int64(v)
	case int8:
		return int64(v)
	case int16:
		return int64(v)
	case int32:
		return int64(v)
	case uint8:
		return int64(v)
	case uint16:
		return int64(v)
	case uint32:
		return int64(v)
	case uint:
		if uint64(v) <= math.MaxInt64 {
			return int64(v)
		}
		return float64(v)
	case uint64:
		if v <= math.MaxInt64 {
			return int64(v)
		}
		return float64(v)
	case float32:
		return float64(v)
	case types.Value:
		return v.Interface()
	}

	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = normalize(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return x
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = normalize(iter.Value().Interface())
		}
		return out
	case reflect.Ptr:
		if rv.IsNil() {
			return nil
		}
		return normalize(rv.Elem().Interface())
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	}
	return x
}

// jsonShaped reports whether x can be handed to the schema validator
func jsonShaped(x any) bool {
	switch v := x.(type) {
	case nil, string, bool, int64, float64:
		return true
	case []any:
		for _, item := range v {
			if !jsonShaped(item) {
				return false
			}
		}
		return true
	case map[string]any:
		for _, item := range v {
			if !jsonShaped(item) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func kindOf(x any) string {
	switch x.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case int64:
		return "integer"
	case float64:
		return "float"
	case bool:
		return "boolean"
	case []any:
		return "list"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", x)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
