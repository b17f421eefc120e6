package runnable

import (
	"context"
	"errors"
	"fmt"
	"math"
	"reflect"
	"runtime"
	"strings"
	"unicode"

	"github.com/aledsdavies/clicake/core/types"
	"github.com/aledsdavies/clicake/runtime/binder"
	"github.com/aledsdavies/clicake/runtime/parser"
)

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

// Wrap binds an ordinary Go function, deriving its contract from the
// function type:
//
//   - an optional leading context.Context receives the invocation context
//   - an optional struct parameter next becomes the named slots, one per
//     exported field (see below)
//   - the remaining parameters become positional slots arg0, arg1, ...
//   - a variadic parameter becomes the variadic slot "args"
//
// Struct fields are named by their `flag` tag, or by the lower-cased field
// name; `flag:"-"` skips a field. A `default` tag holds a command-line token
// used when the flag is absent, and `help` a description.
//
// The function may return nothing, a value, an error, or a value and an
// error.
//
//	type EchoOptions struct {
//	    Capitalize bool `flag:"capitalize" help:"upper-case every word"`
//	}
//
//	func Echo(opts EchoOptions, words ...string) string
func Wrap(fn any) (*Runnable, error) {
	return WrapNamed("", fn)
}

// WrapNamed is Wrap with an explicit target name. An empty name uses the
// function's own name.
func WrapNamed(name string, fn any) (*Runnable, error) {
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return nil, fmt.Errorf("runnable: expected a function, got %T", fn)
	}
	if name == "" {
		name = funcName(rv)
	}

	shape, err := inspectFunc(name, rv.Type())
	if err != nil {
		return nil, err
	}

	return New(shape.bind(rv), shape.sig)
}

// funcShape describes how a bound call maps onto a function's parameters
type funcShape struct {
	sig      types.Signature
	fnType   reflect.Type
	hasCtx   bool
	options  reflect.Type  // nil without an options struct
	fields   []optionField // options struct fields, in declaration order
	fixed    []reflect.Type
	variadic reflect.Type // element type, nil when not variadic
	results  resultShape
}

type optionField struct {
	index []int
	name  string
	typ   reflect.Type
}

type resultShape uint8

const (
	resultNone resultShape = iota
	resultValue
	resultError
	resultValueError
)

func inspectFunc(name string, t reflect.Type) (*funcShape, error) {
	shape := &funcShape{fnType: t}
	b := types.NewSignature(name)

	in := 0
	if in < t.NumIn() && t.In(in) == contextType {
		shape.hasCtx = true
		in++
	}

	last := t.NumIn()
	if t.IsVariadic() {
		last--
	}

	if in < last && t.In(in).Kind() == reflect.Struct {
		shape.options = t.In(in)
		if err := shape.inspectOptions(b); err != nil {
			return nil, fmt.Errorf("runnable: %s: %w", name, err)
		}
		in++
	}

	for ; in < last; in++ {
		pt := t.In(in)
		typ, items, err := paramTypeOf(pt)
		if err != nil {
			return nil, fmt.Errorf("runnable: %s: parameter %d: %w", name, in, err)
		}
		pb := b.Positional(fmt.Sprintf("arg%d", len(shape.fixed)), typ)
		if items != "" {
			pb.Items(items)
		}
		pb.Done()
		shape.fixed = append(shape.fixed, pt)
	}

	if t.IsVariadic() {
		elem := t.In(last).Elem()
		typ, items, err := paramTypeOf(elem)
		if err != nil {
			return nil, fmt.Errorf("runnable: %s: variadic parameter: %w", name, err)
		}
		pb := b.Variadic("args", typ)
		if items != "" {
			pb.Items(items)
		}
		pb.Done()
		shape.variadic = elem
	}

	results, err := inspectResults(t)
	if err != nil {
		return nil, fmt.Errorf("runnable: %s: %w", name, err)
	}
	shape.results = results

	shape.sig = b.Build()
	return shape, nil
}

func (s *funcShape) inspectOptions(b *types.SignatureBuilder) error {
	for i := 0; i < s.options.NumField(); i++ {
		f := s.options.Field(i)
		if !f.IsExported() || f.Anonymous {
			continue
		}
		tag := f.Tag.Get("flag")
		if tag == "-" {
			continue
		}
		name := tag
		if name == "" {
			name = strings.ToLower(f.Name)
		}

		typ, items, err := paramTypeOf(f.Type)
		if err != nil {
			return fmt.Errorf("field %s: %w", f.Name, err)
		}
		pb := b.Named(name, typ)
		if items != "" {
			pb.Items(items)
		}
		if help := f.Tag.Get("help"); help != "" {
			pb.Description(help)
		}
		if format := types.Format(f.Tag.Get("format")); format != "" {
			if !types.IsValidFormat(format) {
				return fmt.Errorf("field %s: unknown format %q", f.Name, format)
			}
			if typ != types.TypeString && items != types.TypeString {
				return fmt.Errorf("field %s: format %q needs a string field", f.Name, format)
			}
			pb.Format(format)
		}
		if token, ok := f.Tag.Lookup("default"); ok {
			def, err := defaultValue(f.Type, typ, items, token)
			if err != nil {
				return fmt.Errorf("field %s: %w", f.Name, err)
			}
			pb.Default(def)
		}
		pb.Done()

		s.fields = append(s.fields, optionField{index: f.Index, name: name, typ: f.Type})
	}
	return nil
}

// defaultValue converts a `default` tag the way a command-line token is
// bound to the slot: string slots keep the token text, other slots take the
// coerced scalar. The result must also fit the field itself.
func defaultValue(field reflect.Type, typ, items types.ParamType, token string) (any, error) {
	var def any
	if typ == types.TypeArray {
		elem, err := defaultScalar(items, token)
		if err != nil {
			return nil, err
		}
		if elem != nil {
			def = []any{elem}
		}
	} else {
		v, err := defaultScalar(typ, token)
		if err != nil {
			return nil, err
		}
		def = v
	}

	if _, err := assign(field, def); err != nil {
		return nil, fmt.Errorf("default %q: %w", token, err)
	}
	return def, nil
}

func defaultScalar(typ types.ParamType, token string) (any, error) {
	if typ == types.TypeString {
		return token, nil
	}

	v := parser.Coerce(token).Interface()
	if v == nil {
		return nil, nil
	}
	switch typ {
	case types.TypeInt:
		if _, ok := v.(int64); ok {
			return v, nil
		}
	case types.TypeFloat:
		switch f := v.(type) {
		case int64:
			return float64(f), nil
		case float64:
			if math.IsInf(f, 0) || math.IsNaN(f) {
				return nil, fmt.Errorf("default %q is not a finite number", token)
			}
			return f, nil
		}
	case types.TypeBool:
		if _, ok := v.(bool); ok {
			return v, nil
		}
		return nil, fmt.Errorf("default %q is not a boolean; use True or False", token)
	default:
		return v, nil
	}
	return nil, fmt.Errorf("default %q is not %s", token, typ)
}

func inspectResults(t reflect.Type) (resultShape, error) {
	switch t.NumOut() {
	case 0:
		return resultNone, nil
	case 1:
		if t.Out(0) == errorType {
			return resultError, nil
		}
		return resultValue, nil
	case 2:
		if t.Out(1) != errorType {
			return 0, errors.New("second result must be error")
		}
		return resultValueError, nil
	default:
		return 0, fmt.Errorf("too many results (%d)", t.NumOut())
	}
}

// paramTypeOf maps a Go type to a slot kind. Pointers mark a slot whose
// null is kept distinct from the zero value.
func paramTypeOf(t reflect.Type) (typ, items types.ParamType, err error) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.String:
		return types.TypeString, "", nil
	case reflect.Bool:
		return types.TypeBool, "", nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return types.TypeInt, "", nil
	case reflect.Float32, reflect.Float64:
		return types.TypeFloat, "", nil
	case reflect.Interface:
		if t.NumMethod() == 0 {
			return types.TypeAny, "", nil
		}
	case reflect.Slice:
		elem, _, err := paramTypeOf(t.Elem())
		if err != nil {
			return "", "", fmt.Errorf("slice element: %w", err)
		}
		if elem == types.TypeArray {
			return "", "", errors.New("nested slices are not supported")
		}
		return types.TypeArray, elem, nil
	}
	return "", "", fmt.Errorf("unsupported type %s", t)
}

// bind returns the Func that calls fn with a bound call
func (s *funcShape) bind(fn reflect.Value) Func {
	return func(ctx context.Context, call *binder.Call) (any, error) {
		in := make([]reflect.Value, 0, s.fnType.NumIn())
		if s.hasCtx {
			in = append(in, reflect.ValueOf(&ctx).Elem())
		}

		if s.options != nil {
			opts := reflect.New(s.options).Elem()
			for _, f := range s.fields {
				val, ok := call.Named[f.name]
				if !ok {
					continue
				}
				rv, err := assign(f.typ, val)
				if err != nil {
					return nil, fmt.Errorf("flag --%s: %w", f.name, err)
				}
				opts.FieldByIndex(f.index).Set(rv)
			}
			in = append(in, opts)
		}

		for i, pt := range s.fixed {
			rv, err := assign(pt, call.Positional(i))
			if err != nil {
				return nil, fmt.Errorf("positional argument %d: %w", i+1, err)
			}
			in = append(in, rv)
		}

		var out []reflect.Value
		if s.variadic != nil {
			rest := call.Positionals[len(s.fixed):]
			slice := reflect.MakeSlice(reflect.SliceOf(s.variadic), len(rest), len(rest))
			for i, val := range rest {
				rv, err := assign(s.variadic, val)
				if err != nil {
					return nil, fmt.Errorf("positional argument %d: %w", len(s.fixed)+i+1, err)
				}
				slice.Index(i).Set(rv)
			}
			in = append(in, slice)
			out = fn.CallSlice(in)
		} else {
			out = fn.Call(in)
		}

		return s.results.unpack(out)
	}
}

func (r resultShape) unpack(out []reflect.Value) (any, error) {
	switch r {
	case resultValue:
		return out[0].Interface(), nil
	case resultError:
		return nil, asError(out[0])
	case resultValueError:
		if err := asError(out[1]); err != nil {
			return nil, err
		}
		return out[0].Interface(), nil
	default:
		return nil, nil
	}
}

func asError(v reflect.Value) error {
	if v.IsNil() {
		return nil
	}
	return v.Interface().(error)
}

// assign converts a bound value to t. Null becomes the zero value, or a
// nil pointer for pointer parameters.
func assign(t reflect.Type, val any) (reflect.Value, error) {
	if val == nil {
		return reflect.Zero(t), nil
	}

	switch t.Kind() {
	case reflect.Ptr:
		elem, err := assign(t.Elem(), val)
		if err != nil {
			return reflect.Value{}, err
		}
		p := reflect.New(t.Elem())
		p.Elem().Set(elem)
		return p, nil

	case reflect.Interface:
		rv := reflect.ValueOf(val)
		if !rv.Type().AssignableTo(t) {
			return reflect.Value{}, fmt.Errorf("cannot use %T as %s", val, t)
		}
		out := reflect.New(t).Elem()
		out.Set(rv)
		return out, nil

	case reflect.Slice:
		list, ok := val.([]any)
		if !ok {
			list = []any{val}
		}
		out := reflect.MakeSlice(t, len(list), len(list))
		for i, item := range list {
			rv, err := assign(t.Elem(), item)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
			}
			out.Index(i).Set(rv)
		}
		return out, nil
	}

	out := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.String:
		s, ok := val.(string)
		if !ok {
			return reflect.Value{}, fmt.Errorf("cannot use %T as %s", val, t)
		}
		out.SetString(s)

	case reflect.Bool:
		b, ok := val.(bool)
		if !ok {
			return reflect.Value{}, fmt.Errorf("cannot use %T as %s", val, t)
		}
		out.SetBool(b)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := val.(int64)
		if !ok {
			return reflect.Value{}, fmt.Errorf("cannot use %T as %s", val, t)
		}
		if out.OverflowInt(n) {
			return reflect.Value{}, fmt.Errorf("%d overflows %s", n, t)
		}
		out.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, ok := val.(int64)
		if !ok {
			return reflect.Value{}, fmt.Errorf("cannot use %T as %s", val, t)
		}
		if n < 0 || out.OverflowUint(uint64(n)) {
			return reflect.Value{}, fmt.Errorf("%d overflows %s", n, t)
		}
		out.SetUint(uint64(n))

	case reflect.Float32, reflect.Float64:
		switch f := val.(type) {
		case float64:
			out.SetFloat(f)
		case int64:
			out.SetFloat(float64(f))
		default:
			return reflect.Value{}, fmt.Errorf("cannot use %T as %s", val, t)
		}

	default:
		return reflect.Value{}, fmt.Errorf("unsupported parameter type %s", t)
	}
	return out, nil
}

// funcName derives a target name from a function value: "main.Echo" and
// "(*T).Echo-fm" both give "echo".
func funcName(fn reflect.Value) string {
	f := runtime.FuncForPC(fn.Pointer())
	if f == nil {
		return "func"
	}
	name := f.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSuffix(name, "-fm")
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	if name == "" || (strings.HasPrefix(name, "func") && strings.IndexFunc(name[4:], notDigit) < 0) {
		return "func"
	}
	return strings.ToLower(name)
}

func notDigit(r rune) bool {
	return !unicode.IsDigit(r)
}
