// Package binder fits scanned command-line arguments to a calling contract.
//
// Binding checks, in order: flag-name membership, positional arity and slot
// kinds. The converted call is then validated against the contract's JSON
// Schema, and defaults are filled in for absent optional slots.
package binder

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aledsdavies/clicake/core/invariant"
	"github.com/aledsdavies/clicake/core/types"
	"github.com/aledsdavies/clicake/runtime/parser"
)

// Call is a bound call: arguments converted to their slot kinds, with
// defaults applied.
type Call struct {
	Target      string
	Positionals []any
	Named       Args
}

// Positional returns the i-th positional argument, or nil when absent.
func (c *Call) Positional(i int) any {
	if i < 0 || i >= len(c.Positionals) {
		return nil
	}
	return c.Positionals[i]
}

// Bind fits parsed to sig. A nil validator skips schema validation.
func Bind(parsed *parser.ParsedArguments, sig types.Signature, v *types.Validator) (*Call, error) {
	invariant.NotNil(parsed, "parsed")

	b := &binding{sig: sig}
	if err := b.checkNames(parsed.Order); err != nil {
		return nil, err
	}
	if err := b.checkArity(len(parsed.Positionals)); err != nil {
		return nil, err
	}

	positionals := make([]any, len(parsed.Positionals))
	for i, val := range parsed.Positionals {
		slot, _ := sig.PositionalSlot(i)
		converted, err := conform(tokenAware(val, slot), slot)
		if err != nil {
			return nil, b.kindError(positionalContext(i, slot), slot, val.String(), err)
		}
		positionals[i] = converted
	}

	named := make(Args, len(parsed.Named))
	for _, name := range parsed.Order {
		val := parsed.Named[name]
		slot, _ := sig.NamedParam(name)
		converted, err := conform(tokenAware(val, slot), slot)
		if err != nil {
			return nil, b.kindError("flag --"+name, slot, val.String(), err)
		}
		named[name] = converted
	}

	return b.finish(positionals, named, v)
}

// BindValues fits Go values to sig, for calling a target directly.
// Values are normalised first: sized integers become int64, float32 becomes
// float64 and slices become []any.
func BindValues(positionals []any, named map[string]any, sig types.Signature, v *types.Validator) (*Call, error) {
	b := &binding{sig: sig}

	names := sortedKeys(named)
	if err := b.checkNames(names); err != nil {
		return nil, err
	}
	if err := b.checkArity(len(positionals)); err != nil {
		return nil, err
	}

	converted := make([]any, len(positionals))
	for i, val := range positionals {
		slot, _ := sig.PositionalSlot(i)
		c, err := conform(normalize(val), slot)
		if err != nil {
			return nil, b.kindError(positionalContext(i, slot), slot, fmt.Sprintf("%#v", val), err)
		}
		converted[i] = c
	}

	args := make(Args, len(named))
	for _, name := range names {
		slot, _ := sig.NamedParam(name)
		c, err := conform(normalize(named[name]), slot)
		if err != nil {
			return nil, b.kindError("named argument "+name, slot, fmt.Sprintf("%#v", named[name]), err)
		}
		args[name] = c
	}

	return b.finish(converted, args, v)
}

type binding struct {
	sig types.Signature
}

func (b *binding) checkNames(names []string) error {
	for _, name := range names {
		if _, ok := b.sig.NamedParam(name); ok {
			continue
		}

		err := &BindError{
			Kind:    ErrUnknownFlag,
			Target:  b.sig.Name,
			Message: fmt.Sprintf("unknown flag --%s", name),
			Context: "flag --" + name,
		}
		declared := b.sig.FlagNames()
		if match := findClosestMatch(name, declared); match != "" {
			err.Suggestion = fmt.Sprintf("Did you mean --%s?", match)
		} else if len(declared) > 0 {
			err.Suggestion = "Known flags: --" + strings.Join(declared, ", --")
		} else {
			err.Suggestion = fmt.Sprintf("%s takes no flags", b.sig.Name)
		}
		return err
	}
	return nil
}

func (b *binding) checkArity(n int) error {
	minArgs, maxArgs := b.sig.MinPositional(), b.sig.MaxPositional()
	if n >= minArgs && (maxArgs < 0 || n <= maxArgs) {
		return nil
	}

	var want string
	switch {
	case maxArgs < 0:
		want = fmt.Sprintf("at least %d", minArgs)
	case minArgs == maxArgs:
		want = fmt.Sprintf("exactly %d", minArgs)
	default:
		want = fmt.Sprintf("between %d and %d", minArgs, maxArgs)
	}

	return &BindError{
		Kind:       ErrArity,
		Target:     b.sig.Name,
		Message:    fmt.Sprintf("expected %s positional argument(s), got %d", want, n),
		Context:    "positional arguments",
		Suggestion: "Pass values in order before any flag",
		Example:    usage(b.sig),
	}
}

func (b *binding) kindError(context string, slot types.ParamSchema, got string, cause error) error {
	return &BindError{
		Kind:       ErrKind,
		Target:     b.sig.Name,
		Message:    fmt.Sprintf("%s expects %s, got %s", context, describeSlot(slot), got),
		Context:    context,
		Suggestion: kindHint(slot),
		Cause:      cause,
	}
}

func kindHint(slot types.ParamSchema) string {
	typ := slot.Type
	if typ == types.TypeArray {
		typ = slot.ElementType()
	}
	switch typ {
	case types.TypeInt:
		return "Use a whole number, e.g. 42"
	case types.TypeFloat:
		return "Use a number, e.g. 3.5"
	case types.TypeBool:
		return "Use True or False, or pass the flag alone for True"
	case types.TypeString:
		return "Give --" + slot.Name + " a single value, e.g. --" + slot.Name + " text"
	default:
		return "Use None to pass null"
	}
}

// finish validates the converted call and applies defaults
func (b *binding) finish(positionals []any, named Args, v *types.Validator) (*Call, error) {
	if v != nil {
		if err := v.ValidateCall(b.sig, positionals, named); err != nil {
			var contractErr *types.ContractError
			msg := err.Error()
			if errors.As(err, &contractErr) && contractErr.Cause != nil {
				msg = contractErr.Cause.Error()
			}
			return nil, &BindError{
				Kind:    ErrSchema,
				Target:  b.sig.Name,
				Message: "arguments do not satisfy the calling contract",
				Context: msg,
				Example: usage(b.sig),
				Cause:   err,
			}
		}
	}

	for i := len(positionals); i < len(b.sig.Positional); i++ {
		slot := b.sig.Positional[i]
		invariant.Invariant(slot.Optional, "arity check admitted missing required slot %q", slot.Name)
		positionals = append(positionals, slot.Default)
	}

	for name, slot := range b.sig.Named {
		if _, ok := named[name]; !ok && slot.Optional && slot.Default != nil {
			named[name] = slot.Default
		}
	}

	return &Call{Target: b.sig.Name, Positionals: positionals, Named: named}, nil
}

func positionalContext(i int, slot types.ParamSchema) string {
	return fmt.Sprintf("positional argument %d (%s)", i+1, slot.Name)
}

func describeSlot(slot types.ParamSchema) string {
	if slot.Type == types.TypeArray {
		return fmt.Sprintf("a list of %s", slot.ElementType())
	}
	if slot.Type == types.TypeAny {
		return "any value"
	}
	return string(slot.Type)
}

// usage renders a one-line synopsis of sig
func usage(sig types.Signature) string {
	parts := []string{"Usage:", sig.Name}
	for _, p := range sig.Positional {
		if p.Optional {
			parts = append(parts, "["+p.Name+"]")
		} else {
			parts = append(parts, "<"+p.Name+">")
		}
	}
	if sig.Variadic != nil {
		parts = append(parts, "["+sig.Variadic.Name+"...]")
	}
	for _, p := range sig.GetOrderedNamed() {
		if p.Type == types.TypeBool {
			parts = append(parts, "[--"+p.Name+"]")
		} else {
			parts = append(parts, fmt.Sprintf("[--%s <%s>]", p.Name, p.Type))
		}
	}
	if sig.OpenNamed {
		parts = append(parts, "[--flag value...]")
	}
	return strings.Join(parts, " ")
}
