// Package parser turns a raw argument vector into positional and named values.
//
// The scanner is a single pass with one cursor. The cursor starts in
// positional mode; every flag marker moves it to that flag, and every value
// token is coerced and either appended to the positionals or accumulated for
// the current flag. When the cursor moves on, the accumulated values are
// stored under the flag name:
//
//	no values   -> true  (bare switch)
//	one value   -> that scalar
//	many values -> a list, in token order
//
// A repeated flag overwrites the earlier binding. No input is ever rejected.
package parser

import (
	"fmt"
	"strings"

	"github.com/aledsdavies/clicake/core/invariant"
	"github.com/aledsdavies/clicake/core/types"
)

// ParsedArguments is the result of scanning one argument vector.
type ParsedArguments struct {
	// Positionals holds the coerced values seen before the first flag,
	// in input order.
	Positionals []types.Value

	// Named maps each flag name to its bound value.
	Named map[string]types.Value

	// Order lists the flag names in order of first appearance.
	Order []string
}

// Lookup returns the value bound to a flag name.
func (p *ParsedArguments) Lookup(name string) (types.Value, bool) {
	v, ok := p.Named[name]
	return v, ok
}

// PositionalValues returns the native Go form of every positional value.
func (p *ParsedArguments) PositionalValues() []any {
	out := make([]any, len(p.Positionals))
	for i, v := range p.Positionals {
		out[i] = v.Interface()
	}
	return out
}

// NamedValues returns the native Go form of every named value.
func (p *ParsedArguments) NamedValues() map[string]any {
	out := make(map[string]any, len(p.Named))
	for name, v := range p.Named {
		out[name] = v.Interface()
	}
	return out
}

// String renders p with positionals first and flags in order of first
// appearance, one per line.
func (p *ParsedArguments) String() string {
	var b strings.Builder
	b.WriteString("positionals: ")
	b.WriteString(types.ListValue(p.Positionals...).String())
	for _, name := range p.Order {
		fmt.Fprintf(&b, "\n--%s = %s", name, p.Named[name])
	}
	return b.String()
}

// scanner holds the cursor state of a single Parse call.
type scanner struct {
	result     *ParsedArguments
	positional bool   // cursor is at the no-flag sentinel
	current    string // flag the cursor is at, when !positional
	pending    []types.Value
	consumed   int
}

// Parse scans tokens into positional and named values.
func Parse(tokens []string) *ParsedArguments {
	s := &scanner{
		result: &ParsedArguments{
			Positionals: []types.Value{},
			Named:       make(map[string]types.Value),
			Order:       []string{},
		},
		positional: true,
	}

	for i, raw := range tokens {
		tok := Classify(raw)
		if tok.IsFlag() {
			s.finalize()
			s.positional = false
			s.current = tok.Name
			s.pending = nil
		} else {
			s.accept(Coerce(tok.Raw))
		}
		s.consumed++
		invariant.Invariant(s.consumed == i+1, "scanner must consume one token per step")
	}
	s.finalize()

	invariant.Postcondition(s.consumed == len(tokens),
		"consumed %d of %d tokens", s.consumed, len(tokens))
	return s.result
}

func (s *scanner) accept(v types.Value) {
	if s.positional {
		s.result.Positionals = append(s.result.Positionals, v)
		return
	}
	s.pending = append(s.pending, v)
}

// finalize binds the pending values to the current flag
func (s *scanner) finalize() {
	if s.positional {
		return
	}

	var v types.Value
	switch len(s.pending) {
	case 0:
		v = types.SwitchValue()
	case 1:
		v = s.pending[0]
	default:
		v = types.ListValue(s.pending...)
	}

	if _, seen := s.result.Named[s.current]; !seen {
		s.result.Order = append(s.result.Order, s.current)
	}
	s.result.Named[s.current] = v
	s.pending = nil
}
