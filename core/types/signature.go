package types

import (
	"fmt"

	"github.com/aledsdavies/clicake/core/invariant"
)

// Signature is the calling contract of a bound target: ordered positional
// slots, an optional variadic slot collecting the remaining positionals,
// and named slots addressed by flag name.
type Signature struct {
	Name        string                 // Target name ("echo", "sum")
	Description string                 // Human-readable description
	Positional  []ParamSchema          // Ordered positional slots
	Variadic    *ParamSchema           // Receives positionals past Positional (nil = none allowed)
	Named       map[string]ParamSchema // Named slots keyed by flag name
	NamedOrder  []string               // Declaration order of named slots
	OpenNamed   bool                   // Accept undeclared flags as TypeAny
}

// Dynamic returns the contract that accepts any positionals and any flags,
// passing coerced values through unconverted.
func Dynamic() Signature {
	return Signature{
		Name:      "dynamic",
		Variadic:  &ParamSchema{Name: "args", Type: TypeAny},
		Named:     map[string]ParamSchema{},
		OpenNamed: true,
	}
}

// MinPositional returns the number of positional slots without a default.
func (s *Signature) MinPositional() int {
	n := 0
	for _, p := range s.Positional {
		if !p.Optional {
			n++
		}
	}
	return n
}

// MaxPositional returns the positional capacity, or -1 when a variadic slot
// removes the upper bound.
func (s *Signature) MaxPositional() int {
	if s.Variadic != nil {
		return -1
	}
	return len(s.Positional)
}

// PositionalSlot returns the slot receiving the i-th positional value.
func (s *Signature) PositionalSlot(i int) (ParamSchema, bool) {
	if i < len(s.Positional) {
		return s.Positional[i], true
	}
	if s.Variadic != nil {
		return *s.Variadic, true
	}
	return ParamSchema{}, false
}

// NamedParam returns the named slot for flag, synthesising a TypeAny slot
// when the signature accepts undeclared flags.
func (s *Signature) NamedParam(flag string) (ParamSchema, bool) {
	if p, ok := s.Named[flag]; ok {
		return p, true
	}
	if s.OpenNamed {
		return ParamSchema{Name: flag, Type: TypeAny}, true
	}
	return ParamSchema{}, false
}

// GetOrderedNamed returns named slots in declaration order
func (s *Signature) GetOrderedNamed() []ParamSchema {
	result := make([]ParamSchema, 0, len(s.NamedOrder))
	for _, name := range s.NamedOrder {
		if param, exists := s.Named[name]; exists {
			result = append(result, param)
		}
	}
	return result
}

// FlagNames returns the declared flag names in declaration order
func (s *Signature) FlagNames() []string {
	names := make([]string, 0, len(s.NamedOrder))
	for _, name := range s.NamedOrder {
		if _, exists := s.Named[name]; exists {
			names = append(names, name)
		}
	}
	return names
}

// ValidateSignature validates a calling contract
func ValidateSignature(sig Signature) error {
	if sig.Name == "" {
		return fmt.Errorf("signature name cannot be empty")
	}

	seen := make(map[string]bool)
	optionalSeen := false
	for i, p := range sig.Positional {
		if err := validateParam("positional", p); err != nil {
			return err
		}
		if seen[p.Name] {
			return fmt.Errorf("positional parameter %q declared twice", p.Name)
		}
		seen[p.Name] = true

		if p.Optional {
			optionalSeen = true
		} else if optionalSeen {
			return fmt.Errorf("positional parameter %q (#%d): required slot follows an optional one", p.Name, i)
		}
	}

	if sig.Variadic != nil {
		if err := validateParam("variadic", *sig.Variadic); err != nil {
			return err
		}
		if seen[sig.Variadic.Name] {
			return fmt.Errorf("variadic parameter %q shadows a positional slot", sig.Variadic.Name)
		}
		if sig.Variadic.Optional {
			return fmt.Errorf("variadic parameter %q cannot have a default", sig.Variadic.Name)
		}
	}

	for name, p := range sig.Named {
		if p.Name != name {
			return fmt.Errorf("named parameter mismatch: key=%q, param.Name=%q", name, p.Name)
		}
		if err := validateParam("named", p); err != nil {
			return err
		}
	}

	for _, name := range sig.NamedOrder {
		if _, exists := sig.Named[name]; !exists {
			return fmt.Errorf("named parameter %q in order but not in named map", name)
		}
	}

	return nil
}

type slotKind int

const (
	slotPositional slotKind = iota
	slotVariadic
	slotNamed
)

// SignatureBuilder provides fluent API for building calling contracts
type SignatureBuilder struct {
	sig Signature
}

// NewSignature creates a new signature builder
func NewSignature(name string) *SignatureBuilder {
	return &SignatureBuilder{
		sig: Signature{
			Name:  name,
			Named: make(map[string]ParamSchema),
		},
	}
}

// Description sets the target description
func (b *SignatureBuilder) Description(desc string) *SignatureBuilder {
	b.sig.Description = desc
	return b
}

// Positional adds the next positional slot and returns a ParamBuilder
func (b *SignatureBuilder) Positional(name string, typ ParamType) *ParamBuilder {
	return b.param(slotPositional, name, typ)
}

// Variadic sets the slot collecting remaining positionals
func (b *SignatureBuilder) Variadic(name string, typ ParamType) *ParamBuilder {
	return b.param(slotVariadic, name, typ)
}

// Named adds a flag-addressed slot and returns a ParamBuilder
func (b *SignatureBuilder) Named(name string, typ ParamType) *ParamBuilder {
	return b.param(slotNamed, name, typ)
}

// AcceptAnyNamed lets undeclared flags through as TypeAny
func (b *SignatureBuilder) AcceptAnyNamed() *SignatureBuilder {
	b.sig.OpenNamed = true
	return b
}

func (b *SignatureBuilder) param(slot slotKind, name string, typ ParamType) *ParamBuilder {
	invariant.Precondition(name != "", "parameter name must not be empty")
	return &ParamBuilder{
		parent: b,
		slot:   slot,
		param: ParamSchema{
			Name: name,
			Type: typ,
		},
	}
}

// Build returns the constructed signature
func (b *SignatureBuilder) Build() Signature {
	return b.sig
}

// ParamBuilder provides fluent API for building parameter slots
type ParamBuilder struct {
	parent *SignatureBuilder
	slot   slotKind
	param  ParamSchema
}

// Description sets parameter description
func (pb *ParamBuilder) Description(desc string) *ParamBuilder {
	pb.param.Description = desc
	return pb
}

// Default sets the value used when the slot is absent.
// Automatically marks the parameter as optional.
func (pb *ParamBuilder) Default(val any) *ParamBuilder {
	pb.param.Default = val
	pb.param.Optional = true
	return pb
}

// Items sets the element kind of an array slot
func (pb *ParamBuilder) Items(typ ParamType) *ParamBuilder {
	pb.param.Items = typ
	return pb
}

// Format sets typed format constraint (for string types)
func (pb *ParamBuilder) Format(format Format) *ParamBuilder {
	pb.param.Format = format
	return pb
}

// Done finishes building this parameter and returns to the signature builder.
// Panics on an invalid slot; contracts are declared by programmers, not users.
func (pb *ParamBuilder) Done() *SignatureBuilder {
	if err := validateParam("signature "+pb.parent.sig.Name, pb.param); err != nil {
		panic(err.Error())
	}

	sig := &pb.parent.sig
	switch pb.slot {
	case slotPositional:
		sig.Positional = append(sig.Positional, pb.param)
	case slotVariadic:
		if pb.param.Optional {
			panic(fmt.Sprintf("variadic parameter %q cannot have a default", pb.param.Name))
		}
		p := pb.param
		sig.Variadic = &p
	case slotNamed:
		if _, exists := sig.Named[pb.param.Name]; !exists {
			sig.NamedOrder = append(sig.NamedOrder, pb.param.Name)
		}
		sig.Named[pb.param.Name] = pb.param
	}
	return pb.parent
}
