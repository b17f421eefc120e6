package parser

import (
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/aledsdavies/clicake/core/invariant"
	"github.com/aledsdavies/clicake/core/types"
	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"
)

// CanonicalArguments is the deterministic form of a parse used for encoding
// and fingerprinting. Named values are sorted by flag name, so two parses
// that bind the same values hash the same regardless of flag order.
type CanonicalArguments struct {
	Version     uint8
	Positionals []CanonicalValue
	Named       []CanonicalNamed
}

// CanonicalNamed is one flag binding in canonical form
type CanonicalNamed struct {
	Name  string
	Value CanonicalValue
}

// CanonicalValue is a Value in canonical form.
// Raw is kept so that "08" and "8" fingerprint differently.
type CanonicalValue struct {
	Kind     uint8
	Str      string
	Int      int64
	Float    float64
	Bool     bool
	List     []CanonicalValue
	Raw      string
	Implicit bool
}

// Canonicalize converts p into canonical form.
func (p *ParsedArguments) Canonicalize() *CanonicalArguments {
	ca := &CanonicalArguments{
		Version:     1,
		Positionals: make([]CanonicalValue, len(p.Positionals)),
		Named:       make([]CanonicalNamed, 0, len(p.Named)),
	}

	for i, v := range p.Positionals {
		ca.Positionals[i] = canonicalizeValue(v)
	}

	names := make([]string, 0, len(p.Named))
	for name := range p.Named {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		ca.Named = append(ca.Named, CanonicalNamed{
			Name:  name,
			Value: canonicalizeValue(p.Named[name]),
		})
	}

	return ca
}

func canonicalizeValue(v types.Value) CanonicalValue {
	cv := CanonicalValue{
		Kind:     uint8(v.Kind),
		Raw:      v.Raw,
		Implicit: v.Implicit,
	}
	switch v.Kind {
	case types.ValueString:
		cv.Str = v.Str
	case types.ValueInt:
		cv.Int = v.Int
	case types.ValueFloat:
		cv.Float = v.Float
	case types.ValueBool:
		cv.Bool = v.Bool
	case types.ValueList:
		cv.List = make([]CanonicalValue, len(v.List))
		for i, item := range v.List {
			cv.List[i] = canonicalizeValue(item)
		}
	}
	return cv
}

// canonicalEncMode is built once; the canonical options are fixed and valid.
var canonicalEncMode = newCanonicalEncMode()

func newCanonicalEncMode() cbor.EncMode {
	encMode, err := cbor.CanonicalEncOptions().EncMode()
	invariant.ExpectNoError(err, "canonical CBOR encoder options")
	return encMode
}

// MarshalBinary encodes the canonical form as deterministic CBOR.
func (ca *CanonicalArguments) MarshalBinary() ([]byte, error) {
	// Alias drops the MarshalBinary method so cbor does not recurse
	type canonicalAlias CanonicalArguments
	data, err := canonicalEncMode.Marshal((*canonicalAlias)(ca))
	if err != nil {
		return nil, fmt.Errorf("CBOR encoding failed: %w", err)
	}
	return data, nil
}

// Hash computes the BLAKE2b-256 digest of the canonical encoding.
func (ca *CanonicalArguments) Hash() ([32]byte, error) {
	data, err := ca.MarshalBinary()
	if err != nil {
		return [32]byte{}, err
	}
	return blake2b.Sum256(data), nil
}

// MarshalBinary encodes p in canonical CBOR form.
func (p *ParsedArguments) MarshalBinary() ([]byte, error) {
	return p.Canonicalize().MarshalBinary()
}

// Fingerprint returns the hex BLAKE2b-256 digest of p's canonical form.
func (p *ParsedArguments) Fingerprint() (string, error) {
	sum, err := p.Canonicalize().Hash()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(sum[:]), nil
}

// DecodeCanonical decodes a canonical CBOR encoding produced by MarshalBinary.
func DecodeCanonical(data []byte) (*CanonicalArguments, error) {
	type canonicalAlias CanonicalArguments
	var alias canonicalAlias
	if err := cbor.Unmarshal(data, &alias); err != nil {
		return nil, fmt.Errorf("CBOR decoding failed: %w", err)
	}
	ca := CanonicalArguments(alias)
	return &ca, nil
}
