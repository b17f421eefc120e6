package types

import (
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func echoSignature() Signature {
	return NewSignature("echo").
		Description("Join words with spaces").
		Variadic("words", TypeString).Done().
		Named("capitalize", TypeBool).Default(false).Done().
		Build()
}

func TestSignatureBuilder(t *testing.T) {
	sig := NewSignature("copy").
		Positional("src", TypeString).Description("source path").Done().
		Positional("dst", TypeString).Default(".").Done().
		Named("mode", TypeInt).Default(int64(0o644)).Done().
		Named("exclude", TypeArray).Items(TypeString).Done().
		Build()

	if err := ValidateSignature(sig); err != nil {
		t.Fatalf("ValidateSignature() error = %v", err)
	}

	want := []ParamSchema{
		{Name: "src", Type: TypeString, Description: "source path"},
		{Name: "dst", Type: TypeString, Optional: true, Default: "."},
	}
	if diff := cmp.Diff(want, sig.Positional); diff != "" {
		t.Errorf("positional mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"mode", "exclude"}, sig.NamedOrder); diff != "" {
		t.Errorf("named order mismatch (-want +got):\n%s", diff)
	}

	if got := sig.MinPositional(); got != 1 {
		t.Errorf("MinPositional() = %d, want 1", got)
	}
	if got := sig.MaxPositional(); got != 2 {
		t.Errorf("MaxPositional() = %d, want 2", got)
	}
}

func TestSignaturePositionalSlot(t *testing.T) {
	sig := echoSignature()

	if got := sig.MaxPositional(); got != -1 {
		t.Errorf("MaxPositional() with variadic = %d, want -1", got)
	}

	slot, ok := sig.PositionalSlot(5)
	if !ok || slot.Name != "words" {
		t.Errorf("PositionalSlot(5) = %+v, %v; want variadic words slot", slot, ok)
	}

	fixed := NewSignature("one").Positional("x", TypeInt).Done().Build()
	if _, ok := fixed.PositionalSlot(1); ok {
		t.Error("PositionalSlot past capacity should report false")
	}
}

func TestSignatureNamedParam(t *testing.T) {
	sig := echoSignature()

	if _, ok := sig.NamedParam("capitalise"); ok {
		t.Error("undeclared flag must not resolve on a closed signature")
	}

	dyn := Dynamic()
	p, ok := dyn.NamedParam("anything")
	if !ok || p.Type != TypeAny {
		t.Errorf("Dynamic().NamedParam() = %+v, %v; want TypeAny slot", p, ok)
	}
}

func TestValidateSignature(t *testing.T) {
	tests := []struct {
		name    string
		sig     Signature
		wantErr string
	}{
		{
			name:    "empty name",
			sig:     Signature{},
			wantErr: "signature name cannot be empty",
		},
		{
			name: "unknown type",
			sig: Signature{
				Name:       "bad",
				Positional: []ParamSchema{{Name: "x", Type: "decimal"}},
			},
			wantErr: `unknown type "decimal"`,
		},
		{
			name: "required after optional",
			sig: Signature{
				Name: "bad",
				Positional: []ParamSchema{
					{Name: "a", Type: TypeString, Optional: true},
					{Name: "b", Type: TypeString},
				},
			},
			wantErr: "required slot follows an optional one",
		},
		{
			name: "duplicate positional",
			sig: Signature{
				Name: "bad",
				Positional: []ParamSchema{
					{Name: "a", Type: TypeString},
					{Name: "a", Type: TypeInt},
				},
			},
			wantErr: "declared twice",
		},
		{
			name: "named key mismatch",
			sig: Signature{
				Name:  "bad",
				Named: map[string]ParamSchema{"verbose": {Name: "quiet", Type: TypeBool}},
			},
			wantErr: "named parameter mismatch",
		},
		{
			name: "order references missing slot",
			sig: Signature{
				Name:       "bad",
				Named:      map[string]ParamSchema{},
				NamedOrder: []string{"ghost"},
			},
			wantErr: `"ghost" in order but not in named map`,
		},
		{
			name: "items on scalar",
			sig: Signature{
				Name:       "bad",
				Positional: []ParamSchema{{Name: "n", Type: TypeInt, Items: TypeInt}},
			},
			wantErr: "element type set on non-array type",
		},
		{
			name: "infinite default",
			sig: Signature{
				Name:  "bad",
				Named: map[string]ParamSchema{"limit": {Name: "limit", Type: TypeFloat, Optional: true, Default: math.Inf(1)}},
			},
			wantErr: "is not a finite number",
		},
		{
			name: "nan in list default",
			sig: Signature{
				Name: "bad",
				Positional: []ParamSchema{
					{Name: "xs", Type: TypeArray, Items: TypeFloat, Optional: true, Default: []any{1.0, math.NaN()}},
				},
			},
			wantErr: "is not a finite number",
		},
		{
			name: "unknown format",
			sig: Signature{
				Name:       "bad",
				Positional: []ParamSchema{{Name: "v", Type: TypeString, Format: "colour"}},
			},
			wantErr: `unknown format "colour"`,
		},
		{
			name: "format on int",
			sig: Signature{
				Name:       "bad",
				Positional: []ParamSchema{{Name: "n", Type: TypeInt, Format: FormatSemver}},
			},
			wantErr: "needs a string slot",
		},
		{
			name: "format on string list",
			sig: Signature{
				Name:       "ok",
				Positional: []ParamSchema{{Name: "hosts", Type: TypeArray, Items: TypeString, Format: FormatHostname}},
			},
		},
		{
			name: "valid echo",
			sig:  echoSignature(),
		},
		{
			name: "valid dynamic",
			sig:  Dynamic(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSignature(tt.sig)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("ValidateSignature() unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("ValidateSignature() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestParamBuilderDonePanicsOnInvalidSlot(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic for unknown parameter type")
		}
	}()
	NewSignature("bad").Named("level", "loud").Done()
}

func TestVariadicDefaultPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic for variadic default")
		}
	}()
	NewSignature("bad").Variadic("rest", TypeString).Default("x").Done()
}

func TestParamBuilderDonePanicsOnInfiniteDefault(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic for infinite default")
		}
	}()
	NewSignature("bad").Named("limit", TypeFloat).Default(math.Inf(1)).Done()
}
