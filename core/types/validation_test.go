package types

import (
	"errors"
	"testing"
)

func TestValidator_ValidateCall_Echo(t *testing.T) {
	validator := NewValidator(nil)
	sig := echoSignature()

	tests := []struct {
		name        string
		positionals []any
		named       map[string]any
		wantErr     bool
	}{
		{"no arguments", nil, nil, false},
		{"words only", []any{"Hello", "World!"}, nil, false},
		{"with switch", []any{"Hello"}, map[string]any{"capitalize": true}, false},
		{"null switch", []any{"Hello"}, map[string]any{"capitalize": nil}, false},
		{"unknown flag", []any{"Hello"}, map[string]any{"capitalise": true}, true},
		{"wrong flag kind", []any{"Hello"}, map[string]any{"capitalize": "yes"}, true},
		{"wrong word kind", []any{int64(42)}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateCall(sig, tt.positionals, tt.named)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCall() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidator_ValidateCall_Arity(t *testing.T) {
	validator := NewValidator(nil)
	sig := NewSignature("range").
		Positional("start", TypeInt).Done().
		Positional("stop", TypeInt).Default(int64(10)).Done().
		Build()

	tests := []struct {
		name        string
		positionals []any
		wantErr     bool
	}{
		{"missing required", []any{}, true},
		{"required only", []any{int64(1)}, false},
		{"all slots", []any{int64(1), int64(5)}, false},
		{"too many", []any{int64(1), int64(5), int64(9)}, true},
		{"float in int slot", []any{1.5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateCall(sig, tt.positionals, nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCall() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidator_ValidateCall_Kinds(t *testing.T) {
	validator := NewValidator(nil)
	sig := NewSignature("kinds").
		Named("ratio", TypeFloat).Done().
		Named("tags", TypeArray).Items(TypeString).Done().
		Named("extra", TypeAny).Done().
		Build()

	tests := []struct {
		name    string
		named   map[string]any
		wantErr bool
	}{
		{"float accepts integer", map[string]any{"ratio": int64(2)}, false},
		{"float accepts float", map[string]any{"ratio": 0.5}, false},
		{"float rejects string", map[string]any{"ratio": "half"}, true},
		{"string list", map[string]any{"tags": []any{"a", "b"}}, false},
		{"list with wrong element", map[string]any{"tags": []any{"a", int64(1)}}, true},
		{"scalar in list slot", map[string]any{"tags": "a"}, true},
		{"any takes a list", map[string]any{"extra": []any{int64(1), true, nil}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateCall(sig, nil, tt.named)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCall() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidator_ContractError(t *testing.T) {
	validator := NewValidator(nil)

	err := validator.ValidateCall(echoSignature(), []any{true}, nil)
	if err == nil {
		t.Fatal("expected contract error")
	}

	var contractErr *ContractError
	if !errors.As(err, &contractErr) {
		t.Fatalf("expected *ContractError, got %T", err)
	}
	if contractErr.Signature != "echo" {
		t.Errorf("Signature = %q, want echo", contractErr.Signature)
	}
}

func TestValidator_Dynamic(t *testing.T) {
	validator := NewValidator(nil)

	err := validator.ValidateCall(Dynamic(),
		[]any{"a", int64(1), 2.5, nil, true},
		map[string]any{"anything": []any{"x", int64(2)}},
	)
	if err != nil {
		t.Fatalf("dynamic signature rejected call: %v", err)
	}
}

func TestValidator_Cache(t *testing.T) {
	validator := NewValidator(nil)
	sig := echoSignature()

	for i := 0; i < 3; i++ {
		if err := validator.ValidateCall(sig, []any{"hi"}, nil); err != nil {
			t.Fatalf("ValidateCall() error = %v", err)
		}
	}

	if got := validator.cache.len(); got != 1 {
		t.Errorf("cache size = %d, want 1", got)
	}

	uncached := NewValidator(&ValidationConfig{MaxSchemaSize: 1 << 20})
	if uncached.cache != nil {
		t.Error("cache should be disabled when EnableCache is false")
	}
	if err := uncached.ValidateCall(sig, []any{"hi"}, nil); err != nil {
		t.Fatalf("uncached ValidateCall() error = %v", err)
	}
}

func TestValidator_SchemaTooLarge(t *testing.T) {
	validator := NewValidator(&ValidationConfig{MaxSchemaSize: 16})

	if err := validator.ValidateCall(echoSignature(), nil, nil); err == nil {
		t.Fatal("expected schema size error")
	}
}

func TestValidator_Formats(t *testing.T) {
	sig := NewSignature("deploy").
		Positional("version", TypeString).Format(FormatSemver).Done().
		Named("network", TypeString).Format(FormatCIDR).Done().
		Named("timeout", TypeString).Format(FormatDuration).Done().
		Named("hosts", TypeArray).Items(TypeString).Format(FormatIPv4).Done().
		Build()

	tests := []struct {
		name        string
		positionals []any
		named       map[string]any
		wantErr     bool
	}{
		{"valid", []any{"1.2.3"}, map[string]any{
			"network": "10.0.0.0/8",
			"timeout": "1h30m",
			"hosts":   []any{"10.0.0.1", "10.0.0.2"},
		}, false},
		{"prefixed semver", []any{"v2.0.0-rc.1"}, nil, false},
		{"null skips format", []any{nil}, map[string]any{"network": nil}, false},
		{"bad semver", []any{"one"}, nil, true},
		{"bad cidr", []any{"1.0.0"}, map[string]any{"network": "10.0.0.0"}, true},
		{"bad duration", []any{"1.0.0"}, map[string]any{"timeout": "soon"}, true},
		{"bad list element", []any{"1.0.0"}, map[string]any{"hosts": []any{"10.0.0.1", "nope"}}, true},
	}

	validator := NewValidator(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateCall(sig, tt.positionals, tt.named)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCall() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	lenient := NewValidator(&ValidationConfig{MaxSchemaSize: 1 << 20})
	if err := lenient.ValidateCall(sig, []any{"one"}, nil); err != nil {
		t.Errorf("format should not be asserted when AssertFormat is off: %v", err)
	}
}
