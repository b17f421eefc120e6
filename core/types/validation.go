package types

import (
	"bytes"
	"fmt"
	"io"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Validator validates bound calls against a signature's JSON Schema
type Validator struct {
	config *ValidationConfig
	cache  *validatorCache
}

// NewValidator creates a new validator with given config
func NewValidator(config *ValidationConfig) *Validator {
	if config == nil {
		config = DefaultValidationConfig()
	}

	var cache *validatorCache
	if config.EnableCache {
		cache = newValidatorCache(config.MaxCacheSize)
	}

	return &Validator{
		config: config,
		cache:  cache,
	}
}

// ValidateCall validates a call document against sig.
// Values must be JSON-shaped: string, int64, float64, bool, nil, []any or
// map[string]any.
func (v *Validator) ValidateCall(sig Signature, positionals []any, named map[string]any) error {
	if positionals == nil {
		positionals = []any{}
	}
	if named == nil {
		named = map[string]any{}
	}

	validator, err := v.compiled(sig)
	if err != nil {
		return err
	}

	doc := map[string]any{
		"positionals": positionals,
		"named":       named,
	}
	if err := validator.Validate(doc); err != nil {
		return convertValidationError(sig, err)
	}

	return nil
}

// compiled gets or compiles the validator for sig
func (v *Validator) compiled(sig Signature) (*jsonschema.Schema, error) {
	jsonSchema, err := SignatureToJSONSchema(sig)
	if err != nil {
		return nil, fmt.Errorf("schema conversion failed: %w", err)
	}

	schemaJSON, err := marshalSchema(jsonSchema)
	if err != nil {
		return nil, fmt.Errorf("schema marshal failed: %w", err)
	}
	if len(schemaJSON) > v.config.MaxSchemaSize {
		return nil, fmt.Errorf("schema too large: %d bytes (max: %d)",
			len(schemaJSON), v.config.MaxSchemaSize)
	}

	schemaHash := hashSchema(schemaJSON)
	if v.cache != nil {
		if validator, ok := v.cache.get(schemaHash); ok {
			return validator, nil
		}
	}

	validator, err := v.compileSchema(schemaJSON)
	if err != nil {
		return nil, fmt.Errorf("validator compilation failed: %w", err)
	}

	if v.cache != nil {
		v.cache.put(schemaHash, validator)
	}

	return validator, nil
}

// compileSchema compiles a contract schema. Contract schemas are
// self-contained, so every $ref outside the document is refused.
func (v *Validator) compileSchema(schemaJSON []byte) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.AssertFormat = v.config.AssertFormat

	// Extend the standard format checkers rather than replace them
	if compiler.Formats == nil {
		compiler.Formats = make(map[string]func(any) bool)
	}
	for name, check := range formatValidators() {
		compiler.Formats[name] = check
	}
	compiler.LoadURL = func(url string) (io.ReadCloser, error) {
		return nil, fmt.Errorf("external $ref not allowed: %s", url)
	}

	url := "schema://contract.json"
	if err := compiler.AddResource(url, bytes.NewReader(schemaJSON)); err != nil {
		return nil, err
	}

	return compiler.Compile(url)
}

// ContractError reports a call document that does not satisfy a signature
type ContractError struct {
	Signature string
	Cause     *jsonschema.ValidationError
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("arguments do not satisfy %s: %v", e.Signature, e.Cause)
}

func (e *ContractError) Unwrap() error {
	return e.Cause
}

// convertValidationError converts jsonschema.ValidationError to ContractError
func convertValidationError(sig Signature, err error) error {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err
	}
	return &ContractError{Signature: sig.Name, Cause: ve}
}
