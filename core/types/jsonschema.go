package types

import (
	"encoding/json"
	"fmt"
)

// JSONSchema represents a JSON Schema Draft 2020-12 document
type JSONSchema map[string]any

// ToJSONSchema converts a ParamSchema to JSON Schema format.
// Every slot is nullable: "None" on the command line is accepted everywhere.
func (p *ParamSchema) ToJSONSchema() (JSONSchema, error) {
	schema := make(JSONSchema)

	if p.Type != TypeAny {
		schema["type"] = []string{jsonSchemaType(p.Type), "null"}
	}

	if p.Description != "" {
		schema["description"] = p.Description
	}

	if p.Format != "" && p.Type == TypeString {
		schema["format"] = string(p.Format)
	}

	if p.Optional && p.Default != nil {
		schema["default"] = p.Default
	}

	if p.Type == TypeArray {
		items := &ParamSchema{Name: p.Name + "[]", Type: p.ElementType(), Format: p.Format}
		itemSchema, err := items.ToJSONSchema()
		if err != nil {
			return nil, fmt.Errorf("array items: %w", err)
		}
		schema["items"] = itemSchema
	}

	return schema, nil
}

// jsonSchemaType converts ParamType to JSON Schema type string
func jsonSchemaType(t ParamType) string {
	switch t {
	case TypeInt:
		return "integer"
	case TypeFloat:
		return "number"
	case TypeBool:
		return "boolean"
	case TypeArray:
		return "array"
	default:
		return "string"
	}
}

// ToJSON serializes the JSON Schema to JSON bytes
func (j JSONSchema) ToJSON() ([]byte, error) {
	return json.MarshalIndent(j, "", "  ")
}

// SignatureToJSONSchema converts a Signature to a JSON Schema describing the
// bound call document:
//
//	{"positionals": [...], "named": {...}}
//
// Positional arity, flag-name membership and slot kinds are all expressed
// in the schema.
func SignatureToJSONSchema(sig Signature) (JSONSchema, error) {
	doc := make(JSONSchema)

	doc["$schema"] = "https://json-schema.org/draft/2020-12/schema"
	doc["title"] = sig.Name
	if sig.Description != "" {
		doc["description"] = sig.Description
	}

	positionals := JSONSchema{"type": "array"}
	if len(sig.Positional) > 0 {
		prefix := make([]JSONSchema, 0, len(sig.Positional))
		for _, p := range sig.Positional {
			ps, err := p.ToJSONSchema()
			if err != nil {
				return nil, fmt.Errorf("positional %q: %w", p.Name, err)
			}
			prefix = append(prefix, ps)
		}
		positionals["prefixItems"] = prefix
	}
	if sig.Variadic != nil {
		vs, err := sig.Variadic.ToJSONSchema()
		if err != nil {
			return nil, fmt.Errorf("variadic %q: %w", sig.Variadic.Name, err)
		}
		positionals["items"] = vs
	} else {
		positionals["items"] = false
	}
	if minItems := sig.MinPositional(); minItems > 0 {
		positionals["minItems"] = minItems
	}

	properties := make(map[string]JSONSchema, len(sig.Named))
	for name, param := range sig.Named {
		ps, err := param.ToJSONSchema()
		if err != nil {
			return nil, fmt.Errorf("named %q: %w", name, err)
		}
		properties[name] = ps
	}
	named := JSONSchema{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": sig.OpenNamed,
	}

	doc["type"] = "object"
	doc["properties"] = map[string]JSONSchema{
		"positionals": positionals,
		"named":       named,
	}
	doc["required"] = []string{"positionals", "named"}
	doc["additionalProperties"] = false

	return doc, nil
}
