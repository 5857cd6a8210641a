// Package validate compiles a JSON Schema for the CreateEmployee payload
// and checks it before the duplicate check, following the teacher's
// jsonschema.NewCompiler/AddResource/Compile sequence in registry/service.go.
package validate

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"goa.design/cq-runtime/domain/employee"
)

// schema is the JSON Schema a CreateEmployee payload must satisfy: first
// and last name are required non-empty strings.
const schema = `{
	"type": "object",
	"properties": {
		"FirstName": {"type": "string", "minLength": 1},
		"LastName": {"type": "string", "minLength": 1}
	},
	"required": ["FirstName", "LastName"]
}`

// Validator checks a CreateEmployee payload against the compiled schema.
type Validator struct {
	compiled *jsonschema.Schema
}

// Compile-time check that Validator implements employee.Validator.
var _ employee.Validator = (*Validator)(nil)

// New compiles the CreateEmployee schema once and returns a reusable
// Validator.
func New() (*Validator, error) {
	var doc any
	if err := json.Unmarshal([]byte(schema), &doc); err != nil {
		return nil, fmt.Errorf("unmarshal employee schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("employee.json", doc); err != nil {
		return nil, fmt.Errorf("add employee schema resource: %w", err)
	}
	compiled, err := c.Compile("employee.json")
	if err != nil {
		return nil, fmt.Errorf("compile employee schema: %w", err)
	}
	return &Validator{compiled: compiled}, nil
}

// Validate round-trips payload through JSON so the schema validator sees
// plain maps/slices/scalars rather than a Go struct, then checks it.
func (v *Validator) Validate(payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	if err := v.compiled.Validate(doc); err != nil {
		return fmt.Errorf("employee payload: %w", err)
	}
	return nil
}
