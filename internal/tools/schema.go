package tools

import (
	"fmt"

	"hermes/pkg/errors"
)

// Property describes a single schema parameter.
type Property struct {
	Type        string   `json:"type"` // string|number|integer|boolean
	Description string   `json:"description,omitempty"`
	Enum        []string `json:"enum,omitempty"`
}

// Schema declares a tool's parameters in JSON-schema shape, so it can be
// validated locally and handed to the model for function calling.
type Schema struct {
	Properties map[string]Property
	Required   []string
}

// JSON renders the schema as a JSON-schema object document.
func (s Schema) JSON() map[string]interface{} {
	props := make(map[string]interface{}, len(s.Properties))
	for name, p := range s.Properties {
		prop := map[string]interface{}{"type": p.Type}
		if p.Description != "" {
			prop["description"] = p.Description
		}
		if len(p.Enum) > 0 {
			prop["enum"] = p.Enum
		}
		props[name] = prop
	}
	required := s.Required
	if required == nil {
		required = []string{}
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

// Validate checks required fields and basic types. Unknown fields are
// tolerated; models occasionally add extras.
func (s Schema) Validate(args map[string]interface{}) error {
	for _, name := range s.Required {
		v, ok := args[name]
		if !ok || v == nil {
			return errors.NewValidationError(name, "required parameter is missing", nil)
		}
		if str, isStr := v.(string); isStr && str == "" {
			return errors.NewValidationError(name, "required parameter is empty", str)
		}
	}

	for name, v := range args {
		p, ok := s.Properties[name]
		if !ok || v == nil {
			continue
		}
		if err := checkType(name, p, v); err != nil {
			return err
		}
	}
	return nil
}

func checkType(name string, p Property, v interface{}) error {
	switch p.Type {
	case "string":
		s, ok := v.(string)
		if !ok {
			return errors.NewValidationError(name, "expected a string", v)
		}
		if len(p.Enum) > 0 && !contains(p.Enum, s) {
			return errors.NewValidationError(name, fmt.Sprintf("must be one of %v", p.Enum), s)
		}
	case "number", "integer":
		switch v.(type) {
		case float64, int, int64, string:
			// Numeric args may arrive as JSON numbers or numeric strings;
			// precise parsing happens in the arg helpers.
		default:
			return errors.NewValidationError(name, "expected a number", v)
		}
	case "boolean":
		if _, ok := v.(bool); !ok {
			return errors.NewValidationError(name, "expected a boolean", v)
		}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
