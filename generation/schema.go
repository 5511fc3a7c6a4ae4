// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package generation

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"google.golang.org/genai"
)

// Type is a JSON value type.
type Type string

// Supported schema types.
const (
	TypeObject  Type = "object"
	TypeArray   Type = "array"
	TypeString  Type = "string"
	TypeInteger Type = "integer"
	TypeNumber  Type = "number"
	TypeBoolean Type = "boolean"
)

// Schema describes the exact shape a generated value must have. Object
// schemas must list their properties; open-ended maps are not allowed.
type Schema struct {
	// Title names the schema in logs and metrics.
	Title       string
	Type        Type
	Description string
	Properties  map[string]*Schema
	// Order is the property order asked from the model. Properties not
	// listed follow in lexical order.
	Order    []string
	Required []string
	Items    *Schema
	Enum     []string
	Minimum  *float64
	Maximum  *float64
}

// Float returns a pointer to v, for Minimum and Maximum.
func Float(v float64) *float64 {
	return &v
}

// Validate checks the schema is finite and self consistent.
func (s *Schema) Validate() error {
	return s.validate("$")
}

func (s *Schema) validate(path string) error {
	if s == nil {
		return fmt.Errorf("%s: schema is nil", path)
	}

	switch s.Type {
	case TypeObject:
		if len(s.Properties) == 0 {
			return fmt.Errorf("%s: object schema without properties is open-ended", path)
		}

		for _, name := range s.Required {
			if _, ok := s.Properties[name]; !ok {
				return fmt.Errorf("%s: required property %q is not declared", path, name)
			}
		}

		for _, name := range s.Order {
			if _, ok := s.Properties[name]; !ok {
				return fmt.Errorf("%s: ordered property %q is not declared", path, name)
			}
		}

		for _, name := range s.propertyNames() {
			if err := s.Properties[name].validate(path + "." + name); err != nil {
				return err
			}
		}
	case TypeArray:
		if s.Items == nil {
			return fmt.Errorf("%s: array schema without items", path)
		}

		return s.Items.validate(path + "[]")
	case TypeString, TypeInteger, TypeNumber, TypeBoolean:
		if len(s.Enum) > 0 && s.Type != TypeString {
			return fmt.Errorf("%s: enum is only supported on strings", path)
		}
	case "":
		return fmt.Errorf("%s: missing type", path)
	default:
		return fmt.Errorf("%s: unsupported type %q", path, s.Type)
	}

	if s.Minimum != nil && s.Maximum != nil && *s.Minimum > *s.Maximum {
		return fmt.Errorf("%s: minimum %v greater than maximum %v", path, *s.Minimum, *s.Maximum)
	}

	return nil
}

// propertyNames returns the property names, Order first.
func (s *Schema) propertyNames() []string {
	names := slices.Clone(s.Order)

	rest := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		if !slices.Contains(s.Order, name) {
			rest = append(rest, name)
		}
	}

	slices.Sort(rest)

	return append(names, rest...)
}

func (s *Schema) name() string {
	if s == nil || s.Title == "" {
		return "unnamed"
	}

	return s.Title
}

// JSONSchema renders the schema as a JSON Schema document. Objects reject
// undeclared properties.
func (s *Schema) JSONSchema() map[string]any {
	out := map[string]any{"type": string(s.Type)}

	if s.Description != "" {
		out["description"] = s.Description
	}

	switch s.Type {
	case TypeObject:
		props := make(map[string]any, len(s.Properties))
		for name, p := range s.Properties {
			props[name] = p.JSONSchema()
		}

		out["properties"] = props
		out["additionalProperties"] = false

		if len(s.Required) > 0 {
			out["required"] = slices.Clone(s.Required)
		}
	case TypeArray:
		out["items"] = s.Items.JSONSchema()
	}

	if len(s.Enum) > 0 {
		enum := make([]any, len(s.Enum))
		for i, v := range s.Enum {
			enum[i] = v
		}

		out["enum"] = enum
	}

	if s.Minimum != nil {
		out["minimum"] = *s.Minimum
	}

	if s.Maximum != nil {
		out["maximum"] = *s.Maximum
	}

	return out
}

// GenAI converts the schema into the provider's response schema.
func (s *Schema) GenAI() *genai.Schema {
	out := &genai.Schema{
		Title:       s.Title,
		Type:        genai.Type(strings.ToUpper(string(s.Type))),
		Description: s.Description,
		Required:    slices.Clone(s.Required),
		Enum:        slices.Clone(s.Enum),
		Minimum:     s.Minimum,
		Maximum:     s.Maximum,
	}

	if s.Type == TypeObject {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, p := range s.Properties {
			out.Properties[name] = p.GenAI()
		}

		out.PropertyOrdering = s.propertyNames()
	}

	if s.Items != nil {
		out.Items = s.Items.GenAI()
	}

	return out
}

var errNilSchema = errors.New("schema is required")
