// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"slices"

	"github.com/jcodagnone/crisis/generation"
)

var recipeSchema = &generation.Schema{
	Title: "recipe",
	Type:  generation.TypeObject,
	Properties: map[string]*generation.Schema{
		"title":             {Type: generation.TypeString},
		"difficulty":        {Type: generation.TypeString, Description: "Easy, Medium or Hard"},
		"prep_time_minutes": {Type: generation.TypeInteger, Minimum: generation.Float(0)},
		"ingredients": {
			Type: generation.TypeArray,
			Items: &generation.Schema{
				Type: generation.TypeObject,
				Properties: map[string]*generation.Schema{
					"name":   {Type: generation.TypeString},
					"amount": {Type: generation.TypeString},
				},
				Order:    []string{"name", "amount"},
				Required: []string{"name", "amount"},
			},
		},
		"instructions": {Type: generation.TypeArray, Items: &generation.Schema{Type: generation.TypeString}},
		"calories":     {Type: generation.TypeInteger, Minimum: generation.Float(0)},
	},
	Order:    []string{"title", "difficulty", "prep_time_minutes", "ingredients", "instructions", "calories"},
	Required: []string{"title", "difficulty", "prep_time_minutes", "ingredients", "instructions", "calories"},
}

var supplyChainSchema = &generation.Schema{
	Title: "supply_chain",
	Type:  generation.TypeObject,
	Properties: map[string]*generation.Schema{
		"product": {Type: generation.TypeString},
		"risk_score": {
			Type:        generation.TypeInteger,
			Description: "Vulnerability of the supply chain, 0 is resilient and 100 is fragile.",
			Minimum:     generation.Float(0),
			Maximum:     generation.Float(100),
		},
		"risk_summary": {Type: generation.TypeString},
		"supply_chain": {
			Type: generation.TypeArray,
			Items: &generation.Schema{
				Type: generation.TypeObject,
				Properties: map[string]*generation.Schema{
					"company_name": {Type: generation.TypeString},
					"role":         {Type: generation.TypeString, Description: "What the company supplies."},
					"city":         {Type: generation.TypeString, Description: "City of the main facility."},
				},
				Order:    []string{"company_name", "role", "city"},
				Required: []string{"company_name", "role", "city"},
			},
		},
	},
	Order:    []string{"product", "risk_score", "risk_summary", "supply_chain"},
	Required: []string{"product", "risk_score", "risk_summary", "supply_chain"},
}

var schemas = map[string]*generation.Schema{
	recipeSchema.Title:      recipeSchema,
	supplyChainSchema.Title: supplyChainSchema,
}

// Schema returns the response schema registered under name.
func Schema(name string) (*generation.Schema, bool) {
	s, ok := schemas[name]

	return s, ok
}

// SchemaNames lists the registered schema names.
func SchemaNames() []string {
	names := make([]string, 0, len(schemas))
	for name := range schemas {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}
