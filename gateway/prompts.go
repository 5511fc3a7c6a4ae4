// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

const defaultDietaryRestrictions = "none"

var recipeTemplate = template.Must(template.New("recipe").Parse(
	`Create a recipe using these ingredients: {{.Ingredients}}.
Dietary restrictions: {{.DietaryRestrictions}}.
`))

var supplyChainTemplate = template.Must(template.New("supply_chain").Parse(
	`You are a supply chain risk analyst. Map the critical supply chain of "{{.Product}}".
List the key companies that make or supply it, with the role each one plays and
the city where its main facility for this product is located.
Rate how vulnerable the chain is to disruption from 0 (resilient) to 100
(fragile) and summarize the main risks in two sentences.
`))

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering %s prompt: %w", t.Name(), err)
	}

	return buf.String(), nil
}

// RecipePrompt builds the prompt for a recipe request.
func RecipePrompt(req RecipeRequest) (string, error) {
	restrictions := strings.TrimSpace(req.DietaryRestrictions)
	if restrictions == "" {
		restrictions = defaultDietaryRestrictions
	}

	return render(recipeTemplate, struct {
		Ingredients         string
		DietaryRestrictions string
	}{
		Ingredients:         strings.Join(req.Ingredients, ", "),
		DietaryRestrictions: restrictions,
	})
}

// SupplyChainPrompt builds the prompt for a product's supply chain.
func SupplyChainPrompt(product string) (string, error) {
	return render(supplyChainTemplate, struct{ Product string }{Product: product})
}
