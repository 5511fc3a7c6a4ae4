// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"github.com/jcodagnone/crisis/enrich"
	"github.com/jcodagnone/crisis/places"
	"github.com/jcodagnone/crisis/spatial"
	"github.com/jcodagnone/crisis/utils/textutils"
)

// RecipeRequest is the body of POST /api/generate-recipe.
type RecipeRequest struct {
	Ingredients         []string `json:"ingredients"          binding:"required,min=1,dive,required"`
	DietaryRestrictions string   `json:"dietary_restrictions"`
}

// Ingredient is one line of a recipe.
type Ingredient struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

// Recipe is a generated recipe.
type Recipe struct {
	Title           string       `json:"title"`
	Difficulty      string       `json:"difficulty"`
	PrepTimeMinutes int          `json:"prep_time_minutes"`
	Ingredients     []Ingredient `json:"ingredients"`
	Instructions    []string     `json:"instructions"`
	Calories        int          `json:"calories"`
}

// SupplyChainRequest is the optional JSON body of POST /api/supply-chain.
type SupplyChainRequest struct {
	ProductName string `json:"product_name"`
}

// SupplyChainNode is one company in a generated supply chain.
type SupplyChainNode struct {
	CompanyName string `json:"company_name"`
	Role        string `json:"role"`
	City        string `json:"city"`
}

// LocationQuery is the text searched for the node.
func (n SupplyChainNode) LocationQuery() string {
	return textutils.JoinQuery(n.CompanyName, n.City)
}

// SupplyChainReport is what the model returns for a product.
type SupplyChainReport struct {
	Product     string            `json:"product"`
	RiskScore   int               `json:"risk_score"`
	RiskSummary string            `json:"risk_summary"`
	SupplyChain []SupplyChainNode `json:"supply_chain"`
}

// EnrichedNode is a node with its place fields flattened in.
type EnrichedNode struct {
	SupplyChainNode
	places.Result
	H3Cell string `json:"h3_cell,omitempty"`
}

// SupplyChainResponse is the body returned by POST /api/supply-chain.
type SupplyChainResponse struct {
	Product       string                `json:"product"`
	RiskScore     int                   `json:"risk_score"`
	RiskSummary   string                `json:"risk_summary"`
	SupplyChain   []EnrichedNode        `json:"supply_chain"`
	Concentration spatial.Concentration `json:"concentration"`
	Stats         enrich.Stats          `json:"stats"`
}

// LocationRequest is the body of POST /api/get-coords.
type LocationRequest struct {
	CompanyName string `json:"company_name" binding:"required"`
	City        string `json:"city"`
}

// LocationResponse is a found place.
type LocationResponse struct {
	Name        string         `json:"name"`
	Address     string         `json:"address"`
	Coordinates *spatial.Point `json:"coordinates"`
	PlaceID     string         `json:"place_id"`
}
