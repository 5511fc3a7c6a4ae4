// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/jcodagnone/crisis/gateway"
	"github.com/spf13/cobra"
)

var recipeDiet string

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

var recipeCmd = &cobra.Command{
	Use:     "recipe <ingredient>...",
	Short:   "Generate a recipe from a list of ingredients",
	Example: `  crisis recipe tomato basil pasta --diet vegetarian`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		generator, err := newGenerator(cmd.Context(), nil)
		if err != nil {
			return err
		}

		server := gateway.NewServer(cfg, generator, nil, nil, logger.Named("gateway"))

		recipe, err := server.GenerateRecipe(cmd.Context(), gateway.RecipeRequest{
			Ingredients:         args,
			DietaryRestrictions: recipeDiet,
		})
		if err != nil {
			return err
		}

		return printJSON(recipe)
	},
}

var supplyChainCmd = &cobra.Command{
	Use:     "supply-chain <product>",
	Short:   "Map and locate the supply chain of a product",
	Example: `  crisis supply-chain "Nvidia H100"`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := newServer(cmd.Context())
		if err != nil {
			return err
		}

		resp, err := server.AnalyzeSupplyChain(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}

		return printJSON(resp)
	},
}

func init() {
	recipeCmd.Flags().StringVar(&recipeDiet, "diet", "none", "dietary restrictions")
	rootCmd.AddCommand(recipeCmd)
	rootCmd.AddCommand(supplyChainCmd)
}
