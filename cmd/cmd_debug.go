// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jcodagnone/crisis/enrich"
	"github.com/jcodagnone/crisis/gateway"
	"github.com/jcodagnone/crisis/places"
	"github.com/jcodagnone/crisis/utils/textutils"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// readLines returns the non blank lines of r.
func readLines(r io.Reader) ([]string, error) {
	var lines []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}

	return lines, nil
}

var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Dev tools",
}

type placeLine struct {
	Query string `json:"query"`
	places.Result
}

var debugPlacesCmd = &cobra.Command{
	Use:   "places",
	Short: "Look up places, one query per line",
	Long: `Reads one query per line, looks them all up concurrently and prints one JSON
object per query, in input order.

$ echo "TSMC Hsinchu" | crisis debug places
{"query":"TSMC Hsinchu","found":true,"name":"TSMC","address":"…","coordinates":{…},"place_id":"…"}
`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if isTerminal(os.Stdin) {
			fmt.Fprintln(os.Stderr, "Enter the queries to look up, one per line…")
		}

		queries, err := readLines(os.Stdin)
		if err != nil {
			return err
		}

		orchestrator, err := newOrchestrator(cmd.Context(), nil)
		if err != nil {
			return err
		}

		var opts []enrich.Option

		if isTerminal(os.Stderr) {
			bar := progressbar.NewOptions(len(queries),
				progressbar.OptionSetDescription("Looking up"),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
			opts = append(opts, enrich.WithProgress(func() { _ = bar.Add(1) }))
		}

		results := orchestrator.Enrich(cmd.Context(), queries, opts...)

		enc := json.NewEncoder(os.Stdout)
		for _, r := range results {
			if err := enc.Encode(placeLine{Query: r.Entity, Result: r.Place}); err != nil {
				return err
			}
		}

		stats := enrich.Summarize(results)
		fmt.Fprintf(os.Stderr, "%s queries, %s found, %s not found\n",
			textutils.FormatInt(int64(stats.Total)),
			textutils.FormatInt(int64(stats.Found)),
			textutils.FormatInt(int64(stats.NotFound)),
		)

		return nil
	},
}

var debugGenerateSchema string

var debugGenerateCmd = &cobra.Command{
	Use:   "generate [prompt]",
	Short: "Run a prompt against one of the response schemas",
	Long: `Sends the prompt, given as arguments or read from stdin, to the model
constrained to the named schema and prints the decoded JSON.

$ crisis debug generate --schema recipe "a dessert with lemons"
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		schema, ok := gateway.Schema(debugGenerateSchema)
		if !ok {
			return fmt.Errorf("unknown schema %q, one of %s", debugGenerateSchema, strings.Join(gateway.SchemaNames(), ", "))
		}

		prompt := strings.Join(args, " ")
		if prompt == "" {
			if isTerminal(os.Stdin) {
				fmt.Fprintln(os.Stderr, "Enter the prompt, end with Ctrl-D…")
			}

			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("reading prompt: %w", err)
			}

			prompt = string(b)
		}

		generator, err := newGenerator(cmd.Context(), nil)
		if err != nil {
			return err
		}

		var out map[string]any
		if err := generator.Generate(cmd.Context(), prompt, schema, &out); err != nil {
			return err
		}

		return printJSON(out)
	},
}

func init() {
	debugGenerateCmd.Flags().StringVar(&debugGenerateSchema, "schema", "recipe", "response schema name")

	rootCmd.AddCommand(debugCmd)
	debugCmd.AddCommand(debugPlacesCmd)
	debugCmd.AddCommand(debugGenerateCmd)
}
