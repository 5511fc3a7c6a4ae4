// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/jcodagnone/crisis/config"
	"github.com/jcodagnone/crisis/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootOptions struct {
	configPath    string
	addr          string
	staticDir     string
	logLevel      string
	logFormat     string
	traceHTTP     bool
	traceHTTPBody bool
}

var (
	options = &rootOptions{}
	cfg     *config.Config
	logger  = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "crisis",
	Short: "AI supply chain risk gateway",
	Long: `
crisis asks a generative model for the supply chain of a product, locates every
company in it with a places API and serves the results to a single-page
application.
`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

var Version = "dev"

// setup loads the configuration, applies flag overrides and builds the logger.
func setup(cmd *cobra.Command, _ []string) error {
	var err error

	cfg, err = config.Load(options.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.Server.Addr = options.addr
	}

	if flags.Changed("static-dir") {
		cfg.Static.Dir = options.staticDir
	}

	if flags.Changed("log-level") {
		cfg.Log.Level = options.logLevel
	}

	if flags.Changed("log-format") {
		cfg.Log.Format = options.logFormat
	}

	if flags.Changed("trace-http") {
		cfg.Server.TraceHTTP = options.traceHTTP
	}

	if flags.Changed("trace-http-body") {
		cfg.Server.TraceHTTPBody = options.traceHTTPBody
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err = logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}

	return nil
}

func Execute(version string) {
	Version = version

	err := rootCmd.Execute()

	_ = logger.Sync()

	if err != nil {
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&options.configPath, "config", "", "YAML configuration file")
	flags.StringVar(&options.addr, "addr", "", "listen address, overrides SERVER_ADDR")
	flags.StringVar(&options.staticDir, "static-dir", "", "directory of the built single-page application")
	flags.StringVar(&options.logLevel, "log-level", "", "debug, info, warn or error")
	flags.StringVar(&options.logFormat, "log-format", "", "auto, json or console")
	flags.BoolVar(&options.traceHTTP, "trace-http", false, "dump outbound HTTP exchanges to stderr")
	flags.BoolVar(&options.traceHTTPBody, "trace-http-body", false, "include bodies in HTTP dumps")
}
