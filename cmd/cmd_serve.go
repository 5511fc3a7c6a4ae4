// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the API and the single-page application",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if cfg.Log.Level != "debug" {
			gin.SetMode(gin.ReleaseMode)
		}

		server, err := newServer(ctx)
		if err != nil {
			return err
		}

		logger.Info("starting crisis",
			zap.String("version", Version),
			zap.String("model", cfg.Gemini.Model),
			zap.String("static_dir", cfg.Static.Dir),
		)

		return server.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
