// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

// Package gateway is the HTTP surface: generation endpoints, place lookups
// and the single-page application.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jcodagnone/crisis/config"
	"github.com/jcodagnone/crisis/enrich"
	"github.com/jcodagnone/crisis/generation"
	"github.com/jcodagnone/crisis/metrics"
	"go.uber.org/zap"
)

// Generator produces a schema conforming value. *generation.Client
// implements it.
type Generator interface {
	Generate(ctx context.Context, prompt string, schema *generation.Schema, out any) error
}

// Server holds the handlers' collaborators.
type Server struct {
	cfg          *config.Config
	generator    Generator
	orchestrator *enrich.Orchestrator
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

// NewServer creates a Server. m may be nil, in which case /metrics is not
// served.
func NewServer(
	cfg *config.Config,
	generator Generator,
	orchestrator *enrich.Orchestrator,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Server{
		cfg:          cfg,
		generator:    generator,
		orchestrator: orchestrator,
		metrics:      m,
		logger:       logger,
	}
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(requestID(), accessLog(s.logger), recovery(s.logger), observe(s.metrics))

	if origins := s.cfg.CORS.Origins(); len(origins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept", "Authorization", requestIDHeader},
			ExposeHeaders:    []string{requestIDHeader},
			AllowCredentials: s.cfg.CORS.AllowCredentials,
			MaxAge:           s.cfg.CORS.MaxAge,
		}))
	}

	r.GET("/healthz", s.healthz)

	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	api := r.Group("/api")
	api.GET("/hello", s.hello)
	api.POST("/generate-recipe", s.generateRecipe)
	api.POST("/supply-chain", s.supplyChain)
	api.POST("/get-coords", s.getCoords)

	s.registerStatic(r)

	return r
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: s.cfg.Server.ReadTimeout,
		ReadTimeout:       s.cfg.Server.ReadTimeout,
		WriteTimeout:      s.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("serving on %s: %w", srv.Addr, err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", zap.Duration("timeout", s.cfg.Server.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}

	return nil
}

func (s *Server) healthz(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) hello(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"message": "Hello from crisis"})
}

// generate binds one prompt and one schema to a typed result.
func generate[T any](ctx context.Context, g Generator, prompt string, schema *generation.Schema) (T, error) {
	var out T
	err := g.Generate(ctx, prompt, schema, &out)

	return out, err
}

// GenerateRecipe asks the model for a recipe.
func (s *Server) GenerateRecipe(ctx context.Context, req RecipeRequest) (Recipe, error) {
	prompt, err := RecipePrompt(req)
	if err != nil {
		return Recipe{}, err
	}

	return generate[Recipe](ctx, s.generator, prompt, recipeSchema)
}

// AnalyzeSupplyChain asks the model for the product's supply chain and
// locates every company in it. Generation errors abort before any lookup.
func (s *Server) AnalyzeSupplyChain(ctx context.Context, product string) (SupplyChainResponse, error) {
	prompt, err := SupplyChainPrompt(product)
	if err != nil {
		return SupplyChainResponse{}, err
	}

	report, err := generate[SupplyChainReport](ctx, s.generator, prompt, supplyChainSchema)
	if err != nil {
		return SupplyChainResponse{}, err
	}

	start := time.Now()
	enriched, stats := enrich.EnrichWithStats(ctx, s.orchestrator, report.SupplyChain, SupplyChainNode.LocationQuery)

	resp := SupplyChainResponse{
		Product:     report.Product,
		RiskScore:   report.RiskScore,
		RiskSummary: report.RiskSummary,
		SupplyChain: make([]EnrichedNode, len(enriched)),
		Stats:       stats,
	}

	resolution := s.cfg.Enrich.H3Resolution

	for i, e := range enriched {
		node := EnrichedNode{SupplyChainNode: e.Entity, Result: e.Place}

		if e.Place.Coordinates != nil {
			cell, err := e.Place.Coordinates.Cell(resolution)
			if err != nil {
				s.logger.Warn("indexing place", zap.String("company", e.Entity.CompanyName), zap.Error(err))
			}

			node.H3Cell = cell
		}

		resp.SupplyChain[i] = node
	}

	resp.Concentration, err = concentration(resp.SupplyChain, resolution)
	if err != nil {
		return SupplyChainResponse{}, err
	}

	s.logger.Info("supply chain analyzed",
		zap.String("product", report.Product),
		zap.Int("nodes", stats.Total),
		zap.Int("located", stats.Found),
		zap.Duration("enrich_elapsed", time.Since(start)),
	)

	return resp, nil
}
