// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jcodagnone/crisis/generation"
	"github.com/jcodagnone/crisis/spatial"
	"github.com/jcodagnone/crisis/utils/textutils"
	"go.uber.org/zap"
)

func (s *Server) generateRecipe(ctx *gin.Context) {
	var req RecipeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "ingredients must be a non-empty list of strings"})

		return
	}

	recipe, err := s.GenerateRecipe(ctx.Request.Context(), req)
	if err != nil {
		s.generationError(ctx, err)

		return
	}

	ctx.JSON(http.StatusOK, recipe)
}

func (s *Server) supplyChain(ctx *gin.Context) {
	product := strings.TrimSpace(ctx.Query("product_name"))

	if product == "" && ctx.Request.ContentLength != 0 {
		var req SupplyChainRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})

			return
		}

		product = strings.TrimSpace(req.ProductName)
	}

	if product == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "product_name is required"})

		return
	}

	resp, err := s.AnalyzeSupplyChain(ctx.Request.Context(), product)
	if err != nil {
		s.generationError(ctx, err)

		return
	}

	ctx.JSON(http.StatusOK, resp)
}

func (s *Server) getCoords(ctx *gin.Context) {
	var req LocationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "company_name is required"})

		return
	}

	place := s.orchestrator.Lookup(ctx.Request.Context(), textutils.JoinQuery(req.CompanyName, req.City))
	if !place.Found {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})

		return
	}

	ctx.JSON(http.StatusOK, LocationResponse{
		Name:        place.Name,
		Address:     place.Address,
		Coordinates: place.Coordinates,
		PlaceID:     place.PlaceID,
	})
}

// generationError maps generation failures to status codes. Provider and
// conformance failures are upstream problems, hence 502.
func (s *Server) generationError(ctx *gin.Context, err error) {
	var genErr *generation.Error
	if !errors.As(err, &genErr) {
		s.logger.Error("request failed", zap.String("path", ctx.FullPath()), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})

		return
	}

	status := http.StatusBadGateway
	if genErr.Kind == generation.KindInvalidRequest {
		status = http.StatusBadRequest
	}

	s.logger.Warn("generation failed",
		zap.String("path", ctx.FullPath()),
		zap.String("request_id", ctx.GetString(requestIDKey)),
		zap.Error(err),
	)
	ctx.JSON(status, gin.H{"error": genErr.Message, "kind": genErr.Kind.String()})
}

func concentration(nodes []EnrichedNode, resolution int) (spatial.Concentration, error) {
	points := make([]*spatial.Point, len(nodes))
	for i, n := range nodes {
		points[i] = n.Coordinates
	}

	return spatial.Concentrate(points, resolution)
}
