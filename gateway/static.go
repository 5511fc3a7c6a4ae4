// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

const svgContentType = "image/svg+xml"

func isDir(p string) bool {
	info, err := os.Stat(p)

	return err == nil && info.IsDir()
}

func (s *Server) registerStatic(r *gin.Engine) {
	if assets := filepath.Join(s.cfg.Static.Dir, "assets"); isDir(assets) {
		r.Static("/assets", assets)
	}

	r.NoRoute(s.serveFrontend)
}

// serveFrontend is the catch-all of the single-page application: unknown API
// routes get a JSON 404, existing files are served and every other path gets
// index.html so client side routes survive a reload.
func (s *Server) serveFrontend(ctx *gin.Context) {
	fullPath := strings.TrimPrefix(ctx.Request.URL.Path, "/")
	if strings.HasPrefix(fullPath, "api") {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "API route not found"})

		return
	}

	if target, ok := s.staticFile(fullPath); ok {
		contentType := ""
		if strings.HasSuffix(target, ".svg") {
			contentType = svgContentType
		}

		serveFile(ctx, target, contentType)

		return
	}

	if index := filepath.Join(s.cfg.Static.Dir, "index.html"); isRegular(index) {
		serveFile(ctx, index, "text/html; charset=utf-8")

		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Frontend not found"})
}

// staticFile resolves a request path to a regular file inside the static
// directory. Paths escaping the directory never resolve.
func (s *Server) staticFile(fullPath string) (string, bool) {
	if fullPath == "" {
		return "", false
	}

	clean := path.Clean("/" + fullPath)
	target := filepath.Join(s.cfg.Static.Dir, filepath.FromSlash(clean))

	rel, err := filepath.Rel(s.cfg.Static.Dir, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}

	return target, isRegular(target)
}

func isRegular(p string) bool {
	info, err := os.Stat(p)

	return err == nil && info.Mode().IsRegular()
}

// serveFile writes the file without http.ServeFile's index.html redirect.
func serveFile(ctx *gin.Context, name, contentType string) {
	f, err := os.Open(name)
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "file not found"})

		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})

		return
	}

	if contentType != "" {
		ctx.Header("Content-Type", contentType)
	}

	http.ServeContent(ctx.Writer, ctx.Request, info.Name(), info.ModTime(), f)
}
