// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

// Package config holds the explicit configuration object handed to every
// client at startup.
package config

import (
	"strings"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Gemini GeminiConfig `yaml:"gemini"`
	Maps   MapsConfig   `yaml:"maps"`
	Enrich EnrichConfig `yaml:"enrich"`
	CORS   CORSConfig   `yaml:"cors"`
	Static StaticConfig `yaml:"static"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr            string        `yaml:"addr"             env:"SERVER_ADDR"             env-default:":8000"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"120s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	TraceHTTP       bool          `yaml:"trace_http"       env:"TRACE_HTTP"`
	TraceHTTPBody   bool          `yaml:"trace_http_body"  env:"TRACE_HTTP_BODY"`
}

// GeminiConfig holds the structured generation provider settings.
type GeminiConfig struct {
	APIKey  string        `yaml:"api_key" env:"GEMINI_API_KEY"`
	Model   string        `yaml:"model"   env:"GEMINI_MODEL"   env-default:"gemini-2.5-flash"`
	Timeout time.Duration `yaml:"timeout" env:"GEMINI_TIMEOUT" env-default:"90s"`
}

// MapsConfig holds the places provider settings. When APIKey is empty the key
// is looked up through Application Default Credentials by KeyDisplayName.
type MapsConfig struct {
	APIKey         string        `yaml:"api_key"          env:"MAPS_API_KEY,GOOGLE_MAPS_API_KEY"`
	KeyDisplayName string        `yaml:"key_display_name" env:"MAPS_KEY_DISPLAY_NAME" env-default:"Crisis Places Key"`
	ProjectID      string        `yaml:"project_id"       env:"GOOGLE_CLOUD_PROJECT"`
	Language       string        `yaml:"language"         env:"MAPS_LANGUAGE"`
	Timeout        time.Duration `yaml:"timeout"          env:"MAPS_TIMEOUT"          env-default:"10s"`
}

// EnrichConfig tunes the geocoding fan-out.
type EnrichConfig struct {
	// MaxProcs bounds concurrent lookups per request, 0 means one per entity.
	MaxProcs int `yaml:"max_procs" env:"ENRICH_MAX_PROCS" env-default:"0"`
	// LookupTimeout caps each lookup, 0 disables the cap.
	LookupTimeout time.Duration `yaml:"lookup_timeout" env:"ENRICH_LOOKUP_TIMEOUT" env-default:"0s"`
	H3Resolution  int           `yaml:"h3_resolution"  env:"ENRICH_H3_RESOLUTION"  env-default:"3"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string        `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"http://localhost:5173,http://127.0.0.1:5173"`
	AllowCredentials bool          `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           time.Duration `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"12h"`
}

// Origins returns the allowed origins as a trimmed list.
func (c CORSConfig) Origins() []string {
	var origins []string

	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return origins
}

// StaticConfig points at the prebuilt single-page application.
type StaticConfig struct {
	Dir string `yaml:"dir" env:"STATIC_DIR" env-default:"static"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"auto"`
}
