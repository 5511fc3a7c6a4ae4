// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

// Package generation asks a language model for JSON that conforms to a
// caller supplied schema and decodes it into a typed value.
package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jcodagnone/crisis/metrics"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
)

// Backend returns the raw JSON text the model produced for prompt,
// constrained to schema.
type Backend interface {
	GenerateJSON(ctx context.Context, prompt string, schema *Schema) (string, error)
}

// Client validates requests, calls the backend once and decodes the result.
// It never retries.
type Client struct {
	backend Backend
	logger  *zap.Logger
	metrics *metrics.Metrics
	timeout time.Duration
}

// NewClient creates a Client. A zero timeout leaves the caller's context as
// the only deadline. Both logger and m may be nil.
func NewClient(backend Backend, timeout time.Duration, logger *zap.Logger, m *metrics.Metrics) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{backend: backend, logger: logger, metrics: m, timeout: timeout}
}

// Generate asks the backend for a value conforming to schema and decodes it
// into out, which must be a pointer. Errors are always *Error.
func (c *Client) Generate(ctx context.Context, prompt string, schema *Schema, out any) error {
	if strings.TrimSpace(prompt) == "" {
		return &Error{Kind: KindInvalidRequest, Message: "prompt is empty"}
	}

	if schema == nil {
		return &Error{Kind: KindInvalidRequest, Message: "invalid schema", Err: errNilSchema}
	}

	if err := schema.Validate(); err != nil {
		return &Error{Kind: KindInvalidRequest, Message: "invalid schema", Err: err}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)

		defer cancel()
	}

	name := schema.name()
	start := time.Now()

	c.logger.Debug("generating",
		zap.String("schema", name),
		zap.Int("prompt_bytes", len(prompt)),
	)

	err := c.generate(ctx, prompt, schema, out)

	var genErr *Error

	outcome := "ok"
	if errors.As(err, &genErr) {
		outcome = genErr.Kind.String()
	}

	c.metrics.ObserveGeneration(name, outcome, time.Since(start))

	if err != nil {
		c.logger.Warn("generation failed",
			zap.String("schema", name),
			zap.String("kind", outcome),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)

		return err
	}

	c.logger.Debug("generated",
		zap.String("schema", name),
		zap.Duration("elapsed", time.Since(start)),
	)

	return nil
}

func (c *Client) generate(ctx context.Context, prompt string, schema *Schema, out any) error {
	raw, err := c.backend.GenerateJSON(ctx, prompt, schema)
	if err != nil {
		return &Error{Kind: KindGenerationFailed, Message: "provider call failed", Err: err}
	}

	text := stripFences(raw)
	if text == "" {
		return &Error{Kind: KindGenerationFailed, Message: "provider returned an empty response"}
	}

	if err := Conform(text, schema, out); err != nil {
		return &Error{Kind: KindSchemaMismatch, Message: "response does not match schema", Err: err}
	}

	return nil
}

var fenceRE = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*\\n?(.*?)\\n?\\s*```$")

// stripFences removes a markdown code fence wrapped around the payload.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if m := fenceRE.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}

	return s
}

// Conform validates text against schema and decodes it into out, rejecting
// missing, extra and mistyped fields as well as anything after the JSON
// value. Integral numbers written with a fraction, such as 68.0, are
// accepted for integer fields.
func Conform(text string, schema *Schema, out any) error {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("trailing data after JSON value")
	}

	doc = integralNumbers(doc, schema)

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schema.JSONSchema()),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("validating response: %w", err)
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}

		return errors.New(strings.Join(msgs, "; "))
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding response: %w", err)
	}

	strict := json.NewDecoder(bytes.NewReader(raw))
	strict.DisallowUnknownFields()

	if err := strict.Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

// maxExactInt is the largest integer a float64 holds exactly.
const maxExactInt = 1 << 53

// integralNumbers rewrites numbers like 68.0 found at integer positions of
// schema as 68, so they decode into Go integers.
func integralNumbers(v any, schema *Schema) any {
	if schema == nil {
		return v
	}

	switch schema.Type {
	case TypeInteger:
		n, ok := v.(json.Number)
		if !ok {
			return v
		}

		if _, err := n.Int64(); err == nil {
			return v
		}

		f, err := n.Float64()
		if err != nil || f != math.Trunc(f) || math.Abs(f) > maxExactInt {
			return v
		}

		return json.Number(strconv.FormatInt(int64(f), 10))
	case TypeObject:
		if m, ok := v.(map[string]any); ok {
			for name, prop := range schema.Properties {
				if x, ok := m[name]; ok {
					m[name] = integralNumbers(x, prop)
				}
			}
		}
	case TypeArray:
		if a, ok := v.([]any); ok {
			for i := range a {
				a[i] = integralNumbers(a[i], schema.Items)
			}
		}
	}

	return v
}
