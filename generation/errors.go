// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package generation

import (
	"errors"
	"fmt"
)

// Kind classifies generation failures.
type Kind int

const (
	// KindGenerationFailed covers provider errors, timeouts, quota and empty
	// responses.
	KindGenerationFailed Kind = iota
	// KindSchemaMismatch means the response did not conform to the schema.
	KindSchemaMismatch
	// KindInvalidRequest means the request was rejected before calling the
	// provider.
	KindInvalidRequest
)

func (k Kind) String() string {
	switch k {
	case KindGenerationFailed:
		return "generation_failed"
	case KindSchemaMismatch:
		return "schema_mismatch"
	case KindInvalidRequest:
		return "invalid_request"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Sentinels matched by errors.Is against an *Error of the same kind.
var (
	ErrGenerationFailed = errors.New("generation failed")
	ErrSchemaMismatch   = errors.New("schema mismatch")
	ErrInvalidRequest   = errors.New("invalid generation request")
)

// Error is returned by Client.Generate.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrGenerationFailed:
		return e.Kind == KindGenerationFailed
	case ErrSchemaMismatch:
		return e.Kind == KindSchemaMismatch
	case ErrInvalidRequest:
		return e.Kind == KindInvalidRequest
	default:
		return false
	}
}

// IsGenerationFailed reports whether err is a provider side failure.
func IsGenerationFailed(err error) bool {
	return errors.Is(err, ErrGenerationFailed)
}

// IsSchemaMismatch reports whether err is a non conforming response.
func IsSchemaMismatch(err error) bool {
	return errors.Is(err, ErrSchemaMismatch)
}

// IsInvalidRequest reports whether err was raised before calling the provider.
func IsInvalidRequest(err error) bool {
	return errors.Is(err, ErrInvalidRequest)
}
