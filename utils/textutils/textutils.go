// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

// Package textutils normalizes free text before it is sent to external providers.
package textutils

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeQuery composes the string to NFC, drops control characters and
// collapses runs of whitespace into a single space.
func NormalizeQuery(s string) string {
	s, _, _ = transform.String(
		transform.Chain(
			norm.NFC,
			runes.Remove(runes.Predicate(func(r rune) bool {
				return unicode.IsControl(r) && !unicode.IsSpace(r)
			})),
		),
		s,
	)

	return strings.Join(strings.Fields(s), " ")
}

// JoinQuery builds a search query from its non-empty parts.
func JoinQuery(parts ...string) string {
	return NormalizeQuery(strings.Join(parts, " "))
}

// FormatInt formats an integer with commas for human readability.
func FormatInt(n int64) string {
	in := strconv.FormatInt(n, 10)

	numOfDigits := len(in)
	if n < 0 {
		numOfDigits-- // First character is the - sign (not a digit)
	}

	numOfCommas := (numOfDigits - 1) / 3

	out := make([]byte, len(in)+numOfCommas)
	if n < 0 {
		in, out[0] = in[1:], '-'
	}

	for i, j, k := len(in)-1, len(out)-1, 0; ; i, j = i-1, j-1 {
		out[j] = in[i]
		if i == 0 {
			return string(out)
		}

		if k++; k == 3 {
			j, k = j-1, 0
			out[j] = ','
		}
	}
}
