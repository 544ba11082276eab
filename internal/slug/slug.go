// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from titles and names,
// plus collision probing against an existing collection.
package slug

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"blogd/internal/apperr"
)

// nonAlphanumeric matches every run of characters outside [a-z0-9].
var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Fallback is used when normalization leaves nothing usable, e.g. an
// all-symbol title. The numeric suffix probe still applies on top of it.
const Fallback = "post"

// maxAttempts bounds the suffix probe. Contention on a single base slug is
// assumed rare; hitting the cap surfaces as a SlugExhausted error.
const maxAttempts = 10000

// Generate creates a URL-friendly slug from the given string.
// Example: "Hello, World! 2026" → "hello-world-2026"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = nonAlphanumeric.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// ExistsFunc reports whether a candidate slug is already taken. Callers
// updating an existing record exclude that record's own row inside the func.
type ExistsFunc func(ctx context.Context, candidate string) (bool, error)

// Unique derives a slug from candidateText and guarantees uniqueness by
// probing exists. On collision it appends -1, -2, … until a free slug is
// found. An empty normalized base falls back to Fallback before suffixing.
func Unique(ctx context.Context, candidateText string, exists ExistsFunc) (string, error) {
	base := Generate(candidateText)
	if base == "" {
		base = Fallback
	}

	candidate := base
	for i := 1; i <= maxAttempts; i++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("probe slug %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return "", apperr.SlugExhausted(base)
}
