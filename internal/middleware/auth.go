// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"blogd/internal/token"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// accountKey is the context key for the authenticated account ID.
	accountKey contextKey = "account"
)

// bearerToken extracts the token from an "Authorization: Bearer ..." header.
// Returns empty string when the header is missing or malformed.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) <= len(prefix) || !strings.EqualFold(auth[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}

// resolveAccount verifies the bearer token and returns the account ID it
// was signed for.
func resolveAccount(r *http.Request, tokens *token.Service) (uuid.UUID, bool) {
	raw := bearerToken(r)
	if raw == "" {
		return uuid.Nil, false
	}
	subject, err := tokens.Verify(raw)
	if err != nil {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(subject)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// RequireAuth rejects requests without a valid bearer token. The verified
// account ID is stored in the request context for downstream handlers.
func RequireAuth(tokens *token.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := resolveAccount(r, tokens)
			if !ok {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"success":false,"error":"Invalid or expired token"}`))
				return
			}
			next.ServeHTTP(w, r.WithContext(
				context.WithValue(r.Context(), accountKey, id)))
		})
	}
}

// OptionalAuth attaches the account ID when a valid bearer token is
// present, and passes the request through untouched otherwise. Used by the
// like endpoints, where an invalid token degrades to an anonymous identity
// rather than an error.
func OptionalAuth(tokens *token.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id, ok := resolveAccount(r, tokens); ok {
				r = r.WithContext(context.WithValue(r.Context(), accountKey, id))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AccountIDFromCtx extracts the authenticated account ID from the request
// context. Returns (uuid.Nil, false) for anonymous requests.
func AccountIDFromCtx(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(accountKey).(uuid.UUID)
	return id, ok
}
