// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"blogd/internal/token"
)

const testKeyHex = "8f7e6d5c4b3a29181706f5e4d3c2b1a08f7e6d5c4b3a29181706f5e4d3c2b1a0"

func testTokens(t *testing.T) *token.Service {
	t.Helper()
	svc, err := token.NewService(testKeyHex)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

// okHandler records whether it was invoked and what account the context
// carried.
func okHandler() (http.Handler, *bool, *uuid.UUID) {
	var called bool
	var account uuid.UUID
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if id, ok := AccountIDFromCtx(r.Context()); ok {
			account = id
		}
		w.WriteHeader(http.StatusOK)
	})
	return h, &called, &account
}

func TestRequireAuthAcceptsValidToken(t *testing.T) {
	tokens := testTokens(t)
	accountID := uuid.New()
	signed, err := tokens.Sign(accountID.String(), time.Hour)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	next, called, gotAccount := okHandler()
	h := RequireAuth(tokens)(next)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rec.Code)
	}
	if !*called {
		t.Fatal("handler not invoked")
	}
	if *gotAccount != accountID {
		t.Errorf("account: got %s, want %s", gotAccount, accountID)
	}
}

func TestRequireAuthRejections(t *testing.T) {
	tokens := testTokens(t)

	expired, err := tokens.Sign(uuid.New().String(), -time.Minute)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not a bearer header", "Basic abc123"},
		{"garbage token", "Bearer not-a-token"},
		{"expired token", "Bearer " + expired},
		{"empty bearer", "Bearer "},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			next, called, _ := okHandler()
			h := RequireAuth(tokens)(next)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status: got %d, want 401", rec.Code)
			}
			if *called {
				t.Error("handler should not be invoked")
			}
			if !strings.Contains(rec.Body.String(), `"success":false`) {
				t.Errorf("body should be an error envelope: %s", rec.Body.String())
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	tokens := testTokens(t)
	accountID := uuid.New()
	signed, _ := tokens.Sign(accountID.String(), time.Hour)

	t.Run("valid token attaches account", func(t *testing.T) {
		next, called, gotAccount := okHandler()
		h := OptionalAuth(tokens)(next)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/blogs/x/like", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if !*called {
			t.Fatal("handler not invoked")
		}
		if *gotAccount != accountID {
			t.Errorf("account: got %s, want %s", gotAccount, accountID)
		}
	})

	t.Run("invalid token degrades to anonymous", func(t *testing.T) {
		next, called, gotAccount := okHandler()
		h := OptionalAuth(tokens)(next)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/blogs/x/like", nil)
		req.Header.Set("Authorization", "Bearer broken")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("status: got %d, want 200", rec.Code)
		}
		if !*called {
			t.Fatal("handler not invoked")
		}
		if *gotAccount != uuid.Nil {
			t.Error("no account should be attached for an invalid token")
		}
	})

	t.Run("no header passes through", func(t *testing.T) {
		next, called, gotAccount := okHandler()
		h := OptionalAuth(tokens)(next)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/blogs/x/like", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if !*called {
			t.Fatal("handler not invoked")
		}
		if *gotAccount != uuid.Nil {
			t.Error("no account should be attached without a header")
		}
	})
}
