// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package identity derives a stable actor identity for a request: either a
// verified account id, or a deterministic anonymous fingerprint from the
// client's network address and user agent. The fingerprint is stable per
// (address, agent) pair but is deliberately not a security boundary — it
// only keys a public reaction counter.
package identity

import (
	"encoding/base64"
	"net"
	"net/http"

	"github.com/google/uuid"
)

// anonymousPrefix marks fingerprint identifiers in the engagement ledger.
const anonymousPrefix = "anonymous_"

// fingerprintLen is how many encoded characters follow the prefix.
const fingerprintLen = 20

// Identity names the actor behind a request.
type Identity struct {
	// Identifier is the engagement-ledger key: an account id as text, or
	// an anonymous fingerprint.
	Identifier string
	// Authenticated is true iff Identifier maps to an account.
	Authenticated bool
	// AccountID is set only when Authenticated.
	AccountID *uuid.UUID
}

// FromAccount builds the identity of a verified account.
func FromAccount(accountID uuid.UUID) Identity {
	id := accountID
	return Identity{
		Identifier:    accountID.String(),
		Authenticated: true,
		AccountID:     &id,
	}
}

// FromRequest builds an anonymous identity from the request's remote
// address and user agent.
func FromRequest(r *http.Request) Identity {
	return Anonymous(clientIP(r), r.UserAgent())
}

// Anonymous derives the deterministic fingerprint identity for an
// unauthenticated client.
func Anonymous(remoteAddr, userAgent string) Identity {
	raw := remoteAddr + "|" + userAgent
	encoded := base64.RawURLEncoding.EncodeToString([]byte(raw))
	if len(encoded) > fingerprintLen {
		encoded = encoded[:fingerprintLen]
	}
	return Identity{
		Identifier:    anonymousPrefix + encoded,
		Authenticated: false,
	}
}

// clientIP extracts the client address, preferring X-Forwarded-For when the
// service sits behind a proxy.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		// First entry is the originating client.
		for i := 0; i < len(fwd); i++ {
			if fwd[i] == ',' {
				return fwd[:i]
			}
		}
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
