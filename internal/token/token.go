// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package token issues and verifies the bearer tokens used by the API.
// Tokens are PASETO v4.local: encrypted, carrying the account id as the
// subject claim.
package token

import (
	"encoding/hex"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"

	"blogd/internal/apperr"
)

const (
	tokenIssuer   = "blogd"
	tokenAudience = "blogd-client"

	// PASETO v4 symmetric key: 32 bytes, configured as hex.
	keyBytesSize = 32
	keyHexSize   = 64
)

// Token lifetimes per the auth flows: a fresh registration gets a week,
// a routine login a day.
const (
	RegisterTTL = 7 * 24 * time.Hour
	LoginTTL    = 24 * time.Hour
)

// Service signs and verifies account bearer tokens.
type Service struct {
	key paseto.V4SymmetricKey
}

// NewService creates a token service from a 64-hex-char symmetric key.
func NewService(keyHex string) (*Service, error) {
	if len(keyHex) != keyHexSize {
		return nil, fmt.Errorf("token key must be %d hex characters (%d bytes), got %d", keyHexSize, keyBytesSize, len(keyHex))
	}
	keyBytes, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("token key is not valid hex: %w", err)
	}
	key, err := paseto.V4SymmetricKeyFromBytes(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("construct symmetric key: %w", err)
	}
	return &Service{key: key}, nil
}

// Sign issues a token whose subject is the account id, valid for ttl.
func (s *Service) Sign(accountID string, ttl time.Duration) (string, error) {
	now := time.Now()

	t := paseto.NewToken()
	t.SetIssuer(tokenIssuer)
	t.SetAudience(tokenAudience)
	t.SetSubject(accountID)
	t.SetIssuedAt(now)
	t.SetNotBefore(now)
	t.SetExpiration(now.Add(ttl))

	return t.V4Encrypt(s.key, nil), nil
}

// Verify decrypts and validates a token, returning the account id it
// carries. Expired, tampered, or foreign tokens yield an InvalidToken error.
func (s *Service) Verify(tokenString string) (string, error) {
	parser := paseto.NewParser()
	parser.AddRule(paseto.IssuedBy(tokenIssuer))
	parser.AddRule(paseto.ForAudience(tokenAudience))
	parser.AddRule(paseto.NotExpired())
	parser.AddRule(paseto.ValidAt(time.Now()))

	t, err := parser.ParseV4Local(s.key, tokenString, nil)
	if err != nil {
		return "", apperr.InvalidToken("invalid or expired token").WithCause(err)
	}

	subject, err := t.GetSubject()
	if err != nil {
		return "", apperr.InvalidToken("token has no subject").WithCause(err)
	}
	return subject, nil
}
