// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides database access methods for all blog entities.
// Each store struct wraps a *sql.DB and exposes typed query methods.
package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the PostgreSQL error code for unique-constraint breaks.
const uniqueViolation = "23505"

// violatedConstraint returns the name of the unique constraint an error
// reports, or "" if the error is not a unique violation. The store-level
// unique indexes are the authoritative guard behind every application-level
// existence probe; this is where a lost race surfaces.
func violatedConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return pgErr.ConstraintName
	}
	return ""
}
