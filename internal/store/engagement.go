// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"blogd/internal/apperr"
	"blogd/internal/identity"
)

// EngagementStore manages the per-post like ledger. One row per
// (post, identifier) pair; the unique index makes the toggle idempotent
// under concurrent requests.
type EngagementStore struct {
	db *sql.DB
}

// NewEngagementStore creates a new EngagementStore with the given database
// connection.
func NewEngagementStore(db *sql.DB) *EngagementStore {
	return &EngagementStore{db: db}
}

// Toggle flips the like state for an identity on a published post and
// returns the resulting state and count. The whole flip runs in one
// transaction: a DELETE that removes an existing like, otherwise an INSERT
// guarded by ON CONFLICT DO NOTHING so two simultaneous first likes from
// the same identity collapse into one row.
func (s *EngagementStore) Toggle(ctx context.Context, postID uuid.UUID, who identity.Identity) (liked bool, count int, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, 0, fmt.Errorf("begin toggle: %w", err)
	}
	defer tx.Rollback()

	var published bool
	err = tx.QueryRowContext(ctx,
		`SELECT status = 'published' FROM posts WHERE id = $1`, postID).Scan(&published)
	if err == sql.ErrNoRows {
		return false, 0, apperr.NotFound("Blog not found")
	}
	if err != nil {
		return false, 0, fmt.Errorf("toggle lookup: %w", err)
	}
	if !published {
		return false, 0, apperr.NotFound("Blog not found")
	}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM post_likes WHERE post_id = $1 AND identifier = $2`,
		postID, who.Identifier)
	if err != nil {
		return false, 0, fmt.Errorf("toggle delete: %w", err)
	}
	removed, _ := res.RowsAffected()

	if removed == 0 {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO post_likes (post_id, identifier, is_authenticated, account_id)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (post_id, identifier) DO NOTHING`,
			postID, who.Identifier, who.Authenticated, who.AccountID)
		if err != nil {
			return false, 0, fmt.Errorf("toggle insert: %w", err)
		}
		liked = true
	}

	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM post_likes WHERE post_id = $1`, postID).Scan(&count)
	if err != nil {
		return false, 0, fmt.Errorf("toggle count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, 0, fmt.Errorf("commit toggle: %w", err)
	}
	return liked, count, nil
}

// Status reports whether an identity currently likes a post, and the post's
// like count. Works for any post status so authors can inspect drafts.
func (s *EngagementStore) Status(ctx context.Context, postID uuid.UUID, who identity.Identity) (liked bool, count int, err error) {
	err = s.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM post_likes WHERE post_id = $1 AND identifier = $2),
		       (SELECT COUNT(*) FROM post_likes WHERE post_id = $1)`,
		postID, who.Identifier).Scan(&liked, &count)
	if err != nil {
		return false, 0, fmt.Errorf("like status: %w", err)
	}
	return liked, count, nil
}
