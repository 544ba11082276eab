// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"blogd/internal/apperr"
	"blogd/internal/models"
	"blogd/internal/slug"
)

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, slug, description, is_active, icon, sort_order, created_at, updated_at`

func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	c := &models.Category{}
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description,
		&c.IsActive, &c.Icon, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// SlugExists reports whether a category slug is taken, optionally excluding
// one category (when renaming).
func (s *CategoryStore) SlugExists(ctx context.Context, candidate string, excludeID *uuid.UUID) (bool, error) {
	var exists bool
	var err error
	if excludeID == nil {
		err = s.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM categories WHERE slug = $1)`, candidate).Scan(&exists)
	} else {
		err = s.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM categories WHERE slug = $1 AND id <> $2)`, candidate, *excludeID).Scan(&exists)
	}
	if err != nil {
		return false, fmt.Errorf("category slug exists: %w", err)
	}
	return exists, nil
}

// Create inserts a new category. The slug is derived from the name with
// suffix probing, so even if two names normalize identically both get a
// working slug. A raced name collision surfaces as Duplicate.
func (s *CategoryStore) Create(ctx context.Context, name, description string, icon, sortOrder int) (*models.Category, error) {
	catSlug, err := slug.Unique(ctx, name, func(ctx context.Context, candidate string) (bool, error) {
		return s.SlugExists(ctx, candidate, nil)
	})
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO categories (name, slug, description, icon, sort_order)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+categoryColumns,
		name, catSlug, description, icon, sortOrder,
	)
	c, err := scanCategory(row)
	if err != nil {
		if violatedConstraint(err) != "" {
			return nil, apperr.Duplicate("name", "Category with this name already exists")
		}
		return nil, fmt.Errorf("create category: %w", err)
	}
	return c, nil
}

// List returns categories ordered by (sort_order, name), each annotated
// with its count of published posts. The count is computed on read, never
// stored. When activeOnly is set, inactive categories are filtered out.
func (s *CategoryStore) List(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	query := `
		SELECT c.id, c.name, c.slug, c.description, c.is_active, c.icon, c.sort_order,
		       c.created_at, c.updated_at,
		       COUNT(p.id) FILTER (WHERE p.status = 'published') AS blog_count
		FROM categories c
		LEFT JOIN posts p ON p.category_id = c.id
	`
	if activeOnly {
		query += ` WHERE c.is_active`
	}
	query += `
		GROUP BY c.id
		ORDER BY c.sort_order, c.name
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		var c models.Category
		err := rows.Scan(
			&c.ID, &c.Name, &c.Slug, &c.Description, &c.IsActive, &c.Icon,
			&c.SortOrder, &c.CreatedAt, &c.UpdatedAt, &c.BlogCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// CategoryUpdate carries the fields an update may change. Nil fields are
// left untouched.
type CategoryUpdate struct {
	Name        *string
	Description *string
	Icon        *int
	SortOrder   *int
	IsActive    *bool
}

// Update applies a partial category update. A name change re-derives the
// slug with suffix probing, excluding the category's own row.
func (s *CategoryStore) Update(ctx context.Context, id uuid.UUID, in CategoryUpdate) (*models.Category, error) {
	c, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFound("Category not found")
	}

	if in.Name != nil && *in.Name != c.Name {
		c.Name = *in.Name
		c.Slug, err = slug.Unique(ctx, c.Name, func(ctx context.Context, candidate string) (bool, error) {
			return s.SlugExists(ctx, candidate, &id)
		})
		if err != nil {
			return nil, err
		}
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.Icon != nil {
		c.Icon = *in.Icon
	}
	if in.SortOrder != nil {
		c.SortOrder = *in.SortOrder
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}

	row := s.db.QueryRowContext(ctx, `
		UPDATE categories SET
			name = $1, slug = $2, description = $3, is_active = $4,
			icon = $5, sort_order = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING `+categoryColumns,
		c.Name, c.Slug, c.Description, c.IsActive, c.Icon, c.SortOrder, id,
	)
	updated, err := scanCategory(row)
	if err != nil {
		if violatedConstraint(err) != "" {
			return nil, apperr.Duplicate("name", "Category with this name already exists")
		}
		return nil, fmt.Errorf("update category: %w", err)
	}
	return updated, nil
}

// ToggleActive flips the active flag and returns the new state.
func (s *CategoryStore) ToggleActive(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE categories SET is_active = NOT is_active, updated_at = NOW()
		WHERE id = $1
		RETURNING `+categoryColumns, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("Category not found")
	}
	if err != nil {
		return nil, fmt.Errorf("toggle category: %w", err)
	}
	return c, nil
}

// Delete removes a category. Posts referencing it keep their (now dangling)
// category id; no cascade or reassignment is performed.
func (s *CategoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("Category not found")
	}
	return nil
}

// ReorderItem represents a single item in a reorder request.
type ReorderItem struct {
	ID    uuid.UUID `json:"id"`
	Order int       `json:"order"`
}

// Reorder updates sort_order for multiple categories in one transaction.
func (s *CategoryStore) Reorder(ctx context.Context, items []ReorderItem) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		UPDATE categories SET sort_order = $1, updated_at = $2 WHERE id = $3`)
	if err != nil {
		return fmt.Errorf("prepare reorder: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, item := range items {
		if _, err := stmt.ExecContext(ctx, item.Order, now, item.ID); err != nil {
			return fmt.Errorf("reorder category %s: %w", item.ID, err)
		}
	}

	return tx.Commit()
}
