// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"blogd/internal/models"
)

// CareerStore persists job applications from the careers intake form.
type CareerStore struct {
	db *sql.DB
}

// NewCareerStore creates a new CareerStore with the given database
// connection.
func NewCareerStore(db *sql.DB) *CareerStore {
	return &CareerStore{db: db}
}

const careerColumns = `id, first_name, last_name, phone_number, email, role, cv_url, cv_path, created_at`

func scanCareer(scanner interface{ Scan(...any) error }) (*models.CareerApplication, error) {
	a := &models.CareerApplication{}
	err := scanner.Scan(&a.ID, &a.FirstName, &a.LastName, &a.PhoneNumber,
		&a.Email, &a.Role, &a.CVURL, &a.CVPath, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Create records a new application. The CV is already uploaded; url and
// path point at the stored object.
func (s *CareerStore) Create(ctx context.Context, a *models.CareerApplication) (*models.CareerApplication, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO career_applications (first_name, last_name, phone_number, email, role, cv_url, cv_path)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+careerColumns,
		a.FirstName, a.LastName, a.PhoneNumber, a.Email, a.Role, a.CVURL, a.CVPath)
	created, err := scanCareer(row)
	if err != nil {
		return nil, fmt.Errorf("create application: %w", err)
	}
	return created, nil
}

// List returns a page of applications, newest first, plus the total count.
func (s *CareerStore) List(ctx context.Context, page, limit int) ([]models.CareerApplication, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM career_applications`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count applications: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+careerColumns+`
		FROM career_applications
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	var items []models.CareerApplication
	for rows.Next() {
		a, err := scanCareer(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan application: %w", err)
		}
		items = append(items, *a)
	}
	return items, total, rows.Err()
}
