// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"blogd/internal/models"
)

func TestCareerStoreCreate(t *testing.T) {
	db := testDB(t)
	s := NewCareerStore(db)
	ctx := context.Background()

	email := "test-career-create@store-test.local"
	t.Cleanup(func() { cleanCareers(t, db, email) })

	created, err := s.Create(ctx, &models.CareerApplication{
		FirstName:   "Ada",
		LastName:    "Lovelace",
		PhoneNumber: "+40700000000",
		Email:       email,
		Role:        "Backend Engineer",
		CVURL:       "https://cdn.example.com/cv/ada.pdf",
		CVPath:      "cv/ada.pdf",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Error("expected non-nil UUID")
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}
	if created.Role != "Backend Engineer" {
		t.Errorf("role: got %q", created.Role)
	}
}

func TestCareerStoreListNewestFirst(t *testing.T) {
	db := testDB(t)
	s := NewCareerStore(db)
	ctx := context.Background()

	emailA := "test-career-list-a@store-test.local"
	emailB := "test-career-list-b@store-test.local"
	t.Cleanup(func() { cleanCareers(t, db, emailA, emailB) })

	for _, email := range []string{emailA, emailB} {
		_, err := s.Create(ctx, &models.CareerApplication{
			FirstName: "List", LastName: "Test", Email: email,
			Role: "QA", CVURL: "https://cdn.example.com/cv/x.pdf", CVPath: "cv/x.pdf",
		})
		if err != nil {
			t.Fatalf("Create %s: %v", email, err)
		}
	}

	items, total, err := s.List(ctx, 1, 100)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total < 2 {
		t.Errorf("total: got %d, want >= 2", total)
	}
	for i := 1; i < len(items); i++ {
		if items[i].CreatedAt.After(items[i-1].CreatedAt) {
			t.Errorf("list not newest-first at index %d", i)
		}
	}
}
