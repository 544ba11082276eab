// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"blogd/internal/apperr"
)

func TestCategoryStoreCreate(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)
	ctx := context.Background()

	name := "Test Create Category"
	t.Cleanup(func() { cleanCategories(t, db, name) })

	cat, err := s.Create(ctx, name, "a description", 7, 3)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if cat.ID == uuid.Nil {
		t.Error("expected non-nil UUID")
	}
	if cat.Slug != "test-create-category" {
		t.Errorf("slug: got %q, want %q", cat.Slug, "test-create-category")
	}
	if !cat.IsActive {
		t.Error("new category should be active")
	}
	if cat.Icon != 7 {
		t.Errorf("icon: got %d, want 7", cat.Icon)
	}
	if cat.SortOrder != 3 {
		t.Errorf("sort order: got %d, want 3", cat.SortOrder)
	}
}

func TestCategoryStoreCreateDuplicateName(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)
	ctx := context.Background()

	name := "Test Duplicate Category"
	t.Cleanup(func() { cleanCategories(t, db, name) })

	if _, err := s.Create(ctx, name, "", 1, 0); err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err := s.Create(ctx, name, "", 1, 0)
	if !errors.Is(err, apperr.ErrDuplicate) {
		t.Errorf("duplicate name: got %v, want ErrDuplicate", err)
	}
}

func TestCategoryStoreSlugCollisionGetsSuffix(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)
	ctx := context.Background()

	// Distinct names that normalize to the same slug.
	nameA := "Test Suffix/Category"
	nameB := "Test Suffix Category"
	t.Cleanup(func() { cleanCategories(t, db, nameA, nameB) })

	a, err := s.Create(ctx, nameA, "", 1, 0)
	if err != nil {
		t.Fatalf("Create A: %v", err)
	}
	b, err := s.Create(ctx, nameB, "", 1, 0)
	if err != nil {
		t.Fatalf("Create B: %v", err)
	}
	if a.Slug != "test-suffix-category" {
		t.Errorf("first slug: got %q", a.Slug)
	}
	if b.Slug != "test-suffix-category-1" {
		t.Errorf("second slug: got %q, want suffix -1", b.Slug)
	}
}

func TestCategoryStoreListWithCounts(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)
	ctx := context.Background()

	name := "Test List Category"
	t.Cleanup(func() { cleanCategories(t, db, name) })

	created, err := s.Create(ctx, name, "", 1, 999)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	cats, err := s.List(ctx, false)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var found bool
	for _, c := range cats {
		if c.ID == created.ID {
			found = true
			if c.BlogCount != 0 {
				t.Errorf("blog count for empty category: got %d, want 0", c.BlogCount)
			}
		}
	}
	if !found {
		t.Error("created category missing from list")
	}
}

func TestCategoryStoreListActiveOnly(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)
	ctx := context.Background()

	name := "Test Inactive Category"
	t.Cleanup(func() { cleanCategories(t, db, name) })

	created, err := s.Create(ctx, name, "", 1, 0)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := s.ToggleActive(ctx, created.ID); err != nil {
		t.Fatalf("ToggleActive: %v", err)
	}

	cats, err := s.List(ctx, true)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for _, c := range cats {
		if c.ID == created.ID {
			t.Error("inactive category should be excluded from active-only list")
		}
	}
}

func TestCategoryStoreUpdateRenameRegeneratesSlug(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)
	ctx := context.Background()

	oldName := "Test Rename Before"
	newName := "Test Rename After"
	t.Cleanup(func() { cleanCategories(t, db, oldName, newName) })

	created, err := s.Create(ctx, oldName, "", 1, 0)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := s.Update(ctx, created.ID, CategoryUpdate{Name: &newName})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != newName {
		t.Errorf("name: got %q, want %q", updated.Name, newName)
	}
	if updated.Slug != "test-rename-after" {
		t.Errorf("slug: got %q, want %q", updated.Slug, "test-rename-after")
	}
}

func TestCategoryStoreToggleActive(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)
	ctx := context.Background()

	name := "Test Toggle Category"
	t.Cleanup(func() { cleanCategories(t, db, name) })

	created, err := s.Create(ctx, name, "", 1, 0)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	off, err := s.ToggleActive(ctx, created.ID)
	if err != nil {
		t.Fatalf("ToggleActive: %v", err)
	}
	if off.IsActive {
		t.Error("expected inactive after first toggle")
	}

	on, err := s.ToggleActive(ctx, created.ID)
	if err != nil {
		t.Fatalf("ToggleActive: %v", err)
	}
	if !on.IsActive {
		t.Error("expected active after second toggle")
	}
}

func TestCategoryStoreDelete(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)
	ctx := context.Background()

	name := "Test Delete Category"
	t.Cleanup(func() { cleanCategories(t, db, name) })

	created, err := s.Create(ctx, name, "", 1, 0)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	cat, err := s.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if cat != nil {
		t.Error("expected nil after delete")
	}

	if err := s.Delete(ctx, created.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("double delete: got %v, want ErrNotFound", err)
	}
}

func TestCategoryStoreReorder(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)
	ctx := context.Background()

	nameA := "Test Reorder A"
	nameB := "Test Reorder B"
	t.Cleanup(func() { cleanCategories(t, db, nameA, nameB) })

	a, err := s.Create(ctx, nameA, "", 1, 0)
	if err != nil {
		t.Fatalf("Create A: %v", err)
	}
	b, err := s.Create(ctx, nameB, "", 1, 1)
	if err != nil {
		t.Fatalf("Create B: %v", err)
	}

	err = s.Reorder(ctx, []ReorderItem{{ID: a.ID, Order: 10}, {ID: b.ID, Order: 5}})
	if err != nil {
		t.Fatalf("Reorder: %v", err)
	}

	ra, _ := s.FindByID(ctx, a.ID)
	rb, _ := s.FindByID(ctx, b.ID)
	if ra.SortOrder != 10 {
		t.Errorf("A sort order: got %d, want 10", ra.SortOrder)
	}
	if rb.SortOrder != 5 {
		t.Errorf("B sort order: got %d, want 5", rb.SortOrder)
	}
}
