// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"blogd/internal/apperr"
	"blogd/internal/cache"
	"blogd/internal/models"
	"blogd/internal/store"
)

// Category groups the category management endpoints.
type Category struct {
	categories *store.CategoryStore
	listings   *cache.ListingCache
}

// NewCategory creates a new Category handler group.
func NewCategory(categories *store.CategoryStore, listings *cache.ListingCache) *Category {
	return &Category{categories: categories, listings: listings}
}

// List returns all categories with their published-post counts. Pass
// activeOnly=true to hide deactivated ones. Cached with the listings.
func (c *Category) List(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("activeOnly") == "true"

	cacheKey := "categories:" + r.URL.RawQuery
	if body, ok := c.listings.Get(r.Context(), cacheKey); ok {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Write(body)
		return
	}

	cats, err := c.categories.List(r.Context(), activeOnly)
	if err != nil {
		respondError(w, err)
		return
	}
	if cats == nil {
		cats = []models.Category{}
	}

	env := Envelope{Success: true, Data: map[string]any{"categories": cats}}
	body, err := json.Marshal(env)
	if err != nil {
		respondError(w, apperr.Internal(err))
		return
	}
	c.listings.Set(r.Context(), cacheKey, body)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Write(body)
}

// Get returns a single category by id.
func (c *Category) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, apperr.Validation("Invalid category id"))
		return
	}

	cat, err := c.categories.FindByID(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	if cat == nil {
		respondError(w, apperr.NotFound("Category not found"))
		return
	}
	respondData(w, http.StatusOK, map[string]any{"category": cat})
}

type createCategoryRequest struct {
	Name        string `json:"name" validate:"required,max=50"`
	Description string `json:"description" validate:"max=200"`
	Icon        int    `json:"icon" validate:"omitempty,gte=1,lte=100"`
	SortOrder   int    `json:"sortOrder" validate:"gte=0"`
}

// Create adds a category. The slug is derived from the name with suffix
// probing, so names that normalize identically still get distinct slugs.
func (c *Category) Create(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := checkValid(req); err != nil {
		respondError(w, err)
		return
	}
	if req.Icon == 0 {
		req.Icon = 1
	}

	cat, err := c.categories.Create(r.Context(),
		strings.TrimSpace(req.Name), req.Description, req.Icon, req.SortOrder)
	if err != nil {
		respondError(w, err)
		return
	}

	c.listings.InvalidateAll(r.Context())
	respondMessage(w, http.StatusCreated, "Category created", map[string]any{"category": cat})
}

type updateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=50"`
	Description *string `json:"description" validate:"omitempty,max=200"`
	Icon        *int    `json:"icon" validate:"omitempty,gte=1,lte=100"`
	SortOrder   *int    `json:"sortOrder" validate:"omitempty,gte=0"`
	IsActive    *bool   `json:"isActive"`
}

// Update applies a partial category update. A renamed category gets a
// freshly derived slug.
func (c *Category) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, apperr.Validation("Invalid category id"))
		return
	}

	var req updateCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := checkValid(req); err != nil {
		respondError(w, err)
		return
	}

	cat, err := c.categories.Update(r.Context(), id, store.CategoryUpdate{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		SortOrder:   req.SortOrder,
		IsActive:    req.IsActive,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	c.listings.InvalidateAll(r.Context())
	respondMessage(w, http.StatusOK, "Category updated", map[string]any{"category": cat})
}

// ToggleActive flips a category's visibility.
func (c *Category) ToggleActive(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, apperr.Validation("Invalid category id"))
		return
	}

	cat, err := c.categories.ToggleActive(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	c.listings.InvalidateAll(r.Context())
	respondMessage(w, http.StatusOK, "Category toggled", map[string]any{"category": cat})
}

// Delete removes a category. Posts keep their reference; their category
// simply stops resolving.
func (c *Category) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, apperr.Validation("Invalid category id"))
		return
	}

	if err := c.categories.Delete(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}

	c.listings.InvalidateAll(r.Context())
	respondMessage(w, http.StatusOK, "Category deleted", nil)
}

type reorderRequest struct {
	Categories []store.ReorderItem `json:"categories" validate:"required,min=1"`
}

// Reorder updates sort positions for a batch of categories atomically.
func (c *Category) Reorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := checkValid(req); err != nil {
		respondError(w, err)
		return
	}

	if err := c.categories.Reorder(r.Context(), req.Categories); err != nil {
		respondError(w, err)
		return
	}

	c.listings.InvalidateAll(r.Context())
	respondMessage(w, http.StatusOK, "Categories reordered", nil)
}
