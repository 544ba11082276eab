// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"blogd/internal/apperr"
	"blogd/internal/cache"
	"blogd/internal/identity"
	"blogd/internal/middleware"
	"blogd/internal/models"
	"blogd/internal/storage"
	"blogd/internal/store"
)

// Blog groups the post endpoints: listing, reads with view counting,
// authoring, and the like toggle.
type Blog struct {
	posts      *store.PostStore
	engagement *store.EngagementStore
	storage    *storage.Client
	listings   *cache.ListingCache
}

// NewBlog creates a new Blog handler group.
func NewBlog(posts *store.PostStore, engagement *store.EngagementStore, st *storage.Client, listings *cache.ListingCache) *Blog {
	return &Blog{posts: posts, engagement: engagement, storage: st, listings: listings}
}

// List returns a filtered, paginated page of posts. Responses are cached
// keyed on the full query string; any post or category write invalidates
// the whole listing cache.
func (b *Blog) List(w http.ResponseWriter, r *http.Request) {
	cacheKey := "blogs:" + r.URL.RawQuery
	if body, ok := b.listings.Get(r.Context(), cacheKey); ok {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Write(body)
		return
	}

	opts := store.ListOptions{
		Status:    r.URL.Query().Get("status"),
		Search:    strings.TrimSpace(r.URL.Query().Get("search")),
		SortBy:    r.URL.Query().Get("sortBy"),
		SortOrder: r.URL.Query().Get("sortOrder"),
	}
	opts.Page, opts.Limit = pageParams(r, 10)

	if raw := r.URL.Query().Get("category"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(w, apperr.Validation("Invalid category id"))
			return
		}
		opts.CategoryID = &id
	}
	if raw := r.URL.Query().Get("author"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(w, apperr.Validation("Invalid author id"))
			return
		}
		opts.AuthorID = &id
	}

	items, total, err := b.posts.List(r.Context(), opts)
	if err != nil {
		respondError(w, err)
		return
	}
	if items == nil {
		items = []models.Post{}
	}

	env := Envelope{Success: true, Data: map[string]any{
		"blogs":      items,
		"pagination": paginate(opts.Page, opts.Limit, total),
	}}
	body, err := json.Marshal(env)
	if err != nil {
		respondError(w, apperr.Internal(err))
		return
	}
	b.listings.Set(r.Context(), cacheKey, body)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Write(body)
}

// Stats returns aggregate post counters. Cached alongside the listings.
func (b *Blog) Stats(w http.ResponseWriter, r *http.Request) {
	const cacheKey = "stats"
	if body, ok := b.listings.Get(r.Context(), cacheKey); ok {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Write(body)
		return
	}

	stats, err := b.posts.Stats(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	env := Envelope{Success: true, Data: map[string]any{"stats": stats}}
	body, err := json.Marshal(env)
	if err != nil {
		respondError(w, apperr.Internal(err))
		return
	}
	b.listings.Set(r.Context(), cacheKey, body)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Write(body)
}

// GetBySlug returns one post by slug, bumping its view counter when
// published. Never served from cache: the view count side effect must
// reach the database on every read.
func (b *Blog) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	post, err := b.posts.RecordView(r.Context(), slug)
	if err != nil {
		respondError(w, err)
		return
	}

	who := b.requestIdentity(r)
	isLiked, likeCount, err := b.engagement.Status(r.Context(), post.ID, who)
	if err != nil {
		respondError(w, err)
		return
	}
	post.LikeCount = likeCount

	respondData(w, http.StatusOK, map[string]any{
		"blog":    post,
		"isLiked": isLiked,
	})
}

type createBlogRequest struct {
	Title           string   `json:"title" validate:"required,max=200"`
	Content         string   `json:"content" validate:"required,min=10"`
	Excerpt         string   `json:"excerpt" validate:"omitempty,max=300"`
	Category        string   `json:"category" validate:"required,uuid"`
	Tags            []string `json:"tags"`
	Status          string   `json:"status" validate:"omitempty,oneof=draft published"`
	MetaTitle       string   `json:"metaTitle" validate:"max=200"`
	MetaDescription string   `json:"metaDescription" validate:"max=500"`
	MetaKeywords    []string `json:"metaKeywords"`
	IsFeatured      bool     `json:"isFeatured"`
}

// Create publishes or drafts a new post. Accepts a JSON body, or a
// multipart form with the same fields plus an optional featuredImage file.
func (b *Blog) Create(w http.ResponseWriter, r *http.Request) {
	accountID, _ := middleware.AccountIDFromCtx(r.Context())

	var req createBlogRequest
	var imageURL, imageKey string
	var err error
	if isMultipart(r) {
		req, imageURL, imageKey, err = b.createFromMultipart(r)
		if err != nil {
			respondError(w, err)
			return
		}
	} else if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	if err := checkValid(req); err != nil {
		respondError(w, err)
		return
	}

	status := models.PostStatus(req.Status)
	if req.Status == "" {
		status = models.PostStatusDraft
	}
	categoryID, err := uuid.Parse(req.Category)
	if err != nil {
		respondError(w, apperr.Validation("Invalid category id"))
		return
	}

	post, err := b.posts.Create(r.Context(), store.CreatePostInput{
		Title:            req.Title,
		Content:          req.Content,
		Excerpt:          req.Excerpt,
		CategoryID:       categoryID,
		Tags:             normalizeTags(req.Tags),
		Status:           status,
		FeaturedImage:    imageURL,
		FeaturedImageKey: imageKey,
		MetaTitle:        req.MetaTitle,
		MetaDescription:  req.MetaDescription,
		MetaKeywords:     normalizeTags(req.MetaKeywords),
		IsFeatured:       req.IsFeatured,
		AuthorID:         accountID,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	b.listings.InvalidateAll(r.Context())
	respondMessage(w, http.StatusCreated, "Blog created", map[string]any{"blog": post})
}

// createFromMultipart reads the post fields from form values and uploads
// the featuredImage part if one is attached. The part may be an image or a
// video; each gets its own type and size rule.
func (b *Blog) createFromMultipart(r *http.Request) (createBlogRequest, string, string, error) {
	var req createBlogRequest

	// The body cap must fit the largest acceptable part, a video.
	limit := storage.MediaVideoRule.MaxBytes + multipartOverhead
	r.Body = http.MaxBytesReader(nil, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		return req, "", "", apperr.UploadRejected("File too large").WithCause(err)
	}

	form := r.MultipartForm.Value
	value := func(name string) string {
		if vals, ok := form[name]; ok && len(vals) > 0 {
			return vals[0]
		}
		return ""
	}
	req.Title = value("title")
	req.Content = value("content")
	req.Excerpt = value("excerpt")
	req.Category = value("category")
	req.Status = value("status")
	req.MetaTitle = value("metaTitle")
	req.MetaDescription = value("metaDescription")
	req.Tags = form["tags"]
	req.MetaKeywords = form["metaKeywords"]
	req.IsFeatured = value("isFeatured") == "true"

	file, header, err := r.FormFile("featuredImage")
	if err != nil {
		// No media part.
		return req, "", "", nil
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	rule, err := storage.MediaRuleFor(contentType)
	if err != nil {
		return req, "", "", err
	}
	if err := rule.Check(contentType, header.Filename, header.Size); err != nil {
		return req, "", "", err
	}

	if b.storage == nil {
		return req, "", "", apperr.Internal(fmt.Errorf("object storage not configured"))
	}

	key := fmt.Sprintf("featured/%s%s", uuid.New(), strings.ToLower(filepath.Ext(header.Filename)))
	bucket := b.storage.MediaBucket()
	if err := b.storage.Upload(r.Context(), bucket, key, contentType, file, header.Size); err != nil {
		return req, "", "", apperr.Internal(err)
	}
	return req, b.storage.FileURL(bucket, key), key, nil
}

type updateBlogRequest struct {
	Title           *string   `json:"title" validate:"omitempty,max=200"`
	Content         *string   `json:"content" validate:"omitempty,min=10"`
	Excerpt         *string   `json:"excerpt" validate:"omitempty,max=300"`
	Category        *string   `json:"category" validate:"omitempty,uuid"`
	Tags            *[]string `json:"tags"`
	Status          *string   `json:"status" validate:"omitempty,oneof=draft published"`
	FeaturedImage   *string   `json:"featuredImage" validate:"omitempty,url"`
	MetaTitle       *string   `json:"metaTitle" validate:"omitempty,max=200"`
	MetaDescription *string   `json:"metaDescription" validate:"omitempty,max=500"`
	MetaKeywords    *[]string `json:"metaKeywords"`
	IsFeatured      *bool     `json:"isFeatured"`
}

// Update applies a partial update to a post. Absent fields are untouched.
func (b *Blog) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, apperr.Validation("Invalid blog id"))
		return
	}

	var req updateBlogRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	// Provided fields get the same treatment as on create: trimmed, and a
	// title must stay non-blank or the slug would regenerate from nothing.
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			respondError(w, apperr.ValidationFields(map[string]string{"title": "is required"}))
			return
		}
		req.Title = &title
	}
	if req.Content != nil {
		content := strings.TrimSpace(*req.Content)
		req.Content = &content
	}
	if err := checkValid(req); err != nil {
		respondError(w, err)
		return
	}

	in := store.UpdatePostInput{
		Title:           req.Title,
		Content:         req.Content,
		Excerpt:         req.Excerpt,
		FeaturedImage:   req.FeaturedImage,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		IsFeatured:      req.IsFeatured,
	}
	if req.Category != nil {
		categoryID, err := uuid.Parse(*req.Category)
		if err != nil {
			respondError(w, apperr.Validation("Invalid category id"))
			return
		}
		in.CategoryID = &categoryID
	}
	if req.Status != nil {
		status := models.PostStatus(*req.Status)
		in.Status = &status
	}
	if req.Tags != nil {
		in.HasTags = true
		in.Tags = normalizeTags(*req.Tags)
	}
	if req.MetaKeywords != nil {
		in.HasMetaKeywords = true
		in.MetaKeywords = normalizeTags(*req.MetaKeywords)
	}

	post, err := b.posts.Update(r.Context(), id, in)
	if err != nil {
		respondError(w, err)
		return
	}

	b.listings.InvalidateAll(r.Context())
	respondMessage(w, http.StatusOK, "Blog updated", map[string]any{"blog": post})
}

// Delete removes a post and its engagement ledger entries.
func (b *Blog) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, apperr.Validation("Invalid blog id"))
		return
	}

	if err := b.posts.Delete(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}

	b.listings.InvalidateAll(r.Context())
	respondMessage(w, http.StatusOK, "Blog deleted", nil)
}

// ToggleLike flips the caller's like on a published post. Authenticated
// callers are identified by account; everyone else by a stable
// address+agent fingerprint.
func (b *Blog) ToggleLike(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, apperr.Validation("Invalid blog id"))
		return
	}

	who := b.requestIdentity(r)
	isLiked, likeCount, err := b.engagement.Toggle(r.Context(), id, who)
	if err != nil {
		respondError(w, err)
		return
	}

	b.listings.InvalidateAll(r.Context())

	message := "Blog unliked"
	if isLiked {
		message = "Blog liked"
	}
	respondMessage(w, http.StatusOK, message, map[string]any{
		"isLiked":   isLiked,
		"likeCount": likeCount,
	})
}

// requestIdentity resolves the caller to an engagement identity.
func (b *Blog) requestIdentity(r *http.Request) identity.Identity {
	if accountID, ok := middleware.AccountIDFromCtx(r.Context()); ok {
		return identity.FromAccount(accountID)
	}
	return identity.FromRequest(r)
}
