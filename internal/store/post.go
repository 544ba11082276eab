// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"blogd/internal/apperr"
	"blogd/internal/models"
	"blogd/internal/slug"
)

// PostStore handles all blog-post database operations, including slug
// assignment and publish-date transitions.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

// postColumns is the populated projection: post fields, like count, and the
// author/category summaries joined at read time.
const postColumns = `
	p.id, p.title, p.slug, p.content, p.excerpt,
	p.featured_image_url, p.featured_image_key,
	p.author_id, p.category_id, p.tags, p.status, p.publish_date,
	p.meta_title, p.meta_description, p.meta_keywords,
	p.is_featured, p.read_time, p.views, p.created_at, p.updated_at,
	(SELECT COUNT(*) FROM post_likes pl WHERE pl.post_id = p.id) AS like_count,
	u.username, u.first_name, u.last_name, u.profile_photo_url,
	c.id, c.name, c.slug, c.icon`

// postFrom joins the read-time summaries. The category join is LEFT because
// category deletion leaves posts with a dangling reference.
const postFrom = `
	FROM posts p
	JOIN users u ON u.id = p.author_id
	LEFT JOIN categories c ON c.id = p.category_id`

func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	p := &models.Post{}
	var tags, metaKeywords string
	var username, firstName, lastName, profilePhoto string
	var catID uuid.NullUUID
	var catName, catSlug sql.NullString
	var catIcon sql.NullInt64

	err := scanner.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt,
		&p.FeaturedImage, &p.FeaturedImageKey,
		&p.AuthorID, &p.CategoryID, &tags, &p.Status, &p.PublishDate,
		&p.MetaTitle, &p.MetaDescription, &metaKeywords,
		&p.IsFeatured, &p.ReadTime, &p.Views, &p.CreatedAt, &p.UpdatedAt,
		&p.LikeCount,
		&username, &firstName, &lastName, &profilePhoto,
		&catID, &catName, &catSlug, &catIcon,
	)
	if err != nil {
		return nil, err
	}

	p.Tags = splitTags(tags)
	p.MetaKeywords = splitTags(metaKeywords)
	p.Author = &models.AuthorSummary{
		ID:           p.AuthorID,
		Username:     username,
		FirstName:    firstName,
		LastName:     lastName,
		ProfilePhoto: profilePhoto,
	}
	if catID.Valid {
		p.Category = &models.CategorySummary{
			ID:   catID.UUID,
			Name: catName.String,
			Slug: catSlug.String,
			Icon: int(catIcon.Int64),
		}
	}
	return p, nil
}

// splitTags decodes the comma-joined tag column.
func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// joinTags encodes a tag list for storage.
func joinTags(tags []string) string {
	return strings.Join(tags, ",")
}

// SlugExists reports whether a post slug is taken, optionally excluding one
// post (when a title update regenerates its own slug).
func (s *PostStore) SlugExists(ctx context.Context, candidate string, excludeID *uuid.UUID) (bool, error) {
	var exists bool
	var err error
	if excludeID == nil {
		err = s.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM posts WHERE slug = $1)`, candidate).Scan(&exists)
	} else {
		err = s.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM posts WHERE slug = $1 AND id <> $2)`, candidate, *excludeID).Scan(&exists)
	}
	if err != nil {
		return false, fmt.Errorf("post slug exists: %w", err)
	}
	return exists, nil
}

// categoryExists resolves a category reference at write time.
func (s *PostStore) categoryExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("category exists: %w", err)
	}
	return exists, nil
}

// readTime estimates reading minutes at 200 words per minute, minimum 1.
func readTime(content string) int {
	words := len(strings.Fields(content))
	rt := (words + 199) / 200
	if rt < 1 {
		rt = 1
	}
	return rt
}

// CreatePostInput is the validated input for Create. Tags and meta keywords
// are already normalized by the caller.
type CreatePostInput struct {
	Title            string
	Content          string
	Excerpt          string
	CategoryID       uuid.UUID
	Tags             []string
	Status           models.PostStatus
	FeaturedImage    string
	FeaturedImageKey string
	MetaTitle        string
	MetaDescription  string
	MetaKeywords     []string
	IsFeatured       bool
	AuthorID         uuid.UUID
}

// Create inserts a new post. The slug is derived from the title with
// uniqueness probing; publish_date is stamped iff the post is created
// already published. The slug unique index is the authoritative guard: if a
// concurrent create wins the same slug between probe and insert, slug
// generation is retried once against the now-visible row before giving up
// with Duplicate.
func (s *PostStore) Create(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	ok, err := s.categoryExists(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.CategoryNotFound()
	}

	if in.MetaTitle == "" {
		in.MetaTitle = in.Title
	}
	if in.MetaDescription == "" {
		in.MetaDescription = in.Excerpt
	}

	var publishDate *time.Time
	if in.Status == models.PostStatusPublished {
		now := time.Now()
		publishDate = &now
	}

	probe := func(ctx context.Context, candidate string) (bool, error) {
		return s.SlugExists(ctx, candidate, nil)
	}

	for attempt := 0; ; attempt++ {
		postSlug, err := slug.Unique(ctx, in.Title, probe)
		if err != nil {
			return nil, err
		}

		p, err := s.insert(ctx, in, postSlug, publishDate)
		if err == nil {
			return p, nil
		}
		if violatedConstraint(err) != "" && attempt == 0 {
			// Lost the probe/insert race; re-probe once and retry.
			continue
		}
		if violatedConstraint(err) != "" {
			return nil, apperr.Duplicate("slug", "Slug already exists")
		}
		return nil, err
	}
}

func (s *PostStore) insert(ctx context.Context, in CreatePostInput, postSlug string, publishDate *time.Time) (*models.Post, error) {
	var id uuid.UUID
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO posts (title, slug, content, excerpt, featured_image_url, featured_image_key,
		                   author_id, category_id, tags, status, publish_date,
		                   meta_title, meta_description, meta_keywords, is_featured, read_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id`,
		in.Title, postSlug, in.Content, in.Excerpt, in.FeaturedImage, in.FeaturedImageKey,
		in.AuthorID, in.CategoryID, joinTags(in.Tags), in.Status, publishDate,
		in.MetaTitle, in.MetaDescription, joinTags(in.MetaKeywords), in.IsFeatured, readTime(in.Content),
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return s.FindByID(ctx, id)
}

// FindByID retrieves a populated post by UUID. Returns nil if not found.
func (s *PostStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+postColumns+postFrom+` WHERE p.id = $1`, id)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

// FindBySlug retrieves a populated post by slug, any status. Reads are not
// access-controlled; drafts are simply not view-counted.
func (s *PostStore) FindBySlug(ctx context.Context, postSlug string) (*models.Post, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+postColumns+postFrom+` WHERE p.slug = $1`, postSlug)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	return p, nil
}

// RecordView fetches a post by slug and, when it is published, increments
// its view counter. The increment happens inside the UPDATE itself so
// concurrent reads never lose counts to a read-modify-write race.
func (s *PostStore) RecordView(ctx context.Context, postSlug string) (*models.Post, error) {
	p, err := s.FindBySlug(ctx, postSlug)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("Blog not found")
	}
	if !p.IsPublished() {
		return p, nil
	}

	err = s.db.QueryRowContext(ctx, `
		UPDATE posts SET views = views + 1
		WHERE id = $1 AND status = 'published'
		RETURNING views`, p.ID).Scan(&p.Views)
	if err == sql.ErrNoRows {
		// Unpublished between fetch and increment; serve the stale read.
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("record view: %w", err)
	}
	return p, nil
}

// UpdatePostInput carries the fields a partial update may change. Nil
// fields are left untouched.
type UpdatePostInput struct {
	Title            *string
	Content          *string
	Excerpt          *string
	CategoryID       *uuid.UUID
	Tags             []string
	HasTags          bool
	Status           *models.PostStatus
	FeaturedImage    *string
	FeaturedImageKey *string
	MetaTitle        *string
	MetaDescription  *string
	MetaKeywords     []string
	HasMetaKeywords  bool
	IsFeatured       *bool
}

// Update applies a partial update. A changed title regenerates the slug
// (excluding the post's own row from the probe). A transition into
// published stamps publish_date only if the post has never been published;
// published→draft→published keeps the original stamp.
func (s *PostStore) Update(ctx context.Context, id uuid.UUID, in UpdatePostInput) (*models.Post, error) {
	p, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("Blog not found")
	}

	if in.CategoryID != nil && *in.CategoryID != p.CategoryID {
		ok, err := s.categoryExists(ctx, *in.CategoryID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, apperr.CategoryNotFound()
		}
		p.CategoryID = *in.CategoryID
	}

	if in.Title != nil && *in.Title != p.Title {
		p.Title = *in.Title
		p.Slug, err = slug.Unique(ctx, p.Title, func(ctx context.Context, candidate string) (bool, error) {
			return s.SlugExists(ctx, candidate, &id)
		})
		if err != nil {
			return nil, err
		}
	}
	if in.Content != nil {
		p.Content = *in.Content
		p.ReadTime = readTime(p.Content)
	}
	if in.Excerpt != nil {
		p.Excerpt = *in.Excerpt
	}
	if in.HasTags {
		p.Tags = in.Tags
	}
	if in.Status != nil && *in.Status != p.Status {
		if *in.Status == models.PostStatusPublished && p.PublishDate == nil {
			now := time.Now()
			p.PublishDate = &now
		}
		p.Status = *in.Status
	}
	if in.FeaturedImage != nil {
		p.FeaturedImage = *in.FeaturedImage
	}
	if in.FeaturedImageKey != nil {
		p.FeaturedImageKey = *in.FeaturedImageKey
	}
	if in.MetaTitle != nil {
		p.MetaTitle = *in.MetaTitle
	}
	if in.MetaDescription != nil {
		p.MetaDescription = *in.MetaDescription
	}
	if in.HasMetaKeywords {
		p.MetaKeywords = in.MetaKeywords
	}
	if in.IsFeatured != nil {
		p.IsFeatured = *in.IsFeatured
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE posts SET
			title = $1, slug = $2, content = $3, excerpt = $4,
			featured_image_url = $5, featured_image_key = $6,
			category_id = $7, tags = $8, status = $9, publish_date = $10,
			meta_title = $11, meta_description = $12, meta_keywords = $13,
			is_featured = $14, read_time = $15, updated_at = NOW()
		WHERE id = $16`,
		p.Title, p.Slug, p.Content, p.Excerpt,
		p.FeaturedImage, p.FeaturedImageKey,
		p.CategoryID, joinTags(p.Tags), p.Status, p.PublishDate,
		p.MetaTitle, p.MetaDescription, joinTags(p.MetaKeywords),
		p.IsFeatured, p.ReadTime, id,
	)
	if err != nil {
		if violatedConstraint(err) != "" {
			return nil, apperr.Duplicate("slug", "Slug already exists")
		}
		return nil, fmt.Errorf("update post: %w", err)
	}
	return s.FindByID(ctx, id)
}

// Delete removes a post. Its engagement entries go with it (the likes table
// cascades on post deletion, mirroring an embedded collection's lifecycle).
func (s *PostStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("Blog not found")
	}
	return nil
}

// ListOptions filters and paginates the post listing.
type ListOptions struct {
	// Status filters by publishing state; "all" disables the filter.
	// Empty defaults to published.
	Status     string
	CategoryID *uuid.UUID
	AuthorID   *uuid.UUID
	// Search matches title, content, or tags, case-insensitively.
	Search    string
	SortBy    string // created_at, publish_date, views, title
	SortOrder string // asc or desc
	Page      int
	Limit     int
}

// listSortColumns whitelists sortable columns; anything else falls back to
// created_at.
var listSortColumns = map[string]string{
	"created_at":   "p.created_at",
	"publish_date": "p.publish_date",
	"views":        "p.views",
	"title":        "p.title",
}

// List returns a page of populated posts plus the total match count.
func (s *PostStore) List(ctx context.Context, opts ListOptions) ([]models.Post, int, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 {
		opts.Limit = 10
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Status == "" {
		opts.Status = string(models.PostStatusPublished)
	}

	var where []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if opts.Status != "all" {
		where = append(where, "p.status = "+arg(opts.Status))
	}
	if opts.CategoryID != nil {
		where = append(where, "p.category_id = "+arg(*opts.CategoryID))
	}
	if opts.AuthorID != nil {
		where = append(where, "p.author_id = "+arg(*opts.AuthorID))
	}
	if opts.Search != "" {
		pattern := arg("%" + opts.Search + "%")
		where = append(where, fmt.Sprintf(
			"(p.title ILIKE %s OR p.content ILIKE %s OR p.tags ILIKE %s)", pattern, pattern, pattern))
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM posts p`+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	sortCol, ok := listSortColumns[opts.SortBy]
	if !ok {
		sortCol = "p.created_at"
	}
	dir := "DESC"
	if strings.EqualFold(opts.SortOrder, "asc") {
		dir = "ASC"
	}

	query := `SELECT ` + postColumns + postFrom + whereClause +
		fmt.Sprintf(" ORDER BY %s %s NULLS LAST", sortCol, dir) +
		" LIMIT " + arg(opts.Limit) + " OFFSET " + arg((opts.Page-1)*opts.Limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var items []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan post: %w", err)
		}
		items = append(items, *p)
	}
	return items, total, rows.Err()
}

// Stats returns the aggregate counters for the stats endpoint.
func (s *PostStore) Stats(ctx context.Context) (*models.PostStats, error) {
	stats := &models.PostStats{}
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'published'),
		       COUNT(*) FILTER (WHERE status = 'draft'),
		       COALESCE(SUM(views), 0),
		       (SELECT COUNT(*) FROM post_likes)
		FROM posts
	`).Scan(&stats.TotalBlogs, &stats.PublishedBlogs, &stats.DraftBlogs, &stats.TotalViews, &stats.TotalLikes)
	if err != nil {
		return nil, fmt.Errorf("post stats: %w", err)
	}
	return stats, nil
}
