// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// PostStatus represents the publishing state of a blog post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

// Valid reports whether s is a known status value.
func (s PostStatus) Valid() bool {
	return s == PostStatusDraft || s == PostStatusPublished
}

// Post represents a blog post. Slug is globally unique and derived from the
// title; PublishDate is set exactly once, on the first transition into
// published status.
type Post struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Content       string     `json:"content"`
	Excerpt       string     `json:"excerpt"`
	FeaturedImage string     `json:"featuredImage,omitempty"`
	// FeaturedImageKey is the object-storage key behind FeaturedImage.
	FeaturedImageKey string     `json:"-"`
	AuthorID         uuid.UUID  `json:"-"`
	CategoryID       uuid.UUID  `json:"-"`
	Tags             []string   `json:"tags"`
	Status           PostStatus `json:"status"`
	PublishDate      *time.Time `json:"publishDate"`
	MetaTitle        string     `json:"metaTitle,omitempty"`
	MetaDescription  string     `json:"metaDescription,omitempty"`
	MetaKeywords     []string   `json:"metaKeywords,omitempty"`
	IsFeatured       bool       `json:"isFeatured"`
	ReadTime         int        `json:"readTime"`
	Views            int        `json:"views"`
	LikeCount        int        `json:"likeCount"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`

	// Read-time joins, populated by store methods. Not persisted redundantly.
	Author   *AuthorSummary   `json:"author,omitempty"`
	Category *CategorySummary `json:"category,omitempty"`
}

// IsPublished returns true if the post is in published status.
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}

// PostStats is the aggregate view served by the stats endpoint.
type PostStats struct {
	TotalBlogs     int `json:"totalBlogs"`
	PublishedBlogs int `json:"publishedBlogs"`
	DraftBlogs     int `json:"draftBlogs"`
	TotalViews     int `json:"totalViews"`
	TotalLikes     int `json:"totalLikes"`
}
