// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"blogd/internal/apperr"
	"blogd/internal/models"
	"blogd/internal/storage"
	"blogd/internal/store"
)

// Career groups the job application endpoints.
type Career struct {
	careers *store.CareerStore
	storage *storage.Client
}

// NewCareer creates a new Career handler group.
func NewCareer(careers *store.CareerStore, st *storage.Client) *Career {
	return &Career{careers: careers, storage: st}
}

type applyRequest struct {
	FirstName   string `json:"firstName" validate:"required,max=50"`
	LastName    string `json:"lastName" validate:"required,max=50"`
	PhoneNumber string `json:"phoneNumber" validate:"required,max=30"`
	Email       string `json:"email" validate:"omitempty,email"`
	Role        string `json:"role" validate:"required,max=100"`
}

// cvKeyUnsafe matches filename characters that do not survive as an
// object key.
var cvKeyUnsafe = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// Apply accepts a job application: a multipart form with the applicant
// fields and a required PDF resume.
func (c *Career) Apply(w http.ResponseWriter, r *http.Request) {
	if c.storage == nil {
		respondError(w, apperr.Internal(fmt.Errorf("object storage not configured")))
		return
	}

	file, header, err := formFile(r, "cv", storage.CVRule.MaxBytes)
	if err != nil {
		respondError(w, err)
		return
	}
	defer file.Close()

	form := r.MultipartForm.Value
	value := func(name string) string {
		if vals, ok := form[name]; ok && len(vals) > 0 {
			return strings.TrimSpace(vals[0])
		}
		return ""
	}
	req := applyRequest{
		FirstName:   value("firstName"),
		LastName:    value("lastName"),
		PhoneNumber: value("phoneNumber"),
		Email:       strings.ToLower(value("email")),
		Role:        value("role"),
	}
	if err := checkValid(req); err != nil {
		respondError(w, err)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if err := storage.CVRule.Check(contentType, header.Filename, header.Size); err != nil {
		respondError(w, err)
		return
	}

	base := strings.TrimSuffix(header.Filename, ".pdf")
	base = cvKeyUnsafe.ReplaceAllString(base, "-")
	if base == "" {
		base = "cv"
	}
	key := fmt.Sprintf("cvs/%s-%d.pdf", base, time.Now().UnixMilli())

	bucket := c.storage.CareersBucket()
	if err := c.storage.Upload(r.Context(), bucket, key, contentType, file, header.Size); err != nil {
		respondError(w, apperr.Internal(err))
		return
	}

	application, err := c.careers.Create(r.Context(), &models.CareerApplication{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
		Role:        req.Role,
		CVURL:       c.storage.FileURL(bucket, key),
		CVPath:      key,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondMessage(w, http.StatusCreated, "Application submitted", map[string]any{
		"application": application,
	})
}

// List returns submitted applications, newest first. Resumes live in the
// private bucket, so each response row carries a fresh presigned link.
func (c *Career) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r, 10)

	items, total, err := c.careers.List(r.Context(), page, limit)
	if err != nil {
		respondError(w, err)
		return
	}
	if items == nil {
		items = []models.CareerApplication{}
	}

	if c.storage != nil {
		for i := range items {
			url, err := c.storage.PresignedURL(r.Context(), c.storage.CareersBucket(),
				items[i].CVPath, time.Hour)
			if err == nil {
				items[i].CVURL = url
			}
		}
	}

	respondData(w, http.StatusOK, map[string]any{
		"applications": items,
		"pagination":   paginate(page, limit, total),
	})
}
