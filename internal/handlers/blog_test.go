// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestCreateBlogRequestExcerptOptional(t *testing.T) {
	req := createBlogRequest{
		Title:    "Hello, World!",
		Content:  "Enough words to pass the content floor.",
		Category: uuid.New().String(),
		Status:   "draft",
	}
	if err := checkValid(req); err != nil {
		t.Errorf("create without excerpt should validate, got: %v", err)
	}

	req.Excerpt = strings.Repeat("x", 301)
	if err := checkValid(req); err == nil {
		t.Error("oversized excerpt should fail validation")
	}
}

func TestUpdateBlogRejectsBlankTitle(t *testing.T) {
	blog := NewBlog(nil, nil, nil, nil)

	r := httptest.NewRequest(http.MethodPut, "/blogs/x", strings.NewReader(`{"title":"   "}`))
	r = withURLParam(r, "id", uuid.New().String())
	rec := httptest.NewRecorder()
	blog.Update(rec, r)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400 (body %s)", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"title":"is required"`) {
		t.Errorf("title violation missing from body: %s", rec.Body.String())
	}
}

func TestUpdateBlogRejectsShortContent(t *testing.T) {
	blog := NewBlog(nil, nil, nil, nil)

	// Padding around the content must not help: it is trimmed first.
	r := httptest.NewRequest(http.MethodPut, "/blogs/x", strings.NewReader(`{"content":"tiny      "}`))
	r = withURLParam(r, "id", uuid.New().String())
	rec := httptest.NewRecorder()
	blog.Update(rec, r)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400 (body %s)", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"content"`) {
		t.Errorf("content violation missing from body: %s", rec.Body.String())
	}
}

func multipartBlogForm(t *testing.T, filename, contentType string, fileBody []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fields := map[string]string{
		"title":    "Clip post",
		"content":  "Enough words to pass the content floor.",
		"category": uuid.New().String(),
		"status":   "draft",
	}
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			t.Fatalf("write field %s: %v", name, err)
		}
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="featuredImage"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(fileBody); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestCreateBlogMultipartAcceptsVideo(t *testing.T) {
	blog := NewBlog(nil, nil, nil, nil)

	body, contentType := multipartBlogForm(t, "clip.mp4", "video/mp4", []byte("fake mp4 bytes"))
	r := httptest.NewRequest(http.MethodPost, "/blogs", body)
	r.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	blog.Create(rec, r)

	// The video clears the upload rules; with no object storage configured
	// the request then dies internally, never as an upload rejection.
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d, want 500 (body %s)", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "Unsupported") {
		t.Errorf("video was rejected by the upload rules: %s", rec.Body.String())
	}
}

func TestCreateBlogMultipartRejectsNonMedia(t *testing.T) {
	blog := NewBlog(nil, nil, nil, nil)

	body, contentType := multipartBlogForm(t, "notes.txt", "text/plain", []byte("plain text"))
	r := httptest.NewRequest(http.MethodPost, "/blogs", body)
	r.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	blog.Create(rec, r)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400 (body %s)", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Unsupported file type") {
		t.Errorf("expected an unsupported-type rejection, got: %s", rec.Body.String())
	}
}
