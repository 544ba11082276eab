// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import (
	"fmt"
	"path/filepath"
	"strings"

	"blogd/internal/apperr"
)

// UploadRule names an allowed content-type set and size cap for one upload
// surface. Validation runs on the declared content type and extension; the
// size cap is enforced on the multipart part.
type UploadRule struct {
	MaxBytes     int64
	ContentTypes map[string]bool
	Extensions   map[string]bool
	Describe     string
}

var (
	// ProfilePhotoRule accepts still images up to 5MB.
	ProfilePhotoRule = UploadRule{
		MaxBytes: 5 << 20,
		ContentTypes: map[string]bool{
			"image/jpeg": true,
			"image/png":  true,
			"image/webp": true,
		},
		Extensions: map[string]bool{
			".jpg": true, ".jpeg": true, ".png": true, ".webp": true,
		},
		Describe: "JPEG, PNG or WebP up to 5MB",
	}

	// MediaImageRule accepts blog images up to 10MB.
	MediaImageRule = UploadRule{
		MaxBytes: 10 << 20,
		ContentTypes: map[string]bool{
			"image/jpeg": true,
			"image/png":  true,
			"image/webp": true,
			"image/gif":  true,
		},
		Extensions: map[string]bool{
			".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true,
		},
		Describe: "JPEG, PNG, WebP or GIF up to 10MB",
	}

	// MediaVideoRule accepts blog videos up to 100MB.
	MediaVideoRule = UploadRule{
		MaxBytes: 100 << 20,
		ContentTypes: map[string]bool{
			"video/mp4":  true,
			"video/webm": true,
			"video/ogg":  true,
		},
		Extensions: map[string]bool{
			".mp4": true, ".webm": true, ".ogv": true, ".ogg": true,
		},
		Describe: "MP4, WebM or Ogg video up to 100MB",
	}

	// CVRule accepts PDF resumes up to 10MB.
	CVRule = UploadRule{
		MaxBytes: 10 << 20,
		ContentTypes: map[string]bool{
			"application/pdf": true,
		},
		Extensions: map[string]bool{
			".pdf": true,
		},
		Describe: "PDF up to 10MB",
	}
)

// Check validates a declared content type, filename, and size against the
// rule. It returns an upload-rejected error naming what is accepted.
func (r UploadRule) Check(contentType, filename string, size int64) error {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if !r.ContentTypes[ct] {
		return apperr.UploadRejected(fmt.Sprintf("Unsupported file type %q. Allowed: %s", contentType, r.Describe))
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !r.Extensions[ext] {
		return apperr.UploadRejected(fmt.Sprintf("Unsupported file extension %q. Allowed: %s", ext, r.Describe))
	}
	if size > r.MaxBytes {
		return apperr.UploadRejected(fmt.Sprintf("File too large (%d bytes). Allowed: %s", size, r.Describe))
	}
	return nil
}

// MediaRuleFor picks the image or video rule from a declared content type.
// Anything else is rejected.
func MediaRuleFor(contentType string) (UploadRule, error) {
	ct := strings.ToLower(contentType)
	switch {
	case strings.HasPrefix(ct, "image/"):
		return MediaImageRule, nil
	case strings.HasPrefix(ct, "video/"):
		return MediaVideoRule, nil
	default:
		return UploadRule{}, apperr.UploadRejected(
			fmt.Sprintf("Unsupported file type %q. Allowed: %s or %s",
				contentType, MediaImageRule.Describe, MediaVideoRule.Describe))
	}
}
