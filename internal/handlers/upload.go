// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"blogd/internal/apperr"
)

// multipartOverhead pads the body size limit to leave room for the other
// form fields and part boundaries around the file itself.
const multipartOverhead = 1 << 20

// formFile extracts one uploaded file from a multipart request. The body
// reader is capped at the rule's size plus overhead, so an oversized upload
// fails while streaming instead of buffering fully.
func formFile(r *http.Request, field string, maxBytes int64) (multipart.File, *multipart.FileHeader, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBytes+multipartOverhead)

	if err := r.ParseMultipartForm(maxBytes + multipartOverhead); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, nil, apperr.UploadRejected("File too large")
		}
		return nil, nil, apperr.Validation("Expected a multipart form upload").WithCause(err)
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, nil, apperr.Validation("Missing file field " + field).WithCause(err)
	}
	return file, header, nil
}
