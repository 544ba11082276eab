// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON API endpoints.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"blogd/internal/apperr"
)

// Envelope is the uniform JSON response shape for every endpoint.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
	Fields  any    `json:"fields,omitempty"`
}

// writeJSON writes an envelope with the given status code.
func writeJSON(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// respondData writes a successful envelope carrying a payload.
func respondData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, Envelope{Success: true, Data: data})
}

// respondMessage writes a successful envelope with a message and optional
// payload.
func respondMessage(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, Envelope{Success: true, Message: message, Data: data})
}

// respondError maps an error to its HTTP status and writes an error
// envelope. Application errors keep their message; anything else is logged
// and hidden behind a generic 500.
func respondError(w http.ResponseWriter, err error) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		env := Envelope{Success: false, Error: appErr.Message}
		if len(appErr.Fields) > 0 {
			env.Fields = appErr.Fields
		}
		if appErr.Kind == apperr.KindInternal {
			slog.Error("request failed", "error", err)
			env.Error = "Internal server error"
		}
		writeJSON(w, appErr.HTTPStatus(), env)
		return
	}

	slog.Error("request failed", "error", err)
	writeJSON(w, http.StatusInternalServerError,
		Envelope{Success: false, Error: "Internal server error"})
}

// decodeJSON reads a request body into dst, rejecting malformed JSON with a
// validation error.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return apperr.Validation("Invalid JSON body").WithCause(err)
	}
	return nil
}
