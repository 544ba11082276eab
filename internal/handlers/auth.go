// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"blogd/internal/apperr"
	"blogd/internal/middleware"
	"blogd/internal/models"
	"blogd/internal/storage"
	"blogd/internal/store"
	"blogd/internal/token"
)

// Auth groups the account endpoints: registration, login, and profile
// management.
type Auth struct {
	users   *store.UserStore
	tokens  *token.Service
	storage *storage.Client
}

// NewAuth creates a new Auth handler group.
func NewAuth(users *store.UserStore, tokens *token.Service, st *storage.Client) *Auth {
	return &Auth{users: users, tokens: tokens, storage: st}
}

type registerRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=30"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	FirstName string `json:"firstName" validate:"max=50"`
	LastName  string `json:"lastName" validate:"max=50"`
	Bio       string `json:"bio" validate:"max=500"`
}

// Register creates an account and returns it with a week-long token.
func (a *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := checkValid(req); err != nil {
		respondError(w, err)
		return
	}

	user, err := a.users.Create(r.Context(),
		strings.TrimSpace(req.Username), strings.ToLower(strings.TrimSpace(req.Email)),
		req.Password, req.FirstName, req.LastName, req.Bio)
	if err != nil {
		respondError(w, err)
		return
	}

	signed, err := a.tokens.Sign(user.ID.String(), token.RegisterTTL)
	if err != nil {
		respondError(w, apperr.Internal(err))
		return
	}

	respondData(w, http.StatusCreated, map[string]any{
		"user":  user,
		"token": signed,
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login verifies credentials and returns a day-long token. Lookup misses
// and wrong passwords get the same response so the endpoint does not leak
// which emails exist.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := checkValid(req); err != nil {
		respondError(w, err)
		return
	}

	user, err := a.users.FindByEmail(r.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		respondError(w, err)
		return
	}
	if user == nil || !a.users.CheckPassword(user, req.Password) {
		respondError(w, apperr.Unauthorized("Invalid email or password"))
		return
	}

	if err := a.users.TouchLastLogin(r.Context(), user.ID); err != nil {
		respondError(w, err)
		return
	}

	signed, err := a.tokens.Sign(user.ID.String(), token.LoginTTL)
	if err != nil {
		respondError(w, apperr.Internal(err))
		return
	}

	respondData(w, http.StatusOK, map[string]any{
		"user":  user,
		"token": signed,
	})
}

// GetProfile returns the authenticated account.
func (a *Auth) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := a.currentUser(r)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]any{"user": user})
}

type updateProfileRequest struct {
	Username  *string `json:"username" validate:"omitempty,min=3,max=30"`
	FirstName *string `json:"firstName" validate:"omitempty,max=50"`
	LastName  *string `json:"lastName" validate:"omitempty,max=50"`
	Bio       *string `json:"bio" validate:"omitempty,max=500"`
}

// UpdateProfile applies a partial profile update. The request is either a
// JSON body or a multipart form; the multipart variant may carry a
// profilePhoto file that replaces the current photo.
func (a *Auth) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, err := a.currentUser(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req updateProfileRequest
	if isMultipart(r) {
		req, err = a.updateProfileMultipart(r, user)
		if err != nil {
			respondError(w, err)
			return
		}
	} else if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := checkValid(req); err != nil {
		respondError(w, err)
		return
	}

	updated, err := a.users.UpdateProfile(r.Context(), user.ID, store.ProfileUpdate{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "Profile updated", map[string]any{"user": updated})
}

// updateProfileMultipart reads the form fields and, when a profilePhoto
// part is present, stores the new photo before the profile row is updated.
func (a *Auth) updateProfileMultipart(r *http.Request, user *models.User) (updateProfileRequest, error) {
	var req updateProfileRequest

	limit := storage.ProfilePhotoRule.MaxBytes + multipartOverhead
	r.Body = http.MaxBytesReader(nil, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		return req, apperr.UploadRejected("File too large").WithCause(err)
	}

	field := func(name string) *string {
		if vals, ok := r.MultipartForm.Value[name]; ok && len(vals) > 0 {
			v := vals[0]
			return &v
		}
		return nil
	}
	req.Username = field("username")
	req.FirstName = field("firstName")
	req.LastName = field("lastName")
	req.Bio = field("bio")

	file, header, err := r.FormFile("profilePhoto")
	if err != nil {
		// No photo part; fields-only update.
		return req, nil
	}
	defer file.Close()

	if a.storage == nil {
		return req, apperr.Internal(fmt.Errorf("object storage not configured"))
	}

	contentType := header.Header.Get("Content-Type")
	if err := storage.ProfilePhotoRule.Check(contentType, header.Filename, header.Size); err != nil {
		return req, err
	}

	key := fmt.Sprintf("profiles/%s%s", uuid.New(), strings.ToLower(filepath.Ext(header.Filename)))
	bucket := a.storage.ProfileBucket()
	if err := a.storage.Upload(r.Context(), bucket, key, contentType, file, header.Size); err != nil {
		return req, apperr.Internal(err)
	}

	url := a.storage.FileURL(bucket, key)
	if err := a.users.SetProfilePhoto(r.Context(), user.ID, url, key); err != nil {
		return req, err
	}

	// Best-effort cleanup of the replaced photo. The new one is already
	// live, so a failed delete just leaves an orphan object behind.
	if user.ProfilePhotoKey != "" {
		_ = a.storage.Delete(r.Context(), bucket, user.ProfilePhotoKey)
	}
	return req, nil
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=72"`
}

// UpdatePassword rotates the account password after re-checking the
// current one.
func (a *Auth) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	user, err := a.currentUser(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req updatePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := checkValid(req); err != nil {
		respondError(w, err)
		return
	}

	if !a.users.CheckPassword(user, req.CurrentPassword) {
		respondError(w, apperr.Unauthorized("Current password is incorrect"))
		return
	}
	if err := a.users.UpdatePassword(r.Context(), user.ID, req.NewPassword); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "Password updated", nil)
}

// currentUser resolves the authenticated account to a full user record.
func (a *Auth) currentUser(r *http.Request) (*models.User, error) {
	accountID, ok := middleware.AccountIDFromCtx(r.Context())
	if !ok {
		return nil, apperr.Unauthorized("Authentication required")
	}
	user, err := a.users.FindByID(r.Context(), accountID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.Unauthorized("Account no longer exists")
	}
	return user, nil
}

// isMultipart reports whether the request declares a multipart form body.
func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}
