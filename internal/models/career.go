// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// CareerApplication is one submitted job application. The CV lives in
// object storage; only its URL and key are persisted.
type CareerApplication struct {
	ID          uuid.UUID `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	PhoneNumber string    `json:"phoneNumber"`
	Email       string    `json:"email,omitempty"`
	Role        string    `json:"role"`
	CVURL       string    `json:"cvUrl"`
	CVPath      string    `json:"cvPath"`
	CreatedAt   time.Time `json:"createdAt"`
}
