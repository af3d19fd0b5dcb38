// Package domain contains the core data types for the trip planner API.
// This package has no dependencies beyond uuid and is imported by every
// other internal package (repo, service, mail, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Trip represents a planned journey with a destination and a date range.
// A trip is the top-level aggregate; participants belong to a trip and are
// created together with it.
//
// IsConfirmed starts false and is flipped to true exactly once by the
// confirmation link. It never reverts.
type Trip struct {
	ID          uuid.UUID `json:"id"`
	Destination string    `json:"destination"`
	StartAt     time.Time `json:"start_at"`
	EndsAt      time.Time `json:"ends_at"`
	IsConfirmed bool      `json:"is_confirmed"`
	CreatedAt   time.Time `json:"created_at"`
}
