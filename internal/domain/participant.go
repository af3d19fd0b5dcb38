package domain

import (
	"time"

	"github.com/google/uuid"
)

// Participant is a person associated with a trip, either its owner or an
// invitee. Name is nil for participants invited by e-mail only.
//
// Exactly one participant per trip has IsOwner set. The owner is created
// pre-confirmed; invitees start unconfirmed. Per-participant confirmation is
// carried in the schema but no endpoint currently flips it for invitees.
type Participant struct {
	ID          uuid.UUID `json:"id"`
	TripID      uuid.UUID `json:"trip_id"`
	Name        *string   `json:"name,omitempty"`
	Email       string    `json:"email"`
	IsOwner     bool      `json:"is_owner"`
	IsConfirmed bool      `json:"is_confirmed"`
	CreatedAt   time.Time `json:"created_at"`
}
