// Package service contains the business logic for the trip planner API.
// Services validate inputs, enforce the trip lifecycle rules, and orchestrate
// repo and notification calls. No SQL lives here — services depend on repo
// interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/plannerhq/planner/backend/internal/domain"
	"github.com/plannerhq/planner/backend/internal/repo"
)

// TripNotifier is the notification port the service calls after lifecycle
// writes. mail.Dispatcher is the production implementation.
type TripNotifier interface {
	// TripCreated asks the owner to confirm the new trip. A returned error
	// fails the create request: the trip row already exists at that point,
	// a deliberate at-least-once risk carried over from the original flow.
	TripCreated(ctx context.Context, trip domain.Trip, owner domain.Participant) error

	// TripConfirmed notifies every invitee that the trip is on. Sends are
	// concurrent, independent, and best-effort; the call returns once all
	// have finished.
	TripConfirmed(ctx context.Context, trip domain.Trip, invitees []domain.Participant)
}

// CreateTripInput carries the validated request fields for trip creation.
type CreateTripInput struct {
	Destination    string
	StartAt        time.Time
	EndsAt         time.Time
	OwnerName      string
	OwnerEmail     string
	EmailsToInvite []string
}

// UpdateTripInput carries the validated request fields for a trip update.
type UpdateTripInput struct {
	Destination string
	StartAt     time.Time
	EndsAt      time.Time
}

// TripService implements the trip lifecycle: create, update, confirm.
type TripService struct {
	trips        repo.TripRepo
	participants repo.ParticipantRepo
	notifier     TripNotifier

	// now is swappable so date rules can be pinned in tests.
	now func() time.Time
}

// NewTripService constructs a TripService backed by the provided repos and notifier.
func NewTripService(trips repo.TripRepo, participants repo.ParticipantRepo, notifier TripNotifier) *TripService {
	return &TripService{
		trips:        trips,
		participants: participants,
		notifier:     notifier,
		now:          time.Now,
	}
}

// Create validates the dates, persists the trip with its full participant set
// in one transaction, and asks the owner to confirm by mail.
//
// The owner is the first participant, pre-confirmed; each invited e-mail
// becomes an unconfirmed, nameless participant.
func (s *TripService) Create(ctx context.Context, in CreateTripInput) (domain.Trip, error) {
	if err := validateTripDates(in.StartAt, in.EndsAt, s.now()); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}

	ownerName := in.OwnerName
	participants := make([]domain.Participant, 0, 1+len(in.EmailsToInvite))
	participants = append(participants, domain.Participant{
		Name:        &ownerName,
		Email:       in.OwnerEmail,
		IsOwner:     true,
		IsConfirmed: true,
	})
	for _, email := range in.EmailsToInvite {
		participants = append(participants, domain.Participant{Email: email})
	}

	trip, err := s.trips.Create(ctx, domain.Trip{
		Destination: in.Destination,
		StartAt:     in.StartAt,
		EndsAt:      in.EndsAt,
	}, participants)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}

	owner := participants[0]
	owner.TripID = trip.ID
	if err := s.notifier.TripCreated(ctx, trip, owner); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}

	return trip, nil
}

// GetByID returns a single trip by ID.
// Returns domain.ErrNotFound if the trip does not exist.
func (s *TripService) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	trip, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return trip, nil
}

// Update overwrites destination and dates on an existing trip.
// The trip is looked up before the date rules run, so an unknown id is
// reported as not-found even when the dates are also bad. is_confirmed and
// participants are never touched, and no mail is sent.
func (s *TripService) Update(ctx context.Context, id uuid.UUID, in UpdateTripInput) (domain.Trip, error) {
	trip, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}

	if err := validateTripDates(in.StartAt, in.EndsAt, s.now()); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}

	trip.Destination = in.Destination
	trip.StartAt = in.StartAt
	trip.EndsAt = in.EndsAt

	updated, err := s.trips.Update(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return updated, nil
}

// Confirm marks the trip as confirmed and notifies the invitees.
//
// Idempotent at the response level: an already-confirmed trip performs no
// write and sends no mail. Otherwise the is_confirmed write is committed
// before any mail is dispatched, so a crash mid-send leaves the trip durably
// confirmed. Invitee sends are awaited but individually best-effort.
func (s *TripService) Confirm(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	trip, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Confirm: %w", err)
	}

	if trip.IsConfirmed {
		return trip, nil
	}

	participants, err := s.participants.ListByTrip(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Confirm: %w", err)
	}

	if err := s.trips.SetConfirmed(ctx, id); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Confirm: %w", err)
	}
	trip.IsConfirmed = true

	var invitees []domain.Participant
	for _, p := range participants {
		if !p.IsOwner {
			invitees = append(invitees, p)
		}
	}
	s.notifier.TripConfirmed(ctx, trip, invitees)

	return trip, nil
}

// ListParticipants returns all participants of a trip, owner first.
// Returns domain.ErrNotFound if the trip does not exist.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TripService) ListParticipants(ctx context.Context, tripID uuid.UUID) ([]domain.Participant, error) {
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		return nil, fmt.Errorf("service.TripService.ListParticipants: %w", err)
	}

	participants, err := s.participants.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.ListParticipants: %w", err)
	}
	if participants == nil {
		return []domain.Participant{}, nil
	}
	return participants, nil
}

// validateTripDates enforces the date rules shared by Create and Update.
//   - The trip must not start in the past.
//   - The trip must not end before it starts.
//
// The error messages are part of the API contract and surface verbatim to clients.
func validateTripDates(startAt, endsAt, now time.Time) error {
	if startAt.Before(now) {
		return fmt.Errorf("%w: Invalid trip start date.", domain.ErrValidation)
	}
	if endsAt.Before(startAt) {
		return fmt.Errorf("%w: Invalid trip end date.", domain.ErrValidation)
	}
	return nil
}
