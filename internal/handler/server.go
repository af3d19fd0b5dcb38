// Package handler implements the HTTP handlers for the trip planner API.
// All handlers are methods on Server and are split into domain-specific files
// (health.go, trip.go) that share the same struct and its dependencies.
package handler

import (
	"context"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/plannerhq/planner/backend/internal/domain"
	"github.com/plannerhq/planner/backend/internal/service"
)

// TripServicer defines the business operations the trip handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, in service.CreateTripInput) (domain.Trip, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	Update(ctx context.Context, id uuid.UUID, in service.UpdateTripInput) (domain.Trip, error)
	Confirm(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	ListParticipants(ctx context.Context, tripID uuid.UUID) ([]domain.Participant, error)
}

// Server holds the dependencies shared by all endpoint handlers.
type Server struct {
	trips      TripServicer
	validate   *validator.Validate
	webBaseURL string
}

// NewServer constructs the Server with all its dependencies.
// webBaseURL is the front-end base URL confirmed trips redirect to.
func NewServer(trips TripServicer, webBaseURL string) *Server {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report violations under the json field names clients actually sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return &Server{trips: trips, validate: v, webBaseURL: strings.TrimRight(webBaseURL, "/")}
}

// Routes registers every endpoint on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/healthz", s.health)

	r.Post("/trips", s.createTrip)
	r.Route("/trips/{tripID}", func(r chi.Router) {
		r.Get("/", s.getTrip)
		r.Put("/", s.updateTrip)
		r.Get("/confirm", s.confirmTrip)
		r.Get("/participants", s.listParticipants)
	})
}
