package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/plannerhq/planner/backend/internal/domain"
	"github.com/plannerhq/planner/backend/internal/service"
)

// createTripRequest is the POST /trips body. The validate tags are the
// declarative schema: they run before any business logic or database call.
type createTripRequest struct {
	Destination    string    `json:"destination" validate:"required,min=4"`
	StartAt        time.Time `json:"start_at" validate:"required"`
	EndsAt         time.Time `json:"ends_at" validate:"required"`
	OwnerName      string    `json:"owner_name" validate:"required"`
	OwnerEmail     string    `json:"owner_email" validate:"required,email"`
	// A pointer distinguishes an absent field from an empty list: the field
	// itself is required, but inviting nobody is fine.
	EmailsToInvite *[]string `json:"emails_to_invite" validate:"required,dive,required,email"`
}

// updateTripRequest is the PUT /trips/{tripID} body.
type updateTripRequest struct {
	Destination string    `json:"destination" validate:"required,min=4"`
	StartAt     time.Time `json:"start_at" validate:"required"`
	EndsAt      time.Time `json:"ends_at" validate:"required"`
}

// tripIDResponse is the body of both create and update responses.
type tripIDResponse struct {
	TripID uuid.UUID `json:"tripId"`
}

type tripResponse struct {
	Trip domain.Trip `json:"trip"`
}

type participantsResponse struct {
	Participants []domain.Participant `json:"participants"`
}

// createTrip handles POST /trips.
func (s *Server) createTrip(w http.ResponseWriter, r *http.Request) {
	var req createTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, r, http.StatusBadRequest, "validation_error", validationMessage(err))
		return
	}

	trip, err := s.trips.Create(r.Context(), service.CreateTripInput{
		Destination:    req.Destination,
		StartAt:        req.StartAt,
		EndsAt:         req.EndsAt,
		OwnerName:      req.OwnerName,
		OwnerEmail:     req.OwnerEmail,
		EmailsToInvite: *req.EmailsToInvite,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, tripIDResponse{TripID: trip.ID})
}

// getTrip handles GET /trips/{tripID}.
func (s *Server) getTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := tripIDParam(w, r)
	if !ok {
		return
	}

	trip, err := s.trips.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, tripResponse{Trip: trip})
}

// updateTrip handles PUT /trips/{tripID}.
func (s *Server) updateTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := tripIDParam(w, r)
	if !ok {
		return
	}

	var req updateTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, r, http.StatusBadRequest, "validation_error", validationMessage(err))
		return
	}

	trip, err := s.trips.Update(r.Context(), id, service.UpdateTripInput{
		Destination: req.Destination,
		StartAt:     req.StartAt,
		EndsAt:      req.EndsAt,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, tripIDResponse{TripID: trip.ID})
}

// confirmTrip handles GET /trips/{tripID}/confirm — the link from the owner's
// mail. Both the first confirmation and any repeat visit redirect to the
// trip's web page.
func (s *Server) confirmTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := tripIDParam(w, r)
	if !ok {
		return
	}

	trip, err := s.trips.Confirm(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	http.Redirect(w, r, s.webBaseURL+"/trips/"+trip.ID.String(), http.StatusFound)
}

// listParticipants handles GET /trips/{tripID}/participants.
func (s *Server) listParticipants(w http.ResponseWriter, r *http.Request) {
	id, ok := tripIDParam(w, r)
	if !ok {
		return
	}

	participants, err := s.trips.ListParticipants(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, participantsResponse{Participants: participants})
}

// tripIDParam parses the {tripID} path parameter. On a malformed UUID it
// writes a 400 and reports ok=false; callers just return.
func tripIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "tripID"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "validation_error", "tripID must be a valid UUID")
		return uuid.UUID{}, false
	}
	return id, true
}
