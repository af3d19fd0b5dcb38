package mail

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/plannerhq/planner/backend/internal/domain"
)

// Dispatcher composes trip lifecycle notifications and hands them to a Mailer.
// It is purely side-effecting: it never touches the database.
type Dispatcher struct {
	mailer     Mailer
	from       Address
	apiBaseURL string
	log        *slog.Logger
}

// NewDispatcher constructs a Dispatcher. apiBaseURL is the public base URL of
// this API, used to build the confirmation links embedded in the mails.
func NewDispatcher(mailer Mailer, from Address, apiBaseURL string, log *slog.Logger) *Dispatcher {
	return &Dispatcher{mailer: mailer, from: from, apiBaseURL: apiBaseURL, log: log}
}

// TripCreated sends the trip confirmation request to the owner.
// The returned error is the raw transport error: the create flow treats a
// failed owner mail as a failed request.
func (d *Dispatcher) TripCreated(ctx context.Context, trip domain.Trip, owner domain.Participant) error {
	msg := Message{
		From:    d.from,
		To:      Address{Name: derefName(owner.Name), Email: owner.Email},
		Subject: fmt.Sprintf("Confirm your trip to %s on %s", trip.Destination, formatDate(trip.StartAt)),
		HTML:    d.ownerBody(trip),
	}

	if err := d.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("mail.Dispatcher.TripCreated: %w", err)
	}
	return nil
}

// TripConfirmed sends one attendance confirmation mail per invitee.
// All sends run concurrently and independently: a failed send is logged and
// swallowed, never aborting the others. The call returns only after every
// send has finished.
func (d *Dispatcher) TripConfirmed(ctx context.Context, trip domain.Trip, invitees []domain.Participant) {
	var wg sync.WaitGroup
	for _, invitee := range invitees {
		wg.Add(1)
		go func(p domain.Participant) {
			defer wg.Done()

			msg := Message{
				From:    d.from,
				To:      Address{Name: derefName(p.Name), Email: p.Email},
				Subject: fmt.Sprintf("Confirm your attendance on the trip to %s on %s", trip.Destination, formatDate(trip.StartAt)),
				HTML:    d.inviteeBody(trip, p),
			}

			if err := d.mailer.Send(ctx, msg); err != nil {
				d.log.WarnContext(ctx, "invitee confirmation mail failed",
					"trip_id", trip.ID,
					"participant_id", p.ID,
					"error", err,
				)
			}
		}(invitee)
	}
	wg.Wait()
}

// ownerBody renders the HTML body of the create-trip confirmation mail.
// The confirmation link triggers GET /trips/{tripID}/confirm.
func (d *Dispatcher) ownerBody(trip domain.Trip) string {
	link := fmt.Sprintf("%s/trips/%s/confirm", d.apiBaseURL, trip.ID)
	return body(
		fmt.Sprintf("You requested the creation of a trip to <strong>%s</strong> from <strong>%s to %s</strong>.",
			trip.Destination, formatDate(trip.StartAt), formatDate(trip.EndsAt)),
		"To confirm your trip, click the link below:",
		link,
	)
}

// inviteeBody renders the HTML body of the attendance confirmation mail.
// The link points at the per-participant confirmation path.
func (d *Dispatcher) inviteeBody(trip domain.Trip, p domain.Participant) string {
	link := fmt.Sprintf("%s/participants/%s/confirm", d.apiBaseURL, p.ID)
	return body(
		fmt.Sprintf("You have been invited on a trip to <strong>%s</strong> from <strong>%s to %s</strong>.",
			trip.Destination, formatDate(trip.StartAt), formatDate(trip.EndsAt)),
		"To confirm your attendance, click the link below:",
		link,
	)
}

// body assembles the shared HTML frame around an intro line and the link.
func body(intro, callToAction, link string) string {
	return fmt.Sprintf(`<div style="font-family: sans-serif; font-size: 16px; line-height: 1.6;">
	<p>%s</p>
	<p>%s</p>
	<p><a href="%s">Confirm trip</a></p>
	<p>If you don't know what this e-mail is about, just ignore it.</p>
</div>`, intro, callToAction, link)
}

// formatDate renders a timestamp the way the mails show dates.
func formatDate(t time.Time) string {
	return t.Format("January 2, 2006")
}

// derefName returns the participant name or "" for e-mail-only invitees.
func derefName(name *string) string {
	if name == nil {
		return ""
	}
	return *name
}
