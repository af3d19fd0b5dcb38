package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plannerhq/planner/backend/internal/domain"
	"github.com/plannerhq/planner/backend/internal/repo"
	"github.com/plannerhq/planner/backend/testutil"
)

// newTestTx opens a transaction against the test database that is rolled back
// when the test finishes, giving free per-test isolation. The repos built on
// it see their own writes; the trip create transaction becomes a savepoint.
//
// Requires TEST_DATABASE_URL to be set and all migrations to be applied
// (TestMain takes care of the latter).
func newTestTx(t *testing.T) pgx.Tx {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		// Rollback discards all changes made during the test — no cleanup SQL needed.
		_ = tx.Rollback(context.Background())
	})

	return tx
}

// tripFixture returns a domain.Trip with sensible defaults for use in tests.
// Callers can override individual fields after calling this function.
func tripFixture() domain.Trip {
	return domain.Trip{
		Destination: "Florianópolis",
		StartAt:     time.Date(2027, 7, 10, 9, 0, 0, 0, time.UTC),
		EndsAt:      time.Date(2027, 7, 15, 18, 0, 0, 0, time.UTC),
	}
}

// participantsFixture returns an owner plus two invitees.
func participantsFixture() []domain.Participant {
	name := "Ana"
	return []domain.Participant{
		{Name: &name, Email: "ana@x.com", IsOwner: true, IsConfirmed: true},
		{Email: "bob@x.com"},
		{Email: "carol@x.com"},
	}
}

func TestTripRepo_Create(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewTripRepo(tx)
	ctx := context.Background()

	input := tripFixture()
	got, err := r.Create(ctx, input, participantsFixture())

	require.NoError(t, err)
	assert.NotEqual(t, uuid.UUID{}, got.ID, "ID should be DB-generated UUID")
	assert.Equal(t, input.Destination, got.Destination)
	assert.True(t, got.StartAt.Equal(input.StartAt), "StartAt mismatch")
	assert.True(t, got.EndsAt.Equal(input.EndsAt), "EndsAt mismatch")
	assert.False(t, got.IsConfirmed, "new trips start unconfirmed")
	assert.False(t, got.CreatedAt.IsZero(), "CreatedAt should be set by DB")
}

func TestTripRepo_Create_PersistsAllParticipants(t *testing.T) {
	tx := newTestTx(t)
	trips := repo.NewTripRepo(tx)
	participants := repo.NewParticipantRepo(tx)
	ctx := context.Background()

	created, err := trips.Create(ctx, tripFixture(), participantsFixture())
	require.NoError(t, err)

	got, err := participants.ListByTrip(ctx, created.ID)

	require.NoError(t, err)
	require.Len(t, got, 3, "owner plus both invitees")

	var owners int
	for _, p := range got {
		assert.Equal(t, created.ID, p.TripID)
		if p.IsOwner {
			owners++
			assert.True(t, p.IsConfirmed, "owner starts confirmed")
			require.NotNil(t, p.Name)
			assert.Equal(t, "Ana", *p.Name)
		} else {
			assert.False(t, p.IsConfirmed, "invitees start unconfirmed")
			assert.Nil(t, p.Name, "invitee name stays NULL")
		}
	}
	assert.Equal(t, 1, owners, "exactly one owner per trip")

	// ListByTrip must preserve insertion order: owner first, then the
	// invitees in the order they were given.
	require.True(t, got[0].IsOwner, "owner listed first")
	assert.Equal(t, "ana@x.com", got[0].Email)
	assert.Equal(t, "bob@x.com", got[1].Email)
	assert.Equal(t, "carol@x.com", got[2].Email)
}

func TestTripRepo_GetByID(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewTripRepo(tx)
	ctx := context.Background()

	created, err := r.Create(ctx, tripFixture(), participantsFixture())
	require.NoError(t, err)

	got, err := r.GetByID(ctx, created.ID)

	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Destination, got.Destination)
}

func TestTripRepo_GetByID_NotFound(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewTripRepo(tx)

	_, err := r.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripRepo_Update(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewTripRepo(tx)
	ctx := context.Background()

	created, err := r.Create(ctx, tripFixture(), participantsFixture())
	require.NoError(t, err)

	created.Destination = "Rotterdam"
	created.StartAt = created.StartAt.AddDate(0, 1, 0)
	created.EndsAt = created.EndsAt.AddDate(0, 1, 0)

	updated, err := r.Update(ctx, created)

	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Rotterdam", updated.Destination)
	assert.True(t, updated.StartAt.Equal(created.StartAt))
	assert.False(t, updated.IsConfirmed, "update must not flip the confirmation flag")
}

func TestTripRepo_Update_NotFound(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewTripRepo(tx)

	ghost := tripFixture()
	ghost.ID = uuid.New()

	_, err := r.Update(context.Background(), ghost)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripRepo_SetConfirmed(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewTripRepo(tx)
	ctx := context.Background()

	created, err := r.Create(ctx, tripFixture(), participantsFixture())
	require.NoError(t, err)

	require.NoError(t, r.SetConfirmed(ctx, created.ID))

	got, err := r.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, got.IsConfirmed)

	// Setting again is harmless — the flag is monotonic.
	require.NoError(t, r.SetConfirmed(ctx, created.ID))
}

func TestTripRepo_SetConfirmed_NotFound(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewTripRepo(tx)

	err := r.SetConfirmed(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestParticipantRepo_ListByTrip_Empty(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewParticipantRepo(tx)

	got, err := r.ListByTrip(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.Empty(t, got)
}
