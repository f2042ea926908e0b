package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"school-bus/internal/domain/trip"
	"school-bus/internal/ports"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the Postgres error code raised when the
// (scheduled_route_id, service_date) unique index rejects an insert.
const uniqueViolation = "23505"

// TripRepo persists trips using pgx and plain SQL.
type TripRepo struct{}

// NewTripRepo constructs a new TripRepo.
func NewTripRepo() ports.TripRepository {
	return &TripRepo{}
}

// Create inserts a new trip row. The generated id and timestamps are written
// back into the passed trip. A duplicate (schedule, date) pair returns
// trip.ErrDuplicateForDate.
func (repo *TripRepo) Create(ctx context.Context, t *trip.Trip) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return fmt.Errorf("get transaction from context: %w", err)
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO trips (
			bus_id, route_id, driver_id, scheduled_route_id, service_date,
			status, start_time
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`,
		t.BusID,
		t.RouteID,
		t.DriverID,
		t.ScheduledRouteID,
		t.ServiceDate,
		t.Status.String(),
		t.StartTime,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return trip.ErrDuplicateForDate
		}
		return fmt.Errorf("insert trip: %w", err)
	}

	return nil
}

// GetByID fetches a trip by primary key (uuid).
func (repo *TripRepo) GetByID(ctx context.Context, id string) (*trip.Trip, error) {
	return repo.get(ctx, id, false)
}

// GetByIDForUpdate fetches a trip by primary key and locks the row for the
// remainder of the transaction.
func (repo *TripRepo) GetByIDForUpdate(ctx context.Context, id string) (*trip.Trip, error) {
	return repo.get(ctx, id, true)
}

func (repo *TripRepo) get(ctx context.Context, id string, forUpdate bool) (*trip.Trip, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("get transaction from context: %w", err)
	}

	query := `
		SELECT id, created_at, updated_at, bus_id, route_id, driver_id,
		       scheduled_route_id, service_date, status, start_time, end_time
		FROM trips
		WHERE id = $1`
	if forUpdate {
		query += `
		FOR UPDATE`
	}

	var out trip.Trip
	var status string
	err = tx.QueryRow(ctx, query, id).Scan(
		&out.ID, &out.CreatedAt, &out.UpdatedAt, &out.BusID, &out.RouteID, &out.DriverID,
		&out.ScheduledRouteID, &out.ServiceDate, &status, &out.StartTime, &out.EndTime,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, trip.ErrTripNotFound
		}
		return nil, fmt.Errorf("query trip: %w", err)
	}
	out.Status = trip.Status(status)

	return &out, nil
}

// UpdateStatus sets the trip status and stamps the lifecycle column the new
// status owns: start_time entering IN_PROGRESS, end_time entering COMPLETED.
// Transition legality is enforced by the domain before this is called.
func (repo *TripRepo) UpdateStatus(ctx context.Context, id string, next trip.Status, at time.Time) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return fmt.Errorf("get transaction from context: %w", err)
	}

	query := `
		UPDATE trips
		SET status = $1,
		    updated_at = $2`
	switch next {
	case trip.StatusInProgress:
		query += `,
		    start_time = $2`
	case trip.StatusCompleted:
		query += `,
		    end_time = $2`
	}
	query += `
		WHERE id = $3`

	tag, err := tx.Exec(ctx, query, next.String(), at, id)
	if err != nil {
		return fmt.Errorf("update trip status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return trip.ErrTripNotFound
	}

	return nil
}
