package postgres

import (
	"context"
	"fmt"

	"school-bus/internal/domain/trip"
	"school-bus/internal/ports"
)

// TripHistoryRepo persists trip status history rows using pgx and plain SQL.
type TripHistoryRepo struct{}

// NewTripHistoryRepo constructs a new TripHistoryRepo.
func NewTripHistoryRepo() ports.TripHistoryRepository {
	return &TripHistoryRepo{}
}

// Append writes one history row. The generated id is written back into the
// passed entry.
func (repo *TripHistoryRepo) Append(ctx context.Context, entry *trip.HistoryEntry) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return fmt.Errorf("get transaction from context: %w", err)
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO trip_histories (trip_id, status, recorded_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`, entry.TripID, entry.Status.String(), entry.At).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("insert trip history: %w", err)
	}

	return nil
}

// ListByTrip returns the trip's history in recording order.
func (repo *TripHistoryRepo) ListByTrip(ctx context.Context, tripID string) ([]*trip.HistoryEntry, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("get transaction from context: %w", err)
	}

	rows, err := tx.Query(ctx, `
		SELECT id, trip_id, status, recorded_at
		FROM trip_histories
		WHERE trip_id = $1
		ORDER BY recorded_at, id
	`, tripID)
	if err != nil {
		return nil, fmt.Errorf("query trip histories: %w", err)
	}
	defer rows.Close()

	var out []*trip.HistoryEntry
	for rows.Next() {
		var entry trip.HistoryEntry
		var status string
		if err := rows.Scan(&entry.ID, &entry.TripID, &status, &entry.At); err != nil {
			return nil, fmt.Errorf("scan trip history: %w", err)
		}
		entry.Status = trip.Status(status)
		out = append(out, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return out, nil
}
