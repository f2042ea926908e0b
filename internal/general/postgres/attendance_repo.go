package postgres

import (
	"context"
	"errors"
	"fmt"

	"school-bus/internal/domain/attendance"
	"school-bus/internal/ports"

	"github.com/jackc/pgx/v5"
)

// AttendanceRepo persists child attendance rows using pgx and plain SQL.
type AttendanceRepo struct{}

// NewAttendanceRepo constructs a new AttendanceRepo.
func NewAttendanceRepo() ports.AttendanceRepository {
	return &AttendanceRepo{}
}

// Create inserts an attendance row unless one already exists for the
// (child, trip) pair. Returns false without error when the row was already
// there, which keeps trip generation idempotent.
func (repo *AttendanceRepo) Create(ctx context.Context, att *attendance.Attendance) (bool, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return false, fmt.Errorf("get transaction from context: %w", err)
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO child_attendances (child_id, trip_id, status, recorded_by, recorded_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (child_id, trip_id) DO NOTHING
		RETURNING id
	`, att.ChildID, att.TripID, att.Status.String(), att.RecordedBy, att.RecordedAt).Scan(&att.ID)
	if err != nil {
		// no row returned means the conflict clause swallowed the insert
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("insert attendance: %w", err)
	}

	return true, nil
}

// Exists reports whether an attendance row exists for the (child, trip) pair.
func (repo *AttendanceRepo) Exists(ctx context.Context, childID, tripID string) (bool, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return false, fmt.Errorf("get transaction from context: %w", err)
	}

	var exists bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM child_attendances WHERE child_id = $1 AND trip_id = $2
		)
	`, childID, tripID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("query attendance existence: %w", err)
	}

	return exists, nil
}

// ListByTrip returns every attendance row recorded against the trip.
func (repo *AttendanceRepo) ListByTrip(ctx context.Context, tripID string) ([]*attendance.Attendance, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("get transaction from context: %w", err)
	}

	rows, err := tx.Query(ctx, `
		SELECT id, child_id, trip_id, status, recorded_by, recorded_at
		FROM child_attendances
		WHERE trip_id = $1
		ORDER BY recorded_at, id
	`, tripID)
	if err != nil {
		return nil, fmt.Errorf("query attendances: %w", err)
	}
	defer rows.Close()

	var out []*attendance.Attendance
	for rows.Next() {
		var att attendance.Attendance
		var status string
		if err := rows.Scan(&att.ID, &att.ChildID, &att.TripID, &status, &att.RecordedBy, &att.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan attendance: %w", err)
		}
		att.Status = attendance.Status(status)
		out = append(out, &att)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return out, nil
}
