package postgres

import (
	"context"
	"fmt"

	"school-bus/internal/domain/child"
	"school-bus/internal/ports"
)

// ChildRepo reads children using pgx and plain SQL.
type ChildRepo struct{}

// NewChildRepo constructs a new ChildRepo.
func NewChildRepo() ports.ChildRepository {
	return &ChildRepo{}
}

// ListBySchool returns every child registered to the school.
func (repo *ChildRepo) ListBySchool(ctx context.Context, schoolID string) ([]*child.Child, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("get transaction from context: %w", err)
	}

	rows, err := tx.Query(ctx, `
		SELECT id, school_id, first_name, last_name, pickup_latitude, pickup_longitude
		FROM children
		WHERE school_id = $1
		ORDER BY last_name, first_name
	`, schoolID)
	if err != nil {
		return nil, fmt.Errorf("query children by school: %w", err)
	}
	defer rows.Close()

	var out []*child.Child
	for rows.Next() {
		var c child.Child
		if err := rows.Scan(&c.ID, &c.SchoolID, &c.FirstName, &c.LastName, &c.PickupLatitude, &c.PickupLongitude); err != nil {
			return nil, fmt.Errorf("scan child: %w", err)
		}
		out = append(out, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return out, nil
}

// ListWithPickupLocation returns children of the school that have both pickup coordinates set.
func (repo *ChildRepo) ListWithPickupLocation(ctx context.Context, schoolID string) ([]*child.Child, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("get transaction from context: %w", err)
	}

	rows, err := tx.Query(ctx, `
		SELECT id, school_id, first_name, last_name, pickup_latitude, pickup_longitude
		FROM children
		WHERE school_id = $1
		  AND pickup_latitude IS NOT NULL
		  AND pickup_longitude IS NOT NULL
		ORDER BY id
	`, schoolID)
	if err != nil {
		return nil, fmt.Errorf("query children with pickup location: %w", err)
	}
	defer rows.Close()

	var out []*child.Child
	for rows.Next() {
		var c child.Child
		if err := rows.Scan(&c.ID, &c.SchoolID, &c.FirstName, &c.LastName, &c.PickupLatitude, &c.PickupLongitude); err != nil {
			return nil, fmt.Errorf("scan child: %w", err)
		}
		out = append(out, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return out, nil
}
