package postgres

import (
	"context"
	"fmt"

	"school-bus/internal/ports"
)

// ExemptionRepo reads pickup exemptions using pgx and plain SQL.
type ExemptionRepo struct{}

// NewExemptionRepo constructs a new ExemptionRepo.
func NewExemptionRepo() ports.ExemptionRepository {
	return &ExemptionRepo{}
}

// ExemptChildIDs returns the subset of childIDs that must be skipped when
// seeding attendance for the trip: children with a PENDING early pickup
// request or an ACTIVE trip exception for that trip.
func (repo *ExemptionRepo) ExemptChildIDs(ctx context.Context, tripID string, childIDs []string) (map[string]struct{}, error) {
	out := make(map[string]struct{})
	if len(childIDs) == 0 {
		return out, nil
	}

	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("get transaction from context: %w", err)
	}

	rows, err := tx.Query(ctx, `
		SELECT child_id
		FROM early_pickup_requests
		WHERE trip_id = $1 AND status = 'PENDING' AND child_id = ANY($2)
		UNION
		SELECT child_id
		FROM trip_exceptions
		WHERE trip_id = $1 AND status = 'ACTIVE' AND child_id = ANY($2)
	`, tripID, childIDs)
	if err != nil {
		return nil, fmt.Errorf("query exemptions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var childID string
		if err := rows.Scan(&childID); err != nil {
			return nil, fmt.Errorf("scan exemption: %w", err)
		}
		out[childID] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return out, nil
}
