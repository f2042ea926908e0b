package postgres

import (
	"context"
	"fmt"

	"school-bus/internal/domain/bus"
	"school-bus/internal/ports"
)

// BusRepo reads buses using pgx and plain SQL.
type BusRepo struct{}

// NewBusRepo constructs a new BusRepo.
func NewBusRepo() ports.BusRepository {
	return &BusRepo{}
}

// ListByCompany returns every bus that belongs to the company.
func (repo *BusRepo) ListByCompany(ctx context.Context, companyID string) ([]*bus.Bus, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("get transaction from context: %w", err)
	}

	rows, err := tx.Query(ctx, `
		SELECT id, company_id, plate_number, capacity
		FROM buses
		WHERE company_id = $1
		ORDER BY plate_number
	`, companyID)
	if err != nil {
		return nil, fmt.Errorf("query buses by company: %w", err)
	}
	defer rows.Close()

	var out []*bus.Bus
	for rows.Next() {
		var b bus.Bus
		if err := rows.Scan(&b.ID, &b.CompanyID, &b.PlateNumber, &b.Capacity); err != nil {
			return nil, fmt.Errorf("scan bus: %w", err)
		}
		out = append(out, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return out, nil
}
