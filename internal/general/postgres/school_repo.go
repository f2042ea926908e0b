package postgres

import (
	"context"
	"errors"
	"fmt"

	"school-bus/internal/domain/school"
	"school-bus/internal/ports"

	"github.com/jackc/pgx/v5"
)

// SchoolRepo reads schools using pgx and plain SQL.
type SchoolRepo struct{}

// NewSchoolRepo constructs a new SchoolRepo.
func NewSchoolRepo() ports.SchoolRepository {
	return &SchoolRepo{}
}

// GetByID fetches a school by primary key (uuid).
func (repo *SchoolRepo) GetByID(ctx context.Context, id string) (*school.School, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("get transaction from context: %w", err)
	}

	var out school.School
	err = tx.QueryRow(ctx, `
		SELECT id, company_id, name, latitude, longitude
		FROM schools
		WHERE id = $1
	`, id).Scan(&out.ID, &out.CompanyID, &out.Name, &out.Latitude, &out.Longitude)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, school.ErrSchoolNotFound
		}
		return nil, fmt.Errorf("query school: %w", err)
	}

	return &out, nil
}
