package postgres

import (
	"context"
	"errors"
	"fmt"

	"school-bus/internal/domain/route"
	"school-bus/internal/ports"

	"github.com/jackc/pgx/v5"
)

// RouteRepo persists routes and their stops using pgx and plain SQL.
type RouteRepo struct{}

// NewRouteRepo constructs a new RouteRepo.
func NewRouteRepo() ports.RouteRepository {
	return &RouteRepo{}
}

// CreateWithStops inserts a route row and all of its stop rows. The generated
// ids and timestamps are written back into the passed route.
func (repo *RouteRepo) CreateWithStops(ctx context.Context, rt *route.Route) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return fmt.Errorf("get transaction from context: %w", err)
	}

	if err := rt.Validate(); err != nil {
		return err
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO routes (school_id, name)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, rt.SchoolID, rt.Name).Scan(&rt.ID, &rt.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert route: %w", err)
	}

	// "order" is reserved in SQL, the column is stop_order
	for i := range rt.Stops {
		st := &rt.Stops[i]
		st.RouteID = rt.ID
		err = tx.QueryRow(ctx, `
			INSERT INTO stops (route_id, name, latitude, longitude, geohash, stop_order)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`, st.RouteID, st.Name, st.Latitude, st.Longitude, st.Geohash, st.Order).Scan(&st.ID)
		if err != nil {
			return fmt.Errorf("insert stop %d: %w", st.Order, err)
		}
	}

	return nil
}

// GetWithStops fetches a route and its stops ordered by stop_order.
func (repo *RouteRepo) GetWithStops(ctx context.Context, id string) (*route.Route, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("get transaction from context: %w", err)
	}

	var out route.Route
	err = tx.QueryRow(ctx, `
		SELECT id, school_id, name, created_at
		FROM routes
		WHERE id = $1
	`, id).Scan(&out.ID, &out.SchoolID, &out.Name, &out.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, route.ErrRouteNotFound
		}
		return nil, fmt.Errorf("query route: %w", err)
	}

	rows, err := tx.Query(ctx, `
		SELECT id, route_id, name, latitude, longitude, geohash, stop_order
		FROM stops
		WHERE route_id = $1
		ORDER BY stop_order
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query stops: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var st route.Stop
		if err := rows.Scan(&st.ID, &st.RouteID, &st.Name, &st.Latitude, &st.Longitude, &st.Geohash, &st.Order); err != nil {
			return nil, fmt.Errorf("scan stop: %w", err)
		}
		out.Stops = append(out.Stops, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return &out, nil
}
