package postgres

import (
	"context"
	"fmt"
	"time"

	"school-bus/internal/domain/schedule"
	"school-bus/internal/ports"
)

// ScheduledRouteRepo reads scheduled routes using pgx and plain SQL.
type ScheduledRouteRepo struct{}

// NewScheduledRouteRepo constructs a new ScheduledRouteRepo.
func NewScheduledRouteRepo() ports.ScheduledRouteRepository {
	return &ScheduledRouteRepo{}
}

// ListActiveOn returns every ACTIVE scheduled route that recurs on the given
// weekday and whose effectivity window contains the given date. NULL window
// edges are treated as open.
func (repo *ScheduledRouteRepo) ListActiveOn(ctx context.Context, day schedule.Weekday, date time.Time) ([]*schedule.ScheduledRoute, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("get transaction from context: %w", err)
	}

	rows, err := tx.Query(ctx, `
		SELECT id, route_id, driver_id, bus_id,
		       to_char(scheduled_time, 'HH24:MI'),
		       recurring_days, effective_from, effective_until,
		       auto_assign_children, status
		FROM scheduled_routes
		WHERE status = 'ACTIVE'
		  AND $1 = ANY(recurring_days)
		  AND (effective_from IS NULL OR effective_from <= $2::date)
		  AND (effective_until IS NULL OR effective_until >= $2::date)
		ORDER BY id
	`, day.String(), date)
	if err != nil {
		return nil, fmt.Errorf("query scheduled routes: %w", err)
	}
	defer rows.Close()

	var out []*schedule.ScheduledRoute
	for rows.Next() {
		var sr schedule.ScheduledRoute
		var at, status string
		var days []string
		err := rows.Scan(
			&sr.ID, &sr.RouteID, &sr.DriverID, &sr.BusID,
			&at, &days, &sr.EffectiveFrom, &sr.EffectiveUntil,
			&sr.AutoAssignChildren, &status,
		)
		if err != nil {
			return nil, fmt.Errorf("scan scheduled route: %w", err)
		}

		sr.ScheduledTime, err = schedule.ParseTimeOfDay(at)
		if err != nil {
			return nil, fmt.Errorf("scheduled route %s: %w", sr.ID, err)
		}
		for _, d := range days {
			wd, err := schedule.ParseWeekday(d)
			if err != nil {
				return nil, fmt.Errorf("scheduled route %s: %w", sr.ID, err)
			}
			sr.RecurringDays = append(sr.RecurringDays, wd)
		}
		sr.Status, err = schedule.ParseStatus(status)
		if err != nil {
			return nil, fmt.Errorf("scheduled route %s: %w", sr.ID, err)
		}

		out = append(out, &sr)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return out, nil
}
