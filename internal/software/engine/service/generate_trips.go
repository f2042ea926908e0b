package service

import (
	"context"
	"errors"
	"time"

	"school-bus/internal/domain/schedule"
	"school-bus/internal/domain/trip"
	"school-bus/internal/ports"
)

// GenerateDailyTrips materializes one trip per schedule that is active on
// date. Each schedule runs in its own transaction: a failure there is
// recorded in the report and the batch moves on.
func (service *engineService) GenerateDailyTrips(ctx context.Context, date time.Time) (report *ports.TripGenerationReport, retErr error) {
	date = schedule.DateOnly(date)
	day := schedule.WeekdayOf(date)

	// advisory only; the unique (schedule, date) index is the hard guarantee
	lockHeld := false
	if service.lock != nil {
		ok, err := service.lock.AcquireDay(ctx, date)
		if err != nil {
			service.logger.Error(ctx, "generation_lock_failed", "Could not reach the generation lock, proceeding anyway", err, map[string]any{
				"date": date.Format("2006-01-02"),
			})
		} else if !ok {
			return nil, ErrGenerationLocked
		} else {
			lockHeld = true
		}
	}
	// a batch that errors out frees the day so a retry is not stuck behind
	// the lock TTL; a completed batch keeps it, reruns are idempotent anyway
	defer func() {
		if retErr == nil || !lockHeld {
			return
		}
		if err := service.lock.ReleaseDay(ctx, date); err != nil {
			service.logger.Error(ctx, "generation_unlock_failed", "Could not release the generation lock", err, map[string]any{
				"date": date.Format("2006-01-02"),
			})
		}
	}()

	var schedules []*schedule.ScheduledRoute
	err := service.uow.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		schedules, err = service.scheduleRepo.ListActiveOn(ctx, day, date)
		return err
	})
	if err != nil {
		return nil, err
	}

	report = &ports.TripGenerationReport{Date: date}

	for _, sched := range schedules {
		// bail out cleanly mid-batch on shutdown
		if err := ctx.Err(); err != nil {
			return report, err
		}

		// the query already filters, this guards against clock-edge rows
		if !sched.ActiveOn(date) {
			continue
		}
		report.Matched++

		outcome := service.runSchedule(ctx, sched, date)
		report.Outcomes = append(report.Outcomes, outcome)
		if outcome.Error != "" {
			report.Failures++
		} else if outcome.TripID != "" {
			report.TripsCreated++
		}
	}

	service.logger.Info(ctx, "trips_generated", "Daily trip generation finished", map[string]any{
		"date":          date.Format("2006-01-02"),
		"matched":       report.Matched,
		"trips_created": report.TripsCreated,
		"failures":      report.Failures,
	})

	return report, nil
}

// runSchedule creates the trip for one schedule and, when the schedule asks
// for it, seeds attendance, all inside a single transaction.
func (service *engineService) runSchedule(ctx context.Context, sched *schedule.ScheduledRoute, date time.Time) ports.ScheduleOutcome {
	outcome := ports.ScheduleOutcome{ScheduledRouteID: sched.ID}

	var created *trip.Trip
	err := service.uow.WithinTx(ctx, func(ctx context.Context) error {
		t, err := trip.NewScheduled(sched.BusID, sched.RouteID, sched.DriverID, sched.ScheduledTime.On(date))
		if err != nil {
			return err
		}
		schedID := sched.ID
		t.ScheduledRouteID = &schedID
		t.ServiceDate = date

		if err := service.tripRepo.Create(ctx, t); err != nil {
			return err
		}
		created = t

		if sched.AutoAssignChildren {
			n, err := service.assignChildren(ctx, t)
			if err != nil {
				return err
			}
			outcome.AttendancesCreated = n
		}

		return nil
	})
	if err != nil {
		// a rerun of the same date finds its trips already there; that is
		// success, not a failure
		if errors.Is(err, trip.ErrDuplicateForDate) {
			service.logger.Info(ctx, "trip_already_exists", "Trip already materialized for this schedule and date", map[string]any{
				"scheduled_route_id": sched.ID,
				"date":               date.Format("2006-01-02"),
			})
			return outcome
		}

		service.logger.Error(ctx, "trip_generation_failed", "Failed to materialize trip for schedule", err, map[string]any{
			"scheduled_route_id": sched.ID,
			"date":               date.Format("2006-01-02"),
		})
		outcome.Error = err.Error()
		outcome.AttendancesCreated = 0
		return outcome
	}

	outcome.TripID = created.ID
	service.publishTripGenerated(ctx, created, outcome.AttendancesCreated)
	return outcome
}
