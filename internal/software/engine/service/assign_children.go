package service

import (
	"context"
	"fmt"
	"math"

	"school-bus/internal/domain/attendance"
	"school-bus/internal/domain/geo"
	"school-bus/internal/domain/route"
	"school-bus/internal/domain/trip"

	"github.com/dhconnelly/rtreego"
)

// probeEpsilon is the side length of the degenerate query box used to look
// up a single pickup point in the stop index.
const probeEpsilon = 1e-9

// stopEntry wraps a stop with its geofence box so it can live in the R-tree.
type stopEntry struct {
	rect rtreego.Rect
	stop route.Stop
}

func (entry *stopEntry) Bounds() rtreego.Rect { return entry.rect }

// assignChildren seeds attendance for every non-exempt child of the route's
// school whose pickup point falls inside the geofence box of at least one
// stop. Returns how many attendance rows were actually created.
func (service *engineService) assignChildren(ctx context.Context, t *trip.Trip) (int, error) {
	rt, err := service.routeRepo.GetWithStops(ctx, t.RouteID)
	if err != nil {
		return 0, err
	}
	if len(rt.Stops) == 0 {
		service.logger.Info(ctx, "route_has_no_stops", "Skipping child assignment, route has no stops", map[string]any{
			"route_id": rt.ID,
			"trip_id":  t.ID,
		})
		return 0, nil
	}

	children, err := service.childRepo.ListBySchool(ctx, rt.SchoolID)
	if err != nil {
		return 0, err
	}

	index, err := service.buildStopIndex(rt.Stops)
	if err != nil {
		return 0, err
	}

	var matched []string
	for _, c := range children {
		p, ok := c.PickupPoint()
		if !ok {
			continue
		}
		if service.matchStop(index, p) {
			matched = append(matched, c.ID)
		}
	}
	if len(matched) == 0 {
		return 0, nil
	}

	exempt, err := service.exemptRepo.ExemptChildIDs(ctx, t.ID, matched)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, childID := range matched {
		if _, skip := exempt[childID]; skip {
			continue
		}

		att, err := attendance.NewSystemSeed(childID, t.ID, attendance.StatusPickedUp)
		if err != nil {
			return created, err
		}

		ok, err := service.attRepo.Create(ctx, att)
		if err != nil {
			return created, err
		}
		if ok {
			created++
		}
	}

	return created, nil
}

// buildStopIndex puts every stop's geofence box into an R-tree so child
// lookup is a spatial query instead of a stops x children scan.
func (service *engineService) buildStopIndex(stops []route.Stop) (*rtreego.Rtree, error) {
	threshold := service.geofenceThreshold
	tree := rtreego.NewTree(2, 2, 25)

	for _, st := range stops {
		rect, err := rtreego.NewRect(
			rtreego.Point{st.Latitude - threshold, st.Longitude - threshold},
			[]float64{2 * threshold, 2 * threshold},
		)
		if err != nil {
			return nil, fmt.Errorf("stop %s geofence rect: %w", st.ID, err)
		}
		entry := stopEntry{rect: rect, stop: st}
		tree.Insert(&entry)
	}

	return tree, nil
}

// matchStop reports whether the pickup point falls strictly inside the
// geofence box of any indexed stop. The tree gives candidates; the exact
// per-axis check decides.
func (service *engineService) matchStop(index *rtreego.Rtree, p geo.Point) bool {
	probe, err := rtreego.NewRect(
		rtreego.Point{p.Latitude, p.Longitude},
		[]float64{probeEpsilon, probeEpsilon},
	)
	if err != nil {
		return false
	}

	for _, candidate := range index.SearchIntersect(probe) {
		entry, ok := candidate.(*stopEntry)
		if !ok {
			continue
		}
		if math.Abs(entry.stop.Latitude-p.Latitude) < service.geofenceThreshold &&
			math.Abs(entry.stop.Longitude-p.Longitude) < service.geofenceThreshold {
			return true
		}
	}
	return false
}
