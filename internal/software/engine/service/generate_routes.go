package service

import (
	"context"
	"fmt"
	"math"
	"sort"

	"school-bus/internal/domain/bus"
	"school-bus/internal/domain/child"
	"school-bus/internal/domain/geo"
	"school-bus/internal/domain/route"
	"school-bus/internal/ports"

	"github.com/mmcloughlin/geohash"
)

const (
	// minChildrenPerRoute keeps tiny fleets from producing one route per child.
	minChildrenPerRoute = 10
	// capacityFillRatio leaves headroom on each bus below its rated capacity.
	capacityFillRatio = 0.8
	// stopGeohashPrecision gives roughly street-block sized cells.
	stopGeohashPrecision = 8
)

// GenerateRoutes partitions the school's geocoded children into route-sized
// clusters and persists one Route+Stops aggregate per cluster. Children
// without pickup coordinates are never clustered.
func (service *engineService) GenerateRoutes(ctx context.Context, schoolID string) (*ports.RouteGenerationSummary, error) {
	var (
		schoolPoint geo.Point
		hasAnchor   bool
		children    []*child.Child
		fleet       []*bus.Bus
	)

	// load everything we need in one read transaction
	err := service.uow.WithinTx(ctx, func(ctx context.Context) error {
		sch, err := service.schoolRepo.GetByID(ctx, schoolID)
		if err != nil {
			return err
		}
		schoolPoint, hasAnchor = sch.Location()

		children, err = service.childRepo.ListWithPickupLocation(ctx, schoolID)
		if err != nil {
			return err
		}

		fleet, err = service.busRepo.ListByCompany(ctx, sch.CompanyID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if len(children) == 0 {
		return nil, ErrNoEligibleChildren
	}
	if len(fleet) == 0 {
		return nil, ErrNoBusesAvailable
	}

	avgCapacity := bus.AverageCapacity(fleet)
	target := int(float64(avgCapacity) * capacityFillRatio)
	if target < minChildrenPerRoute {
		target = minChildrenPerRoute
	}

	numRoutes := int(math.Ceil(float64(len(children)) / float64(target)))
	if numRoutes < 1 {
		numRoutes = 1
	}

	points := make([]geo.Point, 0, len(children))
	for _, c := range children {
		if p, ok := c.PickupPoint(); ok {
			points = append(points, p)
		}
	}

	clusters := geo.KMeans(points, numRoutes, service.rng)

	summary := &ports.RouteGenerationSummary{
		TotalChildren:   len(points),
		BusCapacityUsed: avgCapacity,
	}

	// each route commits on its own so one bad cluster cannot take the
	// others down with it
	for i, cluster := range clusters {
		anchor := cluster.Centroid
		if hasAnchor {
			anchor = schoolPoint
		}

		rt, err := buildRoute(schoolID, route.Label(i), cluster, anchor)
		if err != nil {
			return nil, err
		}

		err = service.uow.WithinTx(ctx, func(ctx context.Context) error {
			return service.routeRepo.CreateWithStops(ctx, rt)
		})
		if err != nil {
			service.logger.Error(ctx, "route_create_failed", "Failed to persist generated route", err, map[string]any{
				"school_id": schoolID,
				"name":      rt.Name,
				"children":  len(cluster.Members),
			})
			return nil, err
		}

		summary.RoutesCreated++
		summary.Routes = append(summary.Routes, ports.GeneratedRoute{
			RouteID:       rt.ID,
			Name:          rt.Name,
			ChildrenCount: len(cluster.Members),
		})
	}

	if summary.RoutesCreated > 0 {
		summary.AvgChildrenPerRoute = summary.TotalChildren / summary.RoutesCreated
	}

	service.logger.Info(ctx, "routes_generated", "Route generation finished", map[string]any{
		"school_id":      schoolID,
		"routes_created": summary.RoutesCreated,
		"total_children": summary.TotalChildren,
	})

	return summary, nil
}

// buildRoute turns one cluster into a Route aggregate: members become stops
// ordered by ascending distance to the anchor, nearest first.
func buildRoute(schoolID, name string, cluster geo.Cluster, anchor geo.Point) (*route.Route, error) {
	members := make([]geo.Point, len(cluster.Members))
	copy(members, cluster.Members)

	sort.Slice(members, func(i, j int) bool {
		di := geo.HaversineKM(anchor.Latitude, anchor.Longitude, members[i].Latitude, members[i].Longitude)
		dj := geo.HaversineKM(anchor.Latitude, anchor.Longitude, members[j].Latitude, members[j].Longitude)
		if di != dj {
			return di < dj
		}
		// stable order for equidistant pickups
		return members[i].OwnerID < members[j].OwnerID
	})

	stops := make([]route.Stop, len(members))
	for i, m := range members {
		stops[i] = route.Stop{
			Name:      routeStopName(i),
			Latitude:  m.Latitude,
			Longitude: m.Longitude,
			Geohash:   geohash.EncodeWithPrecision(m.Latitude, m.Longitude, stopGeohashPrecision),
			Order:     i + 1,
		}
	}

	return route.New(schoolID, name, stops)
}

func routeStopName(idx int) string {
	return fmt.Sprintf("Stop %d", idx+1)
}
