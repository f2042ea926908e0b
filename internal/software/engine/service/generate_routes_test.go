package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"school-bus/internal/domain/bus"
	"school-bus/internal/domain/child"
	"school-bus/internal/domain/geo"
	"school-bus/internal/domain/school"
)

func floatPtr(f float64) *float64 { return &f }

func seedSchool(env *testEnv, id, companyID string, lat, lon float64) {
	env.schools.schools[id] = &school.School{
		ID:        id,
		CompanyID: companyID,
		Name:      "Test School",
		Latitude:  floatPtr(lat),
		Longitude: floatPtr(lon),
	}
}

func seedChildren(env *testEnv, schoolID string, n int, baseLat, baseLon float64) {
	for i := 0; i < n; i++ {
		env.children.children = append(env.children.children, &child.Child{
			ID:              fmt.Sprintf("%s-child-%d", schoolID, i+1),
			SchoolID:        schoolID,
			FirstName:       "Child",
			LastName:        fmt.Sprintf("%d", i+1),
			PickupLatitude:  floatPtr(baseLat + float64(i)*0.002),
			PickupLongitude: floatPtr(baseLon + float64(i%5)*0.002),
		})
	}
}

func TestGenerateRoutesSingleRoute(t *testing.T) {
	env := newTestEnv()
	seedSchool(env, "school-1", "company-1", 51.16, 71.47)
	seedChildren(env, "school-1", 25, 51.10, 71.40)
	env.buses.buses = []*bus.Bus{
		{ID: "bus-1", CompanyID: "company-1", PlateNumber: "001", Capacity: 30},
		{ID: "bus-2", CompanyID: "company-1", PlateNumber: "002", Capacity: 40},
	}

	// avg capacity 35, target 28, 25 children -> one route
	summary, err := env.svc.GenerateRoutes(context.Background(), "school-1")
	if err != nil {
		t.Fatalf("GenerateRoutes() = %v, want nil", err)
	}

	if summary.RoutesCreated != 1 {
		t.Fatalf("RoutesCreated = %d, want 1", summary.RoutesCreated)
	}
	if summary.TotalChildren != 25 {
		t.Fatalf("TotalChildren = %d, want 25", summary.TotalChildren)
	}
	if summary.BusCapacityUsed != 35 {
		t.Fatalf("BusCapacityUsed = %d, want 35", summary.BusCapacityUsed)
	}
	if summary.AvgChildrenPerRoute != 25 {
		t.Fatalf("AvgChildrenPerRoute = %d, want 25", summary.AvgChildrenPerRoute)
	}
	if len(summary.Routes) != 1 || summary.Routes[0].Name != "Route A" {
		t.Fatalf("Routes = %+v, want one Route A", summary.Routes)
	}

	rt, err := env.routes.GetWithStops(context.Background(), summary.Routes[0].RouteID)
	if err != nil {
		t.Fatalf("GetWithStops() = %v, want nil", err)
	}
	if len(rt.Stops) != 25 {
		t.Fatalf("len(stops) = %d, want 25", len(rt.Stops))
	}

	// stops are ordered by ascending distance to the school
	anchor := geo.Point{Latitude: 51.16, Longitude: 71.47}
	prev := -1.0
	for _, st := range rt.Stops {
		d := geo.HaversineKM(anchor.Latitude, anchor.Longitude, st.Latitude, st.Longitude)
		if d < prev {
			t.Fatalf("stop %d out of order: %v km after %v km", st.Order, d, prev)
		}
		prev = d
		if st.Geohash == "" {
			t.Fatalf("stop %d has no geohash", st.Order)
		}
	}
	for i, st := range rt.Stops {
		if st.Order != i+1 {
			t.Fatalf("stop order at %d = %d, want %d", i, st.Order, i+1)
		}
		if want := fmt.Sprintf("Stop %d", i+1); st.Name != want {
			t.Fatalf("stop name = %q, want %q", st.Name, want)
		}
	}
}

func TestGenerateRoutesSplitsLargeSchool(t *testing.T) {
	env := newTestEnv()
	seedSchool(env, "school-1", "company-1", 51.16, 71.47)
	// two geographic groups, 20 children each
	seedChildren(env, "school-1", 20, 51.05, 71.30)
	for i := 0; i < 20; i++ {
		env.children.children = append(env.children.children, &child.Child{
			ID:              fmt.Sprintf("school-1-far-%d", i+1),
			SchoolID:        "school-1",
			FirstName:       "Child",
			LastName:        fmt.Sprintf("far-%d", i+1),
			PickupLatitude:  floatPtr(51.60 + float64(i)*0.002),
			PickupLongitude: floatPtr(71.90 + float64(i%5)*0.002),
		})
	}
	env.buses.buses = []*bus.Bus{
		{ID: "bus-1", CompanyID: "company-1", PlateNumber: "001", Capacity: 30},
	}

	// avg capacity 30, target 24, 40 children -> two routes
	summary, err := env.svc.GenerateRoutes(context.Background(), "school-1")
	if err != nil {
		t.Fatalf("GenerateRoutes() = %v, want nil", err)
	}
	if summary.RoutesCreated != 2 {
		t.Fatalf("RoutesCreated = %d, want 2", summary.RoutesCreated)
	}

	total := 0
	for _, r := range summary.Routes {
		total += r.ChildrenCount
	}
	if total != 40 {
		t.Fatalf("children across routes = %d, want 40", total)
	}
}

func TestGenerateRoutesSkipsChildrenWithoutCoordinates(t *testing.T) {
	env := newTestEnv()
	seedSchool(env, "school-1", "company-1", 51.16, 71.47)
	seedChildren(env, "school-1", 12, 51.10, 71.40)
	env.children.children = append(env.children.children, &child.Child{
		ID: "no-coords", SchoolID: "school-1", FirstName: "No", LastName: "Coords",
	})
	env.buses.buses = []*bus.Bus{
		{ID: "bus-1", CompanyID: "company-1", PlateNumber: "001", Capacity: 20},
	}

	summary, err := env.svc.GenerateRoutes(context.Background(), "school-1")
	if err != nil {
		t.Fatalf("GenerateRoutes() = %v, want nil", err)
	}
	if summary.TotalChildren != 12 {
		t.Fatalf("TotalChildren = %d, want 12", summary.TotalChildren)
	}
}

func TestGenerateRoutesErrors(t *testing.T) {
	t.Run("unknown school", func(t *testing.T) {
		env := newTestEnv()
		if _, err := env.svc.GenerateRoutes(context.Background(), "nope"); !errors.Is(err, school.ErrSchoolNotFound) {
			t.Fatalf("GenerateRoutes() = %v, want %v", err, school.ErrSchoolNotFound)
		}
	})

	t.Run("no eligible children", func(t *testing.T) {
		env := newTestEnv()
		seedSchool(env, "school-1", "company-1", 51.16, 71.47)
		env.buses.buses = []*bus.Bus{{ID: "bus-1", CompanyID: "company-1", PlateNumber: "001", Capacity: 20}}
		if _, err := env.svc.GenerateRoutes(context.Background(), "school-1"); !errors.Is(err, ErrNoEligibleChildren) {
			t.Fatalf("GenerateRoutes() = %v, want %v", err, ErrNoEligibleChildren)
		}
	})

	t.Run("no buses", func(t *testing.T) {
		env := newTestEnv()
		seedSchool(env, "school-1", "company-1", 51.16, 71.47)
		seedChildren(env, "school-1", 5, 51.10, 71.40)
		if _, err := env.svc.GenerateRoutes(context.Background(), "school-1"); !errors.Is(err, ErrNoBusesAvailable) {
			t.Fatalf("GenerateRoutes() = %v, want %v", err, ErrNoBusesAvailable)
		}
	})
}
