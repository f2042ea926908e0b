package route

import (
	"errors"
	"strings"
	"time"
)

// Route is the domain entity corresponding to the `routes` table.
// The engine creates routes and never mutates them afterwards; later
// administrative edits happen outside this engine.
type Route struct {
	ID        string
	SchoolID  string
	Name      string
	CreatedAt time.Time

	// Stops in traversal order.
	Stops []Stop
}

// Stop is one pickup location on a route. Order values form a contiguous
// 1..N sequence matching traversal order.
type Stop struct {
	ID        string
	RouteID   string
	Name      string
	Latitude  float64
	Longitude float64
	Geohash   string
	Order     int
}

var (
	ErrSchoolRequired = errors.New("school id is required")
	ErrNameRequired   = errors.New("route name is required")
	ErrNoStops        = errors.New("route must have at least one stop")
	ErrBadStopOrder   = errors.New("stop order must be a contiguous 1..N sequence")
	ErrRouteNotFound  = errors.New("route not found")
)

// New constructs a Route aggregate and validates its invariants.
func New(schoolID, name string, stops []Stop) (*Route, error) {
	routeObj := &Route{
		SchoolID:  strings.TrimSpace(schoolID),
		Name:      strings.TrimSpace(name),
		CreatedAt: time.Now().UTC(),
		Stops:     stops,
	}
	if err := routeObj.Validate(); err != nil {
		return nil, err
	}
	return routeObj, nil
}

// Validate checks invariants mirroring DB constraints.
func (routeObj *Route) Validate() error {
	if routeObj.SchoolID == "" {
		return ErrSchoolRequired
	}
	if routeObj.Name == "" {
		return ErrNameRequired
	}
	if len(routeObj.Stops) == 0 {
		return ErrNoStops
	}
	for i, stop := range routeObj.Stops {
		if stop.Order != i+1 {
			return ErrBadStopOrder
		}
	}
	return nil
}
