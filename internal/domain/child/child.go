package child

import (
	"school-bus/internal/domain/geo"
)

// Child is the read-side projection of the `children` table this engine
// consumes. The engine never mutates children.
type Child struct {
	ID        string
	SchoolID  string
	FirstName string
	LastName  string

	// Pickup coordinates; nil when the parent has not set a location.
	PickupLatitude  *float64
	PickupLongitude *float64
}

// HasPickupLocation reports whether both pickup coordinates are set.
func (c *Child) HasPickupLocation() bool {
	return c.PickupLatitude != nil && c.PickupLongitude != nil
}

// PickupPoint returns the child's pickup coordinate as a geo.Point.
// ok is false when the child has no pickup location.
func (c *Child) PickupPoint() (geo.Point, bool) {
	if !c.HasPickupLocation() {
		return geo.Point{}, false
	}
	return geo.Point{OwnerID: c.ID, Latitude: *c.PickupLatitude, Longitude: *c.PickupLongitude}, true
}
