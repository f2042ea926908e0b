package school

import (
	"errors"

	"school-bus/internal/domain/geo"
)

// ErrSchoolNotFound is returned when a school id resolves to no row.
var ErrSchoolNotFound = errors.New("school not found")

// School is the read-side projection of the `schools` table. Its location,
// when known, anchors the stop ordering inside each generated route.
type School struct {
	ID        string
	CompanyID string
	Name      string

	Latitude  *float64
	Longitude *float64
}

// Location returns the school's coordinate. ok is false when the school has
// no coordinates on file.
func (s *School) Location() (geo.Point, bool) {
	if s.Latitude == nil || s.Longitude == nil {
		return geo.Point{}, false
	}
	return geo.Point{OwnerID: s.ID, Latitude: *s.Latitude, Longitude: *s.Longitude}, true
}
