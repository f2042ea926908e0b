package geo

import (
	"errors"
	"math"
)

// EarthRadiusKM is the spherical Earth radius used for all distance math.
const EarthRadiusKM = 6371.0

// Point is a pickup coordinate tied to its owner (a child).
// It is an immutable input to clustering.
type Point struct {
	OwnerID   string
	Latitude  float64
	Longitude float64
}

var (
	ErrInvalidLatitude  = errors.New("latitude must be between -90 and 90")
	ErrInvalidLongitude = errors.New("longitude must be between -180 and 180")
)

// NewPoint constructs a Point after range-checking the coordinates.
func NewPoint(ownerID string, latitude, longitude float64) (Point, error) {
	point := Point{OwnerID: ownerID, Latitude: latitude, Longitude: longitude}
	if err := point.Validate(); err != nil {
		return Point{}, err
	}
	return point, nil
}

// Validate checks that the coordinates are within valid ranges.
func (point Point) Validate() error {
	if point.Latitude < -90 || point.Latitude > 90 {
		return ErrInvalidLatitude
	}
	if point.Longitude < -180 || point.Longitude > 180 {
		return ErrInvalidLongitude
	}
	return nil
}

// DistanceKM returns the great-circle distance to other in kilometers.
func (point Point) DistanceKM(other Point) float64 {
	return HaversineKM(point.Latitude, point.Longitude, other.Latitude, other.Longitude)
}

// HaversineKM computes the great-circle distance between two lat/lng pairs
// on a spherical Earth, in kilometers.
func HaversineKM(lat1, lon1, lat2, lon2 float64) float64 {
	a1 := lat1 * math.Pi / 180
	a2 := lat2 * math.Pi / 180
	da := (lat2 - lat1) * math.Pi / 180
	db := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(da/2)*math.Sin(da/2) +
		math.Cos(a1)*math.Cos(a2)*math.Sin(db/2)*math.Sin(db/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKM * c
}
