package geo

import (
	"errors"
	"math"
	"testing"
)

func TestNewPointValidation(t *testing.T) {
	tests := []struct {
		name    string
		lat     float64
		lon     float64
		wantErr error
	}{
		{"valid", 51.1605, 71.4704, nil},
		{"lat too high", 90.01, 0, ErrInvalidLatitude},
		{"lat too low", -90.01, 0, ErrInvalidLatitude},
		{"lon too high", 0, 180.01, ErrInvalidLongitude},
		{"lon too low", 0, -180.01, ErrInvalidLongitude},
		{"boundary", 90, -180, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPoint("p1", tt.lat, tt.lon)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewPoint(%v, %v) = %v, want %v", tt.lat, tt.lon, err, tt.wantErr)
			}
		})
	}
}

func TestHaversineKM(t *testing.T) {
	// Astana city center to the airport, roughly 15.4 km
	got := HaversineKM(51.1605, 71.4704, 51.0222, 71.4669)
	if got < 15.0 || got > 15.7 {
		t.Fatalf("HaversineKM = %v, want about 15.4", got)
	}

	if d := HaversineKM(10, 20, 10, 20); d != 0 {
		t.Fatalf("distance to self = %v, want 0", d)
	}
}

func TestDistanceKMSymmetry(t *testing.T) {
	a := Point{Latitude: 51.1, Longitude: 71.4}
	b := Point{Latitude: 52.3, Longitude: 70.9}
	if math.Abs(a.DistanceKM(b)-b.DistanceKM(a)) > 1e-9 {
		t.Fatalf("DistanceKM not symmetric: %v vs %v", a.DistanceKM(b), b.DistanceKM(a))
	}
}
