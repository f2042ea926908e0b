package route

import (
	"errors"
	"testing"
)

func validStops(n int) []Stop {
	stops := make([]Stop, n)
	for i := range stops {
		stops[i] = Stop{
			Name:      "Stop",
			Latitude:  51.0 + float64(i)*0.01,
			Longitude: 71.0,
			Order:     i + 1,
		}
	}
	return stops
}

func TestNewRoute(t *testing.T) {
	tests := []struct {
		name     string
		schoolID string
		rtName   string
		stops    []Stop
		wantErr  error
	}{
		{"valid", "school-1", "Route A", validStops(3), nil},
		{"missing school", "  ", "Route A", validStops(1), ErrSchoolRequired},
		{"missing name", "school-1", "", validStops(1), ErrNameRequired},
		{"no stops", "school-1", "Route A", nil, ErrNoStops},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.schoolID, tt.rtName, tt.stops)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("New() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateRejectsGappedStopOrder(t *testing.T) {
	stops := validStops(3)
	stops[1].Order = 5

	_, err := New("school-1", "Route A", stops)
	if !errors.Is(err, ErrBadStopOrder) {
		t.Fatalf("New() = %v, want %v", err, ErrBadStopOrder)
	}
}

func TestValidateRejectsZeroBasedStopOrder(t *testing.T) {
	stops := validStops(2)
	stops[0].Order = 0
	stops[1].Order = 1

	_, err := New("school-1", "Route A", stops)
	if !errors.Is(err, ErrBadStopOrder) {
		t.Fatalf("New() = %v, want %v", err, ErrBadStopOrder)
	}
}
