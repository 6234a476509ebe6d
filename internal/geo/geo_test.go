package geo

import (
	"math"
	"testing"
)

func TestDistanceMeters(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lng1, lat2, lng2 float64
		want                   float64
		tolerance              float64
	}{
		{
			name: "same point",
			lat1: 10.2937, lng1: 123.9068,
			lat2: 10.2937, lng2: 123.9068,
			want: 0, tolerance: 0.001,
		},
		{
			name: "magellans cross to fort san pedro",
			lat1: 10.2937, lng1: 123.9068,
			lat2: 10.2925, lng2: 123.9060,
			want: 159, tolerance: 5,
		},
		{
			name: "one degree of latitude at equator",
			lat1: 0, lng1: 0,
			lat2: 1, lng2: 0,
			want: 111195, tolerance: 100,
		},
		{
			name: "across the antimeridian",
			lat1: 0, lng1: 179.9995,
			lat2: 0, lng2: -179.9995,
			want: 111.2, tolerance: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceMeters(tt.lat1, tt.lng1, tt.lat2, tt.lng2)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("DistanceMeters() = %.2f, want %.2f ± %.2f", got, tt.want, tt.tolerance)
			}
		})
	}
}

func TestDistanceMetersSymmetry(t *testing.T) {
	ab := DistanceMeters(10.2937, 123.9068, 10.3157, 123.8854)
	ba := DistanceMeters(10.3157, 123.8854, 10.2937, 123.9068)
	if math.Abs(ab-ba) > 1e-9 {
		t.Errorf("distance not symmetric: %.9f vs %.9f", ab, ba)
	}
}

func TestBearingDegrees(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lng1, lat2, lng2 float64
		want                   float64
	}{
		{"due north", 0, 0, 1, 0, 0},
		{"due east", 0, 0, 0, 1, 90},
		{"due south", 1, 0, 0, 0, 180},
		{"due west", 0, 1, 0, 0, 270},
		{"north east", 0, 0, 1, 1, 45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BearingDegrees(tt.lat1, tt.lng1, tt.lat2, tt.lng2)
			if math.Abs(got-tt.want) > 0.5 {
				t.Errorf("BearingDegrees() = %.2f, want %.2f", got, tt.want)
			}
		})
	}
}

func TestBearingRange(t *testing.T) {
	points := []struct{ lat, lng float64 }{
		{1, 1}, {-1, 1}, {-1, -1}, {1, -1}, {0.5, -2}, {-2, 0.5},
	}
	for _, p := range points {
		b := BearingDegrees(0, 0, p.lat, p.lng)
		if b < 0 || b >= 360 {
			t.Errorf("bearing to (%v, %v) = %v, outside [0, 360)", p.lat, p.lng, b)
		}
	}
}

func TestCompassDirection(t *testing.T) {
	tests := []struct {
		bearing float64
		want    string
	}{
		{0, "N"},
		{44, "NE"},
		{45, "NE"},
		{90, "E"},
		{135, "SE"},
		{180, "S"},
		{225, "SW"},
		{270, "W"},
		{315, "NW"},
		{359, "N"},
		{360, "N"},
		// Boundary ties round half away from zero.
		{22.5, "NE"},
		{22.4, "N"},
		{67.5, "E"},
		{337.5, "N"},
		{337.4, "NW"},
		// Out-of-range inputs normalize first.
		{-45, "NW"},
		{405, "NE"},
	}

	for _, tt := range tests {
		got := CompassDirection(tt.bearing)
		if got != tt.want {
			t.Errorf("CompassDirection(%v) = %q, want %q", tt.bearing, got, tt.want)
		}
	}
}
