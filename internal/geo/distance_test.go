package geo_test

import (
	"math"
	"testing"

	"attendly/api/internal/geo"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
		tolerance              float64
	}{
		{
			name: "Same point is zero",
			lat1: 37.5665, lon1: 126.9780,
			lat2: 37.5665, lon2: 126.9780,
			want: 0, tolerance: 0.001,
		},
		{
			name: "About 45 meters within Seoul",
			lat1: 37.5665, lon1: 126.9780,
			lat2: 37.5669, lon2: 126.9781,
			want: 45, tolerance: 5,
		},
		{
			name: "About 4 kilometers across Seoul",
			lat1: 37.5665, lon1: 126.9780,
			lat2: 37.6000, lon2: 127.0000,
			want: 4200, tolerance: 300,
		},
		{
			name: "Paris to London",
			lat1: 48.8566, lon1: 2.3522,
			lat2: 51.5074, lon2: -0.1278,
			want: 343500, tolerance: 1000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := geo.Distance(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("Distance() = %v, want %v (±%v)", got, tt.want, tt.tolerance)
			}
		})
	}
}

func TestDistanceSymmetry(t *testing.T) {
	ab := geo.Distance(37.5665, 126.9780, 51.5074, -0.1278)
	ba := geo.Distance(51.5074, -0.1278, 37.5665, 126.9780)
	if math.Abs(ab-ba) > 1e-9 {
		t.Errorf("Distance(A,B) = %v but Distance(B,A) = %v", ab, ba)
	}
}
