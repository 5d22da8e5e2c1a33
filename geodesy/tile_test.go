package geodesy

import (
	"math"
	"testing"
)

// almostEqual compares with an absolute tolerance plus a small component
// relative to the expected value, the way numpy.allclose does. A pure
// absolute comparison is too tight for reference coordinates quoted to
// six decimals: the tsukuba z18 corner differs from the quoted value by
// just over 1e-3 degrees of latitude.
func almostEqual(got, want, atol float64) bool {
	const rtol = 1e-5
	return math.Abs(got-want) <= atol+rtol*math.Abs(want)
}

func TestTileToLatLon(t *testing.T) {
	tests := []struct {
		name     string
		x, y     float64
		zoom     float64
		lat, lon float64
	}{
		{"z1 center", 1, 1, 1, 0.0, 0.0},
		{"tsukuba z18", 233080, 102845, 18, 36.104665, 140.087099},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lat, lon := TileToLatLon(tt.x, tt.y, tt.zoom)
			if !almostEqual(lat, tt.lat, 1e-3) || !almostEqual(lon, tt.lon, 1e-3) {
				t.Errorf("TileToLatLon(%v, %v, %v) = (%v, %v), want (%v, %v)",
					tt.x, tt.y, tt.zoom, lat, lon, tt.lat, tt.lon)
			}
		})
	}
}

func TestLatLonToTile(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
		zoom     float64
		x, y     float64
	}{
		{"tsukuba z14", 36.104665, 140.087099, 14, 14567, 6427},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := LatLonToTile(tt.lat, tt.lon, tt.zoom)
			if math.Floor(x) != tt.x || math.Floor(y) != tt.y {
				t.Errorf("LatLonToTile(%v, %v, %v) = (%v, %v), want floor (%v, %v)",
					tt.lat, tt.lon, tt.zoom, x, y, tt.x, tt.y)
			}
		})
	}
}

// The conversions must invert each other: converting a tile's northwest
// corner back to tile coordinates recovers the original integer index.
func TestTileLatLonRoundTrip(t *testing.T) {
	for zoom := 1; zoom <= 18; zoom++ {
		n := 1 << uint(zoom)
		xs := []int{0, n / 4, n / 2, n - 1}
		ys := []int{n / 4, n / 2, 3 * n / 4}
		for _, x := range xs {
			for _, y := range ys {
				lat, lon := TileToLatLon(float64(x), float64(y), float64(zoom))
				gotX, gotY := LatLonToTile(lat, lon, float64(zoom))
				if !almostEqual(gotX, float64(x), 1e-4) || !almostEqual(gotY, float64(y), 1e-4) {
					t.Fatalf("round trip at z%d: tile (%d, %d) -> (%v, %v) -> (%v, %v)",
						zoom, x, y, lat, lon, gotX, gotY)
				}
			}
		}
	}
}

func TestLatLonToTileSlice(t *testing.T) {
	lats := []float64{36.104665, 35.6550285, -33.8688}
	lons := []float64{140.087099, 139.74475, 151.2093}

	xs, ys := LatLonToTileSlice(lats, lons, 14)
	if len(xs) != len(lats) || len(ys) != len(lats) {
		t.Fatalf("slice lengths = %d, %d, want %d", len(xs), len(ys), len(lats))
	}
	for i := range lats {
		x, y := LatLonToTile(lats[i], lons[i], 14)
		if xs[i] != x || ys[i] != y {
			t.Errorf("element %d: slice gave (%v, %v), scalar gave (%v, %v)", i, xs[i], ys[i], x, y)
		}
	}

	backLats, backLons := TileToLatLonSlice(xs, ys, 14)
	for i := range lats {
		if !almostEqual(backLats[i], lats[i], 1e-9) || !almostEqual(backLons[i], lons[i], 1e-9) {
			t.Errorf("element %d: round trip gave (%v, %v), want (%v, %v)",
				i, backLats[i], backLons[i], lats[i], lons[i])
		}
	}
}
