// Package geodesy converts between slippy-map tile coordinates and
// geographic coordinates, measures geodetic distances on the GRS80
// ellipsoid, and derives tile URL grids and per-sample ground footprints
// for XYZ tile servers.
//
// Every function is a pure computation over its arguments. The package
// holds no state and is safe for concurrent use.
package geodesy

import "math"

// A LatLon is a geographic point in degrees (WGS84/JGD2011 compatible).
type LatLon struct {
	Lat float64
	Lon float64
}

func radians(deg float64) float64 { return deg * math.Pi / 180.0 }
func degrees(rad float64) float64 { return rad * 180.0 / math.Pi }
