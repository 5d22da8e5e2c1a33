package geodesy

import "math"

// TileToLatLon converts slippy-map tile coordinates to the latitude and
// longitude, in degrees, of the tile's northwest corner. Fractional x and y
// address positions inside a tile; zoom need not be an integer.
//
// Reference: https://wiki.openstreetmap.org/wiki/Slippy_map_tilenames#Mathematics
func TileToLatLon(x, y, zoom float64) (lat, lon float64) {
	n := math.Exp2(zoom)
	lon = x/n*360.0 - 180.0
	lat = degrees(math.Atan(math.Sinh(math.Pi * (1.0 - 2.0*y/n))))
	return lat, lon
}

// LatLonToTile converts a geographic point in degrees to continuous tile
// coordinates at the given zoom. The result is never truncated: the
// fractional part is the position within the tile, which the footprint
// calculations depend on. Callers that need integer tile indices must floor
// the result themselves.
//
// The latitude must lie strictly inside (-90, 90); at the poles the
// projection has a singularity and the result is not finite.
func LatLonToTile(lat, lon, zoom float64) (x, y float64) {
	n := math.Exp2(zoom)
	x = (lon + 180.0) / 360.0 * n
	latRad := radians(lat)
	y = (1.0 - math.Log(math.Tan(latRad)+1.0/math.Cos(latRad))/math.Pi) / 2.0 * n
	return x, y
}

// TileToLatLonSlice applies TileToLatLon element-wise. x and y must have the
// same length.
func TileToLatLonSlice(x, y []float64, zoom float64) (lat, lon []float64) {
	lat = make([]float64, len(x))
	lon = make([]float64, len(x))
	for i := range x {
		lat[i], lon[i] = TileToLatLon(x[i], y[i], zoom)
	}
	return lat, lon
}

// LatLonToTileSlice applies LatLonToTile element-wise. lat and lon must have
// the same length.
func LatLonToTileSlice(lat, lon []float64, zoom float64) (x, y []float64) {
	x = make([]float64, len(lat))
	y = make([]float64, len(lat))
	for i := range lat {
		x[i], y[i] = LatLonToTile(lat[i], lon[i], zoom)
	}
	return x, y
}
