package geodesy

// TileSamples is the number of elevation samples along one tile edge.
const TileSamples = 256

// PixelFootprint returns the ground distance in meters spanned by one
// elevation sample (1/256 of a tile edge) at the given geographic point and
// zoom. Width is measured east-west along the point's latitude, height
// north-south along its longitude. The two differ because the projection is
// not equal-area: width shrinks toward the poles.
func PixelFootprint(lat, lon float64, zoom int) (widthMeters, heightMeters float64) {
	x, y := LatLonToTile(lat, lon, float64(zoom))
	return pixelFootprint(lat, lon, x, y, float64(zoom))
}

// PixelFootprintTile is PixelFootprint for a (possibly fractional) tile
// coordinate at the given zoom.
func PixelFootprintTile(x, y float64, zoom int) (widthMeters, heightMeters float64) {
	lat, lon := TileToLatLon(x, y, float64(zoom))
	return pixelFootprint(lat, lon, x, y, float64(zoom))
}

// pixelFootprint measures the distance to the diagonally adjacent tile
// coordinate along each axis separately and divides by the per-tile sample
// count.
func pixelFootprint(lat, lon, x, y, zoom float64) (w, h float64) {
	nextLat, nextLon := TileToLatLon(x+1.0, y+1.0, zoom)
	w = Distance(lat, lon, lat, nextLon) / TileSamples
	h = Distance(lat, lon, nextLat, lon) / TileSamples
	return w, h
}
