package geodesy

import (
	"math"
	"strconv"
	"strings"
)

// TileURL fills a URL template like "https://host/{z}/{x}/{y}.txt" with the
// given tile index.
func TileURL(template string, zoom, x, y int) string {
	r := strings.NewReplacer(
		"{z}", strconv.Itoa(zoom),
		"{x}", strconv.Itoa(x),
		"{y}", strconv.Itoa(y),
	)
	return r.Replace(template)
}

// TileRange returns the inclusive integer tile index bounds that cover the
// bounding box at the given zoom. The corners are converted to continuous
// tile coordinates and floored.
//
// A degenerate box (northwest south of or east of southeast) produces an
// inverted range; callers own that invariant.
func TileRange(northwest, southeast LatLon, zoom int) (x1, y1, x2, y2 int) {
	xnw, ynw := LatLonToTile(northwest.Lat, northwest.Lon, float64(zoom))
	xse, yse := LatLonToTile(southeast.Lat, southeast.Lon, float64(zoom))
	x1 = int(math.Floor(xnw))
	y1 = int(math.Floor(ynw))
	x2 = int(math.Floor(xse))
	y2 = int(math.Floor(yse))
	return x1, y1, x2, y2
}

// TileURLs returns the grid of tile URLs covering the bounding box at the
// given zoom. Row 0 is the northernmost tile row, column 0 the westernmost
// column, and every integer tile inside the box appears exactly once.
func TileURLs(template string, northwest, southeast LatLon, zoom int) [][]string {
	x1, y1, x2, y2 := TileRange(northwest, southeast, zoom)

	var urls [][]string
	for y := y1; y <= y2; y++ {
		var row []string
		for x := x1; x <= x2; x++ {
			row = append(row, TileURL(template, zoom, x, y))
		}
		urls = append(urls, row)
	}
	return urls
}
