package demtile

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"

	"github.com/kuma003/go-demgrid/geodesy"
)

// corners splits an orb.Bound into the northwest/southeast corner pair the
// geodesy package works with.
func corners(bound orb.Bound) (nw, se geodesy.LatLon) {
	nw = geodesy.LatLon{Lat: bound.Max.Y(), Lon: bound.Min.X()}
	se = geodesy.LatLon{Lat: bound.Min.Y(), Lon: bound.Max.X()}
	return nw, se
}

// GridSize returns the number of tile rows and columns needed to cover the
// bounding box at the given zoom.
func GridSize(bound orb.Bound, zoom maptile.Zoom) (rows, cols int) {
	nw, se := corners(bound)
	x1, y1, x2, y2 := geodesy.TileRange(nw, se, int(zoom))
	return y2 - y1 + 1, x2 - x1 + 1
}

// TileCount returns the total number of tiles covering the bounding box at
// the given zoom.
func TileCount(bound orb.Bound, zoom maptile.Zoom) int {
	rows, cols := GridSize(bound, zoom)
	return rows * cols
}

// generateJobs emits one TileRequest per tile of the bounding box, row by
// row from the northwest corner, with URLs filled from the template.
func generateJobs(jobs chan *TileRequest, urlTemplate string, bound orb.Bound, zoom maptile.Zoom) error {
	nw, se := corners(bound)
	x1, y1, x2, y2 := geodesy.TileRange(nw, se, int(zoom))
	if x1 < 0 || y1 < 0 || x2 < x1 || y2 < y1 {
		return fmt.Errorf("degenerate tile range (%d,%d)-(%d,%d) for bound %v", x1, y1, x2, y2, bound)
	}

	urls := geodesy.TileURLs(urlTemplate, nw, se, int(zoom))
	for i, row := range urls {
		for j, url := range row {
			jobs <- &TileRequest{
				Tile: maptile.New(uint32(x1+j), uint32(y1+i), zoom),
				URL:  url,
			}
		}
	}
	return nil
}
