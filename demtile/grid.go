package demtile

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"

	"github.com/kuma003/go-demgrid/geodesy"
)

// A HeightGrid is the assembled elevation surface for a bounding box.
type HeightGrid struct {
	// Data holds the samples row-major, northernmost row first, west to
	// east within a row.
	Data [][]float64
	// X and Y are meter axes centered on the grid: X spans the columns
	// (east-west), Y the rows (north-south).
	X []float64
	Y []float64
	// PxWidth and PxHeight are the per-sample footprint in meters at the
	// grid's northwest corner.
	PxWidth  float64
	PxHeight float64
}

func (g *HeightGrid) Rows() int { return len(g.Data) }

func (g *HeightGrid) Cols() int {
	if len(g.Data) == 0 {
		return 0
	}
	return len(g.Data[0])
}

// MinMax returns the smallest and largest elevation, ignoring NoData.
// ok is false when the grid holds no elevation samples at all.
func (g *HeightGrid) MinMax() (min, max float64, ok bool) {
	for _, row := range g.Data {
		for _, v := range row {
			if v == NoData {
				continue
			}
			if !ok {
				min, max, ok = v, v, true
				continue
			}
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
	}
	return min, max, ok
}

// An Assembler collects parsed tiles for a bounding box and stitches them
// into one HeightGrid. It is meant to be fed from a single results
// goroutine and is not safe for concurrent use.
type Assembler struct {
	zoom   maptile.Zoom
	nw     geodesy.LatLon
	x1, y1 int
	rows   int
	cols   int
	parser *Parser
	tiles  map[maptile.Tile][][]float64
}

func NewAssembler(bound orb.Bound, zoom maptile.Zoom, parser *Parser) *Assembler {
	nw, se := corners(bound)
	x1, y1, x2, y2 := geodesy.TileRange(nw, se, int(zoom))
	if parser == nil {
		parser = NewParser()
	}
	return &Assembler{
		zoom:   zoom,
		nw:     nw,
		x1:     x1,
		y1:     y1,
		rows:   y2 - y1 + 1,
		cols:   x2 - x1 + 1,
		parser: parser,
		tiles:  make(map[maptile.Tile][][]float64),
	}
}

// Add parses one tile response and files it under its index. Responses
// without data become full no-data tiles.
func (a *Assembler) Add(resp *TileResponse) error {
	if resp.Data == nil {
		a.tiles[resp.Tile] = FilledTile()
		return nil
	}
	samples, err := a.parser.ParseTile(resp.Data)
	if err != nil {
		return fmt.Errorf("tile %d/%d/%d: %w", resp.Tile.Z, resp.Tile.X, resp.Tile.Y, err)
	}
	a.tiles[resp.Tile] = samples
	return nil
}

// Grid stitches the collected tiles row-major into a single surface. Tiles
// never added count as no-data. The meter axes derive from the pixel
// footprint at the grid's northwest corner.
func (a *Assembler) Grid() *HeightGrid {
	var missing [][]float64

	data := make([][]float64, a.rows*TileSize)
	for ti := 0; ti < a.rows; ti++ {
		for r := 0; r < TileSize; r++ {
			row := make([]float64, 0, a.cols*TileSize)
			for tj := 0; tj < a.cols; tj++ {
				tile := maptile.New(uint32(a.x1+tj), uint32(a.y1+ti), a.zoom)
				samples, ok := a.tiles[tile]
				if !ok {
					if missing == nil {
						missing = FilledTile()
					}
					samples = missing
				}
				row = append(row, samples[r]...)
			}
			data[ti*TileSize+r] = row
		}
	}

	pxW, pxH := geodesy.PixelFootprint(a.nw.Lat, a.nw.Lon, int(a.zoom))
	return &HeightGrid{
		Data:     data,
		X:        meterAxis(a.cols*TileSize, pxW),
		Y:        meterAxis(a.rows*TileSize, pxH),
		PxWidth:  pxW,
		PxHeight: pxH,
	}
}

// meterAxis spreads n samples of the given step evenly around zero.
func meterAxis(n int, step float64) []float64 {
	span := step * float64(n)
	axis := make([]float64, n)
	for i := range axis {
		axis[i] = -span/2.0 + span*float64(i)/float64(n-1)
	}
	return axis
}
