package demtile

import (
	"bytes"
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
)

// The Izu Oshima box covers exactly tiles 3633-3634 x 1625-1626 at z12.
var izuOshimaBound = orb.Bound{
	Min: orb.Point{139.331932, 34.672182},
	Max: orb.Point{139.472122, 34.808917},
}

func TestGridSize(t *testing.T) {
	rows, cols := GridSize(izuOshimaBound, 12)
	if rows != 2 || cols != 2 {
		t.Errorf("GridSize() = (%d, %d), want (2, 2)", rows, cols)
	}
	if n := TileCount(izuOshimaBound, 12); n != 4 {
		t.Errorf("TileCount() = %d, want 4", n)
	}
}

func TestAssembler(t *testing.T) {
	assembler := NewAssembler(izuOshimaBound, 12, nil)

	land := tileText(func(r, c int) string { return "10" })
	if err := assembler.Add(&TileResponse{Tile: maptile.New(3633, 1625, 12), Data: land}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	// Sea tile: no data from the server.
	if err := assembler.Add(&TileResponse{Tile: maptile.New(3634, 1625, 12)}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	// Tiles 3633/1626 and 3634/1626 never arrive.

	grid := assembler.Grid()

	if grid.Rows() != 2*TileSize || grid.Cols() != 2*TileSize {
		t.Fatalf("grid is %dx%d, want %dx%d", grid.Rows(), grid.Cols(), 2*TileSize, 2*TileSize)
	}

	if v := grid.Data[0][0]; v != 10 {
		t.Errorf("northwest sample = %v, want 10", v)
	}
	if v := grid.Data[0][TileSize]; v != NoData {
		t.Errorf("northeast sample = %v, want NoData", v)
	}
	if v := grid.Data[TileSize][0]; v != NoData {
		t.Errorf("missing tile sample = %v, want NoData", v)
	}

	min, max, ok := grid.MinMax()
	if !ok || min != 10 || max != 10 {
		t.Errorf("MinMax() = (%v, %v, %v), want (10, 10, true)", min, max, ok)
	}

	if len(grid.X) != grid.Cols() || len(grid.Y) != grid.Rows() {
		t.Fatalf("axis lengths = (%d, %d), want (%d, %d)", len(grid.X), len(grid.Y), grid.Cols(), grid.Rows())
	}
	if grid.PxWidth <= 0 || grid.PxHeight <= 0 {
		t.Fatalf("footprint = (%v, %v), want positive", grid.PxWidth, grid.PxHeight)
	}
	// Axes are centered on the grid.
	if math.Abs(grid.X[0]+grid.X[len(grid.X)-1]) > 1e-6 {
		t.Errorf("X axis not centered: %v .. %v", grid.X[0], grid.X[len(grid.X)-1])
	}
	wantSpan := grid.PxWidth * float64(grid.Cols())
	gotSpan := grid.X[len(grid.X)-1] - grid.X[0]
	if math.Abs(gotSpan-wantSpan) > 1e-6 {
		t.Errorf("X axis span = %v, want %v", gotSpan, wantSpan)
	}
}

func TestColorMap(t *testing.T) {
	grid := &HeightGrid{
		Data: [][]float64{
			{100, 50},
			{NoData, 0},
		},
	}

	colors := grid.ColorMap()
	if len(colors) != 2*2*4 {
		t.Fatalf("got %d components, want %d", len(colors), 2*2*4)
	}

	// Highest sample saturates the green channel.
	if got := colors[0:4]; got[0] != 0.5 || got[1] != 1.0 || got[2] != 0.5 || got[3] != 1.0 {
		t.Errorf("peak color = %v", got)
	}
	// Half the peak elevation.
	if g := colors[4+1]; math.Abs(float64(g)-0.8) > 1e-6 {
		t.Errorf("mid color green = %v, want 0.8", g)
	}
	// NoData renders as sea.
	if got := colors[8 : 8+4]; got[0] != 0 || got[1] != 0 || got[2] != 1 || got[3] != 1 {
		t.Errorf("sea color = %v", got)
	}
}

func TestFlattenNoData(t *testing.T) {
	grid := &HeightGrid{Data: [][]float64{{NoData, 5}}}
	grid.FlattenNoData()
	if grid.Data[0][0] != 0 || grid.Data[0][1] != 5 {
		t.Errorf("FlattenNoData() gave %v", grid.Data[0])
	}
}

func TestWriteEsriASCII(t *testing.T) {
	grid := &HeightGrid{
		Data: [][]float64{
			{1, 2.5, NoData},
			{3, 4, 5},
		},
		PxWidth: 30,
	}

	var buf bytes.Buffer
	if err := grid.WriteEsriASCII(&buf, -9999); err != nil {
		t.Fatalf("WriteEsriASCII() error = %v", err)
	}

	want := "ncols 3\n" +
		"nrows 2\n" +
		"xllcorner 0\n" +
		"yllcorner 0\n" +
		"cellsize 30\n" +
		"nodata_value -9999\n" +
		"1 2.5 -9999\n" +
		"3 4 5\n"
	if buf.String() != want {
		t.Errorf("WriteEsriASCII() = %q, want %q", buf.String(), want)
	}
}

func TestMemoryCache(t *testing.T) {
	cache, err := NewMemoryCache(2)
	if err != nil {
		t.Fatalf("NewMemoryCache() error = %v", err)
	}

	tile := maptile.New(3633, 1625, 12)
	if _, ok := cache.Cached(tile); ok {
		t.Fatal("empty cache reported a hit")
	}

	cache.Put(tile, []byte("data"))
	data, ok := cache.Cached(tile)
	if !ok || string(data) != "data" {
		t.Errorf("Cached() = (%q, %v), want (data, true)", data, ok)
	}
}
