package demtile

import "github.com/paulmach/orb/maptile"

// A TileRequest names one DEM tile to fetch and where to fetch it from.
type TileRequest struct {
	Tile maptile.Tile
	URL  string
}

// A TileResponse carries the raw ASCII grid for one tile. Data is nil when
// the source has no tile at this index (open sea on GSI's DEM layers); the
// assembler turns those into full no-data tiles.
type TileResponse struct {
	Tile    maptile.Tile
	Data    []byte
	Elapsed float64
}
