package demtile

import (
	"github.com/paulmach/orb/maptile"
)

// A TileOutputter persists raw DEM tiles so later runs can reuse them
// without re-downloading.
type TileOutputter interface {
	CreateTiles() error
	Save(tile maptile.Tile, data []byte) error
	Close() error
}
