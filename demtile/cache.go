package demtile

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/paulmach/orb/maptile"
)

// A TileCache serves previously stored raw tile data. Fetch workers consult
// it before going to the network.
type TileCache interface {
	Cached(tile maptile.Tile) ([]byte, bool)
}

// A TileStore is a TileCache the fetch workers can also write to. Fetched
// tile bodies are stored so repeat runs over the same box stay local.
type TileStore interface {
	TileCache
	Put(tile maptile.Tile, data []byte)
}

// A MemoryCache is a fixed-size in-memory LRU of raw tile data.
type MemoryCache struct {
	cache *lru.Cache[maptile.Tile, []byte]
}

func NewMemoryCache(size int) (*MemoryCache, error) {
	cache, err := lru.New[maptile.Tile, []byte](size)
	if err != nil {
		return nil, err
	}
	return &MemoryCache{cache: cache}, nil
}

func (c *MemoryCache) Cached(tile maptile.Tile) ([]byte, bool) {
	return c.cache.Get(tile)
}

func (c *MemoryCache) Put(tile maptile.Tile, data []byte) {
	c.cache.Add(tile, data)
}
