package demtile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/paulmach/orb/maptile"
)

// A diskOutputter writes tiles into a z/x/y.txt directory tree, mirroring
// the tile server layout so the same templates address both.
type diskOutputter struct {
	root     string
	format   string
	hasTiles bool
}

func NewDiskOutputter(dsn string, format string) (TileOutputter, error) {
	root, err := filepath.Abs(dsn)
	if err != nil {
		return nil, err
	}

	if format == "" {
		format = "txt"
	}

	return &diskOutputter{
		root:   root,
		format: format,
	}, nil
}

func (o *diskOutputter) Close() error {
	return nil
}

func (o *diskOutputter) CreateTiles() error {
	if o.hasTiles {
		return nil
	}

	info, err := os.Stat(o.root)
	switch {
	case os.IsNotExist(err):
		if err := os.MkdirAll(o.root, 0o755); err != nil {
			return err
		}
	case err != nil:
		return err
	case !info.IsDir():
		return errors.New("output root is already a file")
	}

	o.hasTiles = true
	return nil
}

func (o *diskOutputter) Save(tile maptile.Tile, data []byte) error {
	absPath := filepath.Join(o.root, fmt.Sprintf("%d/%d/%d.%s", tile.Z, tile.X, tile.Y, o.format))

	dir := filepath.Dir(absPath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	return os.WriteFile(absPath, data, 0o644)
}
