package demtile

import (
	"database/sql"
	"log"

	_ "github.com/mattn/go-sqlite3" // Register sqlite3 database driver
	"github.com/paulmach/orb/maptile"
)

// TileData is one tile read back from an archive. Data is nil when the
// archive holds no tile at that index.
type TileData struct {
	Tile maptile.Tile
	Data []byte
}

// An MbtilesReader reads tiles back out of an MBTiles archive.
type MbtilesReader interface {
	TileCache
	Close() error
	GetTile(tile maptile.Tile) (*TileData, error)
	Metadata() (*MbtilesMetadata, error)
	VisitAllTiles(visitor func(maptile.Tile, []byte)) error
}

func NewMbtilesReader(dsn string) (MbtilesReader, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	return NewMbtilesReaderWithDatabase(db)
}

func NewMbtilesReaderWithDatabase(db *sql.DB) (MbtilesReader, error) {
	return &mbtilesReader{db: db}, nil
}

type mbtilesReader struct {
	db *sql.DB
}

func (o *mbtilesReader) Close() error {
	var err error

	if o.db != nil {
		if err2 := o.db.Close(); err2 != nil {
			err = err2
		}
	}

	return err
}

// GetTile returns data for the given tile.
func (o *mbtilesReader) GetTile(tile maptile.Tile) (*TileData, error) {
	var data []byte

	result := o.db.QueryRow("SELECT tile_data FROM tiles WHERE zoom_level=? AND tile_column=? AND tile_row=? LIMIT 1", tile.Z, tile.X, tile.Y)
	if err := result.Scan(&data); err != nil {
		if err == sql.ErrNoRows {
			return &TileData{Tile: tile, Data: nil}, nil
		}
		return nil, err
	}

	return &TileData{Tile: tile, Data: data}, nil
}

// Cached implements TileCache, so an archive can front the tile fetchers.
func (o *mbtilesReader) Cached(tile maptile.Tile) ([]byte, bool) {
	result, err := o.GetTile(tile)
	if err != nil || result.Data == nil {
		return nil, false
	}
	return result.Data, true
}

// Metadata reads the archive's metadata table.
func (o *mbtilesReader) Metadata() (*MbtilesMetadata, error) {
	rows, err := o.db.Query("SELECT name, value FROM metadata")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	metadata := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, err
		}
		metadata[name] = value
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return NewMbtilesMetadata(metadata), nil
}

// VisitAllTiles runs the given function on every tile in the archive.
func (o *mbtilesReader) VisitAllTiles(visitor func(maptile.Tile, []byte)) error {
	rows, err := o.db.Query("SELECT zoom_level, tile_column, tile_row, tile_data FROM tiles")
	if err != nil {
		return err
	}
	defer rows.Close()

	var x, y uint32
	var z maptile.Zoom
	for rows.Next() {
		data := []byte{}
		if err := rows.Scan(&z, &x, &y, &data); err != nil {
			log.Printf("Couldn't scan row: %+v", err)
			continue
		}
		visitor(maptile.New(x, y, z), data)
	}
	return rows.Err()
}
