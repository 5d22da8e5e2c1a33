package http

import (
	"fmt"
	"log"
	gohttp "net/http"
	"regexp"
	"strconv"

	"github.com/paulmach/orb/maptile"

	"github.com/kuma003/go-demgrid/demtile"
)

var demTileRegex = regexp.MustCompile(`^/dem/(\d+)/(\d+)/(\d+)\.txt$`)

// DEMHandler serves ASCII DEM tiles out of a local tile cache at
// /dem/{z}/{x}/{y}.txt. Tiles absent from the cache (including open sea)
// answer 404, matching the upstream tile server.
func DEMHandler(reader demtile.MbtilesReader) gohttp.HandlerFunc {
	return func(w gohttp.ResponseWriter, r *gohttp.Request) {
		requestedTile, err := parseTileFromPath(r.URL.Path)
		if err != nil {
			gohttp.NotFound(w, r)
			return
		}

		result, err := reader.GetTile(requestedTile)
		if err != nil {
			log.Printf("Error getting tile: %+v", err)
			gohttp.NotFound(w, r)
			return
		}

		if result.Data == nil {
			gohttp.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write(result.Data)
	}
}

func parseTileFromPath(url string) (maptile.Tile, error) {
	match := demTileRegex.FindStringSubmatch(url)
	if match == nil {
		return maptile.Tile{}, fmt.Errorf("invalid tile path %q", url)
	}

	z, err := strconv.ParseUint(match[1], 10, 32)
	if err != nil {
		return maptile.Tile{}, fmt.Errorf("invalid zoom in tile path %q: %w", url, err)
	}
	x, err := strconv.ParseUint(match[2], 10, 32)
	if err != nil {
		return maptile.Tile{}, fmt.Errorf("invalid x in tile path %q: %w", url, err)
	}
	y, err := strconv.ParseUint(match[3], 10, 32)
	if err != nil {
		return maptile.Tile{}, fmt.Errorf("invalid y in tile path %q: %w", url, err)
	}

	return maptile.New(uint32(x), uint32(y), maptile.Zoom(z)), nil
}
