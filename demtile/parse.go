package demtile

import (
	"bufio"
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// TileSize is the number of elevation samples along one DEM tile edge.
const TileSize = 256

// NoData marks samples without an elevation value. GSI's DEM tiles use it
// for sea cells; negative infinity keeps every real elevation above it.
var NoData = math.Inf(-1)

// A Parser decodes one comma-delimited ASCII elevation tile into a
// TileSize x TileSize sample grid.
type Parser struct {
	// NoDataTokens are the cell values substituted with NoData. GSI's DEM
	// tiles mark sea-level cells with "e". Any other non-numeric cell is a
	// parse error, not silently filled.
	NoDataTokens []string
}

// NewParser returns a Parser. With no tokens given it accepts the GSI sea
// marker "e".
func NewParser(noDataTokens ...string) *Parser {
	if len(noDataTokens) == 0 {
		noDataTokens = []string{"e"}
	}
	return &Parser{NoDataTokens: noDataTokens}
}

func (p *Parser) isNoData(cell string) bool {
	for _, token := range p.NoDataTokens {
		if cell == token {
			return true
		}
	}
	return false
}

// ParseTile decodes a tile body. The grid must be exactly TileSize rows of
// TileSize comma-separated cells; blank lines are skipped.
func (p *Parser) ParseTile(data []byte) ([][]float64, error) {
	samples := make([][]float64, 0, TileSize)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if len(samples) == TileSize {
			return nil, fmt.Errorf("tile has more than %d rows", TileSize)
		}

		cells := strings.Split(line, ",")
		if len(cells) != TileSize {
			return nil, fmt.Errorf("row %d has %d cells, want %d", len(samples), len(cells), TileSize)
		}

		row := make([]float64, TileSize)
		for i, cell := range cells {
			cell = strings.TrimSpace(cell)
			if p.isNoData(cell) {
				row[i] = NoData
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d cell %d: %q is not an elevation value", len(samples), i, cell)
			}
			row[i] = v
		}
		samples = append(samples, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(samples) != TileSize {
		return nil, fmt.Errorf("tile has %d rows, want %d", len(samples), TileSize)
	}
	return samples, nil
}

// FilledTile returns a full tile of NoData samples, standing in for tiles
// the source does not serve.
func FilledTile() [][]float64 {
	samples := make([][]float64, TileSize)
	for i := range samples {
		row := make([]float64, TileSize)
		for j := range row {
			row[j] = NoData
		}
		samples[i] = row
	}
	return samples
}
