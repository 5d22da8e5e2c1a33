package demtile

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
)

// tileText builds a full ASCII tile body with one string cell per sample.
func tileText(cell func(r, c int) string) []byte {
	var buf bytes.Buffer
	for r := 0; r < TileSize; r++ {
		for c := 0; c < TileSize; c++ {
			if c > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(cell(r, c))
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

func TestParseTile(t *testing.T) {
	parser := NewParser()

	data := tileText(func(r, c int) string {
		if r == 3 && c == 5 {
			return "e"
		}
		return fmt.Sprintf("%d.5", r)
	})

	samples, err := parser.ParseTile(data)
	if err != nil {
		t.Fatalf("ParseTile() error = %v", err)
	}
	if len(samples) != TileSize || len(samples[0]) != TileSize {
		t.Fatalf("grid is %dx%d, want %dx%d", len(samples), len(samples[0]), TileSize, TileSize)
	}
	if samples[0][0] != 0.5 || samples[200][255] != 200.5 {
		t.Errorf("unexpected sample values: %v, %v", samples[0][0], samples[200][255])
	}
	if samples[3][5] != NoData {
		t.Errorf("sea cell = %v, want NoData", samples[3][5])
	}
}

func TestParseTileCustomNoDataTokens(t *testing.T) {
	parser := NewParser("NA", "-9999")
	data := tileText(func(r, c int) string {
		if r == 0 && c == 0 {
			return "NA"
		}
		if r == 0 && c == 1 {
			return "-9999"
		}
		return "1"
	})

	samples, err := parser.ParseTile(data)
	if err != nil {
		t.Fatalf("ParseTile() error = %v", err)
	}
	if samples[0][0] != NoData || samples[0][1] != NoData {
		t.Errorf("custom tokens not mapped to NoData: %v, %v", samples[0][0], samples[0][1])
	}
}

func TestParseTileErrors(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		name string
		data []byte
	}{
		{"empty body", nil},
		{"short row", []byte("1,2,3\n")},
		{"unknown token", tileText(func(r, c int) string {
			if r == 10 && c == 10 {
				return "x"
			}
			return "0"
		})},
		{"too few rows", bytes.TrimSuffix(tileText(func(r, c int) string { return "0" }), []byte(strings.Repeat("0,", TileSize-1)+"0\n"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parser.ParseTile(tt.data); err == nil {
				t.Errorf("ParseTile() succeeded, want error")
			}
		})
	}
}

func TestFilledTile(t *testing.T) {
	samples := FilledTile()
	if len(samples) != TileSize {
		t.Fatalf("got %d rows, want %d", len(samples), TileSize)
	}
	for _, row := range samples {
		if len(row) != TileSize {
			t.Fatalf("got %d cells, want %d", len(row), TileSize)
		}
		for _, v := range row {
			if v != NoData {
				t.Fatalf("got %v, want NoData", v)
			}
		}
	}
}
