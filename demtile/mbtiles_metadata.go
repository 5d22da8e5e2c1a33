package demtile

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
)

// MbtilesMetadata is the key/value metadata table of an MBTiles archive.
type MbtilesMetadata struct {
	metadata map[string]string
}

func NewMbtilesMetadata(metadata map[string]string) *MbtilesMetadata {
	if metadata == nil {
		metadata = make(map[string]string)
	}
	return &MbtilesMetadata{metadata: metadata}
}

// NewDEMMetadata fills the standard MBTiles keys for an ASCII DEM tile
// cache covering the given bound at a single zoom.
func NewDEMMetadata(name string, bound orb.Bound, zoom maptile.Zoom) *MbtilesMetadata {
	return NewMbtilesMetadata(map[string]string{
		"name":    name,
		"format":  "txt",
		"type":    "overlay",
		"bounds":  fmt.Sprintf("%g,%g,%g,%g", bound.Min.X(), bound.Min.Y(), bound.Max.X(), bound.Max.Y()),
		"minzoom": strconv.Itoa(int(zoom)),
		"maxzoom": strconv.Itoa(int(zoom)),
	})
}

func (m *MbtilesMetadata) Get(k string) (string, bool) {
	v, exists := m.metadata[k]
	return v, exists
}

func (m *MbtilesMetadata) Set(k string, v string) {
	m.metadata[k] = v
}

func (m *MbtilesMetadata) Keys() []string {
	keys := make([]string, 0, len(m.metadata))
	for k := range m.metadata {
		keys = append(keys, k)
	}
	return keys
}

func (m *MbtilesMetadata) Name() string {
	return m.metadata["name"]
}

func (m *MbtilesMetadata) Format() string {
	return m.metadata["format"]
}

func (m *MbtilesMetadata) Bounds() (orb.Bound, error) {
	var bounds orb.Bound

	strBounds, exists := m.Get("bounds")
	if !exists {
		return bounds, fmt.Errorf("metadata is missing bounds")
	}

	parts := strings.Split(strBounds, ",")
	if len(parts) != 4 {
		return bounds, fmt.Errorf("invalid bounds metadata %q", strBounds)
	}

	vals := make([]float64, 4)
	for i, part := range parts {
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return bounds, fmt.Errorf("failed to parse bounds component %d, %w", i, err)
		}
		vals[i] = v
	}

	return orb.Bound{
		Min: orb.Point{vals[0], vals[1]},
		Max: orb.Point{vals[2], vals[3]},
	}, nil
}

func (m *MbtilesMetadata) MinZoom() (uint, error) {
	return m.zoomValue("minzoom")
}

func (m *MbtilesMetadata) MaxZoom() (uint, error) {
	return m.zoomValue("maxzoom")
}

func (m *MbtilesMetadata) zoomValue(key string) (uint, error) {
	str, exists := m.Get(key)
	if !exists {
		return 0, fmt.Errorf("metadata is missing %s", key)
	}

	i, err := strconv.Atoi(str)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s value, %w", key, err)
	}
	return uint(i), nil
}
