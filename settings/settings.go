// Package settings loads the TOML map-settings file: the tile server URL
// template, provider attribution, and the named bounding boxes available
// for download. Settings are plain values handed to callers; nothing is
// cached in package state.
package settings

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/paulmach/orb"

	"github.com/kuma003/go-demgrid/geodesy"
)

// A Spec is one downloadable map: a named bounding box with a zoom level.
// TileURL and DataAttribute fall back to the file-wide defaults when empty.
type Spec struct {
	Name          string     `toml:"name"`
	Northwest     [2]float64 `toml:"northwest"` // lat, lon
	Southeast     [2]float64 `toml:"southeast"` // lat, lon
	Zoom          int        `toml:"zoom"`
	DataAttribute string     `toml:"dataAttribute"`
	TileURL       string     `toml:"tileURL"`
}

// NorthwestPoint returns the spec's northwest corner.
func (s *Spec) NorthwestPoint() geodesy.LatLon {
	return geodesy.LatLon{Lat: s.Northwest[0], Lon: s.Northwest[1]}
}

// SoutheastPoint returns the spec's southeast corner.
func (s *Spec) SoutheastPoint() geodesy.LatLon {
	return geodesy.LatLon{Lat: s.Southeast[0], Lon: s.Southeast[1]}
}

// Bound returns the spec's bounding box as an orb.Bound (min = southwest,
// max = northeast).
func (s *Spec) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{s.Northwest[1], s.Southeast[0]},
		Max: orb.Point{s.Southeast[1], s.Northwest[0]},
	}
}

func (s *Spec) validate() error {
	if s.Name == "" {
		return fmt.Errorf("spec has no name")
	}
	if s.Zoom < 0 || s.Zoom > 22 {
		return fmt.Errorf("spec %q: zoom %d out of range [0, 22]", s.Name, s.Zoom)
	}
	for _, lat := range []float64{s.Northwest[0], s.Southeast[0]} {
		if lat <= -90 || lat >= 90 {
			return fmt.Errorf("spec %q: latitude %g must lie strictly inside (-90, 90)", s.Name, lat)
		}
	}
	if s.Northwest[0] <= s.Southeast[0] {
		return fmt.Errorf("spec %q: northwest latitude %g must be north of southeast latitude %g",
			s.Name, s.Northwest[0], s.Southeast[0])
	}
	if s.Northwest[1] >= s.Southeast[1] {
		return fmt.Errorf("spec %q: northwest longitude %g must be west of southeast longitude %g",
			s.Name, s.Northwest[1], s.Southeast[1])
	}
	for _, placeholder := range []string{"{z}", "{x}", "{y}"} {
		if !strings.Contains(s.TileURL, placeholder) {
			return fmt.Errorf("spec %q: tile URL template %q is missing %s", s.Name, s.TileURL, placeholder)
		}
	}
	return nil
}

// Settings is the [map] table of the settings file.
type Settings struct {
	SaveTempData  bool   `toml:"saveTempData"`
	DataAttribute string `toml:"dataAttribute"`
	TileURL       string `toml:"tileURL"`
	Specs         []Spec `toml:"specs"`
}

// Spec returns the named map spec.
func (s *Settings) Spec(name string) (*Spec, bool) {
	for i := range s.Specs {
		if s.Specs[i].Name == name {
			return &s.Specs[i], true
		}
	}
	return nil, false
}

// Names lists the available map specs in file order.
func (s *Settings) Names() []string {
	names := make([]string, len(s.Specs))
	for i := range s.Specs {
		names[i] = s.Specs[i].Name
	}
	return names
}

// Load reads and validates a settings file. Per-spec tile URLs and
// attributions default to the file-wide values.
func Load(path string) (*Settings, error) {
	var file struct {
		Map Settings `toml:"map"`
	}
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("failed to parse settings file %s, %w", path, err)
	}

	s := file.Map
	for i := range s.Specs {
		spec := &s.Specs[i]
		if spec.TileURL == "" {
			spec.TileURL = s.TileURL
		}
		if spec.DataAttribute == "" {
			spec.DataAttribute = s.DataAttribute
		}
		if err := spec.validate(); err != nil {
			return nil, err
		}
	}
	return &s, nil
}
