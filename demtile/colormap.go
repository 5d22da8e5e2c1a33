package demtile

// Sea color and land color base channels for the elevation color map.
const (
	seaR, seaG, seaB   = 0.0, 0.0, 1.0
	landR, landB       = 0.5, 0.5
	greenBase, greenEl = 0.6, 0.4
)

// ColorMap returns one RGBA color per sample as a flat row-major float32
// slice, four components per sample. Land gets a green channel scaled by
// elevation relative to the grid maximum; no-data samples are colored as
// sea.
func (g *HeightGrid) ColorMap() []float32 {
	_, max, ok := g.MinMax()

	colors := make([]float32, 0, g.Rows()*g.Cols()*4)
	for _, row := range g.Data {
		for _, v := range row {
			if v == NoData {
				colors = append(colors, seaR, seaG, seaB, 1.0)
				continue
			}
			green := greenBase
			if ok && max > 0 {
				green = v/max*greenEl + greenBase
			}
			if green > 1.0 {
				green = 1.0
			}
			if green < 0.0 {
				green = 0.0
			}
			colors = append(colors, landR, float32(green), landB, 1.0)
		}
	}
	return colors
}

// FlattenNoData replaces no-data samples with sea level so a renderer can
// draw a continuous surface. Derive colors first: afterwards sea is
// indistinguishable from land at elevation zero.
func (g *HeightGrid) FlattenNoData() {
	for _, row := range g.Data {
		for i, v := range row {
			if v == NoData {
				row[i] = 0.0
			}
		}
	}
}
