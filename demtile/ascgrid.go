package demtile

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// WriteEsriASCII writes the grid as an ESRI ASCII raster, first row
// northernmost. The cell size is the east-west sample footprint in meters
// (the format has no way to express the north-south difference); no-data
// samples are written as noDataValue.
func (g *HeightGrid) WriteEsriASCII(w io.Writer, noDataValue float64) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "ncols %d\n", g.Cols())
	fmt.Fprintf(bw, "nrows %d\n", g.Rows())
	fmt.Fprintf(bw, "xllcorner %g\n", 0.0)
	fmt.Fprintf(bw, "yllcorner %g\n", 0.0)
	fmt.Fprintf(bw, "cellsize %g\n", g.PxWidth)
	fmt.Fprintf(bw, "nodata_value %g\n", noDataValue)

	for _, row := range g.Data {
		for i, v := range row {
			if i > 0 {
				if err := bw.WriteByte(' '); err != nil {
					return err
				}
			}
			if v == NoData {
				v = noDataValue
			}
			if _, err := bw.WriteString(strconv.FormatFloat(v, 'f', -1, 64)); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}

	return bw.Flush()
}
