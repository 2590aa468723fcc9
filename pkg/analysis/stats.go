// Package analysis derives summary statistics for segmented basins from the
// distance map they were flooded on.
package analysis

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"roimorph/pkg/region"
	"roimorph/pkg/volume"
)

// BasinStats summarizes one basin region against the distance map: its voxel
// count and the mean, maximum and spread of the distance-to-boundary values
// it covers. Depth here is the distance-map value, so MaxDepth is the depth
// of the basin floor.
type BasinStats struct {
	Name        string
	Voxels      int
	MeanDepth   float64
	MaxDepth    float64
	DepthStdDev float64
}

// Summarize computes per-basin statistics for every region in basins. The
// distance volume and the regions must share the same grid.
func Summarize(dist *volume.Volume, basins []*region.GridRegion) []BasinStats {
	dims := dist.Dims()
	out := make([]BasinStats, 0, len(basins))

	for _, b := range basins {
		var depths []float64
		for t := 0; t < dims.T; t++ {
			for z := 0; z < dims.Z; z++ {
				mask := b.Slice(z, t)
				if mask == nil {
					continue
				}
				plane := dist.Plane(z, t)
				mask.ForEach(func(x, y int) {
					depths = append(depths, plane[y*dims.X+x])
				})
			}
		}

		st := BasinStats{Name: b.Name(), Voxels: len(depths)}
		if len(depths) > 0 {
			st.MeanDepth = stat.Mean(depths, nil)
			st.MaxDepth = floats.Max(depths)
		}
		if len(depths) > 1 {
			st.DepthStdDev = stat.StdDev(depths, nil)
		}
		out = append(out, st)
	}

	return out
}
