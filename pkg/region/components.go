package region

import (
	"fmt"

	"github.com/theodesp/unionfind"

	"roimorph/internal/models"
)

// Components splits a volumetric boolean foreground grid into its connected
// components, one GridRegion per component. Connectivity is 6-neighbor, or
// 4-neighbor for single-slice grids; time points are independent. The bits
// slice is indexed ((t*dims.Z+z)*dims.Y+y)*dims.X+x and must cover the whole
// grid.
//
// Components are numbered by their first voxel in (t, z, y, x) scan order and
// named prefix-1, prefix-2, ..., so the result is deterministic.
func Components(bits []bool, dims models.Dims, prefix string) []*GridRegion {
	if len(bits) == 0 {
		return nil
	}

	sx, sy, sz := dims.X, dims.Y, dims.Z
	frame := dims.VoxelsPerFrame()

	// Provisional labels, merged through a union-find as adjacent runs meet.
	labels := make([]int32, len(bits))
	uf := unionfind.NewThreadSafeUnionFind(len(bits) + 1)
	next := int32(1)

	for t := 0; t < dims.T; t++ {
		base := t * frame
		for z := 0; z < sz; z++ {
			for y := 0; y < sy; y++ {
				for x := 0; x < sx; x++ {
					i := base + (z*sy+y)*sx + x
					if !bits[i] {
						continue
					}

					var lbl int32
					if x > 0 && bits[i-1] {
						lbl = labels[i-1]
					}
					if y > 0 && bits[i-sx] {
						if up := labels[i-sx]; lbl == 0 {
							lbl = up
						} else if up != lbl {
							uf.Union(int(up), int(lbl))
						}
					}
					if z > 0 && bits[i-sx*sy] {
						if back := labels[i-sx*sy]; lbl == 0 {
							lbl = back
						} else if back != lbl {
							uf.Union(int(back), int(lbl))
						}
					}

					if lbl == 0 {
						lbl = next
						next++
					}
					labels[i] = lbl
				}
			}
		}
	}

	// Resolve provisional labels to their roots and hand out component
	// numbers in scan order of the first voxel seen per root.
	compOf := make(map[int32]int)
	var out []*GridRegion
	for t := 0; t < dims.T; t++ {
		base := t * frame
		for z := 0; z < sz; z++ {
			for y := 0; y < sy; y++ {
				for x := 0; x < sx; x++ {
					i := base + (z*sy+y)*sx + x
					if !bits[i] {
						continue
					}
					lbl := labels[i]
					if root := uf.Root(int(lbl)); root > 0 {
						lbl = int32(root)
					}
					ci, ok := compOf[lbl]
					if !ok {
						ci = len(out)
						compOf[lbl] = ci
						out = append(out, NewGridRegion(fmt.Sprintf("%s-%d", prefix, ci+1), dims))
					}
					out[ci].Mark(x, y, z, t)
				}
			}
		}
	}

	return out
}
