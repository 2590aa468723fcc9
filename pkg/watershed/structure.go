// Package watershed implements marker-controlled watershed segmentation over
// a distance map. The map is read as an inverted elevation surface: a large
// distance to the region boundary is a deep basin floor, so the immersion
// flood visits distance values from largest to smallest and grows basins from
// the deepest points outward. Voxels reached by two different basins become
// permanent ridge voxels.
package watershed

import (
	"math"
	"sort"

	"roimorph/internal/models"
	"roimorph/pkg/volume"
)

// labelKind is the state tag of a node label.
type labelKind uint8

const (
	// kindUnprocessed marks a node the flood has not reached.
	kindUnprocessed labelKind = iota

	// kindPending marks a node queued for labeling during the current pass.
	kindPending

	// kindRidge marks a watershed-line node; the state is permanent.
	kindRidge

	// kindBasin marks a node assigned to the basin carried alongside.
	kindBasin
)

// nodeLabel is the tagged label state of a node. basin is meaningful only
// when kind is kindBasin.
type nodeLabel struct {
	kind  labelKind
	basin int32
}

// node is one foreground voxel of the watershed graph. Nodes live in the
// Structure's arena and refer to their neighbors by id; the arena owns every
// node and the neighbor relation owns nothing.
type node struct {
	x, y, z int32

	// height is the distance-map value, the descending flood priority.
	height float64

	// dist is the transient BFS ring distance of the extension phase; it is
	// reset between height levels.
	dist int32

	label nodeLabel

	neighbors [6]int32
	nn        uint8
}

func (n *node) neighborIDs() []int32 {
	return n.neighbors[:n.nn]
}

// Structure is the per-time-point watershed graph: the arena of foreground
// nodes, a deterministic processing order, the distinct height levels present
// and a voxel-to-node lookup. It is rebuilt for every time point and
// discarded afterwards.
type Structure struct {
	dims  models.Dims
	t     int
	nodes []node

	// order lists node ids by height descending, ties by id ascending; ids
	// are assigned in (z, y, x) scan order, so ties resolve by coordinate.
	order []int32

	// heights holds the distinct height values, descending. buckets[i] is
	// the offset in order where heights[i] starts; buckets has one trailing
	// entry at len(order).
	heights []float64
	buckets []int

	// index maps (z*Y+y)*X+x to a node id, -1 outside the foreground.
	index []int32
}

// buildStructure scans the distance map of one time point and assembles the
// graph over its foreground (distance > 0) voxels. Neighbor links are
// 4-connected for single-slice volumes and 6-connected otherwise, restricted
// to foreground nodes, and immutable once built.
func buildStructure(dist *volume.Volume, t int) *Structure {
	dims := dist.Dims()
	st := &Structure{
		dims:  dims,
		t:     t,
		index: make([]int32, dims.VoxelsPerFrame()),
	}
	for i := range st.index {
		st.index[i] = -1
	}

	for z := 0; z < dims.Z; z++ {
		plane := dist.Plane(z, t)
		for y := 0; y < dims.Y; y++ {
			for x := 0; x < dims.X; x++ {
				h := plane[y*dims.X+x]
				if h <= 0 {
					continue
				}
				id := int32(len(st.nodes))
				st.nodes = append(st.nodes, node{
					x: int32(x), y: int32(y), z: int32(z),
					height: h,
				})
				st.index[(z*dims.Y+y)*dims.X+x] = id
			}
		}
	}

	st.link()
	st.bucketize()
	return st
}

func (st *Structure) voxelIndex(x, y, z int32) int {
	return (int(z)*st.dims.Y+int(y))*st.dims.X + int(x)
}

func (st *Structure) link() {
	offsets := [][3]int32{{-1, 0, 0}, {1, 0, 0}, {0, -1, 0}, {0, 1, 0}}
	if st.dims.Z > 1 {
		offsets = append(offsets, [3]int32{0, 0, -1}, [3]int32{0, 0, 1})
	}
	for i := range st.nodes {
		n := &st.nodes[i]
		for _, off := range offsets {
			x, y, z := n.x+off[0], n.y+off[1], n.z+off[2]
			if x < 0 || y < 0 || z < 0 ||
				int(x) >= st.dims.X || int(y) >= st.dims.Y || int(z) >= st.dims.Z {
				continue
			}
			if id := st.index[st.voxelIndex(x, y, z)]; id >= 0 {
				n.neighbors[n.nn] = id
				n.nn++
			}
		}
	}
}

func (st *Structure) bucketize() {
	st.order = make([]int32, len(st.nodes))
	for i := range st.order {
		st.order[i] = int32(i)
	}
	sort.Slice(st.order, func(i, j int) bool {
		a, b := st.order[i], st.order[j]
		if ha, hb := st.nodes[a].height, st.nodes[b].height; ha != hb {
			return ha > hb
		}
		return a < b
	})

	prev := math.Inf(1)
	for i, id := range st.order {
		if h := st.nodes[id].height; h != prev {
			st.heights = append(st.heights, h)
			st.buckets = append(st.buckets, i)
			prev = h
		}
	}
	st.buckets = append(st.buckets, len(st.order))
}
