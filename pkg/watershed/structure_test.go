package watershed

import (
	"testing"

	"roimorph/internal/models"
	"roimorph/pkg/volume"
)

func buildTestVolume(t *testing.T, dims models.Dims, values map[[3]int]float64) *volume.Volume {
	t.Helper()
	vol, err := volume.New(dims)
	if err != nil {
		t.Fatalf("volume.New: %v", err)
	}
	for p, v := range values {
		vol.Set(p[0], p[1], p[2], 0, v)
	}
	return vol
}

func TestBuildStructureNodesAndLinks(t *testing.T) {
	dims := models.Dims{X: 4, Y: 3, Z: 1, C: 1, T: 1}
	vol := buildTestVolume(t, dims, map[[3]int]float64{
		{1, 0, 0}: 1, {2, 0, 0}: 2,
		{1, 1, 0}: 3,
		{3, 2, 0}: 1, // isolated
	})

	st := buildStructure(vol, 0)
	if len(st.nodes) != 4 {
		t.Fatalf("got %d nodes, want 4 foreground voxels", len(st.nodes))
	}

	// Node ids follow (z, y, x) scan order.
	wantCoords := [][3]int32{{1, 0, 0}, {2, 0, 0}, {1, 1, 0}, {3, 2, 0}}
	for i, w := range wantCoords {
		n := st.nodes[i]
		if n.x != w[0] || n.y != w[1] || n.z != w[2] {
			t.Errorf("node %d at (%d, %d, %d), want (%d, %d, %d)",
				i, n.x, n.y, n.z, w[0], w[1], w[2])
		}
	}

	wantNN := []uint8{2, 1, 1, 0}
	for i, w := range wantNN {
		if st.nodes[i].nn != w {
			t.Errorf("node %d has %d neighbors, want %d", i, st.nodes[i].nn, w)
		}
	}

	// Single-slice structures stay 4-connected: no links were attempted
	// across Z and none exist between the diagonal pair (2,0) and (1,1).
	for _, qid := range st.nodes[1].neighborIDs() {
		if qid == 2 {
			t.Error("diagonal voxels must not be linked")
		}
	}
}

func TestBuildStructureDepthLinks(t *testing.T) {
	dims := models.Dims{X: 2, Y: 2, Z: 2, C: 1, T: 1}
	vol := buildTestVolume(t, dims, map[[3]int]float64{
		{0, 0, 0}: 1,
		{0, 0, 1}: 2,
	})

	st := buildStructure(vol, 0)
	if len(st.nodes) != 2 {
		t.Fatalf("got %d nodes, want 2", len(st.nodes))
	}
	if st.nodes[0].nn != 1 || st.nodes[0].neighbors[0] != 1 {
		t.Error("multi-slice structure is missing the Z link")
	}
}

func TestBucketizeOrdersHeightsDescending(t *testing.T) {
	dims := models.Dims{X: 5, Y: 1, Z: 1, C: 1, T: 1}
	vol := buildTestVolume(t, dims, map[[3]int]float64{
		{0, 0, 0}: 1,
		{1, 0, 0}: 3,
		{2, 0, 0}: 2,
		{3, 0, 0}: 3,
		{4, 0, 0}: 1,
	})

	st := buildStructure(vol, 0)

	wantHeights := []float64{3, 2, 1}
	if len(st.heights) != len(wantHeights) {
		t.Fatalf("got %d distinct heights, want %d", len(st.heights), len(wantHeights))
	}
	for i, w := range wantHeights {
		if st.heights[i] != w {
			t.Errorf("heights[%d] = %v, want %v", i, st.heights[i], w)
		}
	}

	// Equal heights resolve by ascending node id, so the full order is
	// deterministic.
	wantOrder := []int32{1, 3, 2, 0, 4}
	for i, w := range wantOrder {
		if st.order[i] != w {
			t.Fatalf("order = %v, want %v", st.order, wantOrder)
		}
	}

	wantBuckets := []int{0, 2, 3, 5}
	for i, w := range wantBuckets {
		if st.buckets[i] != w {
			t.Fatalf("buckets = %v, want %v", st.buckets, wantBuckets)
		}
	}
}
