package region

import (
	"image"
	"math/rand"
	"testing"

	"roimorph/internal/models"
)

func TestBitMaskSetAt(t *testing.T) {
	m := NewBitMask(image.Rect(2, 3, 6, 7))

	m.Set(2, 3, true)
	m.Set(5, 6, true)
	if !m.At(2, 3) || !m.At(5, 6) {
		t.Error("set bits do not read back")
	}
	if m.At(3, 3) {
		t.Error("unset bit reads as member")
	}

	// Coordinates outside the rectangle are ignored, never members.
	m.Set(6, 7, true)
	m.Set(1, 3, true)
	if m.At(6, 7) || m.At(1, 3) || m.At(-1, -1) {
		t.Error("out-of-rect coordinates must not be members")
	}
	if m.Count() != 2 {
		t.Errorf("Count = %d, want 2", m.Count())
	}
}

func TestBitMaskForEachOrder(t *testing.T) {
	m := NewBitMask(image.Rect(1, 1, 4, 3))
	m.Set(3, 1, true)
	m.Set(1, 2, true)
	m.Set(2, 2, true)

	var got [][2]int
	m.ForEach(func(x, y int) {
		got = append(got, [2]int{x, y})
	})

	want := [][2]int{{3, 1}, {1, 2}, {2, 2}}
	if len(got) != len(want) {
		t.Fatalf("visited %d voxels, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("visit %d = %v, want %v (row-major order)", i, got[i], want[i])
		}
	}
}

func TestGridRegionSlice(t *testing.T) {
	dims := models.Dims{X: 4, Y: 4, Z: 2, C: 1, T: 2}
	g := NewGridRegion("roi", dims)
	g.Mark(1, 2, 1, 1)

	if g.Slice(0, 0) != nil {
		t.Error("empty plane must yield a nil mask")
	}
	mask := g.Slice(1, 1)
	if mask == nil {
		t.Fatal("populated plane yielded a nil mask")
	}
	if !mask.At(1, 2) || mask.Count() != 1 {
		t.Error("slice mask does not match the marked voxel")
	}
	if g.Slice(5, 0) != nil || g.Slice(0, -1) != nil {
		t.Error("out-of-range slices must be nil")
	}
}

func TestGridRegionMarkBounds(t *testing.T) {
	dims := models.Dims{X: 3, Y: 3, Z: 1, C: 1, T: 1}
	g := NewGridRegion("roi", dims)
	g.Mark(-1, 0, 0, 0)
	g.Mark(3, 0, 0, 0)
	g.Mark(1, 1, 0, 0)
	if g.Voxels() != 1 {
		t.Errorf("Voxels = %d, want 1; out-of-grid marks must be ignored", g.Voxels())
	}
	if g.Contains(3, 0, 0, 0) || g.Contains(1, 1, 0, 1) {
		t.Error("out-of-grid voxels must not be contained")
	}
}

func TestComponentsSplitsBlobs(t *testing.T) {
	dims := models.Dims{X: 8, Y: 5, Z: 1, C: 1, T: 1}
	bits := make([]bool, dims.VoxelsPerFrame())
	set := func(x, y int) { bits[y*dims.X+x] = true }

	// An L-shaped blob, a separate bar and a diagonal-only voxel: diagonal
	// contact must not merge components.
	set(1, 1)
	set(1, 2)
	set(2, 2)
	set(5, 1)
	set(6, 1)
	set(3, 3) // touches (2,2) diagonally only

	out := Components(bits, dims, "roi")
	if len(out) != 3 {
		t.Fatalf("got %d components, want 3", len(out))
	}

	// Numbered by first voxel in scan order.
	if out[0].Name() != "roi-1" || !out[0].Contains(1, 1, 0, 0) || out[0].Voxels() != 3 {
		t.Errorf("component 1 = %q with %d voxels, want the L-blob", out[0].Name(), out[0].Voxels())
	}
	if !out[1].Contains(5, 1, 0, 0) || out[1].Voxels() != 2 {
		t.Errorf("component 2 has %d voxels, want the bar of 2", out[1].Voxels())
	}
	if !out[2].Contains(3, 3, 0, 0) || out[2].Voxels() != 1 {
		t.Error("diagonal voxel must form its own component")
	}
}

func TestComponentsMergesAcrossSlices(t *testing.T) {
	dims := models.Dims{X: 3, Y: 3, Z: 2, C: 1, T: 1}
	bits := make([]bool, dims.VoxelsPerFrame())
	bits[(0*3+1)*3+1] = true // (1, 1, 0)
	bits[(1*3+1)*3+1] = true // (1, 1, 1)

	out := Components(bits, dims, "roi")
	if len(out) != 1 {
		t.Fatalf("got %d components, want 1 spanning both slices", len(out))
	}
	if !out[0].Contains(1, 1, 0, 0) || !out[0].Contains(1, 1, 1, 0) {
		t.Error("component does not span both slices")
	}
}

func TestComponentsTimePointsIndependent(t *testing.T) {
	dims := models.Dims{X: 3, Y: 3, Z: 1, C: 1, T: 2}
	frame := dims.VoxelsPerFrame()
	bits := make([]bool, frame*dims.T)
	bits[1*3+1] = true         // (1, 1) at t=0
	bits[frame+1*3+1] = true   // (1, 1) at t=1

	out := Components(bits, dims, "roi")
	if len(out) != 2 {
		t.Fatalf("got %d components, want one per time point", len(out))
	}
}

func TestComponentsUShape(t *testing.T) {
	// A U-shape forces the union-find to merge two provisional runs that
	// only meet at the bottom.
	dims := models.Dims{X: 5, Y: 4, Z: 1, C: 1, T: 1}
	bits := make([]bool, dims.VoxelsPerFrame())
	set := func(x, y int) { bits[y*dims.X+x] = true }
	for y := 0; y < 3; y++ {
		set(1, y)
		set(3, y)
	}
	set(1, 3)
	set(2, 3)
	set(3, 3)

	out := Components(bits, dims, "roi")
	if len(out) != 1 {
		t.Fatalf("got %d components, want 1 merged U-shape", len(out))
	}
	if out[0].Voxels() != 9 {
		t.Errorf("component has %d voxels, want 9", out[0].Voxels())
	}
}

func TestBasinColor(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		c := BasinColor(rng)
		if c.A != 255 {
			t.Fatalf("draw %d: alpha = %d, want fully opaque", i, c.A)
		}
		sum := int(c.R) + int(c.G) + int(c.B)
		if sum < 765-255 || sum >= 765 {
			t.Fatalf("draw %d: channel sum = %d for %v, want within one channel of 765", i, sum, c)
		}
		if c == RidgeWhite {
			t.Fatalf("draw %d produced the ridge color", i)
		}
	}

	a := BasinColor(rand.New(rand.NewSource(42)))
	b := BasinColor(rand.New(rand.NewSource(42)))
	if a != b {
		t.Error("identically seeded draws must match")
	}
}
