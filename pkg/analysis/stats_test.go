package analysis

import (
	"math"
	"testing"

	"roimorph/internal/models"
	"roimorph/pkg/region"
	"roimorph/pkg/volume"
)

func TestSummarize(t *testing.T) {
	dims := models.Dims{X: 4, Y: 3, Z: 1, C: 1, T: 1}
	dist, err := volume.New(dims)
	if err != nil {
		t.Fatalf("volume.New: %v", err)
	}
	dist.Set(1, 1, 0, 0, 1)
	dist.Set(2, 1, 0, 0, 2)
	dist.Set(3, 1, 0, 0, 3)
	dist.Set(0, 2, 0, 0, 5)

	basin := region.NewGridRegion("basin-1", dims)
	basin.Mark(1, 1, 0, 0)
	basin.Mark(2, 1, 0, 0)
	basin.Mark(3, 1, 0, 0)

	single := region.NewGridRegion("basin-2", dims)
	single.Mark(0, 2, 0, 0)

	stats := Summarize(dist, []*region.GridRegion{basin, single})
	if len(stats) != 2 {
		t.Fatalf("got %d entries, want 2", len(stats))
	}

	s := stats[0]
	if s.Name != "basin-1" || s.Voxels != 3 {
		t.Errorf("entry = %q with %d voxels, want basin-1 with 3", s.Name, s.Voxels)
	}
	if math.Abs(s.MeanDepth-2) > 1e-12 {
		t.Errorf("MeanDepth = %v, want 2", s.MeanDepth)
	}
	if s.MaxDepth != 3 {
		t.Errorf("MaxDepth = %v, want 3", s.MaxDepth)
	}
	// Sample standard deviation of {1, 2, 3}.
	if math.Abs(s.DepthStdDev-1) > 1e-12 {
		t.Errorf("DepthStdDev = %v, want 1", s.DepthStdDev)
	}

	s = stats[1]
	if s.Voxels != 1 || s.MeanDepth != 5 || s.MaxDepth != 5 {
		t.Errorf("single-voxel entry = %+v, want depth 5 throughout", s)
	}
	if s.DepthStdDev != 0 {
		t.Errorf("single-voxel DepthStdDev = %v, want 0", s.DepthStdDev)
	}
}

func TestSummarizeEmptyRegion(t *testing.T) {
	dims := models.Dims{X: 2, Y: 2, Z: 1, C: 1, T: 1}
	dist, err := volume.New(dims)
	if err != nil {
		t.Fatalf("volume.New: %v", err)
	}

	stats := Summarize(dist, []*region.GridRegion{region.NewGridRegion("empty", dims)})
	if len(stats) != 1 {
		t.Fatalf("got %d entries, want 1", len(stats))
	}
	if s := stats[0]; s.Voxels != 0 || s.MeanDepth != 0 || s.MaxDepth != 0 || s.DepthStdDev != 0 {
		t.Errorf("empty region stats = %+v, want all zero", s)
	}
}
