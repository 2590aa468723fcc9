package watershed

import (
	"context"
	"fmt"
	"math/rand"
	"sort"

	"roimorph/internal/models"
	"roimorph/pkg/distance"
	"roimorph/pkg/region"
	"roimorph/pkg/volume"
)

// Options configure a Segmenter.
type Options struct {
	// AddNewBasins lets the flood spawn a basin at every local maximum no
	// existing basin reaches, and adds a ridge region to the output when
	// ridge voxels exist. When false, basins grow from the seed regions
	// only and any seedless foreground stays unlabeled.
	AddNewBasins bool

	// ColorSeed seeds the palette so repeated runs color basins identically.
	ColorSeed int64
}

// Segmenter runs the watershed flood over the distance map of a foreground
// region set. Each Compute call owns its volumes and graphs exclusively; a
// single Segmenter must not be used from multiple goroutines at once, but
// distinct instances are independent.
type Segmenter struct {
	dims  models.Dims
	pixel models.PixelSize
	opts  Options
}

// NewSegmenter validates the grid geometry and spacing, with the same
// precondition semantics as the distance transform.
func NewSegmenter(dims models.Dims, pixel models.PixelSize, opts Options) (*Segmenter, error) {
	if err := dims.Validate(); err != nil {
		return nil, fmt.Errorf("watershed: %w", err)
	}
	if err := pixel.Validate(dims); err != nil {
		return nil, fmt.Errorf("watershed: %w", err)
	}
	return &Segmenter{dims: dims, pixel: pixel.Normalized(dims), opts: opts}, nil
}

// Compute floods the foreground of regions and returns one region per
// resulting basin, ordered by basin id, plus a final ridge region when
// AddNewBasins is set and ridge voxels exist. Seeds are honored only when
// AddNewBasins is false; each seed receives the 1-based id of its position in
// the list and the matching output basin carries the seed's name. An empty
// regions list yields an empty result without error. Cancellation of ctx is
// checked per time point and per height bucket; on cancellation ctx.Err() is
// returned and no partial result.
func (s *Segmenter) Compute(ctx context.Context, regions, seeds []region.Region) ([]*region.GridRegion, error) {
	if len(regions) == 0 {
		return nil, nil
	}

	tr, err := distance.NewTransform(s.dims, s.pixel)
	if err != nil {
		return nil, err
	}
	dist, err := tr.Compute(ctx, regions)
	if err != nil {
		return nil, err
	}
	return s.Segment(ctx, dist, seeds)
}

// Segment floods a precomputed distance map with the same semantics as
// Compute. Callers that also report on the distance map can compute it once
// and feed it to both consumers. The volume must match the segmenter's grid.
func (s *Segmenter) Segment(ctx context.Context, dist *volume.Volume, seeds []region.Region) ([]*region.GridRegion, error) {
	if dist.Dims() != s.dims {
		return nil, fmt.Errorf("watershed: distance volume dims %+v do not match segmenter dims %+v",
			dist.Dims(), s.dims)
	}

	rng := rand.New(rand.NewSource(s.opts.ColorSeed))
	basins := make(map[int32]*region.GridRegion)
	var ridge *region.GridRegion
	nextLabel := int32(0)

	for t := 0; t < s.dims.T; t++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		st := buildStructure(dist, t)

		var seedLabels []int32
		if !s.opts.AddNewBasins && len(seeds) > 0 {
			seedLabels = rasterizeSeeds(seeds, s.dims, t)
		}

		sess := &session{
			st:           st,
			seedLabels:   seedLabels,
			addNewBasins: s.opts.AddNewBasins,
			nextLabel:    nextLabel,
		}
		if err := sess.run(ctx); err != nil {
			return nil, err
		}
		nextLabel = sess.nextLabel

		for i := range st.nodes {
			n := &st.nodes[i]
			switch n.label.kind {
			case kindBasin:
				b, ok := basins[n.label.basin]
				if !ok {
					b = region.NewGridRegion(s.basinName(n.label.basin, seeds), s.dims)
					b.SetColor(region.BasinColor(rng))
					basins[n.label.basin] = b
				}
				b.Mark(int(n.x), int(n.y), int(n.z), t)
			case kindRidge:
				if ridge == nil {
					ridge = region.NewGridRegion("watershed", s.dims)
					ridge.SetColor(region.RidgeWhite)
				}
				ridge.Mark(int(n.x), int(n.y), int(n.z), t)
			}
		}
	}

	ids := make([]int32, 0, len(basins))
	for id := range basins {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]*region.GridRegion, 0, len(ids)+1)
	for _, id := range ids {
		out = append(out, basins[id])
	}
	if s.opts.AddNewBasins && ridge != nil {
		out = append(out, ridge)
	}
	return out, nil
}

func (s *Segmenter) basinName(id int32, seeds []region.Region) string {
	if !s.opts.AddNewBasins && int(id) <= len(seeds) {
		return seeds[id-1].Name()
	}
	return fmt.Sprintf("basin-%d", id)
}

// rasterizeSeeds flattens the seed regions of one time point into a
// voxel-indexed id grid. Seeds get 1-based ids in list order; where seeds
// overlap, the later seed wins.
func rasterizeSeeds(seeds []region.Region, dims models.Dims, t int) []int32 {
	labels := make([]int32, dims.VoxelsPerFrame())
	for i, seed := range seeds {
		id := int32(i + 1)
		for z := 0; z < dims.Z; z++ {
			mask := seed.Slice(z, t)
			if mask == nil {
				continue
			}
			zBase := z * dims.Y * dims.X
			mask.ForEach(func(x, y int) {
				if x < 0 || y < 0 || x >= dims.X || y >= dims.Y {
					return
				}
				labels[zBase+y*dims.X+x] = id
			})
		}
	}
	return labels
}
