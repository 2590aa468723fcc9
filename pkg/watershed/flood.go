package watershed

import "context"

// flagNode is the sentinel id that delimits BFS distance rings in the
// extension queue.
const flagNode int32 = -1

// session holds the mutable state of one flood over one Structure: the basin
// label counter, the ring BFS queue and the seed lookup. Threading the state
// through an explicit session keeps the per-height phases re-entrant and
// testable in isolation.
type session struct {
	st *Structure

	// seedLabels maps (z*Y+y)*X+x to a positive seed id, 0 elsewhere. It is
	// nil when the flood spawns new basins instead of growing seeds.
	seedLabels []int32

	addNewBasins bool

	// nextLabel is the last basin id handed out; it is carried across time
	// points by the Segmenter.
	nextLabel int32

	queue []int32
	head  int
}

// run floods the structure one distinct height at a time, largest first.
// Cancellation is checked at every height-bucket boundary.
func (s *session) run(ctx context.Context) error {
	for bucket := range s.st.heights {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.resetRings()
		s.mark(bucket)
		s.extend()
		s.resolve()
	}
	return nil
}

// resetRings clears the transient BFS distances and the queue before a new
// height level.
func (s *session) resetRings() {
	for i := range s.st.nodes {
		s.st.nodes[i].dist = 0
	}
	s.queue = s.queue[:0]
	s.head = 0
}

func (s *session) push(id int32) {
	s.queue = append(s.queue, id)
}

func (s *session) pop() int32 {
	id := s.queue[s.head]
	s.head++
	return id
}

func (s *session) empty() bool {
	return s.head == len(s.queue)
}

// mark opens a height level: every unprocessed node of the bucket becomes
// pending, and every pending node touching an already-labeled node (basin or
// ridge) enters the queue at ring distance 1.
func (s *session) mark(bucket int) {
	for _, id := range s.st.order[s.st.buckets[bucket]:s.st.buckets[bucket+1]] {
		if n := &s.st.nodes[id]; n.label.kind == kindUnprocessed {
			n.label.kind = kindPending
		}
	}

	for _, id := range s.st.order {
		n := &s.st.nodes[id]
		if n.label.kind != kindPending || n.dist != 0 {
			continue
		}
		for _, qid := range n.neighborIDs() {
			if k := s.st.nodes[qid].label.kind; k == kindBasin || k == kindRidge {
				n.dist = 1
				s.push(id)
				break
			}
		}
	}
}

// extend grows the existing basins into the pending front, one BFS ring at a
// time, using the sentinel flag node to delimit rings. A pending node that
// touches exactly one basin at a ring distance no greater than the current
// one inherits its label; a node that touches a second, different basin
// becomes ridge and stays ridge. Pending nodes on the ring boundary are
// queued for the next ring.
func (s *session) extend() {
	if s.empty() {
		return
	}
	curdist := int32(1)
	s.push(flagNode)

	for {
		id := s.pop()
		if id == flagNode {
			if s.empty() {
				break
			}
			curdist++
			s.push(flagNode)
			continue
		}

		p := &s.st.nodes[id]
		for _, qid := range p.neighborIDs() {
			q := &s.st.nodes[qid]
			switch {
			case q.label.kind == kindBasin && q.dist <= curdist:
				if p.label.kind == kindPending {
					s.assign(id, q.label.basin)
				} else if p.label.kind == kindBasin && p.label.basin != q.label.basin {
					p.label = nodeLabel{kind: kindRidge}
				}
			case q.label.kind == kindPending && q.dist == 0:
				q.dist = curdist + 1
				s.push(qid)
			}
		}
	}
}

// resolve closes a height level: every node still pending is a local maximum
// of its level that no basin reached. With addNewBasins each such component
// spawns a fresh basin; otherwise a pending node sitting on a seed voxel
// propagates that seed's id. Nodes are visited in the structure's
// deterministic order, so which component of a tie receives the lower basin
// id is stable.
func (s *session) resolve() {
	for _, id := range s.st.order {
		p := &s.st.nodes[id]
		if p.label.kind != kindPending {
			continue
		}
		if s.addNewBasins {
			s.nextLabel++
			s.floodPending(id, s.nextLabel)
		} else if s.seedLabels != nil {
			if sid := s.seedLabels[s.st.voxelIndex(p.x, p.y, p.z)]; sid > 0 {
				s.setBasinLabel(id, sid, true)
			}
		}
	}
}

// assign labels a pending node with a basin id. When growing from seeds the
// assignment flows through setBasinLabel so the claim spreads downhill.
func (s *session) assign(id, basin int32) {
	if s.seedLabels == nil {
		s.st.nodes[id].label = nodeLabel{kind: kindBasin, basin: basin}
		return
	}
	s.setBasinLabel(id, basin, false)
}

// floodPending claims a connected component of pending nodes for one basin.
func (s *session) floodPending(start, basin int32) {
	s.st.nodes[start].label = nodeLabel{kind: kindBasin, basin: basin}
	stack := []int32{start}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, qid := range s.st.nodes[id].neighborIDs() {
			q := &s.st.nodes[qid]
			if q.label.kind != kindPending {
				continue
			}
			q.label = nodeLabel{kind: kindBasin, basin: basin}
			stack = append(stack, qid)
		}
	}
}

// setBasinLabel claims start for a basin and flood-claims its unlabeled
// surroundings. Unprocessed nodes are only claimed when strictly deeper than
// the node claiming them, so a basin never grows past ground already settled
// at this or a shallower level. Pending nodes follow the same rule during the
// extension phase (claimLevel false), where plateau growth is left to the
// ring BFS so competing fronts meet mid-plateau; a freshly resolved seed
// (claimLevel true) instead claims its whole pending component, since that
// component is a local maximum no existing basin borders and no front would
// ever reach it.
func (s *session) setBasinLabel(start, basin int32, claimLevel bool) {
	s.st.nodes[start].label = nodeLabel{kind: kindBasin, basin: basin}
	stack := []int32{start}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		p := &s.st.nodes[id]
		for _, qid := range p.neighborIDs() {
			q := &s.st.nodes[qid]
			switch q.label.kind {
			case kindPending:
				if !claimLevel && q.height <= p.height {
					continue
				}
			case kindUnprocessed:
				if q.height <= p.height {
					continue
				}
			default:
				continue
			}
			q.label = nodeLabel{kind: kindBasin, basin: basin}
			stack = append(stack, qid)
		}
	}
}
