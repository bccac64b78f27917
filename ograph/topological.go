package ograph

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/opossum-optics/opossum/operror"
)

// Visitation states for the three-color DFS below.
const (
	white = iota
	gray
	black
)

// topoSorter carries DFS state for TopologicalSort, keyed by uuid.UUID
// and walking ograph's own adjacency map.
type topoSorter struct {
	g     *OpticGraph
	state map[uuid.UUID]int
	order []uuid.UUID
}

// TopologicalSort orders every node in g such that for every edge u->v, u
// precedes v. Ties among roots are broken by UUID string order, matching
// the "ties are broken by UUID" ordering guarantee. Returns an
// AnalysisError wrapping a cycle if one is found; connect_nodes' own cycle
// rejection should make this unreachable in practice, so its presence here
// is defensive.
func (g *OpticGraph) TopologicalSort() ([]uuid.UUID, error) {
	return g.TopologicalSortContext(context.Background())
}

// TopologicalSortContext is TopologicalSort with cancellation, for callers
// validating a scenery interactively rather than driving an analysis pass
// (an in-progress analysis itself has no cancellation knob).
func (g *OpticGraph) TopologicalSortContext(ctx context.Context) ([]uuid.UUID, error) {
	g.muNodes.RLock()
	ids := make([]uuid.UUID, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	g.muNodes.RUnlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	g.muEdge.RLock()
	defer g.muEdge.RUnlock()

	s := &topoSorter{
		g:     g,
		state: make(map[uuid.UUID]int, len(ids)),
		order: make([]uuid.UUID, 0, len(ids)),
	}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if s.state[id] == white {
			if err := s.visit(ctx, id); err != nil {
				return nil, err
			}
		}
	}
	for i, j := 0, len(s.order)-1; i < j; i, j = i+1, j-1 {
		s.order[i], s.order[j] = s.order[j], s.order[i]
	}
	return s.order, nil
}

func (s *topoSorter) visit(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.state[id] == gray {
		return operror.Analysis("topological sort: cycle detected at node " + id.String())
	}
	if s.state[id] == black {
		return nil
	}
	s.state[id] = gray

	successors := make([]uuid.UUID, 0, len(s.g.adjacency[id]))
	for next := range s.g.adjacency[id] {
		successors = append(successors, next)
	}
	sort.Slice(successors, func(i, j int) bool { return successors[i].String() < successors[j].String() })
	for _, next := range successors {
		if err := s.visit(ctx, next); err != nil {
			return err
		}
	}

	s.state[id] = black
	s.order = append(s.order, id)
	return nil
}
