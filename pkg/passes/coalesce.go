// Package passes implements the graph-rewrite optimization passes of spec
// §4.2–§4.5: coalescing, comparator-to-torch normalization, repeater-chain
// merging, and series reduction. Each pass is a free function operating on a
// *logicgraph.Graph in place and returning the number of nodes it removed
// (Normalize, which removes none, returns the number of comparators it
// rewrote), the same "mutate in place, report how much changed" shape the teacher's
// search pipeline uses when a worker reports rules found.
package passes

import (
	"github.com/redstone-core/redstone/pkg/logicgraph"
	"github.com/redstone-core/redstone/pkg/logicnode"
)

type coalesceKey struct {
	targetType logicnode.Type
	distance   uint8
	// Comparator-only discriminators (open question #2, SPEC_FULL §14):
	// two Comparators only coalesce when their full type-specific state
	// matches, not merely their (type, distance) key.
	mode        logicnode.ComparatorMode
	hasFar      bool
	far         uint8
	facingDiode bool
}

func keyFor(g *logicgraph.Graph, e logicnode.Edge) coalesceKey {
	source := g.Node(e.From)
	target := g.Node(e.To)
	k := coalesceKey{targetType: target.Type}
	sourceAnalog := source.Type == logicnode.Comparator || source.Type == logicnode.Wire
	targetAnalog := target.Type == logicnode.Comparator || target.Type == logicnode.Wire
	if sourceAnalog || targetAnalog {
		k.distance = e.SignalStrengthLoss
	}
	if target.Type == logicnode.Comparator {
		k.mode = target.Props.Mode
		k.hasFar = target.Props.HasFarInput
		k.far = target.Props.FarInput
		k.facingDiode = target.Props.FacingDiode
	}
	return k
}

// Coalesce merges structurally equivalent outgoing siblings of each source,
// iterating until a full pass removes zero nodes (spec §4.2). It returns the
// total number of nodes removed across all iterations.
func Coalesce(g *logicgraph.Graph) int {
	total := 0
	for {
		removed := coalesceOnePass(g)
		total += removed
		if removed == 0 {
			return total
		}
	}
}

func coalesceOnePass(g *logicgraph.Graph) int {
	removed := 0
	for _, src := range g.Nodes() {
		groups := map[coalesceKey][]logicnode.Edge{}
		for _, e := range g.Out(src) {
			if e.LinkType != logicnode.Default {
				continue
			}
			target := g.Node(e.To)
			if !target.Removable() || g.InDegree(e.To) != 1 {
				continue
			}
			k := keyFor(g, e)
			groups[k] = append(groups[k], e)
		}
		for _, edges := range groups {
			if len(edges) < 2 {
				continue
			}
			rep := edges[0].To
			for _, e := range edges[1:] {
				if !g.Alive(e.To) || e.To == rep {
					continue
				}
				g.Splice(rep, e.To)
				removed++
			}
		}
	}
	return removed
}
