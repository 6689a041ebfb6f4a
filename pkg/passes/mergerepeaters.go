package passes

import (
	"github.com/redstone-core/redstone/pkg/logicgraph"
	"github.com/redstone-core/redstone/pkg/logicnode"
	"github.com/redstone-core/redstone/pkg/pulse"
)

// MergeRepeaters runs the two merge-repeaters sub-rewrites of spec §4.4,
// gated by the supplied pulse-length analysis. It returns the number of
// nodes removed.
func MergeRepeaters(g *logicgraph.Graph, d *pulse.Durations) int {
	removed := 0
	removed += absorbChains(g, d)
	removed += collapseRepeaterTorchRepeater(g, d)
	return removed
}

// absorbChains implements rule 1: repeater chain absorption.
func absorbChains(g *logicgraph.Graph, d *pulse.Durations) int {
	removed := 0
	for _, r := range g.Nodes() {
		if !g.Alive(r) {
			continue
		}
		rNode := g.Node(r)
		if rNode.Type != logicnode.Repeater || rNode.Props.FacingDiode {
			continue
		}
		for {
			next, ok := singleDefaultFanout(g, r)
			if !ok {
				break
			}
			nextNode := g.Node(next)
			if nextNode.Type != logicnode.Repeater {
				break
			}
			if hasSideInput(g, next) {
				break
			}
			if !singleDefaultInputFrom(g, next, r) {
				break
			}
			totalDelay := rNode.Props.Delay + nextNode.Props.Delay
			cap := uint16(logicnode.MaxRepeaterDelay)
			if mp := d.MinPulseDuration(r); mp < cap {
				cap = mp
			}
			if uint16(totalDelay) > cap {
				break
			}

			rNode.Props.Delay = totalDelay
			rNode.Props.FacingDiode = rNode.Props.FacingDiode || nextNode.Props.FacingDiode
			g.Splice(r, next)
			removed++
		}
	}
	return removed
}

// collapseRepeaterTorchRepeater implements rule 2.
func collapseRepeaterTorchRepeater(g *logicgraph.Graph, d *pulse.Durations) int {
	removed := 0
	for _, t := range g.Nodes() {
		if !g.Alive(t) {
			continue
		}
		tNode := g.Node(t)
		if tNode.Type != logicnode.Torch {
			continue
		}
		in := g.In(t)
		if len(in) != 1 || in[0].LinkType != logicnode.Default {
			continue
		}
		p := in[0].From
		pNode := g.Node(p)
		if pNode.Type != logicnode.Repeater || pNode.Props.FacingDiode || pNode.Props.Delay != 1 {
			continue
		}
		if hasSideInput(g, p) || len(g.Out(p)) != 1 {
			continue
		}
		if d.MinPulseDuration(p) < 2 {
			continue
		}

		out := g.Out(t)
		if len(out) != 1 || out[0].LinkType != logicnode.Default {
			continue
		}
		q := out[0].To
		qNode := g.Node(q)
		if qNode.Type != logicnode.Repeater || qNode.Props.FacingDiode || qNode.Props.Delay != 1 {
			continue
		}
		if hasSideInput(g, q) || len(g.In(q)) != 1 {
			continue
		}

		// Rewire p's incoming edges to t, remove p.
		pIn := append([]logicnode.Edge(nil), g.In(p)...)
		for _, e := range pIn {
			g.ReplaceEdgeTarget(e, t)
		}
		g.DeleteNode(p)

		qNode.Props.Delay = 2
		removed++
	}
	return removed
}

func hasSideInput(g *logicgraph.Graph, id logicnode.ID) bool {
	for _, e := range g.In(id) {
		if e.LinkType == logicnode.Side {
			return true
		}
	}
	return false
}

// singleDefaultFanout returns r's sole outgoing Default target, if r has
// exactly one outgoing edge (any link type) and it is Default.
func singleDefaultFanout(g *logicgraph.Graph, r logicnode.ID) (logicnode.ID, bool) {
	out := g.Out(r)
	if len(out) != 1 || out[0].LinkType != logicnode.Default {
		return 0, false
	}
	return out[0].To, true
}

// singleDefaultInputFrom reports whether id has exactly one default input
// and it is from.
func singleDefaultInputFrom(g *logicgraph.Graph, id, from logicnode.ID) bool {
	in := g.In(id)
	if len(in) != 1 {
		return false
	}
	return in[0].LinkType == logicnode.Default && in[0].From == from
}
