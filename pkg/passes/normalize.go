package passes

import "github.com/redstone-core/redstone/pkg/logicgraph"
import "github.com/redstone-core/redstone/pkg/logicnode"

// Normalize runs the single implemented circuit-normalization rewrite,
// Subtract-mode Comparator → Torch, iterating to a fixed point (spec §4.3).
// The caller must gate this on compiler options enabling both io_only and
// optimize; Normalize itself is unconditional so it stays testable in
// isolation.
func Normalize(g *logicgraph.Graph) int {
	total := 0
	for {
		removed := normalizeOnePass(g)
		total += removed
		if removed == 0 {
			return total
		}
	}
}

func normalizeOnePass(g *logicgraph.Graph) int {
	count := 0
	for _, id := range g.Nodes() {
		n := g.Node(id)
		if n.Type != logicnode.Comparator || n.Props.Mode != logicnode.Subtract || n.Props.FacingDiode {
			continue
		}
		if !canNormalize(g, id) {
			continue
		}
		rewriteToTorch(g, id)
		count++
	}
	return count
}

func canNormalize(g *logicgraph.Graph, id logicnode.ID) bool {
	var defaultEdges, sideEdges []logicnode.Edge
	for _, e := range g.In(id) {
		if e.LinkType == logicnode.Default {
			defaultEdges = append(defaultEdges, e)
		} else {
			sideEdges = append(sideEdges, e)
		}
	}

	// Every default input must be a Constant.
	var constantInput uint8
	for _, e := range defaultEdges {
		src := g.Node(e.From)
		if src.Type != logicnode.Constant {
			return false
		}
		eff := saturatingSub(src.State.OutputStrength, e.SignalStrengthLoss)
		if eff > constantInput {
			constantInput = eff
		}
	}

	// Every side input's source must be non-Comparator; min_side >= constant_input.
	var minSide uint8 = 255
	hasSide := false
	for _, e := range sideEdges {
		src := g.Node(e.From)
		if src.Type == logicnode.Comparator {
			return false
		}
		eff := saturatingSub(src.State.OutputStrength, e.SignalStrengthLoss)
		if eff < minSide {
			minSide = eff
		}
		hasSide = true
	}
	if hasSide && minSide < constantInput {
		return false
	}

	// Outgoing edge safety.
	for _, e := range g.Out(id) {
		if constantInput != 15 {
			if g.Node(e.To).Type == logicnode.Comparator {
				return false
			}
		}
		if constantInput < e.SignalStrengthLoss && wasLive(g, id, e) {
			return false
		}
	}
	return true
}

// wasLive reports whether an outgoing edge was previously delivering
// nonzero power, i.e. the conversion must not newly enable a link that was
// dead before. Conservatively uses the comparator's current output strength.
func wasLive(g *logicgraph.Graph, id logicnode.ID, e logicnode.Edge) bool {
	return g.Node(id).State.OutputStrength > e.SignalStrengthLoss
}

func saturatingSub(a, b uint8) uint8 {
	if b >= a {
		return 0
	}
	return a - b
}

func rewriteToTorch(g *logicgraph.Graph, id logicnode.ID) {
	n := g.Node(id)

	// Delete default incoming edges, relabel side incoming edges to Default.
	in := append([]logicnode.Edge(nil), g.In(id)...)
	for _, e := range in {
		if e.LinkType == logicnode.Default {
			g.DeleteEdge(e)
		}
	}
	in = append([]logicnode.Edge(nil), g.In(id)...)
	for _, e := range in {
		if e.LinkType == logicnode.Side {
			g.RelabelEdge(e, logicnode.Default)
		}
	}

	// Clear facing_diode on repeater/comparator sources; it became meaningless.
	for _, e := range g.In(id) {
		src := g.Node(e.From)
		if src.Type == logicnode.Repeater || src.Type == logicnode.Comparator {
			src.Props.FacingDiode = false
		}
	}

	anyAsserted := false
	for _, e := range g.In(id) {
		if g.Node(e.From).State.OutputStrength > 0 {
			anyAsserted = true
			break
		}
	}

	n.Type = logicnode.Torch
	n.State.Powered = !anyAsserted
}
