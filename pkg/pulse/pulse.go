// Package pulse implements the pulse-length analysis described in spec §4.1:
// a monotone worklist fixed point computing, per node, the shortest ON and
// OFF pulse the node can emit under any reachable input schedule. The
// dataflow shape mirrors the teacher's table-driven init() computations
// (pkg/cpu/flags.go) generalized from a one-shot static table to an
// iterative worklist that converges rather than being computed in closed
// form.
package pulse

import (
	"github.com/redstone-core/redstone/pkg/logicgraph"
	"github.com/redstone-core/redstone/pkg/logicnode"
)

// clampCeiling bounds how high a clamp (torch ignoring short repeater
// pulses) can push a minimum; small constant per spec §4.1 convergence
// argument.
const clampCeiling = 2

// Durations holds the analysis result for every node in a graph.
type Durations struct {
	minOn  []uint16
	minOff []uint16
}

// MinOnPulseDuration returns the shortest ON pulse n can emit.
func (d *Durations) MinOnPulseDuration(id logicnode.ID) uint16 { return d.minOn[id] }

// MinOffPulseDuration returns the shortest OFF pulse n can emit.
func (d *Durations) MinOffPulseDuration(id logicnode.ID) uint16 { return d.minOff[id] }

// MinPulseDuration returns min(on, off).
func (d *Durations) MinPulseDuration(id logicnode.ID) uint16 {
	on, off := d.minOn[id], d.minOff[id]
	if on < off {
		return on
	}
	return off
}

func min16(a, b uint16) uint16 {
	if a < b {
		return a
	}
	return b
}

// Analyze computes Durations for every node in g, iterating a worklist to a
// fixed point. Running Analyze twice on the same graph yields identical
// results (spec §8 testable property 4): updates only ever increase a
// node's recorded minimum, so the result is independent of worklist order.
func Analyze(g *logicgraph.Graph) *Durations {
	n := g.NodeCount()
	d := &Durations{
		minOn:  make([]uint16, n),
		minOff: make([]uint16, n),
	}

	// Seeding (spec §4.1).
	worklist := make([]logicnode.ID, 0, n)
	inWorklist := make([]bool, n)
	for _, id := range g.Nodes() {
		node := g.Node(id)
		on, off := seed(node.Type, node.Props)
		d.minOn[id] = on
		d.minOff[id] = off
		worklist = append(worklist, id)
		inWorklist[id] = true
	}

	for len(worklist) > 0 {
		id := worklist[0]
		worklist = worklist[1:]
		inWorklist[id] = false
		if !g.Alive(id) {
			continue
		}

		changed := propagate(g, d, id)
		if changed {
			for _, e := range g.Out(id) {
				if !inWorklist[e.To] {
					worklist = append(worklist, e.To)
					inWorklist[e.To] = true
				}
			}
		}
	}

	return d
}

func seed(t logicnode.Type, props logicnode.Properties) (on, off uint16) {
	switch t {
	case logicnode.Repeater:
		return uint16(props.Delay), uint16(props.Delay)
	case logicnode.Torch:
		return 1, 1
	case logicnode.Comparator:
		return 1, 1
	case logicnode.Button:
		return 10, 0
	case logicnode.Lever:
		return 0, 0
	case logicnode.PressurePlate:
		return 10, 0
	case logicnode.Constant:
		return 255, 255
	default:
		return 0, 0
	}
}

// propagate recomputes n's minimums from its current incoming edges and
// returns true iff either minimum strictly increased.
func propagate(g *logicgraph.Graph, d *Durations, id logicnode.ID) bool {
	node := g.Node(id)
	switch node.Type {
	case logicnode.Repeater:
		return propagateRepeater(g, d, id)
	case logicnode.Torch:
		return propagateTorch(g, d, id)
	default:
		// Comparator: not propagated (conservatively left at seed).
		// All other types have no outgoing-dependent recomputation.
		return false
	}
}

func propagateRepeater(g *logicgraph.Graph, d *Durations, id logicnode.ID) bool {
	in := g.In(id)
	hasSide := false
	var defaults []logicnode.Edge
	for _, e := range in {
		if e.LinkType == logicnode.Side {
			hasSide = true
		} else {
			defaults = append(defaults, e)
		}
	}
	if hasSide {
		// Locking may arbitrarily truncate; skip.
		return false
	}
	if len(defaults) == 0 {
		return false
	}

	newOn := d.minOn[defaults[0].From]
	newOff := d.minOff[defaults[0].From]
	for _, e := range defaults[1:] {
		newOn = min16(newOn, d.minOn[e.From])
		newOff = min16(newOff, d.minOff[e.From])
	}
	if len(defaults) > 1 {
		newOff = 0
	}

	return apply(d, id, newOn, newOff)
}

func propagateTorch(g *logicgraph.Graph, d *Durations, id logicnode.ID) bool {
	in := g.In(id)
	if len(in) == 0 {
		return false
	}

	var minIncomingOn, minIncomingOff uint16 = 1<<16 - 1, 1<<16 - 1
	multiDefault := 0
	allFromRepeater := true
	for _, e := range in {
		if e.LinkType == logicnode.Default {
			multiDefault++
		}
		minIncomingOn = min16(minIncomingOn, d.minOn[e.From])
		minIncomingOff = min16(minIncomingOff, d.minOff[e.From])
		if g.Node(e.From).Type != logicnode.Repeater {
			allFromRepeater = false
		}
	}

	// Inversion.
	newOn := minIncomingOff
	newOff := minIncomingOn
	if multiDefault > 1 {
		newOff = 0
	}
	if allFromRepeater {
		newOn = clampMin(newOn, clampCeiling)
		newOff = clampMin(newOff, clampCeiling)
	}

	return apply(d, id, newOn, newOff)
}

func clampMin(v, floor uint16) uint16 {
	if v < floor {
		return floor
	}
	return v
}

// apply commits newOn/newOff if either is a strict increase over the
// current recorded minimum (monotonicity, spec §4.1).
func apply(d *Durations, id logicnode.ID, newOn, newOff uint16) bool {
	changed := false
	if newOn > d.minOn[id] {
		d.minOn[id] = newOn
		changed = true
	}
	if newOff > d.minOff[id] {
		d.minOff[id] = newOff
		changed = true
	}
	return changed
}
