// Package logicgraph holds the pre-compilation directed multigraph of logic
// nodes that every optimization pass (coalesce, normalize, merge-repeaters,
// series reduction) reads and rewrites in place. Nodes are stored by id in a
// slice-backed arena; deletion tombstones a slot rather than shifting ids, so
// every id handed out by the graph stays valid (or tombstoned) for its
// lifetime — the same arena+index discipline the packed runtime graph uses.
package logicgraph

import "github.com/redstone-core/redstone/pkg/logicnode"

// Graph is a mutable directed multigraph of logicnode.Node connected by
// logicnode.Edge. It is the only representation the optimization passes
// operate on. Compile (pkg/compile) rewrites it in place through those
// passes when optimization is enabled; its lowering step only reads it.
type Graph struct {
	nodes []logicnode.Node
	alive []bool
	out   [][]logicnode.Edge // out[id] = outgoing edges of id, any LinkType
	in    [][]logicnode.Edge // in[id] = incoming edges of id, mirror of out
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{}
}

// AddNode inserts n and returns its new id.
func (g *Graph) AddNode(n logicnode.Node) logicnode.ID {
	id := logicnode.ID(len(g.nodes))
	g.nodes = append(g.nodes, n)
	g.alive = append(g.alive, true)
	g.out = append(g.out, nil)
	g.in = append(g.in, nil)
	return id
}

// AddEdge connects from->to. Multiple edges between the same pair are
// permitted (this is a multigraph).
func (g *Graph) AddEdge(e logicnode.Edge) {
	g.out[e.From] = append(g.out[e.From], e)
	g.in[e.To] = append(g.in[e.To], e)
}

// Node returns a pointer to the live node record for id. Callers may mutate
// State, Props and Type through it; the graph keeps no per-type bookkeeping.
func (g *Graph) Node(id logicnode.ID) *logicnode.Node {
	return &g.nodes[id]
}

// Alive reports whether id has not been deleted.
func (g *Graph) Alive(id logicnode.ID) bool {
	return int(id) < len(g.alive) && g.alive[id]
}

// NodeCount returns the number of ids ever allocated, including deleted
// ones — callers that need only live nodes should range with Alive or use
// Nodes().
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// Nodes returns the ids of all live nodes, in id order.
func (g *Graph) Nodes() []logicnode.ID {
	ids := make([]logicnode.ID, 0, len(g.nodes))
	for i, alive := range g.alive {
		if alive {
			ids = append(ids, logicnode.ID(i))
		}
	}
	return ids
}

// Out returns id's outgoing edges. The returned slice must not be mutated by
// the caller except through AddEdge/DeleteNode/Splice.
func (g *Graph) Out(id logicnode.ID) []logicnode.Edge {
	return g.out[id]
}

// In returns id's incoming edges.
func (g *Graph) In(id logicnode.ID) []logicnode.Edge {
	return g.in[id]
}

// InDegree returns the total incoming edge count across both link types.
func (g *Graph) InDegree(id logicnode.ID) int {
	return len(g.in[id])
}

// DeleteNode tombstones id and removes all edges touching it (both
// directions). The id is never reused.
func (g *Graph) DeleteNode(id logicnode.ID) {
	if !g.Alive(id) {
		return
	}
	g.alive[id] = false
	for _, e := range g.out[id] {
		g.in[e.To] = removeEdge(g.in[e.To], id, e.To)
	}
	for _, e := range g.in[id] {
		g.out[e.From] = removeEdge(g.out[e.From], e.From, id)
	}
	g.out[id] = nil
	g.in[id] = nil
}

// DeleteEdge removes exactly one edge matching e's endpoints, LinkType, and
// SignalStrengthLoss. Used by normalization to drop specific incoming edges
// of a comparator being rewritten.
func (g *Graph) DeleteEdge(e logicnode.Edge) {
	g.out[e.From] = removeExactEdge(g.out[e.From], e)
	g.in[e.To] = removeExactEdge(g.in[e.To], e)
}

// RelabelEdge changes e's LinkType in place (e.g. Side → Default during
// comparator normalization), preserving its endpoints and attenuation.
func (g *Graph) RelabelEdge(e logicnode.Edge, newType logicnode.LinkType) {
	g.DeleteEdge(e)
	e.LinkType = newType
	g.AddEdge(e)
}

func removeExactEdge(edges []logicnode.Edge, target logicnode.Edge) []logicnode.Edge {
	out := edges[:0]
	for _, e := range edges {
		if e == target {
			continue
		}
		out = append(out, e)
	}
	return out
}

func removeEdge(edges []logicnode.Edge, from, to logicnode.ID) []logicnode.Edge {
	out := edges[:0]
	for _, e := range edges {
		if e.From == from && e.To == to {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Splice rewires every outgoing edge of victim onto target instead,
// preserving each edge's LinkType and SignalStrengthLoss, then deletes
// victim. Used by the coalesce pass: the representative (target) absorbs
// the discarded sibling's (victim's) outgoing fan-out.
func (g *Graph) Splice(target, victim logicnode.ID) {
	for _, e := range g.out[victim] {
		g.AddEdge(logicnode.Edge{
			From:               target,
			To:                 e.To,
			LinkType:           e.LinkType,
			SignalStrengthLoss: e.SignalStrengthLoss,
		})
	}
	g.DeleteNode(victim)
}

// ReplaceEdgeSource rewires the exact edge e (matched by value) to
// originate from newFrom instead, preserving LinkType and
// SignalStrengthLoss. It is the source-side counterpart of
// ReplaceEdgeTarget; no pass in this module calls it.
func (g *Graph) ReplaceEdgeSource(e logicnode.Edge, newFrom logicnode.ID) {
	g.DeleteEdge(e)
	e.From = newFrom
	g.AddEdge(e)
}

// ReplaceEdgeTarget rewires the exact edge e (matched by value) to point at
// newTo instead. Used by the repeater-torch-repeater collapse, which
// redirects a removed repeater's incoming edges to the torch it used to
// feed.
func (g *Graph) ReplaceEdgeTarget(e logicnode.Edge, newTo logicnode.ID) {
	g.DeleteEdge(e)
	e.To = newTo
	g.AddEdge(e)
}
