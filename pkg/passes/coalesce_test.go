package passes

import (
	"testing"

	"github.com/redstone-core/redstone/pkg/logicgraph"
	"github.com/redstone-core/redstone/pkg/logicnode"
)

func TestCoalesceMergesIdenticalFanout(t *testing.T) {
	g := logicgraph.New()
	src := g.AddNode(logicnode.Node{Type: logicnode.Torch})
	a := g.AddNode(logicnode.Node{Type: logicnode.Wire})
	b := g.AddNode(logicnode.Node{Type: logicnode.Wire})
	g.AddEdge(logicnode.Edge{From: src, To: a, LinkType: logicnode.Default})
	g.AddEdge(logicnode.Edge{From: src, To: b, LinkType: logicnode.Default})

	removed := Coalesce(g)
	if removed != 1 {
		t.Fatalf("Coalesce removed %d nodes, want 1", removed)
	}
	if len(g.Out(src)) != 1 {
		t.Fatalf("src has %d outgoing edges after coalesce, want 1", len(g.Out(src)))
	}
}

func TestCoalesceIdempotent(t *testing.T) {
	g := logicgraph.New()
	src := g.AddNode(logicnode.Node{Type: logicnode.Torch})
	g.AddNode(logicnode.Node{Type: logicnode.Wire})
	g.AddNode(logicnode.Node{Type: logicnode.Wire})
	for _, to := range []logicnode.ID{1, 2} {
		g.AddEdge(logicnode.Edge{From: src, To: to, LinkType: logicnode.Default})
	}

	Coalesce(g)
	if removed := Coalesce(g); removed != 0 {
		t.Fatalf("second Coalesce pass removed %d nodes, want 0 (idempotence, spec §8 invariant 5)", removed)
	}
}

func TestCoalesceRespectsComparatorState(t *testing.T) {
	g := logicgraph.New()
	src := g.AddNode(logicnode.Node{Type: logicnode.Torch})
	c1 := g.AddNode(logicnode.Node{Type: logicnode.Comparator, Props: logicnode.Properties{Mode: logicnode.Compare}})
	c2 := g.AddNode(logicnode.Node{Type: logicnode.Comparator, Props: logicnode.Properties{Mode: logicnode.Subtract}})
	g.AddEdge(logicnode.Edge{From: src, To: c1, LinkType: logicnode.Default})
	g.AddEdge(logicnode.Edge{From: src, To: c2, LinkType: logicnode.Default})

	if removed := Coalesce(g); removed != 0 {
		t.Fatalf("Coalesce merged comparators with different modes, removed %d", removed)
	}
}

func TestCoalesceKeepsDistinctDistancesFromAnalogSource(t *testing.T) {
	g := logicgraph.New()
	src := g.AddNode(logicnode.Node{Type: logicnode.Wire})
	t1 := g.AddNode(logicnode.Node{Type: logicnode.Torch})
	t2 := g.AddNode(logicnode.Node{Type: logicnode.Torch})
	g.AddEdge(logicnode.Edge{From: src, To: t1, LinkType: logicnode.Default, SignalStrengthLoss: 1})
	g.AddEdge(logicnode.Edge{From: src, To: t2, LinkType: logicnode.Default, SignalStrengthLoss: 2})

	if removed := Coalesce(g); removed != 0 {
		t.Fatalf("Coalesce merged two digital targets fed by an analog source at different distances, removed %d", removed)
	}
	if !g.Alive(t1) || !g.Alive(t2) {
		t.Fatal("both torches should survive: an analog source's distance must be part of the coalescing key")
	}
}

func TestCoalesceSkipsIONodes(t *testing.T) {
	g := logicgraph.New()
	src := g.AddNode(logicnode.Node{Type: logicnode.Torch})
	g.AddNode(logicnode.Node{Type: logicnode.Wire, IsOutput: true})
	g.AddNode(logicnode.Node{Type: logicnode.Wire, IsOutput: true})
	for _, to := range []logicnode.ID{1, 2} {
		g.AddEdge(logicnode.Edge{From: src, To: to, LinkType: logicnode.Default})
	}

	if removed := Coalesce(g); removed != 0 {
		t.Fatalf("Coalesce merged I/O-marked nodes, removed %d", removed)
	}
}
