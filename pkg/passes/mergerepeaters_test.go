package passes

import (
	"testing"

	"github.com/redstone-core/redstone/pkg/logicgraph"
	"github.com/redstone-core/redstone/pkg/logicnode"
	"github.com/redstone-core/redstone/pkg/pulse"
)

func TestAbsorbChainsMergesShortRepeaterRun(t *testing.T) {
	g := logicgraph.New()
	src := g.AddNode(logicnode.Node{Type: logicnode.Constant, State: logicnode.State{OutputStrength: 15}})
	r1 := g.AddNode(logicnode.Node{Type: logicnode.Repeater, Props: logicnode.Properties{Delay: 1}})
	r2 := g.AddNode(logicnode.Node{Type: logicnode.Repeater, Props: logicnode.Properties{Delay: 2}})
	sink := g.AddNode(logicnode.Node{Type: logicnode.Lamp})
	g.AddEdge(logicnode.Edge{From: src, To: r1, LinkType: logicnode.Default})
	g.AddEdge(logicnode.Edge{From: r1, To: r2, LinkType: logicnode.Default})
	g.AddEdge(logicnode.Edge{From: r2, To: sink, LinkType: logicnode.Default})

	d := pulse.Analyze(g)
	removed := MergeRepeaters(g, d)
	if removed != 1 {
		t.Fatalf("MergeRepeaters removed %d nodes, want 1", removed)
	}
	if !g.Alive(r1) {
		t.Fatal("r1 should survive as the absorbing repeater")
	}
	if g.Alive(r2) {
		t.Fatal("r2 should have been absorbed")
	}
	if got := g.Node(r1).Props.Delay; got != 3 {
		t.Fatalf("merged delay = %d, want 3", got)
	}
}

func TestAbsorbChainsSkipsFacingDiode(t *testing.T) {
	g := logicgraph.New()
	src := g.AddNode(logicnode.Node{Type: logicnode.Constant, State: logicnode.State{OutputStrength: 15}})
	r1 := g.AddNode(logicnode.Node{Type: logicnode.Repeater, Props: logicnode.Properties{Delay: 1, FacingDiode: true}})
	r2 := g.AddNode(logicnode.Node{Type: logicnode.Repeater, Props: logicnode.Properties{Delay: 2}})
	g.AddEdge(logicnode.Edge{From: src, To: r1, LinkType: logicnode.Default})
	g.AddEdge(logicnode.Edge{From: r1, To: r2, LinkType: logicnode.Default})

	d := pulse.Analyze(g)
	if removed := MergeRepeaters(g, d); removed != 0 {
		t.Fatalf("MergeRepeaters merged a facing_diode repeater, removed %d", removed)
	}
}

func TestCollapseRepeaterTorchRepeater(t *testing.T) {
	g := logicgraph.New()
	src := g.AddNode(logicnode.Node{Type: logicnode.Constant, State: logicnode.State{OutputStrength: 15}})
	p := g.AddNode(logicnode.Node{Type: logicnode.Repeater, Props: logicnode.Properties{Delay: 1}})
	torch := g.AddNode(logicnode.Node{Type: logicnode.Torch})
	q := g.AddNode(logicnode.Node{Type: logicnode.Repeater, Props: logicnode.Properties{Delay: 1}})
	sink := g.AddNode(logicnode.Node{Type: logicnode.Lamp})
	g.AddEdge(logicnode.Edge{From: src, To: p, LinkType: logicnode.Default})
	g.AddEdge(logicnode.Edge{From: p, To: torch, LinkType: logicnode.Default})
	g.AddEdge(logicnode.Edge{From: torch, To: q, LinkType: logicnode.Default})
	g.AddEdge(logicnode.Edge{From: q, To: sink, LinkType: logicnode.Default})

	d := pulse.Analyze(g)
	removed := collapseRepeaterTorchRepeater(g, d)
	if removed != 1 {
		t.Fatalf("collapseRepeaterTorchRepeater removed %d, want 1", removed)
	}
	if g.Alive(p) {
		t.Fatal("p should have been removed")
	}
	if len(g.In(torch)) != 1 || g.In(torch)[0].From != src {
		t.Fatalf("torch should now be fed directly by src, got %v", g.In(torch))
	}
	if g.Node(q).Props.Delay != 2 {
		t.Fatalf("q delay = %d, want 2", g.Node(q).Props.Delay)
	}
}
