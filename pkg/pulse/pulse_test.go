package pulse

import (
	"testing"

	"github.com/redstone-core/redstone/pkg/logicgraph"
	"github.com/redstone-core/redstone/pkg/logicnode"
)

func TestAnalyzeRepeaterChain(t *testing.T) {
	g := logicgraph.New()
	button := g.AddNode(logicnode.Node{Type: logicnode.Button})
	r1 := g.AddNode(logicnode.Node{Type: logicnode.Repeater, Props: logicnode.Properties{Delay: 2}})
	r2 := g.AddNode(logicnode.Node{Type: logicnode.Repeater, Props: logicnode.Properties{Delay: 3}})
	g.AddEdge(logicnode.Edge{From: button, To: r1, LinkType: logicnode.Default})
	g.AddEdge(logicnode.Edge{From: r1, To: r2, LinkType: logicnode.Default})

	d := Analyze(g)
	if got := d.MinOnPulseDuration(r1); got != 10 {
		t.Errorf("r1 MinOnPulseDuration = %d, want 10 (raised from its delay to the button's ON pulse)", got)
	}
	if got := d.MinOnPulseDuration(r2); got != 10 {
		t.Errorf("r2 MinOnPulseDuration = %d, want 10 (inherited from r1)", got)
	}
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	g := logicgraph.New()
	torch := g.AddNode(logicnode.Node{Type: logicnode.Torch})
	rep := g.AddNode(logicnode.Node{Type: logicnode.Repeater, Props: logicnode.Properties{Delay: 1}})
	g.AddEdge(logicnode.Edge{From: rep, To: torch, LinkType: logicnode.Default})

	d1 := Analyze(g)
	d2 := Analyze(g)
	for _, id := range g.Nodes() {
		if d1.MinOnPulseDuration(id) != d2.MinOnPulseDuration(id) {
			t.Errorf("node %d: MinOnPulseDuration differs between runs: %d vs %d", id, d1.MinOnPulseDuration(id), d2.MinOnPulseDuration(id))
		}
		if d1.MinOffPulseDuration(id) != d2.MinOffPulseDuration(id) {
			t.Errorf("node %d: MinOffPulseDuration differs between runs: %d vs %d", id, d1.MinOffPulseDuration(id), d2.MinOffPulseDuration(id))
		}
	}
}

func TestMinPulseDuration(t *testing.T) {
	d := &Durations{minOn: []uint16{5}, minOff: []uint16{2}}
	if got := d.MinPulseDuration(0); got != 2 {
		t.Errorf("MinPulseDuration = %d, want 2", got)
	}
}
