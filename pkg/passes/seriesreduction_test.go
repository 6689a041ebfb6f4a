package passes

import (
	"testing"

	"github.com/redstone-core/redstone/pkg/logicgraph"
	"github.com/redstone-core/redstone/pkg/logicnode"
	"github.com/redstone-core/redstone/pkg/worldio"
)

func TestBuildProfileTorchInverts(t *testing.T) {
	p := BuildProfile([]Elem{{Kind: ElemTorch}})
	if p.TotalDelay != 1 {
		t.Fatalf("TotalDelay = %d, want 1", p.TotalDelay)
	}
	for _, e := range p.Entries {
		if e.outSignal == e.inSignal {
			t.Fatalf("torch entry did not invert signal: %+v", e)
		}
	}
}

// TestInitialProfileRestrictedFamily pins the test-input family to exactly
// two High-priority entries (duration 1 only, both signals) plus eight
// Normal-priority entries (durations 1-4, both signals): the cross product
// of {false,true} x duration[1..4] x {High,Normal} used previously also
// included High-priority duration>1 entries no real source ever produces,
// over-constraining equivalence and causing legitimate reductions to be
// missed.
func TestInitialProfileRestrictedFamily(t *testing.T) {
	p := initialProfile()
	if len(p.Entries) != 10 {
		t.Fatalf("initialProfile has %d entries, want 10", len(p.Entries))
	}
	highCount := 0
	for _, e := range p.Entries {
		if e.inPriority == worldio.High {
			highCount++
			if e.inDuration != 1 {
				t.Fatalf("High-priority entry has duration %d, want 1 only: %+v", e.inDuration, e)
			}
		}
	}
	if highCount != 2 {
		t.Fatalf("got %d High-priority entries, want 2 (one per signal at duration 1)", highCount)
	}
}

// TestBuildProfileTorchDropsOnlyHighDurationOne exercises the visible effect
// of the restricted family: a torch's filter removes exactly the two
// High-priority duration-1 entries, leaving the eight Normal entries (not
// fourteen, as the over-broad {High,Normal} x duration[1..4] cross product
// would leave once high-duration>1 entries survive the filter untouched).
func TestBuildProfileTorchDropsOnlyHighDurationOne(t *testing.T) {
	p := BuildProfile([]Elem{{Kind: ElemTorch}})
	if len(p.Entries) != 8 {
		t.Fatalf("got %d entries after one torch, want 8 (the High-duration-1 pair dropped, Normal entries kept)", len(p.Entries))
	}
}

func TestFindShortestEquivalentUniformChainsAreMinimal(t *testing.T) {
	chain := []Elem{{Kind: ElemRepeater, Delay: 1}, {Kind: ElemRepeater, Delay: 1}}
	if _, ok := FindShortestEquivalent(chain); ok {
		t.Fatal("a uniform 1-tick chain should already be reported minimal")
	}
	chain4 := []Elem{
		{Kind: ElemRepeater, Delay: logicnode.MaxRepeaterDelay},
		{Kind: ElemRepeater, Delay: logicnode.MaxRepeaterDelay},
	}
	if _, ok := FindShortestEquivalent(chain4); ok {
		t.Fatal("a uniform 4-tick chain should already be reported minimal")
	}
}

func TestFindShortestEquivalentTwoTorchesCancel(t *testing.T) {
	chain := []Elem{{Kind: ElemTorch}, {Kind: ElemTorch}}
	replacement, ok := FindShortestEquivalent(chain)
	if ok {
		t.Fatalf("two torches back to back have no strictly shorter equivalent over this alphabet, got %v", replacement)
	}
}

func TestExtractChainsFindsMaximalRun(t *testing.T) {
	g := logicgraph.New()
	src := g.AddNode(logicnode.Node{Type: logicnode.Lever})
	t1 := g.AddNode(logicnode.Node{Type: logicnode.Torch})
	t2 := g.AddNode(logicnode.Node{Type: logicnode.Torch})
	sink := g.AddNode(logicnode.Node{Type: logicnode.Lamp})
	g.AddEdge(logicnode.Edge{From: src, To: t1, LinkType: logicnode.Default})
	g.AddEdge(logicnode.Edge{From: t1, To: t2, LinkType: logicnode.Default})
	g.AddEdge(logicnode.Edge{From: t2, To: sink, LinkType: logicnode.Default})

	chains := ExtractChains(g)
	if len(chains) != 1 || len(chains[0]) != 2 {
		t.Fatalf("ExtractChains = %v, want one chain of length 2", chains)
	}
}

func TestSeriesReduceNoOpOnSingleElement(t *testing.T) {
	g := logicgraph.New()
	g.AddNode(logicnode.Node{Type: logicnode.Torch})
	if removed := SeriesReduce(g); removed != 0 {
		t.Fatalf("SeriesReduce removed %d nodes from a chainless graph, want 0", removed)
	}
}
