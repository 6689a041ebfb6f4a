package passes

import (
	"github.com/redstone-core/redstone/pkg/logicgraph"
	"github.com/redstone-core/redstone/pkg/logicnode"
	"github.com/redstone-core/redstone/pkg/worldio"
)

// ElemKind is a series-reduction chain alphabet symbol.
type ElemKind uint8

const (
	ElemTorch ElemKind = iota
	ElemRepeater
)

// Elem is one symbol of a chain: a Torch, or a Repeater with a delay in
// 1..MaxRepeaterDelay.
type Elem struct {
	Kind  ElemKind
	Delay uint8 // meaningful iff Kind == ElemRepeater
}

// profileEntry is one (input, output) pair in a pulse profile's response
// table, for a single (signal, duration, priority) test input.
type profileEntry struct {
	inSignal    bool
	inDuration  uint8
	inPriority  worldio.Priority
	outSignal   bool
	outDuration uint8
	outPriority worldio.Priority
}

// Profile is the abstract response function of a chain (spec §4.5).
type Profile struct {
	TotalDelay uint16
	Entries    []profileEntry
}

// Equal reports whether two profiles are equal as structures: same total
// delay and the same (ordered) list of entries.
func (p Profile) Equal(o Profile) bool {
	if p.TotalDelay != o.TotalDelay || len(p.Entries) != len(o.Entries) {
		return false
	}
	for i := range p.Entries {
		if p.Entries[i] != o.Entries[i] {
			return false
		}
	}
	return true
}

// initialProfile builds the identity profile over the fixed test-input
// family: a single-tick High-priority pulse of each signal, plus a
// 1..4-tick Normal-priority pulse of each signal. High-priority duration>1
// is never part of the family — a torch or repeater chain never observes
// one, since every real source that drives High priority (button/lever
// rising/falling edges) does so for exactly one tick.
func initialProfile() Profile {
	var entries []profileEntry
	for _, signal := range [2]bool{true, false} {
		entries = append(entries, profileEntry{
			inSignal: signal, inDuration: 1, inPriority: worldio.High,
			outSignal: signal, outDuration: 1, outPriority: worldio.High,
		})
	}
	for _, signal := range [2]bool{true, false} {
		for duration := uint8(1); duration <= 4; duration++ {
			entries = append(entries, profileEntry{
				inSignal: signal, inDuration: duration, inPriority: worldio.Normal,
				outSignal: signal, outDuration: duration, outPriority: worldio.Normal,
			})
		}
	}
	return Profile{TotalDelay: 0, Entries: entries}
}

// BuildProfile applies the chain's elements left-to-right to the identity
// profile, per the rewrite rules in spec §4.5.
func BuildProfile(chain []Elem) Profile {
	p := initialProfile()
	for _, el := range chain {
		switch el.Kind {
		case ElemTorch:
			p.TotalDelay++
			p.Entries = filterEntries(p.Entries, func(e profileEntry) bool {
				return e.outPriority == worldio.High && e.outDuration <= 1
			})
			for i := range p.Entries {
				p.Entries[i].outSignal = !p.Entries[i].outSignal
			}
		case ElemRepeater:
			d := el.Delay
			p.TotalDelay += uint16(d)
			p.Entries = filterEntries(p.Entries, func(e profileEntry) bool {
				return !e.outSignal && e.outDuration < d
			})
			for i := range p.Entries {
				if p.Entries[i].outDuration < d {
					p.Entries[i].outDuration = d
				}
				p.Entries[i].outPriority = worldio.High
			}
		}
	}
	return p
}

// filterEntries drops entries for which drop returns true, preserving
// order.
func filterEntries(entries []profileEntry, drop func(profileEntry) bool) []profileEntry {
	out := entries[:0]
	for _, e := range entries {
		if !drop(e) {
			out = append(out, e)
		}
	}
	return out
}

// isUniform1Tick reports whether every element in chain has delay 1
// (Torches are implicitly 1-tick).
func isUniform1Tick(chain []Elem) bool {
	for _, el := range chain {
		if el.Kind == ElemRepeater && el.Delay != 1 {
			return false
		}
	}
	return true
}

// isUniform4Tick reports whether every element is a 4-tick Repeater.
func isUniform4Tick(chain []Elem) bool {
	for _, el := range chain {
		if el.Kind != ElemRepeater || el.Delay != logicnode.MaxRepeaterDelay {
			return false
		}
	}
	return true
}

// alphabet is the fixed candidate-chain symbol set: Torch, Repeater(1..4).
func alphabet() []Elem {
	a := make([]Elem, 0, 1+logicnode.MaxRepeaterDelay)
	a = append(a, Elem{Kind: ElemTorch})
	for d := uint8(1); d <= logicnode.MaxRepeaterDelay; d++ {
		a = append(a, Elem{Kind: ElemRepeater, Delay: d})
	}
	return a
}

// FindShortestEquivalent searches, by ascending length, for the shortest
// chain over {Torch, Repeater(1..4)} whose profile equals target's. Returns
// (nil, false) if chain is already minimal or no shorter equivalent exists.
func FindShortestEquivalent(chain []Elem) ([]Elem, bool) {
	if len(chain) <= 1 {
		return nil, false
	}
	if isUniform1Tick(chain) || isUniform4Tick(chain) {
		return nil, false
	}

	target := BuildProfile(chain)
	syms := alphabet()
	seen := map[string]bool{}

	var found []Elem
	for length := 1; length < len(chain) && found == nil; length++ {
		cand := make([]Elem, length)
		var rec func(pos int, delaySoFar uint16)
		rec = func(pos int, delaySoFar uint16) {
			if found != nil {
				return
			}
			if pos == length {
				p := BuildProfile(cand)
				if len(p.Entries) < len(target.Entries) {
					return
				}
				key := profileKey(p)
				if seen[key] {
					return
				}
				seen[key] = true
				if p.Equal(target) {
					found = append([]Elem(nil), cand...)
				}
				return
			}
			for _, s := range syms {
				d := uint16(1)
				if s.Kind == ElemRepeater {
					d = uint16(s.Delay)
				}
				if delaySoFar+d > target.TotalDelay {
					continue
				}
				cand[pos] = s
				rec(pos+1, delaySoFar+d)
				if found != nil {
					return
				}
			}
		}
		rec(0, 0)
	}
	if found == nil {
		return nil, false
	}
	return found, true
}

func profileKey(p Profile) string {
	buf := make([]byte, 0, 2+len(p.Entries)*6)
	buf = append(buf, byte(p.TotalDelay), byte(p.TotalDelay>>8))
	for _, e := range p.Entries {
		var b byte
		if e.inSignal {
			b |= 1
		}
		if e.outSignal {
			b |= 2
		}
		buf = append(buf, b, e.inDuration, byte(e.inPriority), e.outDuration, byte(e.outPriority))
	}
	return string(buf)
}

// ExtractChains returns every maximal linear chain of Torches and
// non-facing-diode Repeaters in g: each interior member has in-degree =
// out-degree = 1 on default edges and no side input.
func ExtractChains(g *logicgraph.Graph) [][]logicnode.ID {
	isMember := func(id logicnode.ID) bool {
		n := g.Node(id)
		if n.Type == logicnode.Torch {
			return true
		}
		return n.Type == logicnode.Repeater && !n.Props.FacingDiode
	}
	hasSoleDefaultPred := func(id logicnode.ID) (logicnode.ID, bool) {
		in := g.In(id)
		if len(in) != 1 || in[0].LinkType != logicnode.Default {
			return 0, false
		}
		return in[0].From, true
	}
	soleDefaultSucc := func(id logicnode.ID) (logicnode.ID, bool) {
		out := g.Out(id)
		if len(out) != 1 || out[0].LinkType != logicnode.Default {
			return 0, false
		}
		return out[0].To, true
	}

	visited := map[logicnode.ID]bool{}
	var chains [][]logicnode.ID
	for _, id := range g.Nodes() {
		if !isMember(id) || visited[id] {
			continue
		}
		// id is a chain head iff it has no valid chain predecessor.
		if pred, ok := hasSoleDefaultPred(id); ok && isMember(pred) {
			if succ, ok2 := soleDefaultSucc(pred); ok2 && succ == id {
				continue // id is absorbed by a chain starting earlier
			}
		}

		chain := []logicnode.ID{id}
		visited[id] = true
		cur := id
		for {
			succ, ok := soleDefaultSucc(cur)
			if !ok || !isMember(succ) || visited[succ] {
				break
			}
			if pred, ok2 := hasSoleDefaultPred(succ); !ok2 || pred != cur {
				break
			}
			chain = append(chain, succ)
			visited[succ] = true
			cur = succ
		}
		if len(chain) > 1 {
			chains = append(chains, chain)
		}
	}
	return chains
}

// SeriesReduce runs series reduction over every maximal chain in g,
// replacing a chain in place iff a strictly shorter equivalent exists. It
// returns the number of nodes removed (net: old length - new length, summed
// over reduced chains).
func SeriesReduce(g *logicgraph.Graph) int {
	removed := 0
	for _, chain := range ExtractChains(g) {
		elems := make([]Elem, len(chain))
		for i, id := range chain {
			n := g.Node(id)
			if n.Type == logicnode.Torch {
				elems[i] = Elem{Kind: ElemTorch}
			} else {
				elems[i] = Elem{Kind: ElemRepeater, Delay: n.Props.Delay}
			}
		}
		replacement, ok := FindShortestEquivalent(elems)
		if !ok {
			continue
		}
		removed += len(chain) - len(replacement)
		replaceChain(g, chain, replacement)
	}
	return removed
}

// replaceChain deletes the original chain nodes and allocates a new linear
// chain between the preserved head predecessors and tail successors,
// threading `powered` through torch inversions so the replacement starts in
// a state consistent with the original chain's current signal.
func replaceChain(g *logicgraph.Graph, original []logicnode.ID, replacement []Elem) {
	head := original[0]
	tail := original[len(original)-1]
	headIn := append([]logicnode.Edge(nil), g.In(head)...)
	tailOut := append([]logicnode.Edge(nil), g.Out(tail)...)

	powered := g.Node(head).State.Powered

	newIDs := make([]logicnode.ID, len(replacement))
	for i, el := range replacement {
		n := logicnode.Node{}
		if el.Kind == ElemTorch {
			n.Type = logicnode.Torch
			powered = !powered
		} else {
			n.Type = logicnode.Repeater
			n.Props.Delay = el.Delay
		}
		n.State.Powered = powered
		if powered {
			n.State.OutputStrength = 15
		}
		newIDs[i] = g.AddNode(n)
	}
	for i := 0; i+1 < len(newIDs); i++ {
		g.AddEdge(logicnode.Edge{From: newIDs[i], To: newIDs[i+1], LinkType: logicnode.Default})
	}
	for _, e := range headIn {
		g.AddEdge(logicnode.Edge{From: e.From, To: newIDs[0], LinkType: e.LinkType, SignalStrengthLoss: e.SignalStrengthLoss})
	}
	for _, e := range tailOut {
		g.AddEdge(logicnode.Edge{From: newIDs[len(newIDs)-1], To: e.To, LinkType: e.LinkType, SignalStrengthLoss: e.SignalStrengthLoss})
	}
	for _, id := range original {
		g.DeleteNode(id)
	}
}
