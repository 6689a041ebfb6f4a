// Package compile lowers an optimized logicgraph.Graph into a
// runtime.Backend: contiguous node ids, a flattened forward_links array,
// analog-input histograms, and the position/noteblock side tables (spec
// §4.6). It also drives the pass pipeline (spec §2) ahead of lowering when
// Options.Optimize is set.
//
// Grounded on the teacher's pkg/result/table.go (an append-then-index flat
// table); compile builds its slices in a single pass with no concurrent
// writers, so the teacher's guarding mutex is dropped (see DESIGN.md).
package compile

import (
	"errors"
	"fmt"
	"sort"

	"github.com/redstone-core/redstone/pkg/logging"
	"github.com/redstone-core/redstone/pkg/logicgraph"
	"github.com/redstone-core/redstone/pkg/logicnode"
	"github.com/redstone-core/redstone/pkg/passes"
	"github.com/redstone-core/redstone/pkg/pulse"
	"github.com/redstone-core/redstone/pkg/runtime"
	"github.com/redstone-core/redstone/pkg/worldio"
)

// Compile-time invariant violations (spec §7 category 1): these abort
// compilation entirely.
var (
	ErrTooManyInputs     = errors.New("compile: node exceeds MAX_INPUTS for a link type")
	ErrLinkOutOfRange    = errors.New("compile: forward-link target id does not fit the runtime's id space")
	ErrMissingBlockOrigin = errors.New("compile: node requires a block origin but has none")
)

// Options controls the pass pipeline and lowering (spec §6).
type Options struct {
	IOOnly         bool
	Optimize       bool
	ExportDotGraph bool
}

// InitialTick is an externally provided scheduled tick to seed the backend
// with at compile time (spec §4.6).
type InitialTick struct {
	Pos       worldio.Position
	TicksLeft int
	Priority  worldio.Priority
}

// Monitor is notified after each pipeline pass with the live node count
// before and after, for stats logging (cmd/redstonec's "compile" subcommand
// uses this to print pass-by-pass shrinkage).
type Monitor func(stage string, before, after int)

// Compile runs the optimization pipeline (if enabled) to a fixed point, then
// lowers g into a runtime.Backend.
func Compile(g *logicgraph.Graph, initialTicks []InitialTick, opts Options, monitor Monitor) (*runtime.Backend, error) {
	if opts.Optimize {
		runPipeline(g, opts, monitor)
	}
	return lower(g, initialTicks, opts)
}

func runPipeline(g *logicgraph.Graph, opts Options, monitor Monitor) {
	report := func(stage string, before int) {
		after := len(g.Nodes())
		if monitor != nil {
			monitor(stage, before, after)
		}
		logging.Infof("compile: pass %s: %d -> %d live nodes", stage, before, after)
	}

	for {
		total := 0

		before := len(g.Nodes())
		durations := pulse.Analyze(g)
		report("pulse-analysis", before)

		before = len(g.Nodes())
		total += passes.Coalesce(g)
		report("coalesce", before)

		if opts.IOOnly {
			before = len(g.Nodes())
			total += passes.Normalize(g)
			report("normalize", before)
		}

		before = len(g.Nodes())
		total += passes.MergeRepeaters(g, durations)
		report("merge-repeaters", before)

		before = len(g.Nodes())
		total += passes.SeriesReduce(g)
		report("series-reduction", before)

		if total == 0 {
			return
		}
	}
}

// lowering holds the mutable state being built up over the single id-ordered
// pass described in spec §4.6.
type lowering struct {
	g       *logicgraph.Graph
	ids     map[logicnode.ID]logicnode.ID // graph id -> compiled id
	order   []logicnode.ID                // compiled id -> graph id
	backend *runtime.Backend
}

func lower(g *logicgraph.Graph, initialTicks []InitialTick, opts Options) (*runtime.Backend, error) {
	liveIDs := g.Nodes()
	l := &lowering{
		g:     g,
		ids:   make(map[logicnode.ID]logicnode.ID, len(liveIDs)),
		order: liveIDs,
	}
	for compiled, graphID := range liveIDs {
		l.ids[graphID] = logicnode.ID(compiled)
	}

	n := len(liveIDs)
	b := &runtime.Backend{
		Nodes:   make([]runtime.Node, n),
		Origins: make([]*worldio.BlockOrigin, n),
		PosMap:  make(map[worldio.Position]logicnode.ID, n),
	}
	l.backend = b

	for compiled, graphID := range liveIDs {
		src := g.Node(graphID)
		rn := &b.Nodes[compiled]
		rn.Type = src.Type
		rn.Props = src.Props
		rn.IsIO = src.IsInput || src.IsOutput
		rn.Powered = src.State.Powered
		rn.OutputPower = src.State.OutputStrength
		rn.Props.Locked = src.State.RepeaterLocked
		b.Origins[compiled] = src.Origin
	}

	if err := l.buildAnalogInputs(); err != nil {
		return nil, err
	}
	if err := l.buildForwardLinksAndCounters(); err != nil {
		return nil, err
	}
	if err := l.buildNoteBlocks(); err != nil {
		return nil, err
	}
	l.buildPosMap()

	for _, t := range initialTicks {
		id, ok := b.PosMap[t.Pos]
		if !ok {
			logging.Warningf("compile: initial tick at unknown position %v dropped", t.Pos)
			continue
		}
		b.ScheduleInitial(id, t.TicksLeft, t.Priority)
	}

	if opts.ExportDotGraph {
		// The dot exporter is invoked by cmd/redstonec after Compile returns,
		// using the backend's exported accessors (pkg/dot never reaches into
		// unexported lowering state); Options.ExportDotGraph only documents
		// intent here and is consulted by the caller, per spec §6.
		logging.Infof("compile: export_dot_graph requested; caller writes the graph")
	}

	return b, nil
}

func (l *lowering) buildAnalogInputs() error {
	b := l.backend
	for compiled, graphID := range l.order {
		src := l.g.Node(graphID)
		if !src.Type.IsAnalog() {
			continue
		}
		idx := uint32(len(b.AnalogInputs))
		b.AnalogInputs = append(b.AnalogInputs, runtime.NewAnalogInputRecord())
		b.Nodes[compiled].AnalogInputIdx = idx
	}

	// Populate histograms / digital counters from incoming edges, evaluated
	// against each source's *current* committed output strength.
	for compiled, graphID := range l.order {
		in := l.g.In(graphID)
		counts := map[logicnode.LinkType]int{}
		for _, e := range in {
			srcNode := l.g.Node(e.From)
			ss := saturatingSub(srcNode.State.OutputStrength, e.SignalStrengthLoss)
			counts[e.LinkType]++
			if counts[e.LinkType] > logicnode.MaxInputs {
				return fmt.Errorf("%w: node %d exceeds %d inputs on link type %v", ErrTooManyInputs, compiled, logicnode.MaxInputs, e.LinkType)
			}
			rn := &b.Nodes[compiled]
			if rn.Type.IsAnalog() {
				b.AnalogInputs[rn.AnalogInputIdx].Inc(e.LinkType, ss)
			} else if ss > 0 {
				if e.LinkType == logicnode.Side {
					rn.DigitalInput.Side++
				} else {
					rn.DigitalInput.Default++
				}
			}
		}
	}
	return nil
}

func saturatingSub(a, b uint8) uint8 {
	if b >= a {
		return 0
	}
	return a - b
}

// forwardLinkKey orders outgoing edges per open question #1 (SPEC_FULL §14):
// ascending by target type discriminant, then by target compiled id.
type forwardLinkKey struct {
	edge   logicnode.Edge
	target logicnode.ID
}

func (l *lowering) buildForwardLinksAndCounters() error {
	b := l.backend
	n := len(b.Nodes)
	for compiled, graphID := range l.order {
		out := l.g.Out(graphID)
		keys := make([]forwardLinkKey, 0, len(out))
		for _, e := range out {
			compiledTarget, ok := l.ids[e.To]
			if !ok {
				return fmt.Errorf("%w: edge target %d not a live node", ErrLinkOutOfRange, e.To)
			}
			if int(compiledTarget) >= n {
				return fmt.Errorf("%w: target id %d out of range (N=%d)", ErrLinkOutOfRange, compiledTarget, n)
			}
			if compiledTarget >= 1<<27 {
				return fmt.Errorf("%w: target id %d does not fit in 27 bits", ErrLinkOutOfRange, compiledTarget)
			}
			keys = append(keys, forwardLinkKey{edge: e, target: compiledTarget})
		}
		sort.Slice(keys, func(i, j int) bool {
			ti := b.Nodes[keys[i].target].Type
			tj := b.Nodes[keys[j].target].Type
			if ti != tj {
				return ti < tj
			}
			return keys[i].target < keys[j].target
		})

		begin := uint32(len(b.ForwardLinks))
		for _, k := range keys {
			b.ForwardLinks = append(b.ForwardLinks, runtime.ForwardLink{
				Target:   k.target,
				LinkType: k.edge.LinkType,
				Distance: k.edge.SignalStrengthLoss,
			})
		}
		b.Nodes[compiled].ForwardLinkBegin = begin
		b.Nodes[compiled].ForwardLinkCount = uint16(len(keys))
	}
	return nil
}

func (l *lowering) buildNoteBlocks() error {
	b := l.backend
	for compiled, graphID := range l.order {
		src := l.g.Node(graphID)
		if src.Type != logicnode.NoteBlock {
			continue
		}
		if src.Origin == nil {
			return fmt.Errorf("%w: noteblock node %d", ErrMissingBlockOrigin, compiled)
		}
		id := uint32(len(b.NoteBlockInfo))
		b.NoteBlockInfo = append(b.NoteBlockInfo, runtime.NoteBlockInfo{
			Pos:        src.Origin.Pos,
			Instrument: src.Props.Instrument,
			Note:       src.Props.Note,
		})
		b.Nodes[compiled].Props.NoteBlockID = id
	}
	return nil
}

func (l *lowering) buildPosMap() {
	b := l.backend
	for compiled := range l.order {
		origin := b.Origins[compiled]
		if origin == nil {
			continue
		}
		b.PosMap[origin.Pos] = logicnode.ID(compiled)
	}
}
