package runtime

import (
	"github.com/redstone-core/redstone/pkg/logging"
	"github.com/redstone-core/redstone/pkg/logicnode"
	"github.com/redstone-core/redstone/pkg/worldio"
)

// NodeSnapshot is the debug read returned by Inspect.
type NodeSnapshot struct {
	ID          logicnode.ID
	Type        Type
	Powered     bool
	OutputPower uint8
	Locked      bool
	PendingTick bool
}

// ScheduleInitial seeds a pending tick at compile time (spec §4.6), marking
// the node pending the same way a runtime-driven Schedule does.
func (b *Backend) ScheduleInitial(id logicnode.ID, delay int, priority Priority) {
	b.scheduleTick(id, delay, priority)
}

// Tick advances the scheduler by one slot and drains it, running the tick
// transition for every pending node in priority order (spec §4.7, §5).
func (b *Backend) Tick() {
	q := b.scheduler.AdvanceAndTake()
	for _, sub := range q.sub {
		for _, id := range sub {
			b.Nodes[id].PendingTick = false
			b.tickNode(id)
		}
	}
	b.scheduler.EndTick(q)
}

// HasPendingTicks reports whether any slot has a node awaiting drain.
func (b *Backend) HasPendingTicks() bool {
	return b.scheduler.HasPending()
}

func powerOf(on bool) uint8 {
	if on {
		return 15
	}
	return 0
}

// OnUseBlock handles a player interaction at pos (spec §6). Button: ignored
// if already powered, else self-schedules a delay-10 shutoff and powers on.
// Lever: toggles. Anything else: logged and ignored.
func (b *Backend) OnUseBlock(pos worldio.Position) {
	id, ok := b.PosMap[pos]
	if !ok {
		logging.Warningf("runtime: on_use_block at unknown position %v", pos)
		return
	}
	n := &b.Nodes[id]
	switch n.Type {
	case Button:
		if n.Powered {
			return
		}
		b.scheduleTick(id, 10, Normal)
		b.setNode(id, true, 15)
	case Lever:
		on := !n.Powered
		b.setNode(id, on, powerOf(on))
	default:
		logging.Warningf("runtime: on_use_block at %v targets non-interactive node type %v", pos, n.Type)
	}
}

// SetPressurePlate drives a PressurePlate node directly (spec §6).
func (b *Backend) SetPressurePlate(pos worldio.Position, powered bool) {
	id, ok := b.PosMap[pos]
	if !ok {
		logging.Warningf("runtime: set_pressure_plate at unknown position %v", pos)
		return
	}
	b.setNode(id, powered, powerOf(powered))
}

// Inspect returns a debug snapshot of the node at pos, or ok=false if pos is
// unknown (logged, not faulted, per spec §7).
func (b *Backend) Inspect(pos worldio.Position) (NodeSnapshot, bool) {
	id, ok := b.PosMap[pos]
	if !ok {
		logging.Warningf("runtime: inspect at unknown position %v", pos)
		return NodeSnapshot{}, false
	}
	n := &b.Nodes[id]
	return NodeSnapshot{
		ID:          id,
		Type:        n.Type,
		Powered:     n.Powered,
		OutputPower: n.OutputPower,
		Locked:      n.Props.Locked,
		PendingTick: n.PendingTick,
	}, true
}

// Flush drains the event queue (noteblock plays, in generation order), then
// writes every changed node back to world, clearing its changed bit (spec
// §6). When ioOnly is set, only nodes with IsIO=true are written.
func (b *Backend) Flush(world worldio.World, ioOnly bool) {
	for _, ev := range b.events {
		if int(ev.NoteBlockID) >= len(b.NoteBlockInfo) {
			logging.Warningf("runtime: flush dropped noteblock event for unknown id %d", ev.NoteBlockID)
			continue
		}
		info := b.NoteBlockInfo[ev.NoteBlockID]
		world.PlayNote(info.Pos, uint8(info.Instrument), info.Note)
	}
	b.events = b.events[:0]

	for i := range b.Nodes {
		n := &b.Nodes[i]
		if !n.Changed {
			continue
		}
		if ioOnly && !n.IsIO {
			continue
		}
		origin := b.Origins[i]
		if origin == nil {
			n.Changed = false
			continue
		}
		world.SetBlock(origin.Pos, worldio.Block{
			Powered:      n.Powered,
			OutputPower:  n.OutputPower,
			RepeaterLock: n.Props.Locked,
			WireStrength: n.OutputPower,
		})
		n.Changed = false
	}
}

// posOf looks up id's world position, for the scheduler's Reset forwarding.
func (b *Backend) posOf(id logicnode.ID) (worldio.Position, bool) {
	origin := b.Origins[id]
	if origin == nil {
		return worldio.Position{}, false
	}
	return origin.Pos, true
}

// Reset forwards every pending tick to world's own scheduler, writes back
// Comparator output_strength to block entities, restores non-IO blocks when
// ioOnly, empties the scheduler and the event queue, and clears every node's
// changed and pending-tick bits (spec §6). The compiled nodes, links and
// side tables are kept, along with each node's powered/output state.
func (b *Backend) Reset(world worldio.World, ioOnly bool) {
	b.scheduler.Reset(world, b.posOf)

	for i := range b.Nodes {
		n := &b.Nodes[i]
		origin := b.Origins[i]
		if n.Type == Comparator && origin != nil {
			world.SetBlockEntity(origin.Pos, worldio.BlockEntity{OutputStrength: n.OutputPower})
		}
		if ioOnly && !n.IsIO && origin != nil {
			world.SetBlock(origin.Pos, worldio.Block{
				Powered:      n.Powered,
				OutputPower:  n.OutputPower,
				RepeaterLock: n.Props.Locked,
				WireStrength: n.OutputPower,
			})
		}
		n.Changed = false
		n.PendingTick = false
	}
	b.events = b.events[:0]
}
