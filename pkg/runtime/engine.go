package runtime

import (
	"github.com/redstone-core/redstone/pkg/logging"
	"github.com/redstone-core/redstone/pkg/logicnode"
	"github.com/redstone-core/redstone/pkg/worldio"
)

// NoteBlockPlay is emitted on a NoteBlock's rising edge (spec §4.8). Events
// queue in generation order and are flushed to the world in that order.
type NoteBlockPlay struct {
	NoteBlockID uint32
}

// Backend is the compiled runtime graph plus its scheduler and pending
// event queue (spec §3.2, §4.7, §4.8). It owns its arrays exclusively;
// external interaction is serialized through its public surface (spec §5).
type Backend struct {
	Nodes         []Node
	ForwardLinks  []ForwardLink
	AnalogInputs  []AnalogInputRecord
	Origins       []*worldio.BlockOrigin // parallel to Nodes; nil = synthesized
	PosMap        map[worldio.Position]logicnode.ID
	NoteBlockInfo []NoteBlockInfo

	scheduler Scheduler
	events    []NoteBlockPlay
}

func saturatingSub(a, b uint8) uint8 {
	if b >= a {
		return 0
	}
	return a - b
}

// CalcComparator implements spec §4.8's calc_comparator: d := input-side
// with u8 wraparound; if d <= 15, return input for Compare, d for Subtract;
// otherwise 0.
func CalcComparator(mode logicnode.ComparatorMode, input, side uint8) uint8 {
	d := input - side // u8 wraparound is intentional (spec §4.8)
	if d > 15 {
		return 0
	}
	if mode == logicnode.Subtract {
		return d
	}
	return input
}

func (b *Backend) forwardLinksOf(id logicnode.ID) []ForwardLink {
	n := &b.Nodes[id]
	return b.ForwardLinks[n.ForwardLinkBegin : n.ForwardLinkBegin+uint32(n.ForwardLinkCount)]
}

// propagateChange applies on_input_change to every outgoing forward-link of
// src whose source output power moved from oldPower to newPower.
func (b *Backend) propagateChange(src logicnode.ID, oldPower, newPower uint8) {
	for _, link := range b.forwardLinksOf(src) {
		b.onInputChange(link.Target, link.LinkType, link.Distance, oldPower, newPower)
	}
}

func (b *Backend) onInputChange(target logicnode.ID, lt logicnode.LinkType, distance, oldSS, newSS uint8) {
	oldEff := saturatingSub(oldSS, distance)
	newEff := saturatingSub(newSS, distance)
	if oldEff == newEff {
		return
	}
	n := &b.Nodes[target]
	if n.Type.IsAnalog() {
		rec := &b.AnalogInputs[n.AnalogInputIdx]
		rec.Inc(lt, newEff)
		rec.Dec(lt, oldEff)
	} else {
		if (oldEff != 0) == (newEff != 0) {
			return
		}
		rising := newEff != 0
		switch {
		case lt == logicnode.Side && rising:
			n.DigitalInput.Side++
		case lt == logicnode.Side && !rising:
			n.DigitalInput.Side--
		case rising:
			n.DigitalInput.Default++
		default:
			n.DigitalInput.Default--
		}
	}
	b.update(target)
}

// update is the synchronous per-node-type transition of spec §4.8. It does
// not itself mutate output power; it schedules ticks, or, for non-powered
// types, commits state directly.
func (b *Backend) update(id logicnode.ID) {
	n := &b.Nodes[id]
	switch n.Type {
	case Repeater:
		shouldLock := n.DigitalInput.Side > 0
		if shouldLock != n.Props.Locked {
			n.Props.Locked = shouldLock
			n.Changed = true
		}
		if n.Props.Locked || n.PendingTick {
			return
		}
		shouldPower := n.DigitalInput.Default > 0
		if shouldPower != n.Powered {
			priority := Higher
			switch {
			case n.Props.FacingDiode:
				priority = Highest
			case n.Powered && !shouldPower:
				priority = Higher // falling edge
			case !n.Powered && shouldPower:
				priority = High // rising edge
			}
			b.scheduleTick(id, int(n.Props.Delay), priority)
		}

	case Torch:
		if n.PendingTick {
			return
		}
		should := n.DigitalInput.Default == 0
		if should != n.Powered {
			b.scheduleTick(id, 1, Normal)
		}

	case Comparator:
		if n.PendingTick {
			return
		}
		out := b.comparatorOutput(id)
		if out != n.OutputPower {
			priority := Normal
			if n.Props.FacingDiode {
				priority = High
			}
			b.scheduleTick(id, 1, priority)
		}

	case Lamp:
		should := n.DigitalInput.Default > 0
		if n.Powered && !should {
			b.scheduleTick(id, 2, Normal)
		} else if !n.Powered && should {
			n.Powered = true
			n.Changed = true
		}

	case Trapdoor:
		n.Powered = n.DigitalInput.Default > 0
		n.Changed = true

	case Wire:
		newPower := b.AnalogInputs[n.AnalogInputIdx].Aggregate(logicnode.Default)
		if newPower != n.OutputPower {
			n.OutputPower = newPower
			n.Changed = true
		}

	case NoteBlock:
		should := n.DigitalInput.Default > 0
		rising := should && !n.Powered
		n.Powered = should
		if rising {
			b.events = append(b.events, NoteBlockPlay{NoteBlockID: n.Props.NoteBlockID})
		}

	case Button, Lever, PressurePlate, Constant:
		// no-op
	}
}

func (b *Backend) comparatorOutput(id logicnode.ID) uint8 {
	n := &b.Nodes[id]
	rec := &b.AnalogInputs[n.AnalogInputIdx]
	input := rec.Aggregate(logicnode.Default)
	if input < 15 && n.Props.HasFarInput {
		input = n.Props.FarInput
	}
	side := rec.Aggregate(logicnode.Side)
	return CalcComparator(n.Props.Mode, input, side)
}

func (b *Backend) scheduleTick(id logicnode.ID, delay int, priority Priority) {
	b.scheduler.Schedule(id, delay, priority)
	b.Nodes[id].PendingTick = true
}

// tickNode is invoked when the scheduler drains id; PendingTick has already
// been cleared by the caller (spec §4.7).
func (b *Backend) tickNode(id logicnode.ID) {
	n := &b.Nodes[id]
	switch n.Type {
	case Repeater:
		if n.Props.Locked {
			return
		}
		should := n.DigitalInput.Default > 0
		switch {
		case n.Powered && !should:
			b.setNode(id, false, 0)
		case !n.Powered:
			if !should {
				b.scheduleTick(id, int(n.Props.Delay), Higher)
			}
			b.setNode(id, true, 15)
		}

	case Torch:
		should := n.DigitalInput.Default == 0
		if should != n.Powered {
			power := uint8(0)
			if should {
				power = 15
			}
			b.setNode(id, should, power)
		}

	case Comparator:
		out := b.comparatorOutput(id)
		if out != n.OutputPower {
			b.setNode(id, out > 0, out)
		}

	case Lamp:
		if n.Powered && n.DigitalInput.Default == 0 {
			b.setNode(id, false, 0)
		}

	case Button:
		if n.Powered {
			b.setNode(id, false, 0)
		}

	default:
		logging.Warningf("runtime: tick() invoked on node %d of unexpected type %v", id, n.Type)
	}
}

// setNode writes the target's new powered/output_power, marks it changed,
// then propagates the change to every outgoing forward-link (spec §4.8).
// This is the only path by which propagation occurs.
func (b *Backend) setNode(id logicnode.ID, powered bool, newPower uint8) {
	n := &b.Nodes[id]
	oldPower := n.OutputPower
	n.Powered = powered
	n.OutputPower = newPower
	n.Changed = true
	b.propagateChange(id, oldPower, newPower)
}
