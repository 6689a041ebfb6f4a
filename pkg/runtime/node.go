// Package runtime is the direct-execution backend: a cache-conscious
// flattened graph, the 16-slot x 4-priority tick scheduler, and the
// incremental signal-propagation engine (spec §2 components 7-9). Its
// packed Node record and switch-based per-type dispatch are grounded on the
// teacher's pkg/cpu (a compact State value mutated in place by a big
// closed-enum switch in Exec).
package runtime

import (
	"github.com/redstone-core/redstone/pkg/logicnode"
	"github.com/redstone-core/redstone/pkg/worldio"
)

// Node is the runtime-compiled record for one logic node (spec §3.3). Field
// order follows the spec's precedence order so the hot fields
// (ForwardLinkBegin, ForwardLinkCount, OutputPower, DigitalInput, Type) sit
// together; Go does not guarantee a literal 128-bit packed layout, but the
// field grouping is deliberate for the same cache-line-locality reason the
// teacher keeps cpu.State to 11 bytes.
type Node struct {
	Props logicnode.Properties

	Type Type

	IsIO        bool
	Powered     bool
	Changed     bool
	PendingTick bool

	OutputPower uint8

	DigitalInput DigitalCounters

	ForwardLinkCount uint16
	ForwardLinkBegin uint32
	AnalogInputIdx   uint32
}

// Type mirrors logicnode.Type inside the compiled representation; kept as a
// distinct name so runtime code reads as runtime.Type, not a leaked
// pre-compile concept.
type Type = logicnode.Type

const (
	Repeater      = logicnode.Repeater
	Torch         = logicnode.Torch
	Comparator    = logicnode.Comparator
	Lamp          = logicnode.Lamp
	Button        = logicnode.Button
	Lever         = logicnode.Lever
	PressurePlate = logicnode.PressurePlate
	Trapdoor      = logicnode.Trapdoor
	Wire          = logicnode.Wire
	Constant      = logicnode.Constant
	NoteBlock     = logicnode.NoteBlock
)

// DigitalCounters holds the two u8 incoming-edge-is-asserted counters (spec
// §3.3: digital_input, 16 bits as two u8 counters).
type DigitalCounters struct {
	Default uint8
	Side    uint8
}

// NonZero reports whether the given link type currently has at least one
// input delivering ss > 0.
func (d DigitalCounters) NonZero(lt logicnode.LinkType) bool {
	if lt == logicnode.Side {
		return d.Side > 0
	}
	return d.Default > 0
}

// ForwardLink is one outgoing-edge record (spec §3.3): target, link type,
// and attenuation. The 27-bit target-id bound from the spec is enforced at
// compile time (pkg/compile) rather than by truncating bits here — Go gains
// nothing from manual bitpacking that the language doesn't already check
// for us, and ErrLinkOutOfRange reports the violation precisely instead of
// silently wrapping.
type ForwardLink struct {
	Target   logicnode.ID
	LinkType logicnode.LinkType
	Distance uint8
}

// AnalogInputRecord holds the two 16-bucket histograms for an analog-
// consuming node (Comparator, Wire). Bucket 0 starts at 255 "ghost" entries
// so the aggregate lookup yields 0 before any real input arrives (spec
// §3.4).
type AnalogInputRecord struct {
	Default [16]uint8
	Side    [16]uint8
}

// NewAnalogInputRecord returns a record seeded with the ghost entries.
func NewAnalogInputRecord() AnalogInputRecord {
	var r AnalogInputRecord
	r.Default[0] = 255
	r.Side[0] = 255
	return r
}

// Aggregate returns the current max non-empty bucket for the given side:
// the highest index with a nonzero count (spec §3.4). Bucket 0's ghost
// entries guarantee at least one nonzero bucket always exists.
func (r *AnalogInputRecord) Aggregate(lt logicnode.LinkType) uint8 {
	buckets := &r.Default
	if lt == logicnode.Side {
		buckets = &r.Side
	}
	for v := 15; v > 0; v-- {
		if buckets[v] > 0 {
			return uint8(v)
		}
	}
	return 0
}

// Inc increments the bucket for value v on the given side.
func (r *AnalogInputRecord) Inc(lt logicnode.LinkType, v uint8) {
	if lt == logicnode.Side {
		r.Side[v]++
	} else {
		r.Default[v]++
	}
}

// Dec decrements the bucket for value v on the given side.
func (r *AnalogInputRecord) Dec(lt logicnode.LinkType, v uint8) {
	if lt == logicnode.Side {
		r.Side[v]--
	} else {
		r.Default[v]--
	}
}

// NoteBlockInfo is the parallel table looked up by the noteblock_id embedded
// in a NoteBlock node's type_specific_properties.
type NoteBlockInfo struct {
	Pos        worldio.Position
	Instrument logicnode.Instrument
	Note       uint8
}
