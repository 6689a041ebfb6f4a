package logicnode

import "github.com/redstone-core/redstone/pkg/worldio"

// ID identifies a node within a single Graph or compiled runtime. IDs from
// different graphs/backends are never interchangeable (spec §9).
type ID uint32

// LinkType distinguishes a repeater's/comparator's straight-in input from its
// lateral (locking / subtract) input.
type LinkType uint8

const (
	Default LinkType = iota
	Side
)

// State is the mutable part of a node: what it is currently doing, as
// opposed to Properties, which is fixed at construction (besides Locked,
// which both the pre-compile graph and the compiled runtime treat as live
// state — see logicnode.Properties.Locked vs the runtime's packed bit).
type State struct {
	Powered        bool
	OutputStrength uint8 // 0..15
	RepeaterLocked bool
}

// Node is one logic element in the pre-compile graph.
type Node struct {
	Type       Type
	Props      Properties
	State      State
	Origin     *worldio.BlockOrigin // nil iff synthesized by an optimization pass
	IsInput    bool
	IsOutput   bool
}

// Removable reports whether n may be deleted by an optimization pass without
// changing externally observable behavior: it must not be an I/O boundary,
// and its type must not be semantically observable on its own.
func (n *Node) Removable() bool {
	if n.IsInput || n.IsOutput {
		return false
	}
	switch n.Type {
	case Lever, Button, Lamp, PressurePlate, NoteBlock, Trapdoor:
		return false
	}
	return true
}

// Edge is a directed connection between two nodes in the pre-compile graph.
type Edge struct {
	From, To           ID
	LinkType           LinkType
	SignalStrengthLoss uint8 // 0..15, attenuation
}
