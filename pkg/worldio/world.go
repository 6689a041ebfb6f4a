// Package worldio defines the typed boundary between the simulation core and
// its external collaborators: world-state I/O (block reads/writes) and
// block-entity persistence. These are consumed as interfaces; the frontend
// that constructs the initial logic graph from world geometry, the
// coordinate/block-ID encoding scheme, and actual storage are all excluded
// from the core (spec §1) and live outside this module.
package worldio

// Position identifies a block in world space. The encoding of the underlying
// coordinate system is owned by the frontend; the core only ever compares
// Positions for equality and uses them as map keys.
type Position struct {
	X, Y, Z int32
}

// Priority is the scheduling lane a tick is queued under, in draining order.
type Priority uint8

const (
	Highest Priority = iota
	Higher
	High
	Normal

	PriorityCount
)

// Block is an opaque, world-encoded block snapshot the core writes back
// during flush/reset. The core never decodes a Block; it only ever
// constructs one from a compiled runtime node's state and hands it to
// World.SetBlock.
type Block struct {
	Powered       bool
	OutputPower   uint8
	RepeaterLock  bool
	WireStrength  uint8
}

// BlockEntity carries the extra per-node state that doesn't fit in a Block,
// namely a Comparator's output_strength (spec §6, reset).
type BlockEntity struct {
	OutputStrength uint8
}

// World is the external collaborator the core drives during reset and
// flush. The core never calls these at any other time (spec §5).
type World interface {
	ScheduleTick(pos Position, delay int, priority Priority)
	SetBlock(pos Position, block Block)
	SetBlockEntity(pos Position, entity BlockEntity)
	// PlayNote is invoked once per NoteBlockPlay event drained by flush, in
	// generation order. instrument is the raw value of a logicnode.Instrument;
	// worldio does not import pkg/logicnode to avoid a cycle (logicnode
	// already imports worldio for BlockOrigin).
	PlayNote(pos Position, instrument uint8, note uint8)
}

// BlockOrigin records the world block a node was materialized from. A node
// synthesized by an optimization pass (coalesce, merge-repeaters, series
// reduction) has no BlockOrigin.
type BlockOrigin struct {
	Pos     Position
	BlockID uint32 // encoded-block-id, opaque to the core
}
