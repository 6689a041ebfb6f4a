package runtime

import (
	"github.com/redstone-core/redstone/pkg/logging"
	"github.com/redstone-core/redstone/pkg/logicnode"
	"github.com/redstone-core/redstone/pkg/worldio"
)

// ringSize is the scheduler's slot count; it upper-bounds the maximum tick
// delay the core can schedule (spec §4.7, §9).
const ringSize = 16

// Priority is a scheduling lane within a tick slot.
type Priority = worldio.Priority

const (
	Highest = worldio.Highest
	Higher  = worldio.Higher
	High    = worldio.High
	Normal  = worldio.Normal
)

// Queues holds the four priority sub-queues for a single ring slot.
type Queues struct {
	sub [worldio.PriorityCount][]logicnode.ID
}

// Scheduler is the 16-slot x 4-priority ring buffer of pending nodes (spec
// §4.7). Slot buffers are reused across ticks (end_tick) to avoid
// reallocation on the hot path.
type Scheduler struct {
	slots [ringSize]Queues
	pos   int
}

// Schedule pushes node into the queue delay slots ahead of the current
// position, under the given priority. delay must be <= 15.
func (s *Scheduler) Schedule(node logicnode.ID, delay int, priority Priority) {
	slot := (s.pos + delay) % ringSize
	s.slots[slot].sub[priority] = append(s.slots[slot].sub[priority], node)
}

// AdvanceAndTake advances pos by one slot and moves the full Queues out of
// the new position, leaving an empty Queues in its place; the caller drains
// all four priority sub-queues in priority order (Highest -> Higher -> High
// -> Normal). Leaving the slot empty (rather than merely copying it out)
// matters because draining a node can itself schedule a new tick at delay 0,
// which lands back in this same slot — it must not alias the batch
// currently being drained.
func (s *Scheduler) AdvanceAndTake() Queues {
	s.pos = (s.pos + 1) % ringSize
	q := s.slots[s.pos]
	s.slots[s.pos] = Queues{}
	return q
}

// EndTick clears the moved-out queues and stores them back into the current
// slot, reusing the underlying arrays. Nodes scheduled into that slot while
// it was being drained are carried over into the stored queues.
func (s *Scheduler) EndTick(q Queues) {
	for p := range q.sub {
		q.sub[p] = append(q.sub[p][:0], s.slots[s.pos].sub[p]...)
	}
	s.slots[s.pos] = q
}

// HasPending reports whether any slot has a non-empty sub-queue.
func (s *Scheduler) HasPending() bool {
	for _, slot := range s.slots {
		for _, sub := range slot.sub {
			if len(sub) > 0 {
				return true
			}
		}
	}
	return false
}

// Reset forwards every pending tick to the external world's own scheduler,
// computing each slot's effective delay relative to the current position
// (delays wrap forward), then clears all slots.
func (s *Scheduler) Reset(world worldio.World, posOf func(logicnode.ID) (worldio.Position, bool)) {
	for i := 0; i < ringSize; i++ {
		slot := (s.pos + i) % ringSize
		delay := i
		if delay == 0 {
			// AdvanceAndTake always moves pos forward before draining a slot, so
			// a node still sitting in the current slot is a full lap away, not
			// due immediately.
			delay = ringSize
		}
		for pr, sub := range s.slots[slot].sub {
			for _, node := range sub {
				pos, ok := posOf(node)
				if !ok {
					logging.Warningf("runtime: reset dropped pending tick for node %d with no block position", node)
					continue
				}
				world.ScheduleTick(pos, delay, Priority(pr))
			}
		}
	}
	for i := range s.slots {
		for p := range s.slots[i].sub {
			s.slots[i].sub[p] = nil
		}
	}
	s.pos = 0
}
