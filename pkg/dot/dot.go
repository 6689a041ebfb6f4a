// Package dot exports a compiled runtime.Backend as a Graphviz digraph
// (spec §6, export_dot_graph). Grounded on the teacher's pkg/result
// separation of data structure from serialization (WriteJSON is a pure
// function over a Table); this exporter is likewise a pure function over
// the backend's exported accessors, independent of runtime's internals.
package dot

import (
	"fmt"
	"io"

	"github.com/redstone-core/redstone/pkg/logicnode"
	"github.com/redstone-core/redstone/pkg/runtime"
)

// Write renders b as a Graphviz digraph to w: one node per non-Wire runtime
// node, labeled with type and position (or "synthesized" if it has none);
// one edge per forward link, labeled with its distance, colored blue when
// its link type is Side.
func Write(w io.Writer, b *runtime.Backend) error {
	if _, err := fmt.Fprintln(w, "digraph redstone {"); err != nil {
		return err
	}

	for id := range b.Nodes {
		n := &b.Nodes[id]
		if n.Type == runtime.Wire {
			continue
		}
		label := nodeLabel(b, logicnode.ID(id))
		if _, err := fmt.Fprintf(w, "  n%d [label=%q];\n", id, label); err != nil {
			return err
		}
	}

	for id := range b.Nodes {
		n := &b.Nodes[id]
		links := b.ForwardLinks[n.ForwardLinkBegin : n.ForwardLinkBegin+uint32(n.ForwardLinkCount)]
		for _, l := range links {
			color := ""
			if l.LinkType == logicnode.Side {
				color = ", color=blue"
			}
			if _, err := fmt.Fprintf(w, "  n%d -> n%d [label=%q%s];\n", id, l.Target, fmt.Sprint(l.Distance), color); err != nil {
				return err
			}
		}
	}

	_, err := fmt.Fprintln(w, "}")
	return err
}

func nodeLabel(b *runtime.Backend, id logicnode.ID) string {
	n := &b.Nodes[id]
	origin := b.Origins[id]
	if origin == nil {
		return fmt.Sprintf("%s (synthesized)", n.Type)
	}
	return fmt.Sprintf("%s @ (%d,%d,%d)", n.Type, origin.Pos.X, origin.Pos.Y, origin.Pos.Z)
}
