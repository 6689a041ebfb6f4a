package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/redstone-core/redstone/pkg/logicgraph"
	"github.com/redstone-core/redstone/pkg/logicnode"
	"github.com/redstone-core/redstone/pkg/worldio"
)

// fixture is the on-disk JSON shape consumed by every subcommand: a small,
// hand-writable logic graph for driving the compiler and simulator outside
// of a real world-frontend. The core itself never sees this format — it is
// CLI-only glue, the same role cmd/z80opt's parseAssembly plays for the
// teacher.
type fixture struct {
	Nodes []fixtureNode `json:"nodes"`
	Edges []fixtureEdge `json:"edges"`
}

type fixtureNode struct {
	ID             uint32  `json:"id"`
	Type           string  `json:"type"`
	Delay          uint8   `json:"delay,omitempty"`
	FacingDiode    bool    `json:"facing_diode,omitempty"`
	Mode           string  `json:"mode,omitempty"`
	HasFarInput    bool    `json:"has_far_input,omitempty"`
	FarInput       uint8   `json:"far_input,omitempty"`
	Instrument     uint8   `json:"instrument,omitempty"`
	Note           uint8   `json:"note,omitempty"`
	Powered        bool    `json:"powered,omitempty"`
	OutputStrength uint8   `json:"output_strength,omitempty"`
	IsInput        bool    `json:"is_input,omitempty"`
	IsOutput       bool    `json:"is_output,omitempty"`
	Pos            *[3]int32 `json:"pos,omitempty"`
	BlockID        uint32  `json:"block_id,omitempty"`
}

type fixtureEdge struct {
	From     uint32 `json:"from"`
	To       uint32 `json:"to"`
	LinkType string `json:"link_type,omitempty"`
	Loss     uint8  `json:"loss,omitempty"`
}

func loadFixture(path string) (*logicgraph.Graph, map[uint32]logicnode.ID, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read fixture: %w", err)
	}
	var fx fixture
	if err := json.Unmarshal(data, &fx); err != nil {
		return nil, nil, fmt.Errorf("parse fixture: %w", err)
	}

	g := logicgraph.New()
	ids := make(map[uint32]logicnode.ID, len(fx.Nodes))
	for _, fn := range fx.Nodes {
		t, err := parseType(fn.Type)
		if err != nil {
			return nil, nil, err
		}
		n := logicnode.Node{
			Type:     t,
			IsInput:  fn.IsInput,
			IsOutput: fn.IsOutput,
			State: logicnode.State{
				Powered:        fn.Powered,
				OutputStrength: fn.OutputStrength,
			},
		}
		n.Props.Delay = fn.Delay
		n.Props.FacingDiode = fn.FacingDiode
		n.Props.HasFarInput = fn.HasFarInput
		n.Props.FarInput = fn.FarInput
		n.Props.Instrument = logicnode.Instrument(fn.Instrument)
		n.Props.Note = fn.Note
		if fn.Mode == "subtract" {
			n.Props.Mode = logicnode.Subtract
		}
		if fn.Pos != nil {
			n.Origin = &worldio.BlockOrigin{
				Pos:     worldio.Position{X: fn.Pos[0], Y: fn.Pos[1], Z: fn.Pos[2]},
				BlockID: fn.BlockID,
			}
		}
		id := g.AddNode(n)
		ids[fn.ID] = id
	}
	for _, fe := range fx.Edges {
		from, ok := ids[fe.From]
		if !ok {
			return nil, nil, fmt.Errorf("edge references unknown node id %d", fe.From)
		}
		to, ok := ids[fe.To]
		if !ok {
			return nil, nil, fmt.Errorf("edge references unknown node id %d", fe.To)
		}
		lt := logicnode.Default
		if fe.LinkType == "side" {
			lt = logicnode.Side
		}
		g.AddEdge(logicnode.Edge{From: from, To: to, LinkType: lt, SignalStrengthLoss: fe.Loss})
	}
	return g, ids, nil
}

func parseType(s string) (logicnode.Type, error) {
	switch s {
	case "repeater":
		return logicnode.Repeater, nil
	case "torch":
		return logicnode.Torch, nil
	case "comparator":
		return logicnode.Comparator, nil
	case "lamp":
		return logicnode.Lamp, nil
	case "button":
		return logicnode.Button, nil
	case "lever":
		return logicnode.Lever, nil
	case "pressure_plate":
		return logicnode.PressurePlate, nil
	case "trapdoor":
		return logicnode.Trapdoor, nil
	case "wire":
		return logicnode.Wire, nil
	case "constant":
		return logicnode.Constant, nil
	case "noteblock":
		return logicnode.NoteBlock, nil
	default:
		return 0, fmt.Errorf("unknown node type %q", s)
	}
}
