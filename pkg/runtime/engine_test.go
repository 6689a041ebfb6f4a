package runtime

import (
	"testing"

	"github.com/redstone-core/redstone/pkg/logicnode"
	"github.com/redstone-core/redstone/pkg/worldio"
)

func TestCalcComparator(t *testing.T) {
	tests := []struct {
		mode        logicnode.ComparatorMode
		input, side uint8
		want        uint8
	}{
		{logicnode.Compare, 10, 5, 10},
		{logicnode.Compare, 5, 10, 0},
		{logicnode.Compare, 7, 7, 7},
		{logicnode.Subtract, 10, 5, 5},
		{logicnode.Subtract, 5, 10, 0},
		{logicnode.Subtract, 7, 7, 0},
	}
	for _, tc := range tests {
		if got := CalcComparator(tc.mode, tc.input, tc.side); got != tc.want {
			t.Errorf("CalcComparator(%v, %d, %d) = %d, want %d", tc.mode, tc.input, tc.side, got, tc.want)
		}
	}
}

func TestButtonSelfExtinguishes(t *testing.T) {
	pos := worldio.Position{X: 1, Y: 2, Z: 3}
	b := &Backend{
		Nodes:  []Node{{Type: Button}},
		Origins: []*worldio.BlockOrigin{nil},
		PosMap: map[worldio.Position]logicnode.ID{pos: 0},
	}

	b.OnUseBlock(pos)
	if !b.Nodes[0].Powered {
		t.Fatal("button should be powered immediately after use")
	}
	if !b.Nodes[0].PendingTick {
		t.Fatal("button should have a pending shutoff tick scheduled")
	}

	for i := 0; i < 9; i++ {
		b.Tick()
		if !b.Nodes[0].Powered {
			t.Fatalf("button extinguished early, at tick %d", i+1)
		}
	}
	b.Tick()
	if b.Nodes[0].Powered {
		t.Fatal("button should have extinguished after its 10-tick delay")
	}
}

func TestButtonIgnoresUseWhilePowered(t *testing.T) {
	pos := worldio.Position{}
	b := &Backend{
		Nodes:  []Node{{Type: Button}},
		Origins: []*worldio.BlockOrigin{nil},
		PosMap: map[worldio.Position]logicnode.ID{pos: 0},
	}
	b.OnUseBlock(pos)
	b.OnUseBlock(pos) // should be a no-op; must not re-schedule a second shutoff
	for i := 0; i < 9; i++ {
		b.Tick()
	}
	if !b.Nodes[0].Powered {
		t.Fatal("button powered off before its original 10-tick window elapsed")
	}
	b.Tick()
	if b.Nodes[0].Powered {
		t.Fatal("button should extinguish exactly at its original delay")
	}
}

func TestTorchInvertsOnLeverToggle(t *testing.T) {
	lever := logicnode.ID(0)
	torch := logicnode.ID(1)
	pos := worldio.Position{}
	b := &Backend{
		Nodes: []Node{
			{Type: Lever, ForwardLinkBegin: 0, ForwardLinkCount: 1},
			{Type: Torch, Powered: true, OutputPower: 15},
		},
		ForwardLinks: []ForwardLink{{Target: torch, LinkType: logicnode.Default}},
		Origins:      []*worldio.BlockOrigin{nil, nil},
		PosMap:       map[worldio.Position]logicnode.ID{pos: lever},
	}

	b.OnUseBlock(pos)
	if !b.Nodes[lever].Powered {
		t.Fatal("lever should be on after toggling")
	}
	if !b.Nodes[torch].PendingTick {
		t.Fatal("torch should have a pending tick after its input rose")
	}

	b.Tick()
	if b.Nodes[torch].Powered {
		t.Fatal("torch should invert to off once its input is asserted")
	}
}
