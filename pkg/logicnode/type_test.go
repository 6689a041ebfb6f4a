package logicnode

import "testing"

func TestIsAnalog(t *testing.T) {
	tests := []struct {
		typ  Type
		want bool
	}{
		{Comparator, true},
		{Wire, true},
		{Repeater, false},
		{Torch, false},
		{Lamp, false},
	}
	for _, tc := range tests {
		if got := tc.typ.IsAnalog(); got != tc.want {
			t.Errorf("%v.IsAnalog() = %v, want %v", tc.typ, got, tc.want)
		}
	}
}

func TestIsSource(t *testing.T) {
	if !Constant.IsSource() {
		t.Error("Constant should be a source")
	}
	if Repeater.IsSource() {
		t.Error("Repeater should not be a source")
	}
}

func TestString(t *testing.T) {
	if Torch.String() != "Torch" {
		t.Errorf("Torch.String() = %q, want %q", Torch.String(), "Torch")
	}
	if TypeCount.String() != "Unknown" {
		t.Errorf("TypeCount.String() = %q, want %q", TypeCount.String(), "Unknown")
	}
}
