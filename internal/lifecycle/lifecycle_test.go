package lifecycle

import "testing"

func TestShuttingDownFlag(t *testing.T) {
	defer SetShuttingDown(false)
	tests := []struct {
		set  bool
		want bool
	}{
		{false, false},
		{true, true},
		{true, true},
		{false, false},
	}
	for _, tt := range tests {
		SetShuttingDown(tt.set)
		if got := IsShuttingDown(); got != tt.want {
			t.Errorf("after SetShuttingDown(%v) IsShuttingDown() = %v, want %v", tt.set, got, tt.want)
		}
	}
}
