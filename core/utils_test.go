package core

import "testing"

func TestCleanString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "  Alice ", want: "alice"},
		{in: "\tBOB\n", want: "bob"},
		{in: "carol", want: "carol"},
		{in: "   ", want: ""},
	}
	for _, tt := range tests {
		if got := CleanString(tt.in); got != tt.want {
			t.Errorf("CleanString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
