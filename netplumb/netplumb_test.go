package netplumb

import "testing"

func TestVethHostName(t *testing.T) {
	tests := []struct {
		pid  int
		want string
	}{
		{1, "veth1"},
		{4242, "veth4242"},
		{0, "veth0"},
	}
	for _, tt := range tests {
		if got := VethHostName(tt.pid); got != tt.want {
			t.Errorf("VethHostName(%d) = %q, want %q", tt.pid, got, tt.want)
		}
	}
}
