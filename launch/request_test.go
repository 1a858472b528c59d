package launch

import (
	"testing"

	"golang.org/x/sys/unix"
)

func TestFlags_Combinations(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want uintptr
	}{
		{"none", Request{}, 0},
		{"rootfs only", Request{Rootfs: "/var/lib/mc/alpine"}, unix.CLONE_NEWNS},
		{"hostname only", Request{Hostname: "demo"}, unix.CLONE_NEWUTS},
		{"domain only", Request{Domain: "d.local"}, unix.CLONE_NEWUTS},
		{"hostname and domain", Request{Hostname: "demo", Domain: "d.local"}, unix.CLONE_NEWUTS},
		{"pid only", Request{EnablePID: true}, unix.CLONE_NEWPID},
		{"ipc only", Request{EnableIPC: true}, unix.CLONE_NEWIPC},
		{"ip only", Request{IP: "10.0.0.2"}, unix.CLONE_NEWNET},
		{
			"everything",
			Request{
				Rootfs:    "/var/lib/mc/alpine",
				Hostname:  "demo",
				Domain:    "d.local",
				EnablePID: true,
				EnableIPC: true,
				IP:        "10.0.0.2",
			},
			unix.CLONE_NEWNS | unix.CLONE_NEWUTS | unix.CLONE_NEWPID | unix.CLONE_NEWIPC | unix.CLONE_NEWNET,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.Flags(); got != tt.want {
				t.Errorf("Flags() = %#x, want %#x", got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr bool
	}{
		{"empty command", Request{}, true},
		{"valid", Request{Command: []string{"/bin/true"}}, false},
		{"negative ram", Request{Command: []string{"/bin/true"}, MaxRAMBytes: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseCommand(t *testing.T) {
	got := ParseCommand("  /bin/ls   -la  /tmp ")
	want := []string{"/bin/ls", "-la", "/tmp"}
	if len(got) != len(want) {
		t.Fatalf("ParseCommand() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ParseCommand()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
