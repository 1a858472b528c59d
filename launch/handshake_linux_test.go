package launch

import (
	"os"
	"syscall"
	"testing"
)

// dupAsFile duplicates f's descriptor into an independent *os.File, the
// way fork gives the child its own copy of the pipe fd table distinct
// from the agent's.
func dupAsFile(t *testing.T, f *os.File) *os.File {
	t.Helper()
	fd, err := syscall.Dup(int(f.Fd()))
	if err != nil {
		t.Fatalf("dup: %v", err)
	}
	return os.NewFile(uintptr(fd), f.Name())
}

func TestRelease_Success(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Pipe() error: %v", err)
	}
	childR := dupAsFile(t, r)
	defer childR.Close()

	if err := release(r, w, true); err != nil {
		t.Fatalf("release() error: %v", err)
	}

	buf := make([]byte, 1)
	if _, err := childR.Read(buf); err != nil {
		t.Fatalf("read: %v", err)
	}
	if buf[0] != 1 {
		t.Errorf("handshake byte = %d, want 1", buf[0])
	}
}

func TestRelease_Failure(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Pipe() error: %v", err)
	}
	childR := dupAsFile(t, r)
	defer childR.Close()

	if err := release(r, w, false); err != nil {
		t.Fatalf("release() error: %v", err)
	}

	buf := make([]byte, 1)
	if _, err := childR.Read(buf); err != nil {
		t.Fatalf("read: %v", err)
	}
	if buf[0] != 0 {
		t.Errorf("handshake byte = %d, want 0", buf[0])
	}
}
