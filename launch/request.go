// Package launch implements the Launch Coordinator: it turns a validated
// Request into an isolated child process running the caller's command,
// sequencing namespace creation, host-side plumbing, the agent/child
// handshake, and reap/cleanup.
package launch

import (
	"strings"

	"golang.org/x/sys/unix"
)

// Request is the immutable description of a single launch, built once by
// the CLI layer and consumed by Run.
type Request struct {
	// Command is the absolute path to the executable followed by its
	// arguments. Must be non-empty.
	Command []string

	// Rootfs is an optional absolute path to a directory to use as the
	// container's root. Empty means "inherit the host root, no mount
	// isolation".
	Rootfs string

	// Hostname and Domain are optional UTS identity strings. Either one
	// being non-empty requests a UTS namespace.
	Hostname string
	Domain   string

	// EnablePID and EnableIPC request PID and System V IPC isolation.
	EnablePID bool
	EnableIPC bool

	// IP is an optional dotted-quad address on the bridge subnet.
	// Non-empty requests network isolation and veth plumbing.
	IP string

	// MaxRAMBytes is an optional positive memory cap. Zero means no cap.
	MaxRAMBytes int64

	// Verbose controls diagnostic output only, never semantics.
	Verbose bool
}

// ParseCommand splits a whitespace-delimited command line into tokens.
// Tokenization is deliberately simple: no quoting, no escaping.
func ParseCommand(line string) []string {
	return strings.Fields(line)
}

// Validate checks the invariants of the LaunchRequest that the Coordinator
// relies on. It returns a *PreconditionError naming the violated field.
func (r *Request) Validate() error {
	if len(r.Command) == 0 {
		return &PreconditionError{Op: "command", Err: errEmptyCommand}
	}
	if r.MaxRAMBytes < 0 {
		return &PreconditionError{Op: "max-ram", Err: errNegativeRAM}
	}
	return nil
}

// Flags computes the namespace bits of the clone(2) flag set implied by
// the request: exactly one bit per present domain field. The
// child-termination signal is not part of the result; rawClone ORs
// SIGCHLD in at the clone call. rootfs contributes CLONE_NEWNS, hostname/domain contribute CLONE_NEWUTS,
// enable_pid contributes CLONE_NEWPID, enable_ipc contributes CLONE_NEWIPC,
// and ip contributes CLONE_NEWNET.
func (r *Request) Flags() uintptr {
	var flags uintptr
	if r.Rootfs != "" {
		flags |= unix.CLONE_NEWNS
	}
	if r.Hostname != "" || r.Domain != "" {
		flags |= unix.CLONE_NEWUTS
	}
	if r.EnablePID {
		flags |= unix.CLONE_NEWPID
	}
	if r.EnableIPC {
		flags |= unix.CLONE_NEWIPC
	}
	if r.IP != "" {
		flags |= unix.CLONE_NEWNET
	}
	return flags
}
