// Package cgroup implements the Resource Limiter: placement of the
// container into a cgroup v2 directory keyed by its PID, with an
// optional memory cap.
//
// It assumes a pre-existing unified cgroup hierarchy with all required
// controllers already enabled at Root; this is a deployment
// precondition, not something this package checks or repairs. A
// reimplementation MUST NOT silently create the root with an
// incorrect controller set, since that would mask misconfiguration.
package cgroup

import (
	"fmt"
	"path"
	"strconv"
)

const (
	// Root is the default cgroup v2 mount point under which per-container
	// directories are created, keyed by PID.
	Root = "/sys/fs/cgroup/mini_container"

	memoryMax   = "memory.max"
	memoryLow   = "memory.low"
	cgroupProcs = "cgroup.procs"

	dirPerm = 0755
)

// Handle is the agent-owned handle to a container's cgroup directory.
type Handle struct {
	path string
}

// Create makes the cgroup directory for pid under root. Failure is fatal
// to the launch.
func Create(root string, pid int) (*Handle, error) {
	p := path.Join(root, strconv.Itoa(pid))
	if err := mkdir(p, dirPerm); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", p, err)
	}
	return &Handle{path: p}, nil
}

// Path returns the cgroup directory path.
func (h *Handle) Path() string {
	return h.path
}

// SetMemoryLimit writes memory.max and memory.low, where memory.low is
// the soft-protection threshold below which the kernel should avoid
// reclaiming: floor(maxBytes * 0.75). Only called when maxBytes > 0.
func (h *Handle) SetMemoryLimit(maxBytes int64) error {
	low := maxBytes * 75 / 100
	if err := h.writeUint(memoryLow, low); err != nil {
		return err
	}
	if err := h.writeUint(memoryMax, maxBytes); err != nil {
		return err
	}
	return nil
}

// Attach writes pid to cgroup.procs, placing the process under the
// resource limit. This MUST happen before the agent releases the
// handshake, so every allocation the child makes during startup is
// already accounted.
func (h *Handle) Attach(pid int) error {
	return h.writeUint(cgroupProcs, int64(pid))
}

// Remove deletes the cgroup directory. Expected to succeed once the
// kernel has removed the last process from the cgroup, which happens at
// process death; callers should only call Remove after a successful
// reap.
func (h *Handle) Remove() error {
	if err := rmdir(h.path); err != nil {
		return fmt.Errorf("rmdir %s: %w", h.path, err)
	}
	return nil
}

func (h *Handle) writeUint(name string, v int64) error {
	p := path.Join(h.path, name)
	if err := writeFile(p, []byte(strconv.FormatInt(v, 10))); err != nil {
		return fmt.Errorf("write %s: %w", p, err)
	}
	return nil
}
