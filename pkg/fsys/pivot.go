// Package fsys implements the container-side filesystem pivot: the
// sequence that replaces the container's view of the root filesystem
// with a caller-supplied directory and mounts a fresh procfs.
package fsys

// Syscalls is the seam between the pivot sequence and the kernel, so the
// ordering in Pivot can be exercised by a test without root privilege or
// a real mount namespace.
type Syscalls interface {
	// MakeRootSlave recursively changes the propagation type of the
	// existing root tree to "slave".
	MakeRootSlave() error
	// BindSelf bind-mounts dir onto itself recursively, turning it into
	// a mount point.
	BindSelf(dir string) error
	// Chdir changes the working directory.
	Chdir(dir string) error
	// MoveMount moves the mount at source onto target.
	MoveMount(source, target string) error
	// Chroot changes the process root.
	Chroot(dir string) error
	// MakeRootShared recursively marks "/" as shared.
	MakeRootShared() error
	// MountProc mounts a fresh procfs at /proc.
	MountProc() error
}

// Pivot runs the filesystem pivot described in the launch protocol:
// make the existing mount tree a recursive slave, convert rootfs into a mount point, move
// it onto "/", switch root, re-share, and mount a fresh procfs. It is
// order-critical and must run exactly once, before identity and exec.
func Pivot(sc Syscalls, rootfs string) error {
	if err := sc.MakeRootSlave(); err != nil {
		return err
	}
	if err := sc.BindSelf(rootfs); err != nil {
		return err
	}
	if err := sc.Chdir(rootfs); err != nil {
		return err
	}
	if err := sc.MoveMount(rootfs, "/"); err != nil {
		return err
	}
	if err := sc.Chroot("."); err != nil {
		return err
	}
	if err := sc.Chdir("/"); err != nil {
		return err
	}
	if err := sc.MakeRootShared(); err != nil {
		return err
	}
	return sc.MountProc()
}
