package fsys

import (
	"fmt"
	"os"
	"syscall"

	"github.com/hechaoli/mini-container/pkg/mount"
)

// syscalls is the real Syscalls implementation, backed directly by the
// kernel mount/chroot/chdir calls.
type syscalls struct{}

// NewSyscalls returns the production Syscalls implementation.
func NewSyscalls() Syscalls {
	return syscalls{}
}

func (syscalls) MakeRootSlave() error {
	if err := syscall.Mount("", "/", "", syscall.MS_SLAVE|syscall.MS_REC, ""); err != nil {
		return fmt.Errorf("mount(/, MS_SLAVE|MS_REC): %w", err)
	}
	return nil
}

func (syscalls) BindSelf(dir string) error {
	m := mount.Mount{Source: dir, Target: dir, Flags: syscall.MS_BIND | syscall.MS_REC}
	if err := syscall.Mount(m.Source, m.Target, m.FsType, m.Flags, m.Data); err != nil {
		return fmt.Errorf("mount(%s, %s, MS_BIND|MS_REC): %w", dir, dir, err)
	}
	return nil
}

func (syscalls) Chdir(dir string) error {
	if err := os.Chdir(dir); err != nil {
		return fmt.Errorf("chdir(%s): %w", dir, err)
	}
	return nil
}

func (syscalls) MoveMount(source, target string) error {
	if err := syscall.Mount(source, target, "", syscall.MS_MOVE, ""); err != nil {
		return fmt.Errorf("mount(%s, %s, MS_MOVE): %w", source, target, err)
	}
	return nil
}

func (syscalls) Chroot(dir string) error {
	if err := syscall.Chroot(dir); err != nil {
		return fmt.Errorf("chroot(%s): %w", dir, err)
	}
	return nil
}

func (syscalls) MakeRootShared() error {
	if err := syscall.Mount("", "/", "", syscall.MS_SHARED|syscall.MS_REC, ""); err != nil {
		return fmt.Errorf("mount(/, MS_SHARED|MS_REC): %w", err)
	}
	return nil
}

func (syscalls) MountProc() error {
	m := mount.Mount{
		Source: "proc",
		Target: "/proc",
		FsType: "proc",
		Flags:  syscall.MS_NOSUID | syscall.MS_NOEXEC | syscall.MS_NODEV,
	}
	if err := m.Mount(); err != nil {
		return fmt.Errorf("mount(%s): %w", m, err)
	}
	return nil
}
