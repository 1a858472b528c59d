package mount

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

// Mount calls mount(2), creating the target directory first if needed.
func (m Mount) Mount() error {
	if err := ensureMountTargetExists(m.Source, m.Target); err != nil {
		return fmt.Errorf("mkdir %s: %w", m.Target, err)
	}
	if err := syscall.Mount(m.Source, m.Target, m.FsType, m.Flags, m.Data); err != nil {
		return fmt.Errorf("mount(%s): %w", m, err)
	}
	// Read-only bind mounts require a remount: mount flags are not
	// honored for the data argument on the initial bind.
	const bindRO = syscall.MS_BIND | syscall.MS_RDONLY
	if m.Flags&bindRO == bindRO {
		if err := syscall.Mount("", m.Target, m.FsType, m.Flags|syscall.MS_REMOUNT, m.Data); err != nil {
			return fmt.Errorf("remount(%s): %w", m, err)
		}
	}
	return nil
}

// ensureMountTargetExists creates target as a directory, unless source is a
// regular file, in which case target is created as an empty file so a bind
// mount of a single file has somewhere to land.
func ensureMountTargetExists(source, target string) error {
	fi, err := os.Stat(source)
	if err == nil && !fi.IsDir() {
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}
		f, err := os.OpenFile(target, os.O_CREATE, 0644)
		if err != nil {
			return err
		}
		return f.Close()
	}
	return os.MkdirAll(target, 0755)
}
