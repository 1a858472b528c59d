// Package mount describes a single mount(2) call and issues it. The
// filesystem pivot uses it for its bind mount and its fresh procfs
// mount; its propagation changes and move-mount call syscall.Mount
// directly.
package mount

import (
	"fmt"
	"syscall"
)

// Mount describes a single mount(2) call.
type Mount struct {
	Source, Target, FsType, Data string
	Flags                        uintptr
}

// IsBindMount reports whether m carries MS_BIND.
func (m Mount) IsBindMount() bool {
	return m.Flags&syscall.MS_BIND == syscall.MS_BIND
}

// IsReadOnly reports whether m carries MS_RDONLY.
func (m Mount) IsReadOnly() bool {
	return m.Flags&syscall.MS_RDONLY == syscall.MS_RDONLY
}

// IsTmpFs reports whether m mounts tmpfs.
func (m Mount) IsTmpFs() bool {
	return m.FsType == "tmpfs"
}

func (m Mount) String() string {
	switch {
	case m.IsBindMount():
		flag := "rw"
		if m.IsReadOnly() {
			flag = "ro"
		}
		return fmt.Sprintf("bind[%s:%s:%s]", m.Source, m.Target, flag)
	case m.IsTmpFs():
		return fmt.Sprintf("tmpfs[%s]", m.Target)
	case m.FsType == "proc":
		flag := "rw"
		if m.IsReadOnly() {
			flag = "ro"
		}
		return fmt.Sprintf("proc[%s]", flag)
	default:
		return fmt.Sprintf("mount[%s,%s:%s:%x,%s]", m.FsType, m.Source, m.Target, m.Flags, m.Data)
	}
}
