package launch

import (
	"syscall"
	"unsafe" // required for go:linkname
)

//go:linkname beforeFork syscall.runtime_BeforeFork
func beforeFork()

//go:linkname afterFork syscall.runtime_AfterFork
func afterFork()

//go:linkname afterForkInChild syscall.runtime_AfterForkInChild
func afterForkInChild()

// rawClone performs the combined fork+namespace-creation syscall. The
// standard library's fork wrapper cannot request namespaces, so this
// calls clone(2) directly with the runtime's own before/after-fork hooks
// held around it, the same way syscall.forkExec does internally.
//
// In the parent, rawClone returns immediately with the child's pid.
//
// In the child, rawClone closes writeFD (the agent's end, which the
// child does not own) and blocks reading one byte from readFD, retrying
// on EINTR, before returning. Nothing between the clone syscall and that
// read is permitted to call an ordinary Go function: no allocation, no
// channel operation, nothing that might need a goroutine-local lock held
// by a thread that no longer exists in the child. Once the read returns,
// the child is past the only window that matters, and the rest of the
// container's bring-up can use ordinary Go code.
//
//go:norace
func rawClone(flags uintptr, readFD, writeFD uintptr) (pid uintptr, cloneErrno syscall.Errno, proceed bool) {
	syscall.ForkLock.Lock()
	beforeFork()
	p, _, errno := syscall.RawSyscall6(syscall.SYS_CLONE, uintptr(syscall.SIGCHLD)|flags, 0, 0, 0, 0, 0)
	if errno != 0 || p != 0 {
		afterFork()
		syscall.ForkLock.Unlock()
		return p, errno, false
	}

	// In the child. Cannot call any Go functions beyond this point until
	// the handshake read below returns.
	afterForkInChild()

	var (
		buf  [1]byte
		n    uintptr
		err1 syscall.Errno
	)

	_, _, err1 = syscall.RawSyscall(syscall.SYS_CLOSE, writeFD, 0, 0)
	if err1 != 0 {
		rawChildExit(err1)
	}

	for {
		n, _, err1 = syscall.RawSyscall(syscall.SYS_READ, readFD, uintptr(unsafe.Pointer(&buf[0])), 1)
		if err1 == syscall.EINTR {
			continue
		}
		break
	}
	if err1 != 0 || n != 1 {
		rawChildExit(syscall.EIO)
	}

	return 0, 0, buf[0] != 0
}

// rawChildExit terminates the child via a raw syscall, for use when setup
// fails before it is safe to call ordinary Go runtime functions.
func rawChildExit(errno syscall.Errno) {
	for {
		syscall.RawSyscall(syscall.SYS_EXIT, uintptr(errno), 0, 0)
	}
}
