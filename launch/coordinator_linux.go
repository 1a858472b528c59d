package launch

import (
	"errors"
	"fmt"
	"log"
	"os"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/hechaoli/mini-container/netplumb"
	"github.com/hechaoli/mini-container/pkg/cgroup"
	"github.com/hechaoli/mini-container/pkg/fsys"
)

// Coordinator drives a single launch from validated Request to reaped
// child. A Coordinator is not reusable across concurrent launches; build
// a fresh one per call to Run if launches can overlap.
type Coordinator struct {
	// CgroupRoot overrides cgroup.Root, for tests.
	CgroupRoot string

	// Logger receives every fatal "{operation}: {errno-or-reason}" line,
	// agent-side and child-side alike. cmd/minicontainer constructs the
	// production logger once and assigns it here; NewCoordinator fills in
	// a stderr default so a Coordinator built directly (e.g. by tests) is
	// never left with a nil Logger.
	Logger *log.Logger
}

// NewCoordinator returns a Coordinator configured with production
// defaults.
func NewCoordinator() *Coordinator {
	return &Coordinator{CgroupRoot: cgroup.Root, Logger: log.New(os.Stderr, "", 0)}
}

// Run executes the launch protocol end to end: it validates the request,
// creates the child with the requested namespaces, performs host-side
// plumbing, releases the handshake, and reaps the child. It returns the
// child's exit status on success.
//
// Run itself only ever returns in the Agent; the Container branch always
// terminates the process, either by exec or by a fatal exit.
func (c *Coordinator) Run(req *Request) (int, error) {
	if err := req.Validate(); err != nil {
		return 0, err
	}

	r, w, err := os.Pipe()
	if err != nil {
		return 0, fmt.Errorf("pipe: %w", err)
	}

	pid, errno, proceed := rawClone(req.Flags(), uintptr(r.Fd()), uintptr(w.Fd()))
	if errno != 0 {
		r.Close()
		w.Close()
		return 0, &NamespaceCreateError{Err: errno}
	}

	if pid == 0 {
		c.runChild(req, proceed, w)
		panic("unreachable: runChild always exits or execs")
	}

	return c.runAgent(req, int(pid), r, w)
}

func (c *Coordinator) runAgent(req *Request, pid int, r, w *os.File) (int, error) {
	logf(req, "launch: created container pid=%d", pid)

	if req.IP != "" {
		logf(req, "launch: plumbing network for pid=%d", pid)
		if err := netplumb.PlumbHost(pid); err != nil {
			return c.abort(pid, r, w, &AgentPlumbingError{Op: "network", Err: err})
		}
	}

	h, err := cgroup.Create(c.cgroupRoot(), pid)
	if err != nil {
		return c.abort(pid, r, w, &AgentPlumbingError{Op: "cgroup create", Err: err})
	}
	if req.MaxRAMBytes > 0 {
		if err := h.SetMemoryLimit(req.MaxRAMBytes); err != nil {
			return c.abort(pid, r, w, &AgentPlumbingError{Op: "cgroup memory limit", Err: err})
		}
	}
	// Attach before releasing the handshake: every allocation the child
	// makes during startup must already be accounted to the cgroup.
	if err := h.Attach(pid); err != nil {
		return c.abort(pid, r, w, &AgentPlumbingError{Op: "cgroup attach", Err: err})
	}

	logf(req, "launch: releasing container pid=%d", pid)
	releaseErr := release(r, w, true)

	// The agent always attempts waitpid and cgroup rmdir once the child
	// exists, regardless of a release failure above: by this point the
	// child has already been cgroup-attached (and network-plumbed, if
	// requested), so skipping reap/remove here would orphan a running
	// process and leak its cgroup directory.
	status, waitErr := reap(pid)
	if waitErr == nil {
		logf(req, "launch: container pid=%d exited status=%d", pid, status)
	}
	removeErr := h.Remove()

	switch {
	case releaseErr != nil:
		return status, fmt.Errorf("handshake: %w", releaseErr)
	case waitErr != nil:
		return status, fmt.Errorf("wait4(%d): %w", pid, waitErr)
	case removeErr != nil:
		return status, fmt.Errorf("cgroup remove: %w", removeErr)
	}
	return status, nil
}

// abort signals failure to the child, reaps it without inspecting its
// status, and returns err. No cgroup or network teardown is attempted.
func (c *Coordinator) abort(pid int, r, w *os.File, err error) (int, error) {
	release(r, w, false)
	reap(pid)
	return 0, err
}

func (c *Coordinator) cgroupRoot() string {
	if c.CgroupRoot != "" {
		return c.CgroupRoot
	}
	return cgroup.Root
}

// release closes the agent's unused pipe end, writes the handshake byte
// (non-zero means proceed), and closes the write end.
func release(r, w *os.File, success bool) error {
	r.Close()
	b := byte(0)
	if success {
		b = 1
	}
	_, werr := w.Write([]byte{b})
	cerr := w.Close()
	if werr != nil {
		return werr
	}
	return cerr
}

// reap waits for pid to exit, retrying on EINTR, and translates its wait
// status into a shell-style exit code.
func reap(pid int) (int, error) {
	var ws unix.WaitStatus
	for {
		_, err := unix.Wait4(pid, &ws, 0, nil)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return 0, err
		}
		break
	}
	switch {
	case ws.Exited():
		return ws.ExitStatus(), nil
	case ws.Signaled():
		return 128 + int(ws.Signal()), nil
	default:
		return 1, nil
	}
}

// runChild is the Container branch. It only runs inside the freshly
// cloned child, after the handshake read in rawClone has already
// returned, so ordinary Go calls are safe from this point on.
// w's underlying fd was already closed by rawClone's raw-syscall
// prologue, before the handshake read returned; runChild only takes it
// to keep the pipe's lifetime visible at the call site.
func (c *Coordinator) runChild(req *Request, proceed bool, w *os.File) {
	if !proceed {
		c.childFatal(&ChildSetupError{Op: "handshake", Err: fmt.Errorf("agent signalled failure")})
	}

	if req.IP != "" {
		if err := netplumb.PlumbChild(req.IP); err != nil {
			c.childFatal(&ChildSetupError{Op: "network", Err: err})
		}
	}

	if req.Rootfs != "" {
		if err := fsys.Pivot(fsys.NewSyscalls(), req.Rootfs); err != nil {
			c.childFatal(&ChildSetupError{Op: "pivot", Err: err})
		}
	}

	if req.Hostname != "" {
		if err := unix.Sethostname([]byte(req.Hostname)); err != nil {
			c.childFatal(&ChildSetupError{Op: "sethostname", Err: err})
		}
	}
	if req.Domain != "" {
		if err := unix.Setdomainname([]byte(req.Domain)); err != nil {
			c.childFatal(&ChildSetupError{Op: "setdomainname", Err: err})
		}
	}

	argv0 := req.Command[0]
	if err := syscall.Exec(argv0, req.Command, os.Environ()); err != nil {
		c.childFatal(&ExecError{Path: argv0, Err: err})
	}
}

// childFatal logs err through c.Logger (the same stderr logger
// cmd/minicontainer constructed before fork; fork's copy-on-write leaves
// the child with its own equivalent *log.Logger writing to the same fd)
// and terminates the container. Used only for failures observed after
// the handshake read returns, once ordinary Go calls are safe again.
func (c *Coordinator) childFatal(err error) {
	c.Logger.Print(err)
	os.Exit(1)
}

func logf(req *Request, format string, args ...interface{}) {
	if !req.Verbose {
		return
	}
	fmt.Fprintf(os.Stdout, format+"\n", args...)
}
