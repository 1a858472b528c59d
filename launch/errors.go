package launch

import (
	"errors"
	"fmt"
)

var (
	errEmptyCommand = errors.New("command must not be empty")
	errNegativeRAM  = errors.New("max-ram must not be negative")
)

// PreconditionError reports an invalid or missing request field, detected
// before the child is created.
type PreconditionError struct {
	Op  string
	Err error
}

func (e *PreconditionError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *PreconditionError) Unwrap() error { return e.Err }

// NamespaceCreateError reports a failure of the combined fork+unshare
// clone(2) call. No side effects exist yet when this occurs.
type NamespaceCreateError struct {
	Err error
}

func (e *NamespaceCreateError) Error() string { return fmt.Sprintf("clone: %v", e.Err) }
func (e *NamespaceCreateError) Unwrap() error { return e.Err }

// AgentPlumbingError reports a host-side cgroup or network setup failure
// after the child was created. The agent signals failure over the
// handshake pipe and exits without attempting network teardown.
type AgentPlumbingError struct {
	Op  string
	Err error
}

func (e *AgentPlumbingError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *AgentPlumbingError) Unwrap() error { return e.Err }

// ChildSetupError reports a network, filesystem, or identity setup
// failure inside the container, after the handshake released it.
type ChildSetupError struct {
	Op  string
	Err error
}

func (e *ChildSetupError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *ChildSetupError) Unwrap() error { return e.Err }

// ExecError reports a failure of the final execve that replaces the
// container's process image with the user command.
type ExecError struct {
	Path string
	Err  error
}

func (e *ExecError) Error() string { return fmt.Sprintf("execve(%s): %v", e.Path, e.Err) }
func (e *ExecError) Unwrap() error { return e.Err }
