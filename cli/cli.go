// Package cli parses the command line into a launch.Request. Flag
// parsing, option structs, and usage text are thin collaborators to the
// launch package; nothing here carries launch semantics.
package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/hechaoli/mini-container/launch"
)

// Parse parses args (excluding the program name) into a launch.Request.
// It returns (nil, nil) when -h/-help was requested and usage has
// already been printed, so callers should exit 0 without launching.
func Parse(progName string, args []string, usageOutput io.Writer) (*launch.Request, error) {
	fs := flag.NewFlagSet(progName, flag.ContinueOnError)
	fs.SetOutput(usageOutput)

	var (
		rootfs    = fs.String("rootfs", "", "Root filesystem directory for the container")
		enablePID = fs.Bool("pid", false, "Isolate the PID namespace")
		hostname  = fs.String("hostname", "", "UTS hostname for the container")
		domain    = fs.String("domain", "", "UTS NIS domain name for the container")
		enableIPC = fs.Bool("ipc", false, "Isolate the System V IPC namespace")
		ip        = fs.String("ip", "", "Container IP address on the 10.0.0.0/16 bridge subnet")
		maxRAM    = fs.Int64("max-ram", 0, "Memory cap in bytes; 0 means no cap")
		verbose   = fs.Bool("verbose", false, "Print diagnostic output at each phase boundary")
	)
	fs.Usage = func() {
		fmt.Fprintf(usageOutput, "Usage: %s [options] <command> [args...]\n", progName)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, nil
		}
		return nil, err
	}

	command := fs.Args()
	if len(command) == 1 {
		// A single positional argument is treated as a whitespace
		// tokenized command line, matching the original tool's calling
		// convention.
		if fields := launch.ParseCommand(command[0]); len(fields) > 1 {
			command = fields
		}
	}

	req := &launch.Request{
		Command:     command,
		Rootfs:      *rootfs,
		Hostname:    *hostname,
		Domain:      *domain,
		EnablePID:   *enablePID,
		EnableIPC:   *enableIPC,
		IP:          *ip,
		MaxRAMBytes: *maxRAM,
		Verbose:     *verbose,
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}

// JoinForDisplay renders a command slice the way verbose logging shows
// it to an operator.
func JoinForDisplay(command []string) string {
	return strings.Join(command, " ")
}
