package main

import (
	"fmt"
	"log"
	"os"

	"github.com/hechaoli/mini-container/cli"
	"github.com/hechaoli/mini-container/launch"
)

// logger is constructed once and carries every fatal "{operation}:
// {errno-or-reason}" line to stderr; the Coordinator gets the same
// instance so child-side fatal lines go through it too. Informational
// phase-boundary lines go straight to stdout instead, gated on -verbose.
var logger = log.New(os.Stderr, "", 0)

func main() {
	os.Exit(run())
}

func run() int {
	req, err := cli.Parse(os.Args[0], os.Args[1:], os.Stderr)
	if err != nil {
		logger.Printf("%s: %v", os.Args[0], err)
		return 2
	}
	if req == nil {
		// -h/-help already printed usage.
		return 0
	}

	if req.Verbose {
		fmt.Printf("launch: command=%q\n", cli.JoinForDisplay(req.Command))
	}

	c := launch.NewCoordinator()
	c.Logger = logger
	status, err := c.Run(req)
	if err != nil {
		logger.Printf("%s: %v", os.Args[0], err)
		return 1
	}
	return status
}
