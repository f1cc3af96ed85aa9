package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/toolmesh/dagcore/internal/checkpoint"
	"github.com/toolmesh/dagcore/internal/cli"
)

func main() {
	root := cli.NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
	os.Exit(cli.ExitSuccess)
}

func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, checkpoint.ErrDagMismatch), errors.Is(err, checkpoint.ErrCheckpointNotFound):
		return cli.ExitInvalidInvocation
	case errors.Is(err, checkpoint.ErrCheckpointStoreUnavailable):
		return cli.ExitInternalError
	default:
		return cli.ExitWorkflowFailure
	}
}
