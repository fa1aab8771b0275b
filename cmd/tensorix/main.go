// Tensorix reads index notation for tensors and runs scenario suites
// against it.
//
// Usage:
//
//	# Show what a notation does to a tensor of type (2, 1)
//	tensorix explain "(ij)_k" --type 2,1
//
//	# Contract two operands
//	tensorix explain "i_j" --type 1,1 --with "j_k" --with-type 1,1
//
//	# Run scenario suites
//	tensorix check suites/
//
//	# Re-run suites whenever they change, serving metrics
//	tensorix watch suites/ --metrics
//
//	# Inspect and prune the result journal
//	tensorix journal list --status fail
//	tensorix journal prune
package main

import (
	"errors"
	"fmt"
	"os"

	"mercator-hq/tensorix/pkg/cli"
)

func main() {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, cli.ErrChecksFailed) {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(cli.ExitCode(err))
}
