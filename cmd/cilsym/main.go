// Command cilsym replays CIL method bodies through the symbolic stack
// machine.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/cilsym/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
