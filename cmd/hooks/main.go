// Command hooks invokes the hook functions, prints their call graph and runs
// trace scenarios.
package main

import (
	"fmt"
	"os"

	"github.com/ljb782039954/project-sync-script/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
