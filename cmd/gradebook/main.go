// Command gradebook tracks students and their course grades in flat text files.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/gradebook/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err == nil {
		return
	}

	// Command failures were already written through the output formatter.
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(cli.GetExitCode(err))
}
