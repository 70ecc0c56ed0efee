package main

import (
	"fmt"
	"os"

	"github.com/zerodaysec/chores/cmd/cli"
	"github.com/zerodaysec/chores/internal/taskrun"
)

const (
	exitErrorTemplateConstant = "%v\n"
)

// main executes the chores command-line application and exits with the failing task's code.
func main() {
	if executionError := cli.Execute(); executionError != nil {
		fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
		os.Exit(taskrun.ExitCode(executionError))
	}
}
