package execshell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
)

const (
	environmentAssignmentTemplateConstant = "%s=%s"
)

// StandardStreams are the streams handed to child processes. Nil streams are
// detached (the child reads from and writes to the null device).
type StandardStreams struct {
	Input  io.Reader
	Output io.Writer
	Errors io.Writer
}

// OSCommandRunner executes commands using the operating system facilities.
type OSCommandRunner struct {
	streams StandardStreams
}

// NewOSCommandRunner constructs a runner whose children share this process's terminal.
func NewOSCommandRunner() *OSCommandRunner {
	return NewOSCommandRunnerWithStreams(StandardStreams{Input: os.Stdin, Output: os.Stdout, Errors: os.Stderr})
}

// NewOSCommandRunnerWithStreams constructs a runner wired to the supplied streams.
func NewOSCommandRunnerWithStreams(streams StandardStreams) *OSCommandRunner {
	return &OSCommandRunner{streams: streams}
}

// Run starts the command and waits for it to exit. Output is not captured; it flows
// to the configured streams unmodified. A non-zero exit is reported through the
// result rather than as an error.
func (runner *OSCommandRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	commandArguments := append([]string{}, command.Details.Arguments...)
	executable := exec.CommandContext(executionContext, string(command.Name), commandArguments...)

	if len(command.Details.WorkingDirectory) > 0 {
		executable.Dir = command.Details.WorkingDirectory
	}

	if len(command.Details.EnvironmentVariables) > 0 {
		executable.Env = mergeEnvironment(os.Environ(), command.Details.EnvironmentVariables)
	}

	executable.Stdin = runner.streams.Input
	executable.Stdout = runner.streams.Output
	executable.Stderr = runner.streams.Errors

	runError := executable.Run()
	if runError != nil {
		exitError := &exec.ExitError{}
		if errors.As(runError, &exitError) {
			return ExecutionResult{ExitCode: exitError.ExitCode()}, nil
		}
		return ExecutionResult{}, runError
	}

	return ExecutionResult{ExitCode: 0}, nil
}

// mergeEnvironment appends additions after the inherited entries; later entries win.
func mergeEnvironment(inherited []string, additions map[string]string) []string {
	additionKeys := make([]string, 0, len(additions))
	for environmentKey := range additions {
		additionKeys = append(additionKeys, environmentKey)
	}
	sort.Strings(additionKeys)

	mergedEnvironment := append([]string{}, inherited...)
	for _, environmentKey := range additionKeys {
		mergedEnvironment = append(mergedEnvironment, fmt.Sprintf(environmentAssignmentTemplateConstant, environmentKey, additions[environmentKey]))
	}
	return mergedEnvironment
}
