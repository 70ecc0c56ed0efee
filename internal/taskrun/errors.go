package taskrun

import (
	"errors"
	"fmt"
)

const (
	taskExecutionErrorTemplateConstant   = "task %s failed with exit code %d"
	taskStartErrorTemplateConstant       = "task %s failed with exit code %d: %v"
	exitCodeCommandNotFoundConstant      = 127
	exitCodeCommandNotExecutableConstant = 126
	exitCodeGenericFailureConstant       = 1
	exitCodeSuccessConstant              = 0
)

// TaskExecutionError reports a task whose command did not succeed. Cause is set when
// the command could not be started at all.
type TaskExecutionError struct {
	Task     string
	ExitCode int
	Cause    error
}

// Error describes the failing task.
func (executionError TaskExecutionError) Error() string {
	if executionError.Cause != nil {
		return fmt.Sprintf(taskStartErrorTemplateConstant, executionError.Task, executionError.ExitCode, executionError.Cause)
	}
	return fmt.Sprintf(taskExecutionErrorTemplateConstant, executionError.Task, executionError.ExitCode)
}

// Unwrap exposes the start failure, if any.
func (executionError TaskExecutionError) Unwrap() error {
	return executionError.Cause
}

// ExitCode maps a run error to a process exit code: 0 for nil, the failing task's exit
// code for task failures, and 1 for everything else.
func ExitCode(runError error) int {
	if runError == nil {
		return exitCodeSuccessConstant
	}
	var executionError TaskExecutionError
	if errors.As(runError, &executionError) && executionError.ExitCode > 0 {
		return executionError.ExitCode
	}
	return exitCodeGenericFailureConstant
}
