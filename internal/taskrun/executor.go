package taskrun

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"path/filepath"

	"github.com/zerodaysec/chores/internal/execshell"
	"github.com/zerodaysec/chores/internal/taskgraph"
)

const (
	executorGraphMissingMessageConstant    = "task executor requires a task graph"
	executorCommandsMissingMessageConstant = "task executor requires a command executor"
	stateTrackingErrorTemplateConstant     = "task run state tracking failed: %w"
)

var (
	// ErrGraphNotConfigured indicates the executor was built without a task graph.
	ErrGraphNotConfigured = errors.New(executorGraphMissingMessageConstant)
	// ErrCommandExecutorNotConfigured indicates the executor was built without a command executor.
	ErrCommandExecutorNotConfigured = errors.New(executorCommandsMissingMessageConstant)
)

// CommandExecutor runs one shell command to completion.
type CommandExecutor interface {
	Execute(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error)
}

// RuntimeOptions captures user-provided execution modifiers.
type RuntimeOptions struct {
	DryRun bool
	// WorkingDirectory is the base directory for task commands. Empty means the
	// caller's working directory. Relative task directories resolve against it.
	WorkingDirectory string
}

// RunReport summarizes a finished run.
type RunReport struct {
	Task       string
	Order      []string
	TaskStates map[string]TaskState
	State      RunState
	ExitCode   int
}

// Executor runs tasks from a Graph in dependency order.
type Executor struct {
	graph           *taskgraph.Graph
	commandExecutor CommandExecutor
	observer        TaskEventObserver
}

// NewExecutor constructs an Executor. A nil observer discards task events.
func NewExecutor(graph *taskgraph.Graph, commandExecutor CommandExecutor, observer TaskEventObserver) (*Executor, error) {
	if graph == nil {
		return nil, ErrGraphNotConfigured
	}
	if commandExecutor == nil {
		return nil, ErrCommandExecutorNotConfigured
	}
	if observer == nil {
		observer = noopTaskEventObserver{}
	}
	return &Executor{graph: graph, commandExecutor: commandExecutor, observer: observer}, nil
}

// Run executes the named task after its transitive prerequisites, one command at a
// time. The first failing command aborts the run with a TaskExecutionError; no later
// task is started.
func (executor *Executor) Run(executionContext context.Context, taskName string, runtimeOptions RuntimeOptions) (RunReport, error) {
	report := RunReport{Task: taskName, State: RunIdle}

	plan, planError := executor.graph.Plan(taskName)
	if planError != nil {
		report.ExitCode = ExitCode(planError)
		return report, planError
	}

	order := make([]string, 0, len(plan))
	for _, plannedTask := range plan {
		order = append(order, plannedTask.Name)
	}
	report.Order = order

	tracker := newRunTracker(order)
	if transitionError := tracker.transitionRun(RunRunning); transitionError != nil {
		return executor.finishReport(report, tracker), fmt.Errorf(stateTrackingErrorTemplateConstant, transitionError)
	}

	for plannedIndex, plannedTask := range plan {
		executor.observer.TaskPlanned(plannedTask, plannedIndex+1, len(plan))
	}

	if runtimeOptions.DryRun {
		if transitionError := tracker.transitionRun(RunCompleted); transitionError != nil {
			return executor.finishReport(report, tracker), fmt.Errorf(stateTrackingErrorTemplateConstant, transitionError)
		}
		return executor.finishReport(report, tracker), nil
	}

	for _, plannedTask := range plan {
		if taskError := executor.runTask(executionContext, tracker, plannedTask, runtimeOptions); taskError != nil {
			if transitionError := tracker.transitionRun(RunAborted); transitionError != nil {
				taskError = errors.Join(taskError, fmt.Errorf(stateTrackingErrorTemplateConstant, transitionError))
			}
			report = executor.finishReport(report, tracker)
			report.ExitCode = ExitCode(taskError)
			return report, taskError
		}
	}

	if transitionError := tracker.transitionRun(RunCompleted); transitionError != nil {
		return executor.finishReport(report, tracker), fmt.Errorf(stateTrackingErrorTemplateConstant, transitionError)
	}

	return executor.finishReport(report, tracker), nil
}

func (executor *Executor) runTask(executionContext context.Context, tracker *runTracker, task taskgraph.Task, runtimeOptions RuntimeOptions) error {
	if transitionError := tracker.transitionTask(task.Name, TaskRunning); transitionError != nil {
		return fmt.Errorf(stateTrackingErrorTemplateConstant, transitionError)
	}
	executor.observer.TaskStarted(task)

	command := buildShellCommand(task, runtimeOptions.WorkingDirectory)
	_, executionError := executor.commandExecutor.Execute(executionContext, command)
	if executionError != nil {
		taskError := newTaskExecutionError(task.Name, executionError)
		if transitionError := tracker.transitionTask(task.Name, TaskFailed); transitionError != nil {
			return errors.Join(taskError, fmt.Errorf(stateTrackingErrorTemplateConstant, transitionError))
		}
		executor.observer.TaskFailed(task, taskError)
		return taskError
	}

	if transitionError := tracker.transitionTask(task.Name, TaskSucceeded); transitionError != nil {
		return fmt.Errorf(stateTrackingErrorTemplateConstant, transitionError)
	}
	executor.observer.TaskSucceeded(task)
	return nil
}

func (executor *Executor) finishReport(report RunReport, tracker *runTracker) RunReport {
	report.TaskStates = tracker.snapshot()
	report.State = tracker.runState
	return report
}

func buildShellCommand(task taskgraph.Task, baseDirectory string) execshell.ShellCommand {
	return execshell.ShellCommand{
		Name: execshell.CommandName(task.Command.Executable),
		Details: execshell.CommandDetails{
			Arguments:            append([]string(nil), task.Command.Arguments...),
			WorkingDirectory:     resolveWorkingDirectory(baseDirectory, task.WorkingDirectory),
			EnvironmentVariables: task.Environment,
		},
	}
}

func resolveWorkingDirectory(baseDirectory string, taskDirectory string) string {
	switch {
	case len(taskDirectory) == 0:
		return baseDirectory
	case filepath.IsAbs(taskDirectory) || len(baseDirectory) == 0:
		return taskDirectory
	default:
		return filepath.Join(baseDirectory, taskDirectory)
	}
}

func newTaskExecutionError(taskName string, executionError error) TaskExecutionError {
	var commandFailedError execshell.CommandFailedError
	if errors.As(executionError, &commandFailedError) {
		exitCode := commandFailedError.Result.ExitCode
		if exitCode <= 0 {
			exitCode = exitCodeGenericFailureConstant
		}
		return TaskExecutionError{Task: taskName, ExitCode: exitCode}
	}

	var commandExecutionError execshell.CommandExecutionError
	if errors.As(executionError, &commandExecutionError) {
		return TaskExecutionError{Task: taskName, ExitCode: startFailureExitCode(commandExecutionError.Cause), Cause: commandExecutionError}
	}

	return TaskExecutionError{Task: taskName, ExitCode: exitCodeGenericFailureConstant, Cause: executionError}
}

// startFailureExitCode follows the shell convention for commands that never ran.
func startFailureExitCode(cause error) int {
	switch {
	case errors.Is(cause, exec.ErrNotFound), errors.Is(cause, fs.ErrNotExist):
		return exitCodeCommandNotFoundConstant
	case errors.Is(cause, fs.ErrPermission):
		return exitCodeCommandNotExecutableConstant
	default:
		return exitCodeGenericFailureConstant
	}
}
