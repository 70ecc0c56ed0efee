package execshell

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	loggerNotConfiguredMessageConstant           = "shell executor logger not configured"
	commandRunnerNotConfiguredMessageConstant    = "shell executor command runner not configured"
	commandNameMissingMessageConstant            = "shell command name not provided"
	commandFailureErrorMessageTemplateConstant   = "%s exited with code %d"
	commandExecutionErrorMessageTemplateConstant = "%s could not be started: %v"
	commandArgumentsSeparatorConstant            = " "
)

// CommandName identifies the executable to run. It may be a bare name resolved via
// PATH or a path relative to the working directory.
type CommandName string

// CommandDetails describes command invocation properties.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
}

// ShellCommand represents a fully qualified command invocation.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult captures the observable result of a finished command.
type ExecutionResult struct {
	ExitCode int
}

// CommandRunner executes shell commands.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

var (
	// ErrLoggerNotConfigured indicates the logger dependency was missing.
	ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)
	// ErrCommandRunnerNotConfigured indicates the command runner dependency was missing.
	ErrCommandRunnerNotConfigured = errors.New(commandRunnerNotConfiguredMessageConstant)
	// ErrCommandNameMissing indicates the command name was not provided.
	ErrCommandNameMissing = errors.New(commandNameMissingMessageConstant)
)

// CommandFailedError reports a command that exited with a non-zero code.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error describes the failure in a readable format.
func (commandError CommandFailedError) Error() string {
	return fmt.Sprintf(commandFailureErrorMessageTemplateConstant, commandError.Command.Label(), commandError.Result.ExitCode)
}

// CommandExecutionError wraps failures to start or wait for a command.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the underlying runner failure.
func (executionError CommandExecutionError) Error() string {
	return fmt.Sprintf(commandExecutionErrorMessageTemplateConstant, executionError.Command.Label(), executionError.Cause)
}

// Unwrap exposes the underlying error.
func (executionError CommandExecutionError) Unwrap() error {
	return executionError.Cause
}

// Label renders the command and its arguments on one line.
func (command ShellCommand) Label() string {
	commandParts := append([]string{string(command.Name)}, command.Details.Arguments...)
	return strings.Join(commandParts, commandArgumentsSeparatorConstant)
}

// ShellExecutor runs shell commands and reports lifecycle events.
type ShellExecutor struct {
	commandRunner CommandRunner
	observer      CommandEventObserver
}

// NewShellExecutor builds an executor that reports events as structured log entries.
func NewShellExecutor(logger *zap.Logger, commandRunner CommandRunner) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	return NewObservedShellExecutor(NewStructuredCommandEventLogger(logger), commandRunner)
}

// NewObservedShellExecutor builds an executor that reports events to the provided observer.
// A nil observer discards events.
func NewObservedShellExecutor(observer CommandEventObserver, commandRunner CommandRunner) (*ShellExecutor, error) {
	if commandRunner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}
	if observer == nil {
		observer = noopCommandEventObserver{}
	}
	return &ShellExecutor{commandRunner: commandRunner, observer: observer}, nil
}

// Execute runs the command, blocking until it exits.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	if len(strings.TrimSpace(string(command.Name))) == 0 {
		return ExecutionResult{}, ErrCommandNameMissing
	}

	executor.observer.CommandStarted(command)

	executionResult, runnerError := executor.commandRunner.Run(executionContext, command)
	if runnerError != nil {
		executor.observer.CommandExecutionFailed(command, runnerError)
		return ExecutionResult{}, CommandExecutionError{Command: command, Cause: runnerError}
	}

	executor.observer.CommandCompleted(command, executionResult)

	if executionResult.ExitCode != 0 {
		return executionResult, CommandFailedError{Command: command, Result: executionResult}
	}

	return executionResult, nil
}
