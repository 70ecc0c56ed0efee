package ui

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/zerodaysec/chores/internal/execshell"
	"github.com/zerodaysec/chores/internal/taskgraph"
	"github.com/zerodaysec/chores/internal/taskrun"
)

const (
	commandStartedMessageTemplateConstant          = "Executing %s"
	commandCompletedMessageTemplateConstant        = "Completed %s"
	commandFailedExitCodeMessageTemplateConstant   = "%s exited with code %d"
	commandExecutionFailureMessageTemplateConstant = "%s could not be started: %s"
	workingDirectorySuffixTemplateConstant         = " (in %s)"
	taskPlannedMessageTemplateConstant             = "Planned task %d/%d: %s"
	taskStartedMessageTemplateConstant             = "Running task %s"
	taskSucceededMessageTemplateConstant           = "Task %s succeeded"
	taskFailedExitCodeMessageTemplateConstant      = "Task %s failed with exit code %d"
	taskFailedMessageTemplateConstant              = "Task %s failed: %s"
	unknownFailureMessageConstant                  = "unknown error"
)

// EventFormatter builds human-readable messages for command and task lifecycle events.
type EventFormatter struct{}

// BuildCommandStartedMessage formats the message describing a command about to run.
func (formatter EventFormatter) BuildCommandStartedMessage(command execshell.ShellCommand) string {
	return fmt.Sprintf(commandStartedMessageTemplateConstant, formatter.formatCommandLabel(command))
}

// BuildCommandCompletedMessage formats the message describing a finished command.
func (formatter EventFormatter) BuildCommandCompletedMessage(command execshell.ShellCommand, result execshell.ExecutionResult) string {
	if result.ExitCode == 0 {
		return fmt.Sprintf(commandCompletedMessageTemplateConstant, formatter.formatCommandLabel(command))
	}
	return fmt.Sprintf(commandFailedExitCodeMessageTemplateConstant, formatter.formatCommandLabel(command), result.ExitCode)
}

// BuildCommandExecutionFailureMessage formats the message describing a command that never started.
func (formatter EventFormatter) BuildCommandExecutionFailureMessage(command execshell.ShellCommand, failure error) string {
	return fmt.Sprintf(commandExecutionFailureMessageTemplateConstant, formatter.formatCommandLabel(command), describeFailure(failure))
}

// BuildTaskPlannedMessage formats one entry of a run plan.
func (formatter EventFormatter) BuildTaskPlannedMessage(task taskgraph.Task, position int, total int) string {
	return fmt.Sprintf(taskPlannedMessageTemplateConstant, position, total, task.Name)
}

// BuildTaskStartedMessage formats the message describing a task about to run.
func (formatter EventFormatter) BuildTaskStartedMessage(task taskgraph.Task) string {
	return fmt.Sprintf(taskStartedMessageTemplateConstant, task.Name)
}

// BuildTaskSucceededMessage formats the message describing a successful task.
func (formatter EventFormatter) BuildTaskSucceededMessage(task taskgraph.Task) string {
	return fmt.Sprintf(taskSucceededMessageTemplateConstant, task.Name)
}

// BuildTaskFailedMessage formats the message describing a failed task, preferring the exit code.
func (formatter EventFormatter) BuildTaskFailedMessage(task taskgraph.Task, failure error) string {
	var executionError taskrun.TaskExecutionError
	if errors.As(failure, &executionError) {
		return fmt.Sprintf(taskFailedExitCodeMessageTemplateConstant, task.Name, executionError.ExitCode)
	}
	return fmt.Sprintf(taskFailedMessageTemplateConstant, task.Name, describeFailure(failure))
}

func (formatter EventFormatter) formatCommandLabel(command execshell.ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return command.Label()
	}
	return command.Label() + fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

// ConsoleEventLogger renders command and task lifecycle events using a zap logger configured
// for human-readable output. Task progress is logged at info level; per-command detail at debug.
type ConsoleEventLogger struct {
	logger    *zap.Logger
	formatter EventFormatter
}

var (
	_ execshell.CommandEventObserver = (*ConsoleEventLogger)(nil)
	_ taskrun.TaskEventObserver      = (*ConsoleEventLogger)(nil)
)

// NewConsoleEventLogger constructs a console event logger backed by the provided zap logger.
func NewConsoleEventLogger(logger *zap.Logger) *ConsoleEventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleEventLogger{logger: logger, formatter: EventFormatter{}}
}

// CommandStarted implements execshell.CommandEventObserver.
func (eventLogger *ConsoleEventLogger) CommandStarted(command execshell.ShellCommand) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Debug(eventLogger.formatter.BuildCommandStartedMessage(command))
}

// CommandCompleted implements execshell.CommandEventObserver.
func (eventLogger *ConsoleEventLogger) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Debug(eventLogger.formatter.BuildCommandCompletedMessage(command, result))
}

// CommandExecutionFailed implements execshell.CommandEventObserver.
func (eventLogger *ConsoleEventLogger) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Error(eventLogger.formatter.BuildCommandExecutionFailureMessage(command, failure))
}

// TaskPlanned implements taskrun.TaskEventObserver.
func (eventLogger *ConsoleEventLogger) TaskPlanned(task taskgraph.Task, position int, total int) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Debug(eventLogger.formatter.BuildTaskPlannedMessage(task, position, total))
}

// TaskStarted implements taskrun.TaskEventObserver.
func (eventLogger *ConsoleEventLogger) TaskStarted(task taskgraph.Task) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Info(eventLogger.formatter.BuildTaskStartedMessage(task))
}

// TaskSucceeded implements taskrun.TaskEventObserver.
func (eventLogger *ConsoleEventLogger) TaskSucceeded(task taskgraph.Task) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Info(eventLogger.formatter.BuildTaskSucceededMessage(task))
}

// TaskFailed implements taskrun.TaskEventObserver.
func (eventLogger *ConsoleEventLogger) TaskFailed(task taskgraph.Task, failure error) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Error(eventLogger.formatter.BuildTaskFailedMessage(task, failure))
}
