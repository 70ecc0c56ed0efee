package ui_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zerodaysec/chores/internal/execshell"
	"github.com/zerodaysec/chores/internal/taskgraph"
	"github.com/zerodaysec/chores/internal/taskrun"
	"github.com/zerodaysec/chores/internal/ui"
)

const (
	testCommandWorkingDirectoryConstant    = "/srv/repos"
	testCommandNameConstant                = "scripts/1_generate_repo_report.py"
	testCommandLabelExpectationConstant    = "scripts/1_generate_repo_report.py zerodaysec jon-the-dev (in /srv/repos)"
	testExecutionFailureReasonConstant     = "permission denied"
	testTaskNameConstant                   = "get-work"
	testStartMessageExpectationConstant    = "Executing " + testCommandLabelExpectationConstant
	testSuccessMessageExpectationConstant  = "Completed " + testCommandLabelExpectationConstant
	testFailureMessageExpectationConstant  = testCommandLabelExpectationConstant + " exited with code 2"
	testExecutionFailureMessageExpectation = testCommandLabelExpectationConstant + " could not be started: " + testExecutionFailureReasonConstant
)

func TestConsoleEventLoggerEmitsMessages(testInstance *testing.T) {
	command := execshell.ShellCommand{
		Name: testCommandNameConstant,
		Details: execshell.CommandDetails{
			Arguments:        []string{"zerodaysec", "jon-the-dev"},
			WorkingDirectory: testCommandWorkingDirectoryConstant,
		},
	}
	task := taskgraph.Task{Name: testTaskNameConstant}

	testCases := []struct {
		name            string
		invoke          func(logger *ui.ConsoleEventLogger)
		expectedLevel   zapcore.Level
		expectedMessage string
	}{
		{
			name: "command_started",
			invoke: func(logger *ui.ConsoleEventLogger) {
				logger.CommandStarted(command)
			},
			expectedLevel:   zapcore.DebugLevel,
			expectedMessage: testStartMessageExpectationConstant,
		},
		{
			name: "command_completed_success",
			invoke: func(logger *ui.ConsoleEventLogger) {
				logger.CommandCompleted(command, execshell.ExecutionResult{ExitCode: 0})
			},
			expectedLevel:   zapcore.DebugLevel,
			expectedMessage: testSuccessMessageExpectationConstant,
		},
		{
			name: "command_completed_failure",
			invoke: func(logger *ui.ConsoleEventLogger) {
				logger.CommandCompleted(command, execshell.ExecutionResult{ExitCode: 2})
			},
			expectedLevel:   zapcore.DebugLevel,
			expectedMessage: testFailureMessageExpectationConstant,
		},
		{
			name: "command_execution_failure",
			invoke: func(logger *ui.ConsoleEventLogger) {
				logger.CommandExecutionFailed(command, errors.New(testExecutionFailureReasonConstant))
			},
			expectedLevel:   zapcore.ErrorLevel,
			expectedMessage: testExecutionFailureMessageExpectation,
		},
		{
			name: "task_planned",
			invoke: func(logger *ui.ConsoleEventLogger) {
				logger.TaskPlanned(task, 2, 2)
			},
			expectedLevel:   zapcore.DebugLevel,
			expectedMessage: "Planned task 2/2: get-work",
		},
		{
			name: "task_started",
			invoke: func(logger *ui.ConsoleEventLogger) {
				logger.TaskStarted(task)
			},
			expectedLevel:   zapcore.InfoLevel,
			expectedMessage: "Running task get-work",
		},
		{
			name: "task_succeeded",
			invoke: func(logger *ui.ConsoleEventLogger) {
				logger.TaskSucceeded(task)
			},
			expectedLevel:   zapcore.InfoLevel,
			expectedMessage: "Task get-work succeeded",
		},
		{
			name: "task_failed_exit_code",
			invoke: func(logger *ui.ConsoleEventLogger) {
				logger.TaskFailed(task, taskrun.TaskExecutionError{Task: testTaskNameConstant, ExitCode: 2})
			},
			expectedLevel:   zapcore.ErrorLevel,
			expectedMessage: "Task get-work failed with exit code 2",
		},
		{
			name: "task_failed_other_error",
			invoke: func(logger *ui.ConsoleEventLogger) {
				logger.TaskFailed(task, errors.New("state tracking failed"))
			},
			expectedLevel:   zapcore.ErrorLevel,
			expectedMessage: "Task get-work failed: state tracking failed",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			observerCore, observedLogs := observer.New(zapcore.DebugLevel)
			eventLogger := ui.NewConsoleEventLogger(zap.New(observerCore))

			testCase.invoke(eventLogger)

			entries := observedLogs.All()
			require.Len(testInstance, entries, 1)
			require.Equal(testInstance, testCase.expectedLevel, entries[0].Level)
			require.Equal(testInstance, testCase.expectedMessage, entries[0].Message)
		})
	}
}

func TestConsoleEventLoggerNilReceiver(testInstance *testing.T) {
	var eventLogger *ui.ConsoleEventLogger
	require.NotPanics(testInstance, func() {
		eventLogger.TaskStarted(taskgraph.Task{Name: testTaskNameConstant})
		eventLogger.CommandStarted(execshell.ShellCommand{Name: testCommandNameConstant})
	})
}
