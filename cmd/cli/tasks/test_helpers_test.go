package tasks_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/zerodaysec/chores/internal/execshell"
	"github.com/zerodaysec/chores/internal/taskgraph"
)

const (
	testGetPullRequestsTaskConstant = "get-prs"
	testGetWorkTaskConstant         = "get-work"
	testCleanupTaskConstant         = "cleanup-prs"
	testCostReviewTaskConstant      = "monthly-cost-review"
	testFetchScriptConstant         = "scripts/3_fetch_all_prs.py"
	testReportScriptConstant        = "scripts/1_generate_repo_report.py"
	testMergeScriptConstant         = "scripts/2_merge_safe_prs.py"
	testClaudeExecutableConstant    = "claude"
)

type recordingCommandRunner struct {
	exitCodes        map[execshell.CommandName]int
	recordedCommands []execshell.ShellCommand
}

func (runner *recordingCommandRunner) Run(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	runner.recordedCommands = append(runner.recordedCommands, command)
	return execshell.ExecutionResult{ExitCode: runner.exitCodes[command.Name]}, nil
}

func (runner *recordingCommandRunner) executedNames() []string {
	names := make([]string, 0, len(runner.recordedCommands))
	for _, command := range runner.recordedCommands {
		names = append(names, string(command.Name))
	}
	return names
}

func defaultDefinitions() []taskgraph.TaskDefinition {
	return []taskgraph.TaskDefinition{
		{Name: testGetPullRequestsTaskConstant, Description: "Fetch open pull requests", Command: taskgraph.CommandLine{testFetchScriptConstant}},
		{Name: testGetWorkTaskConstant, DependsOn: []string{testGetPullRequestsTaskConstant}, Command: taskgraph.CommandLine{testReportScriptConstant, "zerodaysec", "jon-the-dev"}},
		{Name: testCleanupTaskConstant, Command: taskgraph.CommandLine{testMergeScriptConstant}},
		{Name: testCostReviewTaskConstant, Command: taskgraph.CommandLine{testClaudeExecutableConstant, "/aws:monthly-cost-review"}},
	}
}

func defaultDefinitionsProvider() ([]taskgraph.TaskDefinition, error) {
	return defaultDefinitions(), nil
}

func executeCommand(testInstance *testing.T, command *cobra.Command, arguments ...string) (string, error) {
	testInstance.Helper()
	var output bytes.Buffer
	command.SetOut(&output)
	command.SetErr(&bytes.Buffer{})
	command.SetArgs(arguments)
	executionError := command.Execute()
	return output.String(), executionError
}

func mustBuild(testInstance *testing.T, build func() (*cobra.Command, error)) *cobra.Command {
	testInstance.Helper()
	command, buildError := build()
	require.NoError(testInstance, buildError)
	return command
}
