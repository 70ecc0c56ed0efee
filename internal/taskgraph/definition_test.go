package taskgraph_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zerodaysec/chores/internal/taskgraph"
)

const (
	testTasksFileNameConstant          = "tasks.yaml"
	testTasksFileMappingContent        = "tasks:\n  - name: lint\n    description: Run linters\n    command: [golangci-lint, run]\n    environment:\n      go_flags: -mod=mod\n  - name: get-work\n    depends_on: [lint]\n    command: scripts/custom_report.py\n"
	testTasksFileListContent           = "- name: lint\n  command:\n    - golangci-lint\n    - run\n"
	testTasksFileInvalidCommandContent = "tasks:\n  - name: lint\n    command:\n      nested: value\n"
	testTasksFileUnknownTaskKey        = "tasks:\n  - name: get-work\n    dependson: [get-prs]\n    command: scripts/1_generate_repo_report.py\n"
	testTasksFileListUnknownTaskKey    = "- name: get-work\n  dependson: [get-prs]\n  command: scripts/1_generate_repo_report.py\n"
	testTasksFileUnknownTopLevelKey    = "taskz:\n  - name: lint\n    command: golangci-lint\n"
	testTasksFileScalarContent         = "lint\n"
)

func writeTasksFile(testInstance *testing.T, content string) string {
	testInstance.Helper()
	filePath := filepath.Join(testInstance.TempDir(), testTasksFileNameConstant)
	require.NoError(testInstance, os.WriteFile(filePath, []byte(content), 0o600))
	return filePath
}

func TestDecodeDefinitionsFromViperShapedValues(testInstance *testing.T) {
	rawDefinitions := []any{
		map[string]any{
			"name":    testFetchTaskNameConstant,
			"command": testFetchExecutableConstant,
		},
		map[string]any{
			"name":       testReportTaskNameConstant,
			"depends_on": []any{testFetchTaskNameConstant},
			"command":    []any{testReportExecutableConstant, "zerodaysec", "jon-the-dev"},
			"environment": map[string]any{
				"report_limit": 25,
			},
		},
	}

	definitions, decodeError := taskgraph.DecodeDefinitions(rawDefinitions)
	require.NoError(testInstance, decodeError)
	require.Len(testInstance, definitions, 2)
	require.Equal(testInstance, taskgraph.CommandLine{testFetchExecutableConstant}, definitions[0].Command)
	require.Equal(testInstance, []string{testFetchTaskNameConstant}, definitions[1].DependsOn)
	require.Equal(testInstance, "25", definitions[1].Environment["report_limit"])

	reportTask := definitions[1].ToTask()
	require.Equal(testInstance, testReportExecutableConstant, reportTask.Command.Executable)
	require.Equal(testInstance, []string{"zerodaysec", "jon-the-dev"}, reportTask.Command.Arguments)
	require.Equal(testInstance, map[string]string{"REPORT_LIMIT": "25"}, reportTask.Environment)
}

func TestDecodeDefinitionsRejectsUnknownKeys(testInstance *testing.T) {
	rawDefinitions := []any{
		map[string]any{
			"name":       testFetchTaskNameConstant,
			"command":    testFetchExecutableConstant,
			"depends-on": []any{"other"},
		},
	}

	definitions, decodeError := taskgraph.DecodeDefinitions(rawDefinitions)
	require.Error(testInstance, decodeError)
	require.Nil(testInstance, definitions)
}

func TestDecodeDefinitionsAcceptsNil(testInstance *testing.T) {
	definitions, decodeError := taskgraph.DecodeDefinitions(nil)
	require.NoError(testInstance, decodeError)
	require.Empty(testInstance, definitions)
}

func TestLoadDefinitionsFile(testInstance *testing.T) {
	testCases := []struct {
		name            string
		content         string
		expectError     bool
		expectedNames   []string
		expectedCommand taskgraph.CommandLine
	}{
		{
			name:            "mapping_document",
			content:         testTasksFileMappingContent,
			expectedNames:   []string{"lint", testReportTaskNameConstant},
			expectedCommand: taskgraph.CommandLine{"golangci-lint", "run"},
		},
		{
			name:            "bare_list_document",
			content:         testTasksFileListContent,
			expectedNames:   []string{"lint"},
			expectedCommand: taskgraph.CommandLine{"golangci-lint", "run"},
		},
		{
			name:        "invalid_command_shape",
			content:     testTasksFileInvalidCommandContent,
			expectError: true,
		},
		{
			name:        "unknown_task_key",
			content:     testTasksFileUnknownTaskKey,
			expectError: true,
		},
		{
			name:        "bare_list_unknown_task_key",
			content:     testTasksFileListUnknownTaskKey,
			expectError: true,
		},
		{
			name:        "unknown_top_level_key",
			content:     testTasksFileUnknownTopLevelKey,
			expectError: true,
		},
		{
			name:        "empty_document",
			content:     "",
			expectError: true,
		},
		{
			name:        "scalar_document",
			content:     testTasksFileScalarContent,
			expectError: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			filePath := writeTasksFile(testInstance, testCase.content)

			definitions, loadError := taskgraph.LoadDefinitionsFile(filePath)
			if testCase.expectError {
				require.Error(testInstance, loadError)
				return
			}

			require.NoError(testInstance, loadError)
			names := make([]string, 0, len(definitions))
			for _, definition := range definitions {
				names = append(names, definition.Name)
			}
			require.Equal(testInstance, testCase.expectedNames, names)
			require.Equal(testInstance, testCase.expectedCommand, definitions[0].Command)
		})
	}
}

func TestLoadDefinitionsFileRequiresExistingPath(testInstance *testing.T) {
	_, emptyPathError := taskgraph.LoadDefinitionsFile("  ")
	require.Error(testInstance, emptyPathError)

	_, missingFileError := taskgraph.LoadDefinitionsFile(filepath.Join(testInstance.TempDir(), "missing.yaml"))
	require.Error(testInstance, missingFileError)
}

func TestMergeDefinitionsOverridesByName(testInstance *testing.T) {
	base := []taskgraph.TaskDefinition{
		{Name: testFetchTaskNameConstant, Command: taskgraph.CommandLine{testFetchExecutableConstant}},
		{Name: testReportTaskNameConstant, DependsOn: []string{testFetchTaskNameConstant}, Command: taskgraph.CommandLine{testReportExecutableConstant}},
	}
	overrides := []taskgraph.TaskDefinition{
		{Name: testReportTaskNameConstant, Command: taskgraph.CommandLine{"scripts/custom_report.py"}},
		{Name: "lint", Command: taskgraph.CommandLine{"golangci-lint", "run"}},
	}

	merged := taskgraph.MergeDefinitions(base, overrides)
	require.Len(testInstance, merged, 3)
	require.Equal(testInstance, testFetchTaskNameConstant, merged[0].Name)
	require.Equal(testInstance, taskgraph.CommandLine{"scripts/custom_report.py"}, merged[1].Command)
	require.Empty(testInstance, merged[1].DependsOn)
	require.Equal(testInstance, "lint", merged[2].Name)
	require.Len(testInstance, base, 2)
	require.Equal(testInstance, taskgraph.CommandLine{testReportExecutableConstant}, base[1].Command)
}

func TestBuildGraphFromLoadedFile(testInstance *testing.T) {
	filePath := writeTasksFile(testInstance, testTasksFileMappingContent)
	definitions, loadError := taskgraph.LoadDefinitionsFile(filePath)
	require.NoError(testInstance, loadError)

	graph, graphError := taskgraph.BuildGraph(definitions)
	require.NoError(testInstance, graphError)

	plan, planError := graph.Plan(testReportTaskNameConstant)
	require.NoError(testInstance, planError)
	require.Equal(testInstance, []string{"lint", testReportTaskNameConstant}, planNames(plan))
	require.Equal(testInstance, map[string]string{"GO_FLAGS": "-mod=mod"}, plan[0].Environment)
	require.Equal(testInstance, "Run linters", plan[0].Description)
}

func TestBuildGraphRejectsDefinitionWithoutCommand(testInstance *testing.T) {
	graph, graphError := taskgraph.BuildGraph([]taskgraph.TaskDefinition{{Name: "lint"}})
	require.Nil(testInstance, graph)

	var invalidGraphError taskgraph.InvalidGraphError
	require.ErrorAs(testInstance, graphError, &invalidGraphError)
}
