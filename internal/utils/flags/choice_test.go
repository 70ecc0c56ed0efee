package flags

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func TestFormatChoiceUsage(t *testing.T) {
	testCases := []struct {
		name           string
		defaultChoice  string
		choices        []string
		description    string
		expectedOutput string
	}{
		{
			name:           "DefaultFirstChoice",
			defaultChoice:  "console",
			choices:        []string{"console", "structured"},
			description:    "Log format.",
			expectedOutput: "`<CONSOLE|structured>` Log format.",
		},
		{
			name:           "DefaultSecondChoice",
			defaultChoice:  "info",
			choices:        []string{"debug", "info", "warn", "error"},
			description:    "Log level.",
			expectedOutput: "`<debug|INFO|warn|error>` Log level.",
		},
		{
			name:           "EmptyDescription",
			defaultChoice:  "console",
			choices:        []string{"console", "structured"},
			expectedOutput: "`<CONSOLE|structured>`",
		},
		{
			name:           "DuplicateChoicesIgnored",
			defaultChoice:  "warn",
			choices:        []string{"warn", "WARN", "error"},
			description:    "Threshold.",
			expectedOutput: "`<WARN|error>` Threshold.",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			actual := FormatChoiceUsage(testCase.defaultChoice, testCase.choices, testCase.description)
			require.Equal(t, testCase.expectedOutput, actual)
		})
	}
}

func TestChoiceValueParsing(t *testing.T) {
	testCases := []struct {
		name          string
		arguments     []string
		expectedValue string
		expectError   bool
	}{
		{name: "NotProvided", arguments: nil, expectedValue: "info"},
		{name: "CanonicalSpelling", arguments: []string{"--log-level=DEBUG"}, expectedValue: "debug"},
		{name: "SeparateArgument", arguments: []string{"--log-level", "warn"}, expectedValue: "warn"},
		{name: "UnknownValue", arguments: []string{"--log-level=trace"}, expectError: true},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			selected := "info"
			flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
			flagSet.Var(NewChoiceValue(&selected, []string{"debug", "info", "warn", "error"}), "log-level", "")

			parseError := flagSet.Parse(testCase.arguments)
			if testCase.expectError {
				require.Error(t, parseError)
				return
			}
			require.NoError(t, parseError)
			require.Equal(t, testCase.expectedValue, selected)
		})
	}
}
