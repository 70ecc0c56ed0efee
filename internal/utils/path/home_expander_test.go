package pathutils_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	pathutils "github.com/zerodaysec/chores/internal/utils/path"
)

const (
	testHomeDirectoryConstant = "/home/maintainer"
	testBaseDirectoryConstant = "/srv/config"
)

func TestHomeExpanderExpand(testInstance *testing.T) {
	expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		return testHomeDirectoryConstant, nil
	})

	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: ""},
		{name: "bare_tilde", input: "~", expected: testHomeDirectoryConstant},
		{name: "tilde_prefix", input: "~/chores/tasks.yaml", expected: filepath.Join(testHomeDirectoryConstant, "chores/tasks.yaml")},
		{name: "other_user", input: "~other/tasks.yaml", expected: "~other/tasks.yaml"},
		{name: "absolute", input: "/etc/chores.yaml", expected: "/etc/chores.yaml"},
		{name: "relative", input: "tasks.yaml", expected: "tasks.yaml"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expected, expander.Expand(testCase.input))
		})
	}
}

func TestHomeExpanderResolve(testInstance *testing.T) {
	expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		return testHomeDirectoryConstant, nil
	})

	testCases := []struct {
		name          string
		baseDirectory string
		input         string
		expected      string
	}{
		{name: "empty_input", baseDirectory: testBaseDirectoryConstant, input: "  ", expected: ""},
		{name: "relative_to_base", baseDirectory: testBaseDirectoryConstant, input: "tasks.yaml", expected: filepath.Join(testBaseDirectoryConstant, "tasks.yaml")},
		{name: "relative_without_base", baseDirectory: "", input: "tasks.yaml", expected: "tasks.yaml"},
		{name: "absolute_ignores_base", baseDirectory: testBaseDirectoryConstant, input: "/opt/tasks.yaml", expected: "/opt/tasks.yaml"},
		{name: "home_ignores_base", baseDirectory: testBaseDirectoryConstant, input: "~/tasks.yaml", expected: filepath.Join(testHomeDirectoryConstant, "tasks.yaml")},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expected, expander.Resolve(testCase.baseDirectory, testCase.input))
		})
	}
}

func TestHomeExpanderProviderFailure(testInstance *testing.T) {
	expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		return "", errors.New("home unavailable")
	})
	require.Equal(testInstance, "~/tasks.yaml", expander.Expand("~/tasks.yaml"))
}
