package tasks

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zerodaysec/chores/internal/execshell"
	"github.com/zerodaysec/chores/internal/taskgraph"
	"github.com/zerodaysec/chores/internal/taskrun"
	"github.com/zerodaysec/chores/internal/ui"
	"github.com/zerodaysec/chores/internal/utils"
	pathutils "github.com/zerodaysec/chores/internal/utils/path"
)

const (
	tasksFileFlagNameConstant              = "tasks-file"
	tasksFileFlagDescriptionConstant       = "YAML file with additional or replacement task definitions"
	definitionsUnavailableMessageConstant  = "task definitions are not configured"
	loadTasksFileErrorTemplateConstant     = "unable to load tasks file %s: %w"
	taskConfigurationErrorTemplateConstant = "invalid task configuration: %w"
	tasksFileLoadedMessageConstant         = "tasks file merged"
	logFieldTasksFileConstant              = "tasks_file"
	logFieldDefinitionCountConstant        = "definition_count"
)

// ErrTaskDefinitionsUnavailable indicates a command was built without a definitions provider.
var ErrTaskDefinitionsUnavailable = errors.New(definitionsUnavailableMessageConstant)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// DefinitionsProvider yields the configured task definitions.
type DefinitionsProvider func() ([]taskgraph.TaskDefinition, error)

// pathSource pairs a flag override with the configured value so that each resolves
// against its own base directory.
type pathSource struct {
	flagValue       string
	flagChanged     bool
	configuredValue string
}

func resolveLogger(provider LoggerProvider) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}
	logger := provider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// resolvePath anchors flag values at the process working directory and configured
// values at the directory of the configuration file that declared them.
func resolvePath(command *cobra.Command, source pathSource) string {
	expander := pathutils.NewHomeExpander()
	if source.flagChanged {
		return expander.Resolve("", source.flagValue)
	}
	configurationDirectory := ""
	if command != nil {
		configurationDirectory = utils.NewCommandContextAccessor().ConfigurationDirectory(command.Context())
	}
	return expander.Resolve(configurationDirectory, source.configuredValue)
}

// resolveTasksFilePath prefers the --tasks-file flag over the configured tasks file.
func resolveTasksFilePath(command *cobra.Command, commandConfiguration CommandConfiguration) string {
	tasksFileFlagValue, tasksFileFlagChanged := readStringFlag(command, tasksFileFlagNameConstant)
	return resolvePath(command, pathSource{
		flagValue:       tasksFileFlagValue,
		flagChanged:     tasksFileFlagChanged,
		configuredValue: commandConfiguration.TasksFile,
	})
}

func loadTaskGraph(logger *zap.Logger, provider DefinitionsProvider, tasksFilePath string) (*taskgraph.Graph, error) {
	if provider == nil {
		return nil, ErrTaskDefinitionsUnavailable
	}

	definitions, definitionsError := provider()
	if definitionsError != nil {
		return nil, fmt.Errorf(taskConfigurationErrorTemplateConstant, definitionsError)
	}

	if len(tasksFilePath) > 0 {
		fileDefinitions, loadError := taskgraph.LoadDefinitionsFile(tasksFilePath)
		if loadError != nil {
			return nil, fmt.Errorf(loadTasksFileErrorTemplateConstant, tasksFilePath, loadError)
		}
		definitions = taskgraph.MergeDefinitions(definitions, fileDefinitions)
		logger.Debug(tasksFileLoadedMessageConstant,
			zap.String(logFieldTasksFileConstant, tasksFilePath),
			zap.Int(logFieldDefinitionCountConstant, len(fileDefinitions)),
		)
	}

	graph, graphError := taskgraph.BuildGraph(definitions)
	if graphError != nil {
		return nil, fmt.Errorf(taskConfigurationErrorTemplateConstant, graphError)
	}
	return graph, nil
}

// resolveObservers picks console rendering for the console log format and structured
// zap entries otherwise.
func resolveObservers(humanReadable bool, logger *zap.Logger, consoleLogger *zap.Logger) (execshell.CommandEventObserver, taskrun.TaskEventObserver) {
	if humanReadable {
		consoleEventLogger := ui.NewConsoleEventLogger(consoleLogger)
		return consoleEventLogger, consoleEventLogger
	}
	return execshell.NewStructuredCommandEventLogger(logger), taskrun.NewStructuredTaskEventLogger(logger)
}

func readBoolFlag(command *cobra.Command, flagName string, configured bool) bool {
	if command == nil || !command.Flags().Changed(flagName) {
		return configured
	}
	flagValue, flagError := command.Flags().GetBool(flagName)
	if flagError != nil {
		return configured
	}
	return flagValue
}

func readStringFlag(command *cobra.Command, flagName string) (string, bool) {
	if command == nil || !command.Flags().Changed(flagName) {
		return "", false
	}
	flagValue, flagError := command.Flags().GetString(flagName)
	if flagError != nil {
		return "", false
	}
	return flagValue, true
}
