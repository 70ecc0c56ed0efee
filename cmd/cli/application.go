package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	taskscmd "github.com/zerodaysec/chores/cmd/cli/tasks"
	"github.com/zerodaysec/chores/internal/execshell"
	"github.com/zerodaysec/chores/internal/taskgraph"
	"github.com/zerodaysec/chores/internal/utils"
	flagutils "github.com/zerodaysec/chores/internal/utils/flags"
)

const (
	applicationNameConstant                         = "chores"
	applicationShortDescriptionConstant             = "Run repository housekeeping tasks"
	applicationLongDescriptionConstant              = "chores runs named housekeeping tasks such as fetching pull requests or generating reports. Each task runs one external command after its prerequisite tasks."
	configFileFlagNameConstant                      = "config"
	configFileFlagUsageConstant                     = "Optional path to a configuration file (YAML)."
	logLevelFlagNameConstant                        = "log-level"
	logLevelFlagUsageConstant                       = "Override the configured log level."
	logFormatFlagNameConstant                       = "log-format"
	logFormatFlagUsageConstant                      = "Override the configured log format."
	commonConfigurationKeyConstant                  = "common"
	commonLogLevelConfigKeyConstant                 = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant                = commonConfigurationKeyConstant + ".log_format"
	runnerConfigurationKeyConstant                  = "runner"
	environmentPrefixConstant                       = "CHORES"
	configurationNameConstant                       = "config"
	configurationTypeConstant                       = "yaml"
	configurationSearchPathEnvironmentVariableConst = "CHORES_CONFIG_SEARCH_PATH"
	configurationInitializedMessageConstant         = "configuration initialized"
	configurationLogLevelFieldConstant              = "log_level"
	configurationLogFormatFieldConstant             = "log_format"
	configurationFileFieldConstant                  = "config_file"
	configurationLoadErrorTemplateConstant          = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant             = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant                 = "unable to flush logger: %w"
	rootCommandDebugMessageConstant                 = "chores CLI diagnostics"
	logFieldCommandNameConstant                     = "command_name"
	logFieldArgumentsConstant                       = "arguments"
	defaultConfigurationSearchPathConstant          = "."
	versionTemplateConstant                         = "{{.Name}} {{.Version}}\n"
)

// Version is the release identifier reported by --version. Release builds set it
// with -ldflags "-X github.com/zerodaysec/chores/cmd/cli.Version=...".
var Version = "dev"

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common ApplicationCommonConfiguration `mapstructure:"common"`
	Runner taskscmd.CommandConfiguration  `mapstructure:"runner"`
	// Tasks holds the raw task list; it is decoded into definitions on demand.
	Tasks any `mapstructure:"tasks"`
}

// ApplicationCommonConfiguration stores logging configuration shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand              *cobra.Command
	configurationLoader      *utils.ConfigurationLoader
	loggerFactory            *utils.LoggerFactory
	logger                   *zap.Logger
	consoleLogger            *zap.Logger
	configuration            ApplicationConfiguration
	configurationMetadata    utils.LoadedConfiguration
	configurationInitialized bool
	configurationFilePath    string
	logLevelFlagValue        string
	logFormatFlagValue       string
	commandContextAccessor   utils.CommandContextAccessor
}

// NewApplication assembles a fully wired CLI application instance running task
// commands on this process's terminal.
func NewApplication() *Application {
	return newApplication(nil)
}

// newApplication assembles the application around commandRunner; nil selects the OS runner.
func newApplication(commandRunner execshell.CommandRunner) *Application {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		resolveConfigurationSearchPaths(),
	)
	embeddedConfiguration, embeddedConfigurationType := EmbeddedDefaultConfiguration()
	configurationLoader.SetEmbeddedConfiguration(embeddedConfiguration, embeddedConfigurationType)

	application := &Application{
		configurationLoader:    configurationLoader,
		loggerFactory:          utils.NewLoggerFactory(),
		logger:                 zap.NewNop(),
		consoleLogger:          zap.NewNop(),
		commandContextAccessor: utils.NewCommandContextAccessor(),
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runRootCommand(command, arguments)
		},
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.SetVersionTemplate(versionTemplateConstant)
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().Var(
		flagutils.NewChoiceValue(&application.logLevelFlagValue, utils.SupportedLogLevels()),
		logLevelFlagNameConstant,
		flagutils.FormatChoiceUsage(string(utils.LogLevelInfo), utils.SupportedLogLevels(), logLevelFlagUsageConstant),
	)
	cobraCommand.PersistentFlags().Var(
		flagutils.NewChoiceValue(&application.logFormatFlagValue, utils.SupportedLogFormats()),
		logFormatFlagNameConstant,
		flagutils.FormatChoiceUsage(string(utils.LogFormatConsole), utils.SupportedLogFormats(), logFormatFlagUsageConstant),
	)

	runBuilder := taskscmd.RunCommandBuilder{
		LoggerProvider: func() *zap.Logger {
			return application.logger
		},
		ConsoleLoggerProvider: func() *zap.Logger {
			return application.consoleLogger
		},
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		ConfigurationProvider:        application.runnerConfiguration,
		DefinitionsProvider:          application.taskDefinitions,
		CommandRunner:                commandRunner,
	}
	runCommand, runBuildError := runBuilder.Build()
	if runBuildError == nil {
		cobraCommand.AddCommand(runCommand)
	}

	listBuilder := taskscmd.ListCommandBuilder{
		LoggerProvider: func() *zap.Logger {
			return application.logger
		},
		ConfigurationProvider: application.runnerConfiguration,
		DefinitionsProvider:   application.taskDefinitions,
	}
	listCommand, listBuildError := listBuilder.Build()
	if listBuildError == nil {
		cobraCommand.AddCommand(listCommand)
	}

	application.rootCommand = cobraCommand

	return application
}

// Execute runs the configured Cobra command hierarchy and ensures logger flushing.
// The returned error keeps any task failure inspectable with taskrun.ExitCode.
func (application *Application) Execute() error {
	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil {
		return errors.Join(executionError, fmt.Errorf(loggerSyncErrorTemplateConstant, syncError))
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute() error {
	return NewApplication().Execute()
}

func resolveConfigurationSearchPaths() []string {
	overrideValue := strings.TrimSpace(os.Getenv(configurationSearchPathEnvironmentVariableConst))
	if len(overrideValue) == 0 {
		return utils.DefaultConfigurationSearchPaths(applicationNameConstant)
	}

	overridePaths := strings.FieldsFunc(overrideValue, func(candidate rune) bool {
		return candidate == os.PathListSeparator
	})

	cleanedPaths := make([]string, 0, len(overridePaths))
	for _, pathCandidate := range overridePaths {
		trimmedCandidate := strings.TrimSpace(pathCandidate)
		if len(trimmedCandidate) == 0 {
			continue
		}
		cleanedPaths = append(cleanedPaths, trimmedCandidate)
	}

	if len(cleanedPaths) == 0 {
		return []string{defaultConfigurationSearchPathConstant}
	}

	return cleanedPaths
}

func (application *Application) loadConfiguration() error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:  string(utils.LogLevelInfo),
		commonLogFormatConfigKeyConstant: string(utils.LogFormatConsole),
	}
	for configurationKey, configurationValue := range taskscmd.DefaultConfigurationValues(runnerConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}

	application.configuration = ApplicationConfiguration{}
	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration
	application.configurationInitialized = true
	return nil
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	if loadError := application.loadConfiguration(); loadError != nil {
		return loadError
	}

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}

	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	loggerOutputs, loggerCreationError := application.loggerFactory.CreateLoggerOutputs(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = loggerOutputs.DiagnosticLogger
	application.consoleLogger = loggerOutputs.ConsoleLogger

	application.logger.Debug(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)

	if command != nil {
		updatedContext := application.commandContextAccessor.WithConfigurationFilePath(
			command.Context(),
			application.configurationMetadata.ConfigFileUsed,
		)
		command.SetContext(updatedContext)
		if rootCommand := command.Root(); rootCommand != nil {
			rootCommand.SetContext(updatedContext)
		}
	}

	return nil
}

// runnerConfiguration loads configuration on first use for the same reason as taskDefinitions.
func (application *Application) runnerConfiguration() taskscmd.CommandConfiguration {
	if !application.configurationInitialized {
		if loadError := application.loadConfiguration(); loadError != nil {
			return taskscmd.DefaultCommandConfiguration()
		}
	}
	return application.configuration.Runner
}

// taskDefinitions decodes the configured task list. Shell completion bypasses the
// pre-run hook, so configuration is loaded here when it has not been yet.
func (application *Application) taskDefinitions() ([]taskgraph.TaskDefinition, error) {
	if !application.configurationInitialized {
		if loadError := application.loadConfiguration(); loadError != nil {
			return nil, loadError
		}
	}
	return taskgraph.DecodeDefinitions(application.configuration.Tasks)
}

func (application *Application) humanReadableLoggingEnabled() bool {
	logFormatValue := strings.TrimSpace(application.configuration.Common.LogFormat)
	return strings.EqualFold(logFormatValue, string(utils.LogFormatConsole))
}

func (application *Application) runRootCommand(command *cobra.Command, arguments []string) error {
	application.logger.Debug(
		rootCommandDebugMessageConstant,
		zap.String(logFieldCommandNameConstant, command.Name()),
		zap.Strings(logFieldArgumentsConstant, arguments),
	)
	return command.Help()
}

func (application *Application) flushLogger() error {
	for _, logger := range []*zap.Logger{application.logger, application.consoleLogger} {
		if syncError := syncLoggerInstance(logger); syncError != nil {
			return syncError
		}
	}
	return nil
}

func syncLoggerInstance(logger *zap.Logger) error {
	if logger == nil {
		return nil
	}

	syncError := logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	case errors.Is(syncError, syscall.ENOTTY):
		return nil
	case errors.Is(syncError, syscall.EBADF):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	rootCommand := command.Root()
	if rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet == nil {
			continue
		}

		if flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}
