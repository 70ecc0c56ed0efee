package tasks

import "strings"

const (
	workingDirectoryConfigurationKeyConstant = "working_directory"
	dryRunConfigurationKeyConstant           = "dry_run"
	tasksFileConfigurationKeyConstant        = "tasks_file"
	configurationKeySeparatorConstant        = "."
)

// CommandConfiguration captures the runner settings shared by run and list.
type CommandConfiguration struct {
	WorkingDirectory string `mapstructure:"working_directory"`
	DryRun           bool   `mapstructure:"dry_run"`
	TasksFile        string `mapstructure:"tasks_file"`
}

// DefaultCommandConfiguration runs tasks for real, in the caller's working directory,
// using only the configured task list.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{}
}

// DefaultConfigurationValues returns Viper defaults for the runner section rooted at prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		prefix + configurationKeySeparatorConstant + workingDirectoryConfigurationKeyConstant: defaults.WorkingDirectory,
		prefix + configurationKeySeparatorConstant + dryRunConfigurationKeyConstant:           defaults.DryRun,
		prefix + configurationKeySeparatorConstant + tasksFileConfigurationKeyConstant:        defaults.TasksFile,
	}
}

// Sanitize trims path values.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.WorkingDirectory = strings.TrimSpace(configuration.WorkingDirectory)
	sanitized.TasksFile = strings.TrimSpace(configuration.TasksFile)
	return sanitized
}
