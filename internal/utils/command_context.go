package utils

import (
	"context"
	"path/filepath"
	"strings"
)

type commandContextKey string

const (
	configurationFilePathContextKeyConstant = commandContextKey("configurationFilePath")
)

// CommandContextAccessor manages values stored in command execution contexts.
type CommandContextAccessor struct{}

// NewCommandContextAccessor constructs a CommandContextAccessor instance.
func NewCommandContextAccessor() CommandContextAccessor {
	return CommandContextAccessor{}
}

// WithConfigurationFilePath records the configuration file that was loaded. Empty paths
// are not recorded.
func (accessor CommandContextAccessor) WithConfigurationFilePath(parentContext context.Context, configurationFilePath string) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	trimmedPath := strings.TrimSpace(configurationFilePath)
	if len(trimmedPath) == 0 {
		return parentContext
	}
	return context.WithValue(parentContext, configurationFilePathContextKeyConstant, trimmedPath)
}

// ConfigurationFilePath extracts the configuration file path from the provided context.
func (accessor CommandContextAccessor) ConfigurationFilePath(executionContext context.Context) (string, bool) {
	if executionContext == nil {
		return "", false
	}
	configurationFilePath, available := executionContext.Value(configurationFilePathContextKeyConstant).(string)
	return configurationFilePath, available
}

// ConfigurationDirectory returns the directory of the recorded configuration file.
// Paths declared in that file are relative to it.
func (accessor CommandContextAccessor) ConfigurationDirectory(executionContext context.Context) string {
	configurationFilePath, available := accessor.ConfigurationFilePath(executionContext)
	if !available {
		return ""
	}
	return filepath.Dir(configurationFilePath)
}
