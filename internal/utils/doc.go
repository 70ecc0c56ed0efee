// Package utils exposes reusable helpers consumed by the chores commands.
//
// It houses the Viper-backed ConfigurationLoader, the zap LoggerFactory, the
// command context accessor, and a flushing writer for command output.
package utils
