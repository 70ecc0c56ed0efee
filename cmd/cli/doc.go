// Package cli constructs the chores command-line interface, wiring the Cobra
// command hierarchy, the layered configuration loader, and zap logging. Task
// definitions ship embedded in default_config.yaml and may be replaced by a
// user configuration file or extended with a tasks file.
package cli
