// Package execshell runs external commands for chores tasks.
//
// Commands are explicit executable and argument lists handed straight to os/exec,
// never interpolated into a shell. ShellExecutor layers validation, lifecycle
// events and typed errors over a CommandRunner so task execution can be tested
// with recording runners.
package execshell
