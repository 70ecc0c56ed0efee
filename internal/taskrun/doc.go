// Package taskrun executes a requested chores task after its prerequisites.
//
// Executor plans the prerequisite closure through taskgraph, runs each task's
// command sequentially through execshell, tracks task and run states, and stops
// at the first failure, surfacing the failing task and its exit code.
package taskrun
