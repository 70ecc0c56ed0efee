// Package taskgraph models chores tasks and their prerequisite relationships.
//
// It validates declarative task definitions into an immutable Graph, rejects
// cycles with a deterministic witness path, and plans the ordered
// prerequisite closure for a requested task.
package taskgraph
