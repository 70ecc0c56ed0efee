package taskgraph

import (
	"fmt"
	"strings"
)

const (
	unknownTaskErrorTemplateConstant  = "unknown task %q"
	cycleErrorTemplateConstant        = "task dependency cycle detected: %s"
	cyclePathSeparatorConstant        = " -> "
	invalidGraphErrorTemplateConstant = "invalid task graph: %s"
)

// UnknownTaskError reports a requested or referenced task name missing from the graph.
type UnknownTaskError struct {
	Name string
}

// Error describes the missing task.
func (unknownTaskError UnknownTaskError) Error() string {
	return fmt.Sprintf(unknownTaskErrorTemplateConstant, unknownTaskError.Name)
}

// CycleError reports a dependency cycle. Path starts and ends with the same task.
type CycleError struct {
	Path []string
}

// Error renders the witness cycle.
func (cycleError CycleError) Error() string {
	return fmt.Sprintf(cycleErrorTemplateConstant, strings.Join(cycleError.Path, cyclePathSeparatorConstant))
}

// InvalidGraphError reports structurally invalid task declarations.
type InvalidGraphError struct {
	Reason string
}

// Error describes the validation failure.
func (invalidGraphError InvalidGraphError) Error() string {
	return fmt.Sprintf(invalidGraphErrorTemplateConstant, invalidGraphError.Reason)
}

func invalidGraph(reasonTemplate string, arguments ...any) error {
	return InvalidGraphError{Reason: fmt.Sprintf(reasonTemplate, arguments...)}
}
