package taskgraph

import (
	"strconv"
	"strings"
)

const (
	commandSpecificationSeparatorConstant = " "
	quotableCharactersConstant            = " \t\n\"'\\$`"
)

// CommandSpecification describes an executable and the literal arguments passed to it.
type CommandSpecification struct {
	Executable string
	Arguments  []string
}

// Task is a named unit of work mapping to one command and zero or more prerequisites.
type Task struct {
	Name             string
	Description      string
	Prerequisites    []string
	Command          CommandSpecification
	WorkingDirectory string
	Environment      map[string]string
}

// String renders the command for display. Arguments containing whitespace or shell
// metacharacters are quoted so the rendering is unambiguous.
func (specification CommandSpecification) String() string {
	renderedParts := make([]string, 0, len(specification.Arguments)+1)
	renderedParts = append(renderedParts, quoteCommandPart(specification.Executable))
	for _, argument := range specification.Arguments {
		renderedParts = append(renderedParts, quoteCommandPart(argument))
	}
	return strings.Join(renderedParts, commandSpecificationSeparatorConstant)
}

func quoteCommandPart(part string) string {
	if len(part) == 0 || strings.ContainsAny(part, quotableCharactersConstant) {
		return strconv.Quote(part)
	}
	return part
}

func (task Task) clone() Task {
	cloned := task
	cloned.Prerequisites = append([]string(nil), task.Prerequisites...)
	cloned.Command.Arguments = append([]string(nil), task.Command.Arguments...)
	if task.Environment != nil {
		cloned.Environment = make(map[string]string, len(task.Environment))
		for environmentKey, environmentValue := range task.Environment {
			cloned.Environment[environmentKey] = environmentValue
		}
	}
	return cloned
}
