package taskgraph

import (
	"sort"
	"strings"
)

const (
	emptyGraphReasonConstant            = "no tasks declared"
	missingTaskNameReasonConstant       = "task name is required"
	duplicateTaskNameReasonTemplate     = "duplicate task name %q"
	missingExecutableReasonTemplate     = "task %q has no command"
	unknownPrerequisiteReasonTemplate   = "task %q depends on unknown task %q"
	emptyPrerequisiteNameReasonTemplate = "task %q declares an empty prerequisite name"
	visitStateUnvisited                 = 0
	visitStateInProgress                = 1
	visitStateDone                      = 2
)

// Graph is an immutable, validated set of tasks. It is safe for concurrent reads.
type Graph struct {
	tasksByName map[string]Task
	names       []string
}

// NewGraph validates the supplied tasks and builds a Graph.
//
// Validation rejects an empty task list, empty or duplicate names, tasks without an
// executable, and prerequisites naming unknown tasks. Any cycle, including a task
// listing itself as a prerequisite, yields a CycleError.
func NewGraph(tasks []Task) (*Graph, error) {
	if len(tasks) == 0 {
		return nil, invalidGraph(emptyGraphReasonConstant)
	}

	tasksByName := make(map[string]Task, len(tasks))
	names := make([]string, 0, len(tasks))

	for taskIndex := range tasks {
		task := tasks[taskIndex].clone()
		task.Name = strings.TrimSpace(task.Name)
		if len(task.Name) == 0 {
			return nil, invalidGraph(missingTaskNameReasonConstant)
		}
		if _, exists := tasksByName[task.Name]; exists {
			return nil, invalidGraph(duplicateTaskNameReasonTemplate, task.Name)
		}

		task.Command.Executable = strings.TrimSpace(task.Command.Executable)
		if len(task.Command.Executable) == 0 {
			return nil, invalidGraph(missingExecutableReasonTemplate, task.Name)
		}

		sanitizedPrerequisites, prerequisiteError := sanitizePrerequisites(task.Name, task.Prerequisites)
		if prerequisiteError != nil {
			return nil, prerequisiteError
		}
		task.Prerequisites = sanitizedPrerequisites

		tasksByName[task.Name] = task
		names = append(names, task.Name)
	}

	sort.Strings(names)

	for _, taskName := range names {
		for _, prerequisiteName := range tasksByName[taskName].Prerequisites {
			if _, exists := tasksByName[prerequisiteName]; !exists {
				return nil, invalidGraph(unknownPrerequisiteReasonTemplate, taskName, prerequisiteName)
			}
		}
	}

	graph := &Graph{tasksByName: tasksByName, names: names}
	if cyclePath := graph.findCycle(); len(cyclePath) > 0 {
		return nil, CycleError{Path: cyclePath}
	}

	return graph, nil
}

func sanitizePrerequisites(taskName string, prerequisites []string) ([]string, error) {
	if len(prerequisites) == 0 {
		return nil, nil
	}

	sanitized := make([]string, 0, len(prerequisites))
	seen := make(map[string]struct{}, len(prerequisites))
	for _, rawPrerequisite := range prerequisites {
		prerequisiteName := strings.TrimSpace(rawPrerequisite)
		if len(prerequisiteName) == 0 {
			return nil, invalidGraph(emptyPrerequisiteNameReasonTemplate, taskName)
		}
		if prerequisiteName == taskName {
			return nil, CycleError{Path: []string{taskName, taskName}}
		}
		if _, duplicate := seen[prerequisiteName]; duplicate {
			continue
		}
		seen[prerequisiteName] = struct{}{}
		sanitized = append(sanitized, prerequisiteName)
	}
	return sanitized, nil
}

// Task returns a copy of the named task.
func (graph *Graph) Task(name string) (Task, bool) {
	task, exists := graph.tasksByName[name]
	if !exists {
		return Task{}, false
	}
	return task.clone(), true
}

// Names returns the task names in lexical order.
func (graph *Graph) Names() []string {
	return append([]string(nil), graph.names...)
}

// Tasks returns copies of every task ordered by name.
func (graph *Graph) Tasks() []Task {
	tasks := make([]Task, 0, len(graph.names))
	for _, taskName := range graph.names {
		tasks = append(tasks, graph.tasksByName[taskName].clone())
	}
	return tasks
}

// Plan returns the requested task preceded by its transitive prerequisites.
//
// Prerequisites appear before their dependents, in declaration order, and each task
// appears once even when reachable through several paths.
func (graph *Graph) Plan(name string) ([]Task, error) {
	trimmedName := strings.TrimSpace(name)
	if _, exists := graph.tasksByName[trimmedName]; !exists {
		return nil, UnknownTaskError{Name: name}
	}

	visited := make(map[string]struct{}, len(graph.names))
	plan := make([]Task, 0, len(graph.names))

	var visit func(taskName string)
	visit = func(taskName string) {
		if _, alreadyVisited := visited[taskName]; alreadyVisited {
			return
		}
		visited[taskName] = struct{}{}
		task := graph.tasksByName[taskName]
		for _, prerequisiteName := range task.Prerequisites {
			visit(prerequisiteName)
		}
		plan = append(plan, task.clone())
	}

	visit(trimmedName)
	return plan, nil
}

// findCycle walks tasks in lexical order and returns the first cycle found as a path
// that starts and ends with the same task, following prerequisite edges.
func (graph *Graph) findCycle() []string {
	visitStates := make(map[string]int, len(graph.names))
	activePath := make([]string, 0, len(graph.names))
	var cyclePath []string

	var visit func(taskName string) bool
	visit = func(taskName string) bool {
		visitStates[taskName] = visitStateInProgress
		activePath = append(activePath, taskName)

		for _, prerequisiteName := range graph.tasksByName[taskName].Prerequisites {
			switch visitStates[prerequisiteName] {
			case visitStateUnvisited:
				if visit(prerequisiteName) {
					return true
				}
			case visitStateInProgress:
				cyclePath = extractCycle(activePath, prerequisiteName)
				return true
			}
		}

		activePath = activePath[:len(activePath)-1]
		visitStates[taskName] = visitStateDone
		return false
	}

	for _, taskName := range graph.names {
		if visitStates[taskName] != visitStateUnvisited {
			continue
		}
		if visit(taskName) {
			return cyclePath
		}
	}

	return nil
}

func extractCycle(activePath []string, repeatedTaskName string) []string {
	startIndex := 0
	for pathIndex, taskName := range activePath {
		if taskName == repeatedTaskName {
			startIndex = pathIndex
			break
		}
	}
	cycle := append([]string(nil), activePath[startIndex:]...)
	return append(cycle, repeatedTaskName)
}
