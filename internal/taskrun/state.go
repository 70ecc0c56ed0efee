package taskrun

import "fmt"

const (
	invalidTaskTransitionTemplateConstant = "invalid transition for task %q: %s -> %s"
	invalidRunTransitionTemplateConstant  = "invalid run transition: %s -> %s"
	unknownTaskStateTemplateConstant      = "task %q is not part of the run"
)

// TaskState is the execution state of a single task within one run.
type TaskState string

// Task states.
const (
	TaskPending   TaskState = TaskState("pending")
	TaskRunning   TaskState = TaskState("running")
	TaskSucceeded TaskState = TaskState("succeeded")
	TaskFailed    TaskState = TaskState("failed")
)

// RunState is the state of a whole run.
type RunState string

// Run states.
const (
	RunIdle      RunState = RunState("idle")
	RunRunning   RunState = RunState("running")
	RunCompleted RunState = RunState("completed")
	RunAborted   RunState = RunState("aborted")
)

// IsTerminal reports whether no further transition is allowed from the task state.
func (state TaskState) IsTerminal() bool {
	return state == TaskSucceeded || state == TaskFailed
}

// IsTerminal reports whether no further transition is allowed from the run state.
func (state RunState) IsTerminal() bool {
	return state == RunCompleted || state == RunAborted
}

func taskTransitionAllowed(from TaskState, to TaskState) bool {
	switch from {
	case TaskPending:
		return to == TaskRunning
	case TaskRunning:
		return to == TaskSucceeded || to == TaskFailed
	default:
		return false
	}
}

func runTransitionAllowed(from RunState, to RunState) bool {
	switch from {
	case RunIdle:
		return to == RunRunning
	case RunRunning:
		return to == RunCompleted || to == RunAborted
	default:
		return false
	}
}

// runTracker holds the mutable state of one run. The graph itself is never mutated.
type runTracker struct {
	runState   RunState
	taskStates map[string]TaskState
}

func newRunTracker(taskNames []string) *runTracker {
	taskStates := make(map[string]TaskState, len(taskNames))
	for _, taskName := range taskNames {
		taskStates[taskName] = TaskPending
	}
	return &runTracker{runState: RunIdle, taskStates: taskStates}
}

func (tracker *runTracker) transitionTask(taskName string, to TaskState) error {
	from, exists := tracker.taskStates[taskName]
	if !exists {
		return fmt.Errorf(unknownTaskStateTemplateConstant, taskName)
	}
	if !taskTransitionAllowed(from, to) {
		return fmt.Errorf(invalidTaskTransitionTemplateConstant, taskName, from, to)
	}
	tracker.taskStates[taskName] = to
	return nil
}

func (tracker *runTracker) transitionRun(to RunState) error {
	if !runTransitionAllowed(tracker.runState, to) {
		return fmt.Errorf(invalidRunTransitionTemplateConstant, tracker.runState, to)
	}
	tracker.runState = to
	return nil
}

func (tracker *runTracker) snapshot() map[string]TaskState {
	copied := make(map[string]TaskState, len(tracker.taskStates))
	for taskName, taskState := range tracker.taskStates {
		copied[taskName] = taskState
	}
	return copied
}
