package taskrun

import (
	"go.uber.org/zap"

	"github.com/zerodaysec/chores/internal/taskgraph"
)

const (
	taskPlannedMessageConstant     = "task planned"
	taskStartedMessageConstant     = "task starting"
	taskSucceededMessageConstant   = "task succeeded"
	taskFailedMessageConstant      = "task failed"
	taskNameFieldNameConstant      = "task"
	taskCommandFieldNameConstant   = "command"
	taskPositionFieldNameConstant  = "position"
	taskTotalFieldNameConstant     = "total"
	taskPrerequisitesFieldConstant = "prerequisites"
)

// TaskEventObserver receives lifecycle notifications for tasks within a run.
type TaskEventObserver interface {
	TaskPlanned(task taskgraph.Task, position int, total int)
	TaskStarted(task taskgraph.Task)
	TaskSucceeded(task taskgraph.Task)
	TaskFailed(task taskgraph.Task, failure error)
}

type noopTaskEventObserver struct{}

func (noopTaskEventObserver) TaskPlanned(taskgraph.Task, int, int) {}

func (noopTaskEventObserver) TaskStarted(taskgraph.Task) {}

func (noopTaskEventObserver) TaskSucceeded(taskgraph.Task) {}

func (noopTaskEventObserver) TaskFailed(taskgraph.Task, error) {}

// StructuredTaskEventLogger records task lifecycle events as structured zap entries.
type StructuredTaskEventLogger struct {
	logger *zap.Logger
}

// NewStructuredTaskEventLogger constructs a structured observer backed by the provided logger.
func NewStructuredTaskEventLogger(logger *zap.Logger) *StructuredTaskEventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StructuredTaskEventLogger{logger: logger}
}

// TaskPlanned implements TaskEventObserver.
func (eventLogger *StructuredTaskEventLogger) TaskPlanned(task taskgraph.Task, position int, total int) {
	eventLogger.logger.Debug(taskPlannedMessageConstant,
		zap.String(taskNameFieldNameConstant, task.Name),
		zap.Int(taskPositionFieldNameConstant, position),
		zap.Int(taskTotalFieldNameConstant, total),
		zap.Strings(taskPrerequisitesFieldConstant, task.Prerequisites),
		zap.String(taskCommandFieldNameConstant, task.Command.String()),
	)
}

// TaskStarted implements TaskEventObserver.
func (eventLogger *StructuredTaskEventLogger) TaskStarted(task taskgraph.Task) {
	eventLogger.logger.Info(taskStartedMessageConstant, zap.String(taskNameFieldNameConstant, task.Name))
}

// TaskSucceeded implements TaskEventObserver.
func (eventLogger *StructuredTaskEventLogger) TaskSucceeded(task taskgraph.Task) {
	eventLogger.logger.Info(taskSucceededMessageConstant, zap.String(taskNameFieldNameConstant, task.Name))
}

// TaskFailed implements TaskEventObserver.
func (eventLogger *StructuredTaskEventLogger) TaskFailed(task taskgraph.Task, failure error) {
	eventLogger.logger.Error(taskFailedMessageConstant, zap.String(taskNameFieldNameConstant, task.Name), zap.Error(failure))
}
