package execshell

import "go.uber.org/zap"

const (
	commandStartMessageConstant       = "command execution starting"
	commandSuccessMessageConstant     = "command execution completed"
	commandFailureMessageConstant     = "command returned non-zero status"
	commandRunnerErrorMessageConstant = "command execution error"
	commandNameFieldNameConstant      = "command"
	commandArgumentsFieldNameConstant = "arguments"
	workingDirectoryFieldNameConstant = "working_directory"
	exitCodeFieldNameConstant         = "exit_code"
)

// CommandEventObserver receives lifecycle notifications for shell command execution.
type CommandEventObserver interface {
	// CommandStarted notifies observers that command execution is beginning.
	CommandStarted(command ShellCommand)
	// CommandCompleted notifies observers that the command exited and supplies the result.
	CommandCompleted(command ShellCommand, result ExecutionResult)
	// CommandExecutionFailed reports failures that prevented an execution result.
	CommandExecutionFailed(command ShellCommand, failure error)
}

type noopCommandEventObserver struct{}

func (noopCommandEventObserver) CommandStarted(ShellCommand) {}

func (noopCommandEventObserver) CommandCompleted(ShellCommand, ExecutionResult) {}

func (noopCommandEventObserver) CommandExecutionFailed(ShellCommand, error) {}

// StructuredCommandEventLogger records command lifecycle events as structured zap entries.
type StructuredCommandEventLogger struct {
	logger *zap.Logger
}

// NewStructuredCommandEventLogger constructs a structured observer backed by the provided logger.
func NewStructuredCommandEventLogger(logger *zap.Logger) *StructuredCommandEventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StructuredCommandEventLogger{logger: logger}
}

// CommandStarted implements CommandEventObserver.
func (eventLogger *StructuredCommandEventLogger) CommandStarted(command ShellCommand) {
	eventLogger.logger.Info(commandStartMessageConstant,
		zap.String(commandNameFieldNameConstant, string(command.Name)),
		zap.Strings(commandArgumentsFieldNameConstant, command.Details.Arguments),
		zap.String(workingDirectoryFieldNameConstant, command.Details.WorkingDirectory),
	)
}

// CommandCompleted implements CommandEventObserver.
func (eventLogger *StructuredCommandEventLogger) CommandCompleted(command ShellCommand, result ExecutionResult) {
	if result.ExitCode != 0 {
		eventLogger.logger.Warn(commandFailureMessageConstant,
			zap.String(commandNameFieldNameConstant, string(command.Name)),
			zap.Int(exitCodeFieldNameConstant, result.ExitCode),
		)
		return
	}
	eventLogger.logger.Info(commandSuccessMessageConstant,
		zap.String(commandNameFieldNameConstant, string(command.Name)),
		zap.Int(exitCodeFieldNameConstant, result.ExitCode),
	)
}

// CommandExecutionFailed implements CommandEventObserver.
func (eventLogger *StructuredCommandEventLogger) CommandExecutionFailed(command ShellCommand, failure error) {
	eventLogger.logger.Error(commandRunnerErrorMessageConstant,
		zap.String(commandNameFieldNameConstant, string(command.Name)),
		zap.Error(failure),
	)
}
