package tasks

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zerodaysec/chores/internal/execshell"
	"github.com/zerodaysec/chores/internal/taskgraph"
	"github.com/zerodaysec/chores/internal/taskrun"
	"github.com/zerodaysec/chores/internal/ui"
	"github.com/zerodaysec/chores/internal/utils"
)

const (
	runCommandUseConstant              = "run <task>"
	runCommandShortDescriptionConstant = "Run a task after its prerequisites"
	runCommandLongDescriptionConstant  = "run executes the named task's prerequisites in dependency order, each at most once, then the task itself. The first failing command stops the run and its exit code becomes the exit code of chores."
	runCommandExampleConstant          = "  chores run get-work\n  chores run monthly-cost-review --dry-run"
	dryRunFlagNameConstant             = "dry-run"
	dryRunFlagDescriptionConstant      = "Print the execution plan without running any command"
	directoryFlagNameConstant          = "directory"
	directoryFlagShorthandConstant     = "C"
	directoryFlagDescriptionConstant   = "Directory to run task commands in"
	shellExecutorErrorTemplateConstant = "unable to construct shell executor: %w"
	taskExecutorErrorTemplateConstant  = "unable to construct task executor: %w"
	runFinishedMessageConstant         = "task run finished"
	logFieldTaskConstant               = "task"
	logFieldRunStateConstant           = "run_state"
	logFieldExitCodeConstant           = "exit_code"
	logFieldOrderConstant              = "order"
	logFieldDryRunConstant             = "dry_run"
)

// RunCommandBuilder assembles the run command.
type RunCommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConsoleLoggerProvider        LoggerProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
	DefinitionsProvider          DefinitionsProvider
	// CommandRunner defaults to an OS runner sharing this process's terminal.
	CommandRunner execshell.CommandRunner
}

// Build constructs the run command.
func (builder *RunCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:               runCommandUseConstant,
		Short:             runCommandShortDescriptionConstant,
		Long:              runCommandLongDescriptionConstant,
		Example:           runCommandExampleConstant,
		Args:              cobra.ExactArgs(1),
		RunE:              builder.run,
		ValidArgsFunction: builder.completeTaskNames,
	}

	command.Flags().Bool(dryRunFlagNameConstant, false, dryRunFlagDescriptionConstant)
	command.Flags().String(tasksFileFlagNameConstant, "", tasksFileFlagDescriptionConstant)
	command.Flags().StringP(directoryFlagNameConstant, directoryFlagShorthandConstant, "", directoryFlagDescriptionConstant)

	return command, nil
}

func (builder *RunCommandBuilder) run(command *cobra.Command, arguments []string) error {
	taskName := strings.TrimSpace(arguments[0])
	logger := resolveLogger(builder.LoggerProvider)
	commandConfiguration := builder.resolveConfiguration()

	tasksFilePath := resolveTasksFilePath(command, commandConfiguration)

	graph, graphError := loadTaskGraph(logger, builder.DefinitionsProvider, tasksFilePath)
	if graphError != nil {
		return graphError
	}

	directoryFlagValue, directoryFlagChanged := readStringFlag(command, directoryFlagNameConstant)
	runtimeOptions := taskrun.RuntimeOptions{
		DryRun: readBoolFlag(command, dryRunFlagNameConstant, commandConfiguration.DryRun),
		WorkingDirectory: resolvePath(command, pathSource{
			flagValue:       directoryFlagValue,
			flagChanged:     directoryFlagChanged,
			configuredValue: commandConfiguration.WorkingDirectory,
		}),
	}

	humanReadableLogging := false
	if builder.HumanReadableLoggingProvider != nil {
		humanReadableLogging = builder.HumanReadableLoggingProvider()
	}
	commandObserver, taskObserver := resolveObservers(humanReadableLogging, logger, resolveLogger(builder.ConsoleLoggerProvider))

	commandRunner := builder.CommandRunner
	if commandRunner == nil {
		commandRunner = execshell.NewOSCommandRunner()
	}

	shellExecutor, shellExecutorError := execshell.NewObservedShellExecutor(commandObserver, commandRunner)
	if shellExecutorError != nil {
		return fmt.Errorf(shellExecutorErrorTemplateConstant, shellExecutorError)
	}

	executor, executorError := taskrun.NewExecutor(graph, shellExecutor, taskObserver)
	if executorError != nil {
		return fmt.Errorf(taskExecutorErrorTemplateConstant, executorError)
	}

	report, runError := executor.Run(command.Context(), taskName, runtimeOptions)
	logger.Debug(runFinishedMessageConstant,
		zap.String(logFieldTaskConstant, taskName),
		zap.Strings(logFieldOrderConstant, report.Order),
		zap.String(logFieldRunStateConstant, string(report.State)),
		zap.Int(logFieldExitCodeConstant, report.ExitCode),
		zap.Bool(logFieldDryRunConstant, runtimeOptions.DryRun),
	)
	if runError != nil {
		return runError
	}

	if runtimeOptions.DryRun {
		return writePlan(command.OutOrStdout(), graph, report)
	}
	return nil
}

func (builder *RunCommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}

func (builder *RunCommandBuilder) completeTaskNames(command *cobra.Command, arguments []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(arguments) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	tasksFilePath := resolveTasksFilePath(command, builder.resolveConfiguration())
	graph, graphError := loadTaskGraph(zap.NewNop(), builder.DefinitionsProvider, tasksFilePath)
	if graphError != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	completions := make([]string, 0, len(graph.Names()))
	for _, task := range graph.Tasks() {
		if !strings.HasPrefix(task.Name, toComplete) {
			continue
		}
		completion := task.Name
		if len(task.Description) > 0 {
			completion += "\t" + task.Description
		}
		completions = append(completions, completion)
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}

func writePlan(output io.Writer, graph *taskgraph.Graph, report taskrun.RunReport) error {
	plan := make([]taskgraph.Task, 0, len(report.Order))
	for _, taskName := range report.Order {
		if task, exists := graph.Task(taskName); exists {
			plan = append(plan, task)
		}
	}
	renderedPlan := ui.NewTaskCatalogRenderer(output).RenderPlan(report.Task, plan)
	_, writeError := io.WriteString(utils.NewFlushingWriter(output), renderedPlan)
	return writeError
}
