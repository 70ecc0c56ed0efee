package tasks

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/zerodaysec/chores/internal/ui"
	"github.com/zerodaysec/chores/internal/utils"
)

const (
	listCommandUseConstant              = "list"
	listCommandShortDescriptionConstant = "List the available tasks"
	listCommandLongDescriptionConstant  = "list prints every configured task with its prerequisites and command."
)

// ListCommandBuilder assembles the list command.
type ListCommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider func() CommandConfiguration
	DefinitionsProvider   DefinitionsProvider
}

// Build constructs the list command.
func (builder *ListCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   listCommandUseConstant,
		Short: listCommandShortDescriptionConstant,
		Long:  listCommandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	command.Flags().String(tasksFileFlagNameConstant, "", tasksFileFlagDescriptionConstant)

	return command, nil
}

func (builder *ListCommandBuilder) run(command *cobra.Command, arguments []string) error {
	commandConfiguration := DefaultCommandConfiguration()
	if builder.ConfigurationProvider != nil {
		commandConfiguration = builder.ConfigurationProvider().Sanitize()
	}

	tasksFilePath := resolveTasksFilePath(command, commandConfiguration)
	graph, graphError := loadTaskGraph(resolveLogger(builder.LoggerProvider), builder.DefinitionsProvider, tasksFilePath)
	if graphError != nil {
		return graphError
	}

	output := command.OutOrStdout()
	renderedCatalog := ui.NewTaskCatalogRenderer(output).RenderCatalog(graph.Tasks())
	_, writeError := io.WriteString(utils.NewFlushingWriter(output), renderedCatalog)
	return writeError
}
