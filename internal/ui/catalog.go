package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zerodaysec/chores/internal/taskgraph"
)

const (
	catalogDetailIndentConstant   = "  "
	catalogDependsOnLabelConstant = "depends on: "
	catalogCommandLabelConstant   = "command: "
	catalogDirectoryLabelConstant = "directory: "
	catalogPrerequisiteSeparator  = ", "
	planEntryTemplateConstant     = "%d. %s: %s"
	catalogLineSeparatorConstant  = "\n"
	taskNameColorConstant         = "#5B8DEF"
	detailTextColorConstant       = "#A0AEC0"
	catalogEmptyMessageConstant   = "no tasks defined"
	planHeaderTemplateConstant    = "Plan for %s (%d task(s), nothing executed):"
)

// TaskCatalogRenderer renders task listings and run plans. Styling is dropped
// automatically when the output is not a terminal.
type TaskCatalogRenderer struct {
	nameStyle   lipgloss.Style
	detailStyle lipgloss.Style
}

// NewTaskCatalogRenderer builds a renderer whose color profile matches output.
func NewTaskCatalogRenderer(output io.Writer) *TaskCatalogRenderer {
	renderer := lipgloss.NewRenderer(output)
	return &TaskCatalogRenderer{
		nameStyle:   renderer.NewStyle().Foreground(lipgloss.Color(taskNameColorConstant)).Bold(true),
		detailStyle: renderer.NewStyle().Foreground(lipgloss.Color(detailTextColorConstant)),
	}
}

// RenderCatalog describes every task: name, description, prerequisites, and command.
func (renderer *TaskCatalogRenderer) RenderCatalog(tasks []taskgraph.Task) string {
	if len(tasks) == 0 {
		return catalogEmptyMessageConstant + catalogLineSeparatorConstant
	}

	var builder strings.Builder
	for _, task := range tasks {
		builder.WriteString(renderer.nameStyle.Render(task.Name))
		builder.WriteString(catalogLineSeparatorConstant)
		if description := strings.TrimSpace(task.Description); len(description) > 0 {
			renderer.writeDetail(&builder, description)
		}
		if len(task.Prerequisites) > 0 {
			renderer.writeDetail(&builder, catalogDependsOnLabelConstant+strings.Join(task.Prerequisites, catalogPrerequisiteSeparator))
		}
		renderer.writeDetail(&builder, catalogCommandLabelConstant+task.Command.String())
		if len(task.WorkingDirectory) > 0 {
			renderer.writeDetail(&builder, catalogDirectoryLabelConstant+task.WorkingDirectory)
		}
	}
	return builder.String()
}

// RenderPlan numbers the tasks of a run plan in execution order.
func (renderer *TaskCatalogRenderer) RenderPlan(requestedTask string, plan []taskgraph.Task) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf(planHeaderTemplateConstant, requestedTask, len(plan)))
	builder.WriteString(catalogLineSeparatorConstant)
	for planIndex, task := range plan {
		entry := fmt.Sprintf(planEntryTemplateConstant, planIndex+1, renderer.nameStyle.Render(task.Name), renderer.detailStyle.Render(task.Command.String()))
		builder.WriteString(catalogDetailIndentConstant)
		builder.WriteString(entry)
		builder.WriteString(catalogLineSeparatorConstant)
	}
	return builder.String()
}

func (renderer *TaskCatalogRenderer) writeDetail(builder *strings.Builder, detail string) {
	builder.WriteString(catalogDetailIndentConstant)
	builder.WriteString(renderer.detailStyle.Render(detail))
	builder.WriteString(catalogLineSeparatorConstant)
}
