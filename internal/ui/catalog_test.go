package ui_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zerodaysec/chores/internal/taskgraph"
	"github.com/zerodaysec/chores/internal/ui"
)

func catalogFixture() []taskgraph.Task {
	return []taskgraph.Task{
		{
			Name:        "get-prs",
			Description: "Fetch open pull requests",
			Command:     taskgraph.CommandSpecification{Executable: "scripts/3_fetch_all_prs.py"},
		},
		{
			Name:             "get-work",
			Prerequisites:    []string{"get-prs"},
			WorkingDirectory: "reports",
			Command: taskgraph.CommandSpecification{
				Executable: "scripts/1_generate_repo_report.py",
				Arguments:  []string{"zerodaysec", "jon-the-dev"},
			},
		},
	}
}

func TestTaskCatalogRendererRenderCatalog(testInstance *testing.T) {
	renderer := ui.NewTaskCatalogRenderer(&bytes.Buffer{})

	expected := "get-prs\n" +
		"  Fetch open pull requests\n" +
		"  command: scripts/3_fetch_all_prs.py\n" +
		"get-work\n" +
		"  depends on: get-prs\n" +
		"  command: scripts/1_generate_repo_report.py zerodaysec jon-the-dev\n" +
		"  directory: reports\n"
	require.Equal(testInstance, expected, renderer.RenderCatalog(catalogFixture()))
}

func TestTaskCatalogRendererRenderCatalogEmpty(testInstance *testing.T) {
	renderer := ui.NewTaskCatalogRenderer(&bytes.Buffer{})
	require.Equal(testInstance, "no tasks defined\n", renderer.RenderCatalog(nil))
}

func TestTaskCatalogRendererRenderPlan(testInstance *testing.T) {
	renderer := ui.NewTaskCatalogRenderer(&bytes.Buffer{})

	expected := "Plan for get-work (2 task(s), nothing executed):\n" +
		"  1. get-prs: scripts/3_fetch_all_prs.py\n" +
		"  2. get-work: scripts/1_generate_repo_report.py zerodaysec jon-the-dev\n"
	require.Equal(testInstance, expected, renderer.RenderPlan("get-work", catalogFixture()))
}
