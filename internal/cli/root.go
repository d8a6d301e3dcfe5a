package cli

import (
	"github.com/alexanderramin/ganttsync/internal/repository"
	"github.com/alexanderramin/ganttsync/internal/sync"
	"github.com/spf13/cobra"
)

// App holds the wired collaborators CLI commands run against.
type App struct {
	Store        repository.ProjectStore
	Orchestrator *sync.Orchestrator
}

// NewRootCmd creates the top-level "ganttsync" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "ganttsync",
		Short: "Reconcile project snapshots against the server model",
	}

	root.AddCommand(
		newSyncCmd(app),
		newShowCmd(app),
		newCalendarsCmd(app),
		newProjectsCmd(app),
	)

	return root
}
