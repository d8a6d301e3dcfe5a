package cli

import (
	"fmt"

	"github.com/alexanderramin/ganttsync/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newShowCmd(app *App) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the project's task tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := app.Store.Load(cmd.Context(), projectID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTree(project))
			return nil
		},
	}

	cmd.Flags().StringVarP(&projectID, "project", "p", "", "project short id")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func newCalendarsCmd(app *App) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "calendars",
		Short: "List the project's calendars",
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := app.Store.Load(cmd.Context(), projectID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderCalendars(project))
			return nil
		},
	}

	cmd.Flags().StringVarP(&projectID, "project", "p", "", "project short id")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func newProjectsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List stored projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := app.Store.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
}
