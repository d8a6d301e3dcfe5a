package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/ganttsync/internal/cli/formatter"
	"github.com/alexanderramin/ganttsync/internal/domain"
	"github.com/alexanderramin/ganttsync/internal/repository"
	"github.com/alexanderramin/ganttsync/internal/snapshot"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newSyncCmd(app *App) *cobra.Command {
	var projectID string
	var create bool

	cmd := &cobra.Command{
		Use:   "sync <snapshot.json>",
		Short: "Reconcile a project against a client snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			snap, err := snapshot.Load(args[0])
			if err != nil {
				return fmt.Errorf("loading snapshot: %w", err)
			}
			shortID := domain.CoalesceStr(projectID, snap.Project.ShortID)
			if shortID == "" {
				return fmt.Errorf("no project id: pass --project or set project.short_id in the snapshot")
			}
			snap.Project.ShortID = shortID

			project, err := app.Store.Load(ctx, shortID)
			if errors.Is(err, repository.ErrProjectNotFound) {
				if !create {
					return fmt.Errorf("project %q not found (use --create for a first sync)", shortID)
				}
				now := time.Now().UTC()
				project = &domain.Project{
					ID:        uuid.New().String(),
					ShortID:   shortID,
					Name:      snap.Project.Name,
					CreatedAt: now,
					UpdatedAt: now,
				}
			} else if err != nil {
				return err
			}

			result, err := app.Orchestrator.Synchronize(ctx, project, snap)
			if err != nil {
				return fmt.Errorf("sync failed: %w", err)
			}

			if err := app.Store.Save(ctx, project); err != nil {
				return fmt.Errorf("saving project: %w", err)
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderResult(shortID, result))
			return nil
		},
	}

	cmd.Flags().StringVarP(&projectID, "project", "p", "", "project short id (overrides the snapshot)")
	cmd.Flags().BoolVar(&create, "create", false, "create the project on first sync")
	return cmd
}
