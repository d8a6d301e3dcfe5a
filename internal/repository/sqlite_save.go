package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alexanderramin/ganttsync/internal/db"
	"github.com/alexanderramin/ganttsync/internal/domain"
)

// SQLiteProjectStore implements ProjectStore over a SQLite database.
type SQLiteProjectStore struct {
	db  *sql.DB
	uow db.UnitOfWork
}

var _ ProjectStore = (*SQLiteProjectStore)(nil)

func NewSQLiteProjectStore(database *sql.DB) *SQLiteProjectStore {
	return &SQLiteProjectStore{db: database, uow: db.NewSQLiteUnitOfWork(database)}
}

// Save rewrites the whole aggregate inside one transaction.
func (s *SQLiteProjectStore) Save(ctx context.Context, p *domain.Project) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := saveProjectRow(ctx, tx, p); err != nil {
			return err
		}
		for _, table := range []string{"calendars", "resources", "tasks", "dependencies", "assignments"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE project_id = ?", p.ID); err != nil {
				return fmt.Errorf("clearing %s: %w", table, err)
			}
		}
		if err := saveCalendars(ctx, tx, p); err != nil {
			return err
		}
		if err := saveResources(ctx, tx, p); err != nil {
			return err
		}
		if err := saveTasks(ctx, tx, p); err != nil {
			return err
		}
		return nil
	})
}

func saveProjectRow(ctx context.Context, tx db.DBTX, p *domain.Project) error {
	var calendarID any
	if p.Calendar != nil {
		calendarID = p.Calendar.ID
	}
	_, err := tx.ExecContext(ctx, `INSERT INTO projects (id, short_id, name, calendar_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			short_id = excluded.short_id,
			name = excluded.name,
			calendar_id = excluded.calendar_id,
			updated_at = excluded.updated_at`,
		p.ID, p.ShortID, p.Name, calendarID,
		p.CreatedAt.UTC().Format(time.RFC3339Nano),
		p.UpdatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("upserting project: %w", err)
	}
	return nil
}

func saveCalendars(ctx context.Context, tx db.DBTX, p *domain.Project) error {
	insert := func(cal *domain.Calendar, derived, position int) error {
		var baseID any
		if cal.Base != nil {
			baseID = cal.Base.ID
		}
		hours, err := json.Marshal(cal.Hours)
		if err != nil {
			return fmt.Errorf("encoding hours for calendar %q: %w", cal.Name, err)
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO calendars
			(project_id, durable_id, name, kind, base_id, week_mask, hours, derived, position)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, cal.ID, cal.Name, int(cal.Kind), baseID,
			encodeWeekMask(cal.WeekMask), string(hours), derived, position)
		if err != nil {
			return fmt.Errorf("inserting calendar %q: %w", cal.Name, err)
		}
		return nil
	}
	for i, cal := range p.BaseCalendars {
		if err := insert(cal, 0, i); err != nil {
			return err
		}
	}
	for i, cal := range p.DerivedCalendars {
		if err := insert(cal, 1, i); err != nil {
			return err
		}
	}
	return nil
}

func saveResources(ctx context.Context, tx db.DBTX, p *domain.Project) error {
	for i, res := range p.Resources {
		var calendarID any
		if res.Calendar != nil {
			calendarID = res.Calendar.ID
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO resources
			(project_id, durable_id, name, type, max_units, standard_rate, overtime_rate,
			 cost_per_use, email, grp, calendar_id, position)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, res.ID, res.Name, int(res.Type), res.MaxUnits, res.StandardRate,
			res.OvertimeRate, res.CostPerUse, res.Email, res.Group, calendarID, i)
		if err != nil {
			return fmt.Errorf("inserting resource %q: %w", res.Name, err)
		}
	}
	return nil
}

func saveTasks(ctx context.Context, tx db.DBTX, p *domain.Project) error {
	for i, t := range p.Tasks {
		var parentID, calendarID any
		if t.Parent != nil {
			parentID = t.Parent.ID
		}
		if t.Calendar != nil {
			calendarID = t.Calendar.ID
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO tasks
			(project_id, durable_id, client_id, name, start_ms, end_ms, completion,
			 milestone, summary, notes, color, external, outline_level, parent_id, calendar_id, position)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, t.ID, t.ClientID, t.Name, millisOrZero(t.Start), millisOrZero(t.End),
			t.Completion, boolToInt(t.Milestone), boolToInt(t.Summary), t.Notes, t.Color,
			boolToInt(t.External), t.OutlineLevel, parentID, calendarID, i)
		if err != nil {
			return fmt.Errorf("inserting task %q: %w", t.Name, err)
		}
	}
	for _, t := range p.Tasks {
		for _, dep := range t.Predecessors {
			_, err := tx.ExecContext(ctx, `INSERT INTO dependencies
				(project_id, predecessor_id, successor_id, lag_min, source)
				VALUES (?, ?, ?, ?, ?)`,
				p.ID, dep.Predecessor.ID, dep.Successor.ID, dep.LagMinutes, string(dep.Source))
			if err != nil {
				return fmt.Errorf("inserting dependency %q -> %q: %w",
					dep.Predecessor.Name, dep.Successor.Name, err)
			}
		}
		for _, a := range t.Assignments {
			_, err := tx.ExecContext(ctx, `INSERT INTO assignments
				(project_id, task_id, resource_id, units) VALUES (?, ?, ?, ?)`,
				p.ID, t.ID, a.Resource.ID, a.Units)
			if err != nil {
				return fmt.Errorf("inserting assignment %q -> %q: %w", t.Name, a.Resource.Name, err)
			}
		}
	}
	return nil
}

func encodeWeekMask(mask [7]bool) string {
	buf := make([]byte, 7)
	for i, working := range mask {
		if working {
			buf[i] = '1'
		} else {
			buf[i] = '0'
		}
	}
	return string(buf)
}

func decodeWeekMask(s string) [7]bool {
	var mask [7]bool
	for i := 0; i < len(s) && i < 7; i++ {
		mask[i] = s[i] == '1'
	}
	return mask
}

func millisOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
