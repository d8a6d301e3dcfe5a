package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/ganttsync/internal/domain"
)

// Load reconstructs the aggregate: calendars first (bases wired by durable
// id), then resources, tasks in outline order, dependencies, assignments.
func (s *SQLiteProjectStore) Load(ctx context.Context, shortID string) (*domain.Project, error) {
	p := &domain.Project{ShortID: shortID}

	var calendarID sql.NullInt64
	var createdAt, updatedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, calendar_id, created_at, updated_at FROM projects WHERE short_id = ?`,
		shortID).Scan(&p.ID, &p.Name, &calendarID, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, shortID)
	}
	if err != nil {
		return nil, fmt.Errorf("loading project %q: %w", shortID, err)
	}
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)

	calByID, err := s.loadCalendars(ctx, p)
	if err != nil {
		return nil, err
	}
	if calendarID.Valid {
		p.Calendar = calByID[calendarID.Int64]
	}
	if err := s.loadResources(ctx, p, calByID); err != nil {
		return nil, err
	}
	if err := s.loadTasks(ctx, p, calByID); err != nil {
		return nil, err
	}
	p.RebuildChildIndex()
	return p, nil
}

// List returns the short ids of all stored projects.
func (s *SQLiteProjectStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT short_id FROM projects ORDER BY short_id`)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning project id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *SQLiteProjectStore) loadCalendars(ctx context.Context, p *domain.Project) (map[int64]*domain.Calendar, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT durable_id, name, kind, base_id, week_mask, hours, derived
		FROM calendars WHERE project_id = ? ORDER BY derived, position`, p.ID)
	if err != nil {
		return nil, fmt.Errorf("loading calendars: %w", err)
	}
	defer rows.Close()

	byID := make(map[int64]*domain.Calendar)
	baseIDs := make(map[*domain.Calendar]int64)
	for rows.Next() {
		var cal domain.Calendar
		var kind, derived int
		var baseID sql.NullInt64
		var mask, hours string
		if err := rows.Scan(&cal.ID, &cal.Name, &kind, &baseID, &mask, &hours, &derived); err != nil {
			return nil, fmt.Errorf("scanning calendar: %w", err)
		}
		cal.Kind = domain.CalendarKind(kind)
		cal.WeekMask = decodeWeekMask(mask)
		if err := json.Unmarshal([]byte(hours), &cal.Hours); err != nil {
			return nil, fmt.Errorf("decoding hours for calendar %q: %w", cal.Name, err)
		}
		c := &cal
		if derived == 1 {
			p.DerivedCalendars = append(p.DerivedCalendars, c)
		} else {
			p.BaseCalendars = append(p.BaseCalendars, c)
		}
		if c.ID > 0 {
			byID[c.ID] = c
		}
		if baseID.Valid {
			baseIDs[c] = baseID.Int64
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating calendars: %w", err)
	}
	for cal, baseID := range baseIDs {
		cal.Base = byID[baseID]
	}
	return byID, nil
}

func (s *SQLiteProjectStore) loadResources(ctx context.Context, p *domain.Project, calByID map[int64]*domain.Calendar) error {
	rows, err := s.db.QueryContext(ctx, `SELECT durable_id, name, type, max_units, standard_rate,
		overtime_rate, cost_per_use, email, grp, calendar_id
		FROM resources WHERE project_id = ? ORDER BY position`, p.ID)
	if err != nil {
		return fmt.Errorf("loading resources: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var res domain.Resource
		var resType int
		var calendarID sql.NullInt64
		if err := rows.Scan(&res.ID, &res.Name, &resType, &res.MaxUnits, &res.StandardRate,
			&res.OvertimeRate, &res.CostPerUse, &res.Email, &res.Group, &calendarID); err != nil {
			return fmt.Errorf("scanning resource: %w", err)
		}
		res.Type = domain.ResourceType(resType)
		if calendarID.Valid {
			res.Calendar = calByID[calendarID.Int64]
		}
		p.Resources = append(p.Resources, &res)
	}
	return rows.Err()
}

func (s *SQLiteProjectStore) loadTasks(ctx context.Context, p *domain.Project, calByID map[int64]*domain.Calendar) error {
	rows, err := s.db.QueryContext(ctx, `SELECT durable_id, client_id, name, start_ms, end_ms,
		completion, milestone, summary, notes, color, external, outline_level, parent_id, calendar_id
		FROM tasks WHERE project_id = ? ORDER BY position`, p.ID)
	if err != nil {
		return fmt.Errorf("loading tasks: %w", err)
	}
	defer rows.Close()

	taskByID := make(map[int64]*domain.Task)
	parentIDs := make(map[*domain.Task]int64)
	for rows.Next() {
		var t domain.Task
		var startMS, endMS int64
		var milestone, summary, external int
		var parentID, calendarID sql.NullInt64
		if err := rows.Scan(&t.ID, &t.ClientID, &t.Name, &startMS, &endMS, &t.Completion,
			&milestone, &summary, &t.Notes, &t.Color, &external, &t.OutlineLevel,
			&parentID, &calendarID); err != nil {
			return fmt.Errorf("scanning task: %w", err)
		}
		if startMS > 0 {
			t.Start = time.UnixMilli(startMS).UTC()
		}
		if endMS > 0 {
			t.End = time.UnixMilli(endMS).UTC()
		}
		t.Milestone = milestone == 1
		t.Summary = summary == 1
		t.External = external == 1
		if calendarID.Valid {
			t.Calendar = calByID[calendarID.Int64]
		}
		task := &t
		if parentID.Valid {
			parentIDs[task] = parentID.Int64
		}
		p.Tasks = append(p.Tasks, task)
		taskByID[task.ID] = task
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating tasks: %w", err)
	}
	for task, parentID := range parentIDs {
		task.Parent = taskByID[parentID]
	}

	if err := s.loadDependencies(ctx, p, taskByID); err != nil {
		return err
	}
	return s.loadAssignments(ctx, p, taskByID)
}

func (s *SQLiteProjectStore) loadDependencies(ctx context.Context, p *domain.Project, taskByID map[int64]*domain.Task) error {
	rows, err := s.db.QueryContext(ctx, `SELECT predecessor_id, successor_id, lag_min, source
		FROM dependencies WHERE project_id = ?`, p.ID)
	if err != nil {
		return fmt.Errorf("loading dependencies: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var predID, succID int64
		var lag int
		var source string
		if err := rows.Scan(&predID, &succID, &lag, &source); err != nil {
			return fmt.Errorf("scanning dependency: %w", err)
		}
		pred, succ := taskByID[predID], taskByID[succID]
		if pred == nil || succ == nil {
			continue
		}
		dep := &domain.Dependency{
			Predecessor: pred,
			Successor:   succ,
			LagMinutes:  lag,
			Source:      domain.DependencySource(source),
		}
		pred.Successors = append(pred.Successors, dep)
		succ.Predecessors = append(succ.Predecessors, dep)
	}
	return rows.Err()
}

func (s *SQLiteProjectStore) loadAssignments(ctx context.Context, p *domain.Project, taskByID map[int64]*domain.Task) error {
	rows, err := s.db.QueryContext(ctx, `SELECT task_id, resource_id, units
		FROM assignments WHERE project_id = ?`, p.ID)
	if err != nil {
		return fmt.Errorf("loading assignments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var taskID, resourceID int64
		var units float64
		if err := rows.Scan(&taskID, &resourceID, &units); err != nil {
			return fmt.Errorf("scanning assignment: %w", err)
		}
		task := taskByID[taskID]
		res := p.FindResource(resourceID)
		if task == nil || res == nil {
			continue
		}
		task.Assignments = append(task.Assignments, domain.Assignment{Resource: res, Units: units})
	}
	return rows.Err()
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
