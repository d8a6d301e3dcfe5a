package sync

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/alexanderramin/ganttsync/internal/calendar"
	"github.com/alexanderramin/ganttsync/internal/domain"
	"github.com/alexanderramin/ganttsync/internal/snapshot"
)

// ResourceSynchronizer matches or creates pool resources from the client
// snapshot, assigns durable identities to new ones, and records the
// temporary-id mapping the rest of the pipeline (and the caller) needs.
type ResourceSynchronizer struct {
	reg      *calendar.Registry
	factory  *calendar.Factory
	resolver *calendar.Resolver
	cleaner  *calendar.Cleaner
	logger   *slog.Logger
}

func NewResourceSynchronizer(
	reg *calendar.Registry,
	factory *calendar.Factory,
	resolver *calendar.Resolver,
	cleaner *calendar.Cleaner,
	logger *slog.Logger,
) *ResourceSynchronizer {
	return &ResourceSynchronizer{
		reg:      reg,
		factory:  factory,
		resolver: resolver,
		cleaner:  cleaner,
		logger:   logger,
	}
}

// Synchronize reconciles the resource pool with the desired list. Existing
// resources are matched by name and updated in place; each existing resource
// is claimed at most once per call. A single resource's calendar failure is
// recorded and skipped without aborting the remaining resources.
func (s *ResourceSynchronizer) Synchronize(p *domain.Project, desired []snapshot.ResourceInput) (*ResourceResult, error) {
	if p == nil {
		return nil, ErrNilProject
	}

	// Cheap relative to the correctness it buys: duplicate and broken-base
	// calendars are cleaned up before any resource points at them.
	s.cleaner.CleanDuplicates()
	s.cleaner.RepairBases()

	result := &ResourceResult{IDMapping: make(map[string]string)}
	claimed := make(map[*domain.Resource]bool)

	for _, in := range desired {
		if in.Name == "" {
			result.Skipped++
			s.logger.Warn("skipping resource with empty name", "id", in.ID)
			continue
		}

		res := s.claimByName(p, in.Name, claimed)
		created := res == nil
		if created {
			res = &domain.Resource{ID: s.reg.NextID()}
			p.Resources = append(p.Resources, res)
		}
		claimed[res] = true

		if clientID := temporaryID(in); clientID != "" {
			if _, exists := result.IDMapping[clientID]; !exists {
				result.IDMapping[clientID] = strconv.FormatInt(res.ID, 10)
			}
		}

		res.Name = in.Name
		res.Type = domain.ResourceTypeFromString(in.Type)
		res.MaxUnits = domain.Float64FromPtrWithDefault(1.0, in.MaxUnits)
		res.StandardRate = in.StandardRate
		res.OvertimeRate = in.OvertimeRate
		res.CostPerUse = in.CostPerUse
		res.Email = in.Email
		res.Group = in.Group

		s.syncCalendar(res, &in, result)
		result.Synced++
	}

	return result, nil
}

func (s *ResourceSynchronizer) claimByName(p *domain.Project, name string, claimed map[*domain.Resource]bool) *domain.Resource {
	for _, r := range p.Resources {
		if r.Name == name && !claimed[r] {
			return r
		}
	}
	return nil
}

// syncCalendar applies the resource's desired calendar: a full settings
// payload goes through the factory (and wins over a portable id when both
// are present); otherwise the portable id is resolved. The replacement is
// validated before it is applied.
func (s *ResourceSynchronizer) syncCalendar(res *domain.Resource, in *snapshot.ResourceInput, result *ResourceResult) {
	var next *domain.Calendar
	switch {
	case in.Calendar != nil:
		next = s.factory.CreateOrUpdate(in.Calendar.Settings())
	case in.CalendarID != "":
		next = s.resolver.FromPortableID(in.CalendarID)
	default:
		return
	}

	if next == nil {
		result.CalendarSkips++
		result.Errors = append(result.Errors,
			fmt.Sprintf("resource %q: calendar %q could not be resolved", res.Name, in.CalendarID))
		s.logger.Warn("resource calendar resolution failed",
			"resource", res.Name, "calendar_id", in.CalendarID)
		return
	}
	if err := calendar.ValidateReplacement(res.Calendar, next); err != nil {
		result.CalendarSkips++
		result.Errors = append(result.Errors,
			fmt.Sprintf("resource %q: unsafe calendar replacement: %v", res.Name, err))
		s.logger.Warn("unsafe resource calendar replacement",
			"resource", res.Name, "calendar", next.Name, "error", err)
		return
	}
	res.Calendar = next
}

// temporaryID extracts the client-issued temporary id: the explicit temp-id
// field when present, else the submitted id itself when it is non-numeric.
func temporaryID(in snapshot.ResourceInput) string {
	if in.TempID != "" {
		return in.TempID
	}
	if in.ID == "" {
		return ""
	}
	if _, err := strconv.ParseInt(in.ID, 10, 64); err == nil {
		return ""
	}
	return in.ID
}
