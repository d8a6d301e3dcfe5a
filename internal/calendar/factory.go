package calendar

import (
	"log/slog"

	"github.com/alexanderramin/ganttsync/internal/domain"
)

// Factory creates or updates custom calendars from full settings payloads.
type Factory struct {
	reg    *Registry
	logger *slog.Logger
}

func NewFactory(reg *Registry, logger *slog.Logger) *Factory {
	return &Factory{reg: reg, logger: logger}
}

// CreateOrUpdate applies a settings payload. A calendar with the same name
// (derived set searched first, then base set) is updated in place rather
// than duplicated. New calendars are anchored to the system Standard
// calendar, given a fresh durable id, and registered in the derived set.
func (f *Factory) CreateOrUpdate(settings domain.CalendarSettings) *domain.Calendar {
	if settings.Name == "" {
		f.logger.Warn("ignoring calendar settings payload with empty name")
		return nil
	}

	if existing := f.reg.ByName(settings.Name); existing != nil {
		existing.WeekMask = settings.WeekMask
		existing.Hours = append([]domain.HourRange(nil), settings.Hours...)
		return existing
	}

	// The base must be resolved by the Standard discriminator; the kind-0
	// placeholder is an unset-base marker, not a usable base.
	std := f.reg.Standard()
	cal := &domain.Calendar{
		ID:       f.reg.NextID(),
		Name:     settings.Name,
		Kind:     domain.CalendarCustom,
		WeekMask: settings.WeekMask,
		Hours:    append([]domain.HourRange(nil), settings.Hours...),
	}
	assignBase(cal, std, f.logger)
	f.reg.RegisterDerived(cal)
	return cal
}
