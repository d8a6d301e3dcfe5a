package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/ganttsync/internal/domain"
	"github.com/alexanderramin/ganttsync/internal/testutil"
)

func TestCleaner_BaseDuplicates(t *testing.T) {
	reg, p := newTestRegistry(t)
	// A second Standard instance inherited from an older session.
	dup := &domain.Calendar{ID: reg.NextID(), Name: "Standard", Kind: domain.CalendarStandard}
	p.BaseCalendars = append(p.BaseCalendars, dup)

	cleaner := NewCleaner(reg, testutil.DiscardLogger())
	removed := cleaner.CleanDuplicates()

	assert.Equal(t, 1, removed)
	assert.NotContains(t, p.BaseCalendars, dup)
	assert.NotNil(t, reg.Standard(), "the first instance survives")
	assert.NotNil(t, reg.Placeholder())
}

func TestCleaner_PlaceholderNeverRemoved(t *testing.T) {
	reg, p := newTestRegistry(t)
	extra := &domain.Calendar{ID: reg.NextID(), Name: "Default", Kind: domain.CalendarPlaceholder}
	p.BaseCalendars = append(p.BaseCalendars, extra)

	removed := NewCleaner(reg, testutil.DiscardLogger()).CleanDuplicates()

	assert.Zero(t, removed)
	assert.Contains(t, p.BaseCalendars, extra)
}

func TestCleaner_DerivedDuplicatesByIDAndName(t *testing.T) {
	reg, _ := newTestRegistry(t)
	std := reg.Standard()
	keepByID := &domain.Calendar{ID: 100, Name: "Shift A", Kind: domain.CalendarCustom, Base: std}
	dupByID := &domain.Calendar{ID: 100, Name: "Shift A copy", Kind: domain.CalendarCustom, Base: std}
	keepByName := &domain.Calendar{ID: 0, Name: "Legacy Shift", Kind: domain.CalendarCustom, Base: std}
	dupByName := &domain.Calendar{ID: -3, Name: "legacy shift", Kind: domain.CalendarCustom, Base: std}
	for _, c := range []*domain.Calendar{keepByID, dupByID, keepByName, dupByName} {
		reg.RegisterDerived(c)
	}

	removed := NewCleaner(reg, testutil.DiscardLogger()).CleanDuplicates()

	assert.Equal(t, 2, removed)
	assert.Contains(t, reg.Derived(), keepByID)
	assert.Contains(t, reg.Derived(), keepByName)
	assert.NotContains(t, reg.Derived(), dupByID)
	assert.NotContains(t, reg.Derived(), dupByName)
}

func TestCleaner_CyclicBaseChainRemoved(t *testing.T) {
	reg, _ := newTestRegistry(t)
	a := &domain.Calendar{ID: 201, Name: "A", Kind: domain.CalendarCustom}
	b := &domain.Calendar{ID: 202, Name: "B", Kind: domain.CalendarCustom}
	a.Base, b.Base = b, a
	reg.RegisterDerived(a)
	reg.RegisterDerived(b)

	removed := NewCleaner(reg, testutil.DiscardLogger()).CleanDuplicates()

	assert.Equal(t, 2, removed)
	assert.Empty(t, reg.Derived())
}

func TestCleaner_DryRunCountsMatchLiveRun(t *testing.T) {
	build := func() (*Registry, *domain.Project) {
		reg, p := newTestRegistry(t)
		std := reg.Standard()
		p.BaseCalendars = append(p.BaseCalendars,
			&domain.Calendar{ID: reg.NextID(), Name: "standard ", Kind: domain.CalendarStandard})
		reg.RegisterDerived(&domain.Calendar{ID: 300, Name: "X", Kind: domain.CalendarCustom, Base: std})
		reg.RegisterDerived(&domain.Calendar{ID: 300, Name: "X copy", Kind: domain.CalendarCustom, Base: std})
		loop := &domain.Calendar{ID: 301, Name: "Loop", Kind: domain.CalendarCustom}
		loop.Base = loop
		reg.RegisterDerived(loop)
		return reg, p
	}

	dryReg, dryProject := build()
	dry := NewCleaner(dryReg, testutil.DiscardLogger())
	dry.DryRun = true
	dryCount := dry.CleanDuplicates()

	liveReg, _ := build()
	liveCount := NewCleaner(liveReg, testutil.DiscardLogger()).CleanDuplicates()

	assert.Equal(t, liveCount, dryCount)
	assert.Equal(t, 3, liveCount)
	assert.Len(t, dryReg.Derived(), 3, "dry run must not mutate")
	assert.Len(t, dryProject.BaseCalendars, 5)
	assert.Len(t, liveReg.Derived(), 1)
}

func TestCleaner_RepairBases(t *testing.T) {
	reg, _ := newTestRegistry(t)
	placeholder := reg.Placeholder()
	require.NotNil(t, placeholder)
	broken := &domain.Calendar{ID: 400, Name: "Needs Repair", Kind: domain.CalendarCustom, Base: placeholder}
	healthy := &domain.Calendar{ID: 401, Name: "Fine", Kind: domain.CalendarCustom, Base: reg.Standard()}
	reg.RegisterDerived(broken)
	reg.RegisterDerived(healthy)

	repaired := NewCleaner(reg, testutil.DiscardLogger()).RepairBases()

	assert.Equal(t, 1, repaired)
	assert.Same(t, reg.Standard(), broken.Base)
	assert.Same(t, reg.Standard(), healthy.Base)
}

func TestSafeForUse(t *testing.T) {
	std := &domain.Calendar{ID: 1, Name: "Standard", Kind: domain.CalendarStandard}
	ok := &domain.Calendar{ID: 2, Name: "Derived", Kind: domain.CalendarCustom, Base: std}
	assert.True(t, SafeForUse(ok))
	assert.False(t, SafeForUse(nil))

	self := &domain.Calendar{ID: 3, Name: "Self", Kind: domain.CalendarCustom}
	self.Base = self
	assert.False(t, SafeForUse(self))

	// Distinct nodes reusing a durable id up the chain.
	first := &domain.Calendar{ID: 9, Name: "First", Kind: domain.CalendarCustom}
	second := &domain.Calendar{ID: 9, Name: "Second", Kind: domain.CalendarCustom, Base: first}
	assert.False(t, SafeForUse(second))
}

func TestValidateReplacement(t *testing.T) {
	std := &domain.Calendar{ID: 1, Name: "Standard", Kind: domain.CalendarStandard}
	placeholder := &domain.Calendar{ID: 2, Name: "Default", Kind: domain.CalendarPlaceholder}

	assert.NoError(t, ValidateReplacement(nil, std))
	assert.Error(t, ValidateReplacement(std, nil))
	assert.Error(t, ValidateReplacement(std, placeholder))

	loop := &domain.Calendar{ID: 3, Name: "Loop", Kind: domain.CalendarCustom}
	loop.Base = loop
	err := ValidateReplacement(std, loop)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Standard",
		"rejection names the calendar being replaced")
	assert.Contains(t, err.Error(), "Loop")
}
