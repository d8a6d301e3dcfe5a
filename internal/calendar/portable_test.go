package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/ganttsync/internal/domain"
	"github.com/alexanderramin/ganttsync/internal/testutil"
)

func newTestRegistry(t *testing.T) (*Registry, *domain.Project) {
	t.Helper()
	p := testutil.NewTestProject("TEST01")
	return NewRegistry(p, testutil.DiscardLogger()), p
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "night_shift_b", SanitizeName("Night Shift (B)"))
	assert.Equal(t, "crew-2_rotation", SanitizeName("  Crew-2   Rotation!  "))
	assert.Equal(t, "", SanitizeName("***"))
}

func TestToPortableID_SystemCalendars(t *testing.T) {
	reg, _ := newTestRegistry(t)

	for kind, want := range map[domain.CalendarKind]string{
		domain.CalendarStandard:        PortableStandard,
		domain.CalendarTwentyFourSeven: PortableTwentyFourSeven,
		domain.CalendarNightShift:      PortableNightShift,
	} {
		id, ok := ToPortableID(reg.BySystemKind(kind))
		require.True(t, ok)
		assert.Equal(t, want, id)
	}

	_, ok := ToPortableID(reg.Placeholder())
	assert.False(t, ok, "placeholder has no portable shape")
	_, ok = ToPortableID(nil)
	assert.False(t, ok)
}

func TestPortableID_CustomRoundTrip(t *testing.T) {
	reg, _ := newTestRegistry(t)
	logger := testutil.DiscardLogger()
	factory := NewFactory(reg, logger)
	resolver := NewResolver(reg, factory, logger)

	cal := factory.CreateOrUpdate(domain.CalendarSettings{
		Name:     "Crew Rotation",
		WeekMask: [7]bool{true, true, true, true, false, false, false},
		Hours:    []domain.HourRange{{StartMin: 6 * 60, EndMin: 14 * 60}},
	})
	require.NotNil(t, cal)

	id, ok := ToPortableID(cal)
	require.True(t, ok)
	assert.Contains(t, id, "crew_rotation")
	assert.Same(t, cal, resolver.FromPortableID(id))
}

func TestPortableID_LegacyDeterministic(t *testing.T) {
	reg, _ := newTestRegistry(t)
	legacy := &domain.Calendar{ID: 0, Name: "Old Plant Shift", Kind: domain.CalendarCustom}
	reg.RegisterDerived(legacy)

	id1, ok := ToPortableID(legacy)
	require.True(t, ok)
	id2, _ := ToPortableID(legacy)
	assert.Equal(t, id1, id2, "legacy id must be stable across encodings")
	assert.Contains(t, id1, "custom_legacy_")

	resolver := NewResolver(reg, nil, testutil.DiscardLogger())
	assert.Same(t, legacy, resolver.FromPortableID(id1))
}

func TestFromPortableID_DeprecatedShapes(t *testing.T) {
	reg, _ := newTestRegistry(t)
	logger := testutil.DiscardLogger()
	cal := &domain.Calendar{ID: 42, Name: "Weekend Works", Kind: domain.CalendarCustom, Base: reg.Standard()}
	reg.RegisterDerived(cal)
	resolver := NewResolver(reg, NewFactory(reg, logger), logger)

	assert.Same(t, cal, resolver.FromPortableID("CAL-42"), "numeric suffix resolves by durable id")
	assert.Same(t, cal, resolver.FromPortableID("CAL-weekend works"), "other suffixes resolve by name")

	before := len(reg.Derived())
	assert.Nil(t, resolver.FromPortableID("CAL-no such calendar"))
	assert.Len(t, reg.Derived(), before, "deprecated shape never creates calendars")
}

func TestFromPortableID_CustomFallsBackToNameThenCreation(t *testing.T) {
	reg, _ := newTestRegistry(t)
	logger := testutil.DiscardLogger()
	factory := NewFactory(reg, logger)
	resolver := NewResolver(reg, factory, logger)

	cal := factory.CreateOrUpdate(domain.CalendarSettings{Name: "Foundry"})
	require.NotNil(t, cal)

	// Stale durable id from another session, matching sanitized name.
	assert.Same(t, cal, resolver.FromPortableID("custom_999999_foundry"))

	// Nothing matches: the resolver creates on demand.
	before := len(reg.Derived())
	created := resolver.FromPortableID("custom_999999_paintshop")
	require.NotNil(t, created)
	assert.Equal(t, "paintshop", created.Name)
	assert.Len(t, reg.Derived(), before+1)
	assert.True(t, created.HasDurableID())
}

func TestFromPortableID_RejectsUnsafeAndUnknown(t *testing.T) {
	reg, _ := newTestRegistry(t)
	cycle := &domain.Calendar{ID: 7, Name: "Loop", Kind: domain.CalendarCustom}
	cycle.Base = cycle
	reg.RegisterDerived(cycle)
	resolver := NewResolver(reg, nil, testutil.DiscardLogger())

	assert.Nil(t, resolver.FromPortableID("custom_7_loop"), "self-referential base chain is unusable")
	assert.Nil(t, resolver.FromPortableID("no-such-shape"))
	assert.Nil(t, resolver.FromPortableID(""))
	assert.Nil(t, resolver.FromPortableID("   "))
}
