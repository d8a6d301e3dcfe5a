package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/alexanderramin/ganttsync/internal/domain"
	"github.com/alexanderramin/ganttsync/internal/testutil"
)

func TestNewRegistry_SeedsAllocatorAboveExistingIDs(t *testing.T) {
	p := testutil.NewTestProject("REG01")
	high := time.Now().Add(365 * 24 * time.Hour).UnixMilli()
	p.Resources = append(p.Resources, &domain.Resource{ID: high, Name: "Crew"})
	p.Tasks = append(p.Tasks, &domain.Task{ID: high + 3, Name: "Pour"})

	reg := NewRegistry(p, testutil.DiscardLogger())

	assert.Greater(t, reg.NextID(), high+3,
		"a fresh registry must not re-issue ids the aggregate already holds")
}

func TestNewRegistry_DoesNotReissueIDsAcrossRebuilds(t *testing.T) {
	p := testutil.NewTestProject("REG02")
	first := NewRegistry(p, testutil.DiscardLogger())

	// A large batch walks the allocator well past the wall clock; the
	// resource survives into the next sync call's registry.
	var last int64
	for i := 0; i < 5; i++ {
		last = first.NextID()
	}
	p.Resources = append(p.Resources, &domain.Resource{ID: last + 500_000, Name: "Worker"})

	second := NewRegistry(p, testutil.DiscardLogger())
	assert.Greater(t, second.NextID(), last+500_000)
}
