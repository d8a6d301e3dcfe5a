package sync

// ResourceResult reports the outcome of the resource synchronization phase.
// IDMapping carries client-issued temporary resource ids to the durable ids
// the server assigned, rendered as decimal strings; the caller echoes it
// back to the client so it can rewrite its own local state.
type ResourceResult struct {
	Synced        int
	Skipped       int
	CalendarSkips int
	IDMapping     map[string]string
	Errors        []string
}

// TaskStats reports the wholesale task replacement phase.
type TaskStats struct {
	Created int
	Removed int
}

// HierarchyStats reports the tree reconstruction phase.
type HierarchyStats struct {
	Applied   int
	Warnings  int
	Fallbacks int
}

// DependencyStats tracks the set-difference dependency phase. The skip
// counters are independent so diagnostics can tell a missing predecessor
// from a duplicate edge from a rejected summary-subtask link.
type DependencyStats struct {
	Created            int
	Removed            int
	SkippedMissing     int
	SkippedExisting    int
	SkippedSummaryLink int
}

// AssignmentStats reports the assignment rebuild phase.
type AssignmentStats struct {
	Applied int
	Skipped int
}

// Result aggregates one full reconciliation call.
type Result struct {
	Success          bool
	RunID            string
	Resources        ResourceResult
	Tasks            TaskStats
	Hierarchy        HierarchyStats
	Dependencies     DependencyStats
	Assignments      AssignmentStats
	CalendarsKept    int
	CalendarsRemoved int
}
