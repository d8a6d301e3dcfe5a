package domain

import "time"

// Task is a node in the project's n-ary work breakdown tree. Tasks are owned
// exclusively by the project and replaced wholesale on each sync; only tasks
// flagged External survive a resync.
type Task struct {
	ID           int64
	ClientID     string // client-issued business id, e.g. "T1"
	Name         string
	Start        time.Time
	End          time.Time
	Completion   float64 // 0..1
	Milestone    bool
	Summary      bool
	Notes        string
	Color        string
	External     bool
	OutlineLevel int
	Parent       *Task
	Calendar     *Calendar
	Assignments  []Assignment
	Predecessors []*Dependency // incoming edges, this task is the successor
	Successors   []*Dependency // outgoing edges, this task is the predecessor
}

// IsAncestorOf walks other's parent chain looking for t.
func (t *Task) IsAncestorOf(other *Task) bool {
	for p := other.Parent; p != nil; p = p.Parent {
		if p == t {
			return true
		}
	}
	return false
}

// Dependency is a directed finish-to-start edge predecessor -> successor,
// owned jointly by both endpoint tasks. Lag is always zero for sync-created
// edges.
type Dependency struct {
	Predecessor *Task
	Successor   *Task
	LagMinutes  int
	Source      DependencySource
}
