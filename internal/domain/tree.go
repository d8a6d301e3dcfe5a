package domain

import (
	"errors"
	"time"
)

// ErrTaskNotInTree is returned by structural tree operations when a task
// cannot be located in the project's outline.
var ErrTaskNotInTree = errors.New("task not found in outline tree")

// RebuildChildIndex recomputes the cached parent -> children mapping from
// the live parent pointers. Structural move operations do not refresh this
// cache on their own; callers that reshape the tree must rebuild it before
// querying Children.
func (p *Project) RebuildChildIndex() {
	p.children = make(map[*Task][]*Task, len(p.Tasks))
	for _, t := range p.Tasks {
		if t.Parent != nil {
			p.children[t.Parent] = append(p.children[t.Parent], t)
		}
	}
}

// Children returns the cached children list for a task. The result reflects
// the tree as of the last RebuildChildIndex call.
func (p *Project) Children(t *Task) []*Task {
	return p.children[t]
}

func (p *Project) taskIndex(t *Task) int {
	for i, candidate := range p.Tasks {
		if candidate == t {
			return i
		}
	}
	return -1
}

// subtreeEnd returns the index one past the contiguous outline block rooted
// at Tasks[i]: every following task with a deeper outline level belongs to
// the subtree.
func (p *Project) subtreeEnd(i int) int {
	j := i + 1
	for j < len(p.Tasks) && p.Tasks[j].OutlineLevel > p.Tasks[i].OutlineLevel {
		j++
	}
	return j
}

// OutlineReindent moves child (with its whole subtree) so that it becomes a
// direct child of parent in the outline, adjusting nesting levels by the
// required delta. As a side effect it rolls summary dates and completion up
// the ancestor chain, which perturbs the schedule fields of the nodes
// involved; callers that need those fields preserved must snapshot and
// restore them around this call.
func (p *Project) OutlineReindent(child, parent *Task) error {
	if child == parent {
		return errors.New("task cannot be re-indented under itself")
	}
	ci := p.taskIndex(child)
	if ci < 0 {
		return ErrTaskNotInTree
	}
	pi := p.taskIndex(parent)
	if pi < 0 {
		return ErrTaskNotInTree
	}

	end := p.subtreeEnd(ci)
	if pi >= ci && pi < end {
		return errors.New("task cannot be re-indented under its own subtree")
	}

	block := make([]*Task, end-ci)
	copy(block, p.Tasks[ci:end])

	delta := parent.OutlineLevel + 1 - child.OutlineLevel
	for _, t := range block {
		t.OutlineLevel += delta
	}

	rest := append(p.Tasks[:ci:ci], p.Tasks[end:]...)
	pi = -1
	for i, t := range rest {
		if t == parent {
			pi = i
			break
		}
	}
	if pi < 0 {
		return ErrTaskNotInTree
	}
	insertAt := pi + 1
	for insertAt < len(rest) && rest[insertAt].OutlineLevel > parent.OutlineLevel {
		insertAt++
	}

	p.Tasks = append(rest[:insertAt:insertAt], append(block, rest[insertAt:]...)...)
	child.Parent = parent
	p.rollUpFrom(parent)
	return nil
}

// DetachToRoot moves child (with its subtree) to outline level zero at the
// end of the outline. Like OutlineReindent this rolls up summary fields on
// the former ancestor chain.
func (p *Project) DetachToRoot(child *Task) error {
	ci := p.taskIndex(child)
	if ci < 0 {
		return ErrTaskNotInTree
	}
	end := p.subtreeEnd(ci)
	block := make([]*Task, end-ci)
	copy(block, p.Tasks[ci:end])

	delta := -child.OutlineLevel
	for _, t := range block {
		t.OutlineLevel += delta
	}

	former := child.Parent
	p.Tasks = append(p.Tasks[:ci:ci], p.Tasks[end:]...)
	p.Tasks = append(p.Tasks, block...)
	child.Parent = nil
	if former != nil {
		p.rollUpFrom(former)
	}
	return nil
}

// rollUpFrom recomputes summary schedule fields for t and every ancestor
// above it from the current child index state. The index may be stale after
// a move, so it is rebuilt first.
func (p *Project) rollUpFrom(t *Task) {
	p.RebuildChildIndex()
	for n := t; n != nil; n = n.Parent {
		p.recalcSummaryFields(n)
	}
}

func (p *Project) recalcSummaryFields(t *Task) {
	kids := p.children[t]
	if len(kids) == 0 {
		return
	}
	var start, end time.Time
	var completion float64
	for _, k := range kids {
		if !k.Start.IsZero() && (start.IsZero() || k.Start.Before(start)) {
			start = k.Start
		}
		if k.End.After(end) {
			end = k.End
		}
		completion += k.Completion
	}
	if !start.IsZero() {
		t.Start = start
	}
	if !end.IsZero() {
		t.End = end
	}
	t.Completion = completion / float64(len(kids))
}
