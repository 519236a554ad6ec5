package surface

// History is the linear undo/redo log. Committing new work discards the redo
// stack.
//
// With a limit, the oldest committed actions beyond it are moved to a baked
// list: they stay on the raster but can no longer be undone.
type History struct {
	baked     []Action
	committed []Action
	undone    []Action
	limit     int
}

// NewHistory returns an empty log. A limit <= 0 keeps every action undoable.
func NewHistory(limit int) *History {
	if limit < 0 {
		limit = 0
	}
	return &History{limit: limit}
}

// Commit appends a and clears the redo stack.
func (h *History) Commit(a Action) {
	if a == nil {
		return
	}
	h.committed = append(h.committed, a)
	clearActions(h.undone)
	h.undone = h.undone[:0]
	if h.limit > 0 && len(h.committed) > h.limit {
		h.baked = append(h.baked, h.committed[0])
		h.committed[0] = nil
		h.committed = h.committed[1:]
	}
}

// Undo moves the last committed action to the redo stack. It reports whether
// anything moved, in which case the raster must be recomposed.
func (h *History) Undo() bool {
	a, ok := pop(&h.committed)
	if !ok {
		return false
	}
	h.undone = append(h.undone, a)
	return true
}

// Redo moves the last undone action back to the committed log.
func (h *History) Redo() bool {
	a, ok := pop(&h.undone)
	if !ok {
		return false
	}
	h.committed = append(h.committed, a)
	return true
}

// Clear empties the log, baked actions included.
func (h *History) Clear() {
	clearActions(h.baked)
	clearActions(h.committed)
	clearActions(h.undone)
	h.baked = h.baked[:0]
	h.committed = h.committed[:0]
	h.undone = h.undone[:0]
}

// CanUndo reports whether Undo would do anything.
func (h *History) CanUndo() bool { return len(h.committed) > 0 }

// CanRedo reports whether Redo would do anything.
func (h *History) CanRedo() bool { return len(h.undone) > 0 }

// Len returns the number of committed and undone actions.
func (h *History) Len() (committed, undone int) { return len(h.committed), len(h.undone) }

// Committed returns a copy of the undoable actions in commit order.
func (h *History) Committed() []Action { return cloneActions(h.committed) }

// Undone returns a copy of the redo stack, most recently undone last.
func (h *History) Undone() []Action { return cloneActions(h.undone) }

// Drawn returns every action that is on the raster, in paint order.
func (h *History) Drawn() []Action {
	out := make([]Action, 0, len(h.baked)+len(h.committed))
	out = append(out, h.baked...)
	return append(out, h.committed...)
}

func pop(s *[]Action) (Action, bool) {
	n := len(*s)
	if n == 0 {
		return nil, false
	}
	a := (*s)[n-1]
	(*s)[n-1] = nil
	*s = (*s)[:n-1]
	return a, true
}

func clearActions(s []Action) {
	for i := range s {
		s[i] = nil
	}
}

func cloneActions(s []Action) []Action {
	out := make([]Action, len(s))
	copy(out, s)
	return out
}
