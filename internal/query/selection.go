package query

import (
	"sort"

	"github.com/nightdriver/ndsmon/internal/rows"
)

// Selection is a set of row ids. Ids survive polls because row identity is
// stable; ids of rows that disappear simply never match again.
type Selection struct {
	ids map[string]struct{}
}

// NewSelection creates an empty selection.
func NewSelection() *Selection {
	return &Selection{ids: make(map[string]struct{})}
}

// Toggle flips the selection state of one row.
func (s *Selection) Toggle(id string) {
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return
	}
	s.ids[id] = struct{}{}
}

// Select adds ids to the selection.
func (s *Selection) Select(ids ...string) {
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
}

// SelectAll selects every visible row.
func (s *Selection) SelectAll(visible []rows.Row) {
	for i := range visible {
		s.ids[visible[i].ID] = struct{}{}
	}
}

// DeselectAll deselects every visible row; hidden selections are kept.
func (s *Selection) DeselectAll(visible []rows.Row) {
	for i := range visible {
		delete(s.ids, visible[i].ID)
	}
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.ids = make(map[string]struct{})
}

// IsSelected reports whether a row is selected.
func (s *Selection) IsSelected(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of selected ids, visible or not.
func (s *Selection) Len() int { return len(s.ids) }

// IDs returns the selected ids in sorted order.
func (s *Selection) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// IsAllSelected reports whether the visible view is non-empty and every
// visible row is selected.
func (s *Selection) IsAllSelected(visible []rows.Row) bool {
	if len(visible) == 0 {
		return false
	}
	for i := range visible {
		if !s.IsSelected(visible[i].ID) {
			return false
		}
	}
	return true
}

// IsAnySelected reports whether some, but not all, visible rows are selected.
func (s *Selection) IsAnySelected(visible []rows.Row) bool {
	for i := range visible {
		if s.IsSelected(visible[i].ID) {
			return !s.IsAllSelected(visible)
		}
	}
	return false
}

// ToggleAll selects every visible row unless they are all selected
// already, in which case it deselects them.
func (s *Selection) ToggleAll(visible []rows.Row) {
	if s.IsAllSelected(visible) {
		s.DeselectAll(visible)
		return
	}
	s.SelectAll(visible)
}

// Visible returns the selected rows among visible, in view order.
func (s *Selection) Visible(visible []rows.Row) []rows.Row {
	var out []rows.Row
	for i := range visible {
		if s.IsSelected(visible[i].ID) {
			out = append(out, visible[i])
		}
	}
	return out
}

// CanvasIDs maps the selected visible rows to their distinct canvas ids,
// in view order.
func (s *Selection) CanvasIDs(visible []rows.Row) []int {
	seen := make(map[int]bool)
	var out []int
	for i := range visible {
		r := &visible[i]
		if !s.IsSelected(r.ID) || seen[r.CanvasID] {
			continue
		}
		seen[r.CanvasID] = true
		out = append(out, r.CanvasID)
	}
	return out
}
