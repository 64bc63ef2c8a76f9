package blocking

import "strings"

// HideList is a case-insensitive set of feature ids.
type HideList struct {
	ids map[string]struct{}
}

// NewHideList merges ids into one set. Blank ids are ignored.
func NewHideList(ids ...string) *HideList {
	h := &HideList{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		h.Add(id)
	}
	return h
}

// Add inserts id.
func (h *HideList) Add(id string) {
	id = strings.ToLower(strings.TrimSpace(id))
	if id != "" {
		h.ids[id] = struct{}{}
	}
}

// Contains reports whether id is hidden, ignoring case.
func (h *HideList) Contains(id string) bool {
	if h == nil {
		return false
	}
	_, ok := h.ids[strings.ToLower(strings.TrimSpace(id))]
	return ok
}

// Len returns the number of distinct ids. A nil list is empty.
func (h *HideList) Len() int {
	if h == nil {
		return 0
	}
	return len(h.ids)
}
