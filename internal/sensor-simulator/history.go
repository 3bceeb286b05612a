package sensor_simulator

import (
	"sync"

	"github.com/LeonardoBeccarini/aquastep/internal/model"
)

// DefaultHistoryLimit is the number of readings kept for charts and tables.
const DefaultHistoryLimit = 50

// HistoryReader is the read-only view handed to consumers of the history.
type HistoryReader interface {
	Snapshot() []model.Reading
	Recent(n int) []model.Reading
	Chronological(n int) []model.Reading
	Latest() (model.Reading, bool)
	Find(id string) (model.Reading, bool)
	Len() int
	Limit() int
}

// History is a bounded, newest-first window of readings.
type History struct {
	mu    sync.RWMutex
	limit int
	items []model.Reading
}

func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{limit: limit, items: make([]model.Reading, 0, limit)}
}

// Append prepends r and drops the oldest entries beyond the limit.
func (h *History) Append(r model.Reading) {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := len(h.items) + 1
	if n > h.limit {
		n = h.limit
	}
	next := make([]model.Reading, n)
	next[0] = r
	copy(next[1:], h.items)
	h.items = next
}

// Snapshot returns a copy of the whole window, newest first.
func (h *History) Snapshot() []model.Reading {
	return h.Recent(h.limit)
}

// Recent returns up to n readings, newest first.
func (h *History) Recent(n int) []model.Reading {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if n <= 0 || n > len(h.items) {
		n = len(h.items)
	}
	out := make([]model.Reading, n)
	copy(out, h.items[:n])
	return out
}

// Chronological returns up to n of the newest readings ordered oldest first (chart order).
func (h *History) Chronological(n int) []model.Reading {
	out := h.Recent(n)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func (h *History) Latest() (model.Reading, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.items) == 0 {
		return model.Reading{}, false
	}
	return h.items[0], true
}

// Find looks a reading up by id while it is still inside the window.
func (h *History) Find(id string) (model.Reading, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, r := range h.items {
		if r.ID == id {
			return r, true
		}
	}
	return model.Reading{}, false
}

func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.items)
}

func (h *History) Limit() int { return h.limit }

var _ HistoryReader = (*History)(nil)
