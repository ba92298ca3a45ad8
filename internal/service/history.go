package service

import "github.com/Dan9191/pocket-property/internal/models"

// HistoryLog is an append-only list of completed searches.
// It is not safe for concurrent use; a Controller owns it under its lock.
type HistoryLog struct {
	entries []models.SearchHistoryEntry
}

// Append adds an entry to the end of the log
func (h *HistoryLog) Append(entry models.SearchHistoryEntry) {
	h.entries = append(h.entries, entry)
}

// Entries returns a copy of the log in insertion order
func (h *HistoryLog) Entries() []models.SearchHistoryEntry {
	out := make([]models.SearchHistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len reports the number of entries
func (h *HistoryLog) Len() int {
	return len(h.entries)
}
