package models

import "time"

// SearchHistoryEntry represents one completed search in a session's history.
// AveragePrice is already formatted for display (e.g. "S$310,000").
type SearchHistoryEntry struct {
	SearchTerm   string    `json:"Search Term"`
	ResultsFound string    `json:"Results Found"`
	AveragePrice string    `json:"Average Price"`
	SearchedAt   time.Time `json:"searched_at"`
}
