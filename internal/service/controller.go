package service

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Dan9191/pocket-property/internal/models"
	"github.com/Dan9191/pocket-property/internal/utils"
	"github.com/sirupsen/logrus"
)

// SearchState is the position of a session in the search flow
type SearchState int

const (
	StateIdle SearchState = iota
	StateSearching
	StateShowingResults
)

func (s SearchState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSearching:
		return "searching"
	case StateShowingResults:
		return "showingResults"
	default:
		return "unknown"
	}
}

// MarshalText renders the state by name in JSON
func (s SearchState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Searcher looks up resale listings for a free-text term
type Searcher interface {
	Search(ctx context.Context, term string) ([]models.ResaleListing, error)
}

// HistoryArchiver receives every history entry once it is recorded
type HistoryArchiver interface {
	ArchiveSearch(ctx context.Context, sessionID string, entry models.SearchHistoryEntry) error
}

// Snapshot is a copy of a session's state for rendering
type Snapshot struct {
	State          SearchState                 `json:"state"`
	SearchTerm     string                      `json:"search_term"`
	PendingTerm    string                      `json:"pending_term,omitempty"`
	Results        []models.ResaleListing      `json:"results"`
	Filtered       []models.ResaleListing      `json:"filtered"`
	StreetNames    []string                    `json:"street_names"`
	SelectedStreet string                      `json:"selected_street"`
	AveragePrice   float64                     `json:"average_price"`
	History        []models.SearchHistoryEntry `json:"history"`
}

// FormattedAverage is AveragePrice as displayed, e.g. "S$310,000"
func (s Snapshot) FormattedAverage() string {
	return utils.FormatSGD(s.AveragePrice)
}

// Controller owns the search state of one session.
// Searches are numbered; a response is applied only if no newer search or
// reset was issued while it was in flight.
type Controller struct {
	mu        sync.Mutex
	sessionID string
	searcher  Searcher
	archive   HistoryArchiver
	log       *logrus.Logger
	now       func() time.Time

	state          SearchState
	term           string
	pending        string
	results        []models.ResaleListing
	selectedStreet string
	averagePrice   float64
	history        HistoryLog
	seq            uint64
	lastSeen       time.Time
}

// NewController initializes the state of a new session. archive may be nil.
func NewController(sessionID string, searcher Searcher, archive HistoryArchiver, log *logrus.Logger) *Controller {
	c := &Controller{
		sessionID: sessionID,
		searcher:  searcher,
		archive:   archive,
		log:       log,
		now:       time.Now,
		results:   []models.ResaleListing{},
	}
	c.lastSeen = c.now()
	return c
}

// Search runs a search for term and returns the resulting state.
// The displayed term only changes together with the results it produced.
// A blank term resets the session to idle without contacting the backend.
// Backend failures leave the previous results in place and are only logged.
func (c *Controller) Search(ctx context.Context, term string) Snapshot {
	if strings.TrimSpace(term) == "" {
		return c.Reset()
	}

	c.mu.Lock()
	c.seq++
	ticket := c.seq
	c.pending = term
	c.state = StateSearching
	c.mu.Unlock()

	listings, err := c.searcher.Search(ctx, term)

	c.mu.Lock()
	if ticket != c.seq {
		c.mu.Unlock()
		c.log.WithFields(logrus.Fields{
			"session": c.sessionID,
			"term":    term,
		}).Debug("Discarding stale search response")
		return c.Snapshot()
	}
	c.pending = ""
	if err != nil {
		c.settleAfterFailure()
		c.mu.Unlock()
		c.log.WithFields(logrus.Fields{
			"session": c.sessionID,
			"term":    term,
		}).Errorf("Error fetching search results: %v", err)
		return c.Snapshot()
	}

	c.term = term
	c.results = listings
	c.selectedStreet = ""
	c.averagePrice = AveragePrice(listings, "")
	c.state = StateShowingResults
	entry := models.SearchHistoryEntry{
		SearchTerm:   term,
		ResultsFound: strconv.Itoa(len(listings)),
		AveragePrice: utils.FormatSGD(c.averagePrice),
		SearchedAt:   c.now(),
	}
	c.history.Append(entry)
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.archiveEntry(ctx, entry)
	return snap
}

// Reset clears results, filter and average and returns to idle.
// Any search still in flight is discarded when it completes.
func (c *Controller) Reset() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	c.term = ""
	c.pending = ""
	c.results = []models.ResaleListing{}
	c.selectedStreet = ""
	c.averagePrice = 0
	c.state = StateIdle
	return c.snapshotLocked()
}

// SelectStreet narrows the average to one street of the current results.
// An empty street clears the filter. History is not touched.
func (c *Controller) SelectStreet(street string) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selectedStreet = street
	c.averagePrice = AveragePrice(c.results, street)
	return c.snapshotLocked()
}

// Snapshot returns a copy of the current state
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// History returns the completed searches of this session
func (c *Controller) History() []models.SearchHistoryEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.Entries()
}

// Touch records activity on the session
func (c *Controller) Touch() {
	c.mu.Lock()
	c.lastSeen = c.now()
	c.mu.Unlock()
}

// LastSeen reports the time of the last recorded activity
func (c *Controller) LastSeen() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSeen
}

func (c *Controller) settleAfterFailure() {
	if len(c.results) > 0 {
		c.state = StateShowingResults
	} else {
		c.state = StateIdle
	}
}

func (c *Controller) snapshotLocked() Snapshot {
	results := make([]models.ResaleListing, len(c.results))
	copy(results, c.results)
	return Snapshot{
		State:          c.state,
		SearchTerm:     c.term,
		PendingTerm:    c.pending,
		Results:        results,
		Filtered:       FilterByStreet(results, c.selectedStreet),
		StreetNames:    StreetNames(results),
		SelectedStreet: c.selectedStreet,
		AveragePrice:   c.averagePrice,
		History:        c.history.Entries(),
	}
}

func (c *Controller) archiveEntry(ctx context.Context, entry models.SearchHistoryEntry) {
	if c.archive == nil {
		return
	}
	if err := c.archive.ArchiveSearch(ctx, c.sessionID, entry); err != nil {
		c.log.WithField("session", c.sessionID).Warnf("Failed to archive search %q: %v", entry.SearchTerm, err)
	}
}
