package service

import (
	"context"

	"github.com/Dan9191/pocket-property/internal/config"
	"github.com/Dan9191/pocket-property/internal/models"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Service handles business logic
type Service struct {
	sessions *SessionStore
	log      *logrus.Logger
	config   *config.Config
}

// NewService initializes a new service. archive may be nil when search
// history is not exported.
func NewService(searcher Searcher, archive HistoryArchiver, log *logrus.Logger, cfg *config.Config) *Service {
	factory := func(id string) *Controller {
		return NewController(id, searcher, archive, log)
	}
	return &Service{
		sessions: NewSessionStore(cfg.SessionTTL, factory, log),
		log:      log,
		config:   cfg,
	}
}

// Search runs a search in the given session
func (s *Service) Search(ctx context.Context, sessionID, term string) Snapshot {
	return s.sessions.Get(sessionID).Search(ctx, term)
}

// SelectStreet changes the street filter of the given session
func (s *Service) SelectStreet(sessionID, street string) Snapshot {
	return s.sessions.Get(sessionID).SelectStreet(street)
}

// State returns the current search state of the given session
func (s *Service) State(sessionID string) Snapshot {
	return s.sessions.Get(sessionID).Snapshot()
}

// History returns the completed searches of the given session
func (s *Service) History(sessionID string) []models.SearchHistoryEntry {
	return s.sessions.Get(sessionID).History()
}

// MortgageQuote amortizes the calculator inputs
func (s *Service) MortgageQuote(in models.MortgageInputs) (*models.MortgageQuote, error) {
	quote, err := Quote(in)
	if err != nil {
		s.log.Debugf("Rejected mortgage inputs %+v: %v", in, err)
		return nil, err
	}
	return quote, nil
}

// StartSessionSweeper schedules expiry of idle sessions
func (s *Service) StartSessionSweeper() (*cron.Cron, error) {
	return s.sessions.StartSweeper(s.config.SessionSweep)
}
