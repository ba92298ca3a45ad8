package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// SessionStore keeps one Controller per browser session
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Controller
	ttl      time.Duration
	factory  func(id string) *Controller
	now      func() time.Time
	log      *logrus.Logger
}

// NewSessionStore initializes a store whose sessions expire after ttl of inactivity
func NewSessionStore(ttl time.Duration, factory func(id string) *Controller, log *logrus.Logger) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Controller),
		ttl:      ttl,
		factory:  factory,
		now:      time.Now,
		log:      log,
	}
}

// Get returns the controller for id, creating it on first use, and marks the
// session as active. The touch happens under the store lock so a concurrent
// Sweep never drops a session that is being handed out.
func (s *SessionStore) Get(id string) *Controller {
	s.mu.RLock()
	c, ok := s.sessions[id]
	if ok {
		c.Touch()
		s.mu.RUnlock()
		return c
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok = s.sessions[id]
	if !ok {
		c = s.factory(id)
		s.sessions[id] = c
		s.log.WithField("session", id).Debug("Session created")
	}
	c.Touch()
	return c
}

// Len reports the number of live sessions
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep drops sessions idle for longer than the ttl and returns how many
func (s *SessionStore) Sweep() int {
	cutoff := s.now().Add(-s.ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, c := range s.sessions {
		if c.LastSeen().Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// StartSweeper runs Sweep on the given cron spec until the returned cron is stopped
func (s *SessionStore) StartSweeper(spec string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if n := s.Sweep(); n > 0 {
			s.log.Infof("Expired %d idle sessions, %d remaining", n, s.Len())
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid session sweep schedule %q: %w", spec, err)
	}
	c.Start()
	s.log.Infof("Session sweeper scheduled: %s", spec)
	return c, nil
}
