package service

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func newTestStore(ttl time.Duration) *SessionStore {
	log := quietLogger()
	return NewSessionStore(ttl, func(id string) *Controller {
		return NewController(id, &fakeSearcher{}, nil, log)
	}, log)
}

func TestSessionStoreGetReturnsSameController(t *testing.T) {
	s := newTestStore(time.Hour)
	a := s.Get("one")
	if b := s.Get("one"); a != b {
		t.Error("Get returned a different controller for the same session")
	}
	if c := s.Get("two"); a == c {
		t.Error("Get returned the same controller for different sessions")
	}
	if s.Len() != 2 {
		t.Errorf("Len: got %d, want 2", s.Len())
	}
}

func TestSessionStoreSweep(t *testing.T) {
	s := newTestStore(time.Hour)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	stale := s.Get("stale")
	stale.now = func() time.Time { return base.Add(-2 * time.Hour) }
	stale.Touch()
	fresh := s.Get("fresh")
	fresh.now = func() time.Time { return base.Add(-10 * time.Minute) }
	fresh.Touch()

	s.now = func() time.Time { return base }
	if n := s.Sweep(); n != 1 {
		t.Errorf("Sweep: got %d removed, want 1", n)
	}
	if s.Len() != 1 {
		t.Errorf("Len: got %d, want 1", s.Len())
	}
	if s.Get("fresh") != fresh {
		t.Error("fresh session was swept")
	}
}

func hasSession(s *SessionStore, id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[id]
	return ok
}

func TestSessionStoreGetSurvivesConcurrentSweep(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	log := quietLogger()
	// new controllers start out idle past the ttl until Get touches them
	s := NewSessionStore(time.Hour, func(id string) *Controller {
		c := NewController(id, &fakeSearcher{}, nil, log)
		c.now = func() time.Time { return base }
		c.lastSeen = base.Add(-2 * time.Hour)
		return c
	}, log)
	s.now = func() time.Time { return base }

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
				s.Sweep()
			}
		}
	}()

	for i := 0; i < 2000; i++ {
		id := fmt.Sprintf("session-%d", i)
		c := s.Get(id)
		if !hasSession(s, id) {
			t.Errorf("session %s was swept right after Get", id)
			break
		}
		if got := c.LastSeen(); !got.Equal(base) {
			t.Errorf("LastSeen for %s: got %v, want %v", id, got, base)
			break
		}
	}
	close(done)
	wg.Wait()

	if n := s.Len(); n != 2000 {
		t.Errorf("Len: got %d, want 2000", n)
	}
}

func TestSessionStoreStartSweeperRejectsBadSpec(t *testing.T) {
	s := newTestStore(time.Hour)
	if _, err := s.StartSweeper("not a schedule"); err == nil {
		t.Fatal("expected error for invalid cron spec")
	}
}

func TestSessionStoreStartSweeper(t *testing.T) {
	s := newTestStore(time.Hour)
	c, err := s.StartSweeper("@every 1h")
	if err != nil {
		t.Fatalf("StartSweeper: %v", err)
	}
	c.Stop()
}
