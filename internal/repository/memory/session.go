package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/thanhng/foodchat/internal/domain"
)

// SessionStore owns every live chat session. All access goes through its
// methods under one mutex; Get returns deep copies so callers can never
// observe or cause concurrent mutation. Sessions live only for the
// lifetime of the process.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session

	idleThreshold time.Duration
	sweepInterval time.Duration

	started  bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewSessionStore creates a store. The sweeper is not running until
// StartSweeper is called.
func NewSessionStore(idleThreshold, sweepInterval time.Duration) *SessionStore {
	return &SessionStore{
		sessions:      make(map[string]*domain.Session),
		idleThreshold: idleThreshold,
		sweepInterval: sweepInterval,
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
	}
}

// Create inserts a fresh session and returns its id. LastActivity equals
// CreatedAt until the first activity.
func (s *SessionStore) Create(ingredients []string, recipe string) string {
	id := uuid.NewString()
	now := time.Now()

	owned := make([]string, len(ingredients))
	copy(owned, ingredients)

	s.mu.Lock()
	s.sessions[id] = &domain.Session{
		ID:           id,
		Ingredients:  owned,
		Recipe:       recipe,
		Messages:     []domain.ChatMessage{},
		CreatedAt:    now,
		LastActivity: now,
	}
	s.mu.Unlock()

	return id
}

// Get returns a snapshot of the session. It does not count as activity;
// callers mark activity explicitly with Touch.
func (s *SessionStore) Get(id string) (domain.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return domain.Session{}, false
	}
	return snapshot(session), true
}

// Touch updates the session's last activity to now. No-op if absent.
func (s *SessionStore) Touch(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session, ok := s.sessions[id]; ok {
		session.LastActivity = time.Now()
	}
}

// AppendMessage appends one exchange to the session's history. If the
// session no longer exists (it may have expired mid-request) the append
// is silently dropped.
func (s *SessionStore) AppendMessage(id, question, answer string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return
	}

	now := time.Now()
	session.Messages = append(session.Messages, domain.ChatMessage{
		Question:  question,
		Answer:    answer,
		Timestamp: now,
	})
	session.LastActivity = now
}

// Delete removes the session and reports whether it existed.
func (s *SessionStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	return true
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Stats summarizes the live session population.
func (s *SessionStore) Stats() domain.SessionStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := domain.SessionStats{ActiveSessions: len(s.sessions)}
	for _, session := range s.sessions {
		stats.TotalMessages += len(session.Messages)
	}
	return stats
}

// Sweep removes every session idle for longer than idleThreshold and
// returns how many were removed. The staleness check runs under the same
// lock as Touch and AppendMessage, so a session touched concurrently is
// never removed on a stale reading.
func (s *SessionStore) Sweep(now time.Time, idleThreshold time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, session := range s.sessions {
		if now.Sub(session.LastActivity) > idleThreshold {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// StartSweeper launches the periodic sweep goroutine.
func (s *SessionStore) StartSweeper() {
	s.started = true
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(s.sweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				if removed := s.Sweep(time.Now(), s.idleThreshold); removed > 0 {
					log.Info().
						Int("removed", removed).
						Int("active", s.Len()).
						Msg("swept idle chat sessions")
				}
			}
		}
	}()
}

// Stop halts the sweeper and waits for it to exit. Safe to call more
// than once, and before StartSweeper.
func (s *SessionStore) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
	if s.started {
		<-s.done
	}
}

func snapshot(session *domain.Session) domain.Session {
	out := *session
	out.Ingredients = make([]string, len(session.Ingredients))
	copy(out.Ingredients, session.Ingredients)
	out.Messages = make([]domain.ChatMessage, len(session.Messages))
	copy(out.Messages, session.Messages)
	return out
}
