package console

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
)

// Session is the server-side record behind a console cookie.
type Session struct {
	ID        string    `bson:"_id"`
	Username  string    `bson:"username"`
	Sealed    []byte    `bson:"sealed"`
	CreatedAt time.Time `bson:"created_at"`
	ExpiresAt time.Time `bson:"expires_at"`
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

type SessionRepo interface {
	Save(ctx context.Context, session *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

// MemorySessionRepo keeps sessions in process memory.
type MemorySessionRepo struct {
	sessions map[string]*Session
	mu       sync.RWMutex
	now      func() time.Time
}

func NewMemorySessionRepo() *MemorySessionRepo {
	return &MemorySessionRepo{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

func (s *MemorySessionRepo) Save(ctx context.Context, session *Session) error {
	if session == nil {
		return errors.New("session is nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *session
	s.sessions[session.ID] = &copied
	return nil
}

func (s *MemorySessionRepo) Get(ctx context.Context, id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if session.Expired(s.now()) {
		return nil, ErrSessionExpired
	}

	copied := *session
	return &copied, nil
}

func (s *MemorySessionRepo) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

// CleanupExpired drops expired sessions and reports how many were removed.
func (s *MemorySessionRepo) CleanupExpired() int {
	now := s.now()
	count := 0

	s.mu.Lock()
	for id, session := range s.sessions {
		if session.Expired(now) {
			delete(s.sessions, id)
			count++
		}
	}
	s.mu.Unlock()

	return count
}

// StartCleanup runs CleanupExpired every interval until ctx is done.
func (s *MemorySessionRepo) StartCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.CleanupExpired()
			}
		}
	}()
}
