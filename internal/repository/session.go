package repository

import (
	"context"
	"os"
	"sync"

	"github.com/ilinovom/profile-match-bot/internal/model"
)

// SessionRepository keeps per-user discovery sessions.
type SessionRepository interface {
	// Get returns os.ErrNotExist when the user has no session.
	Get(ctx context.Context, userID int64) (*model.Session, error)
	Save(ctx context.Context, s *model.Session) error
}

// MemorySessionRepository keeps sessions for the lifetime of the process.
type MemorySessionRepository struct {
	mu   sync.Mutex
	data map[int64]*model.Session
}

func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{data: map[int64]*model.Session{}}
}

func (r *MemorySessionRepository) Get(ctx context.Context, userID int64) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.data[userID]; ok {
		return s.Clone(), nil
	}
	return nil, os.ErrNotExist
}

func (r *MemorySessionRepository) Save(ctx context.Context, s *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[s.UserID] = s.Clone()
	return nil
}
