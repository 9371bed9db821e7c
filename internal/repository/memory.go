package repository

import (
	"context"
	"sync"
	"time"

	"prokat/internal/models"
)

type MemoryStateRepository struct {
	mu         sync.Mutex
	sessions   map[int64]sessionEntry
	rateLimits map[int64]*rateLimitEntry
	ttl        time.Duration
}

type sessionEntry struct {
	session   models.Session
	expiresAt time.Time
}

type rateLimitEntry struct {
	count     int
	expiresAt time.Time
}

func NewMemoryStateRepository(ttl time.Duration) *MemoryStateRepository {
	return &MemoryStateRepository{
		sessions:   make(map[int64]sessionEntry),
		rateLimits: make(map[int64]*rateLimitEntry),
		ttl:        ttl,
	}
}

func (r *MemoryStateRepository) GetSession(_ context.Context, userID int64) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.sessions[userID]
	if !ok {
		return nil, nil
	}
	if r.ttl > 0 && time.Now().After(entry.expiresAt) {
		delete(r.sessions, userID)
		return nil, nil
	}
	return cloneSession(&entry.session), nil
}

func (r *MemoryStateRepository) SetSession(_ context.Context, session *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[session.UserID] = sessionEntry{
		session:   *cloneSession(session),
		expiresAt: time.Now().Add(r.ttl),
	}
	return nil
}

func (r *MemoryStateRepository) ClearSession(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, userID)
	return nil
}

func (r *MemoryStateRepository) CheckRateLimit(_ context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	entry, ok := r.rateLimits[userID]
	if !ok || now.After(entry.expiresAt) {
		entry = &rateLimitEntry{expiresAt: now.Add(window)}
		r.rateLimits[userID] = entry
	}
	entry.count++

	return entry.count <= limit, nil
}

// cloneSession копирует сессию вместе с вложенными шагами,
// чтобы вызывающий код не менял хранимое значение.
func cloneSession(s *models.Session) *models.Session {
	c := *s
	if s.Rental != nil {
		rental := *s.Rental
		c.Rental = &rental
	}
	if s.Inventory != nil {
		inv := *s.Inventory
		c.Inventory = &inv
	}
	return &c
}
