package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cuongbtq/jobreel/internal/api/domain"
)

// MemoryStore keeps drafts in process memory. Drafts are lost on restart.
type MemoryStore struct {
	mu     sync.RWMutex
	drafts map[string]*domain.Draft
	now    Clock
}

func NewMemoryStore(now Clock) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{drafts: make(map[string]*domain.Draft), now: now}
}

func (s *MemoryStore) Create(_ context.Context, d *domain.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.drafts[d.ID]; ok {
		return domain.ErrDraftExists
	}
	s.drafts[d.ID] = d.Clone()
	return nil
}

func (s *MemoryStore) Put(_ context.Context, d *domain.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.drafts[d.ID] = d.Clone()
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*domain.Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.drafts[id]
	if !ok || d.Expired(s.now()) {
		return nil, domain.ErrDraftNotFound
	}
	return d.Clone(), nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[id]
	if !ok || d.Expired(s.now()) {
		return domain.ErrDraftNotFound
	}
	delete(s.drafts, id)
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]*domain.Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	out := make([]*domain.Draft, 0, len(s.drafts))
	for _, d := range s.drafts {
		if d.Expired(now) {
			continue
		}
		out = append(out, d.Clone())
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *MemoryStore) Sweep(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, d := range s.drafts {
		if d.Expired(now) {
			delete(s.drafts, id)
			removed++
		}
	}
	return removed, nil
}

func sortNewestFirst(drafts []*domain.Draft) {
	sort.SliceStable(drafts, func(i, j int) bool {
		if drafts[i].CreatedAt.Equal(drafts[j].CreatedAt) {
			return drafts[i].ID > drafts[j].ID
		}
		return drafts[i].CreatedAt.After(drafts[j].CreatedAt)
	})
}
