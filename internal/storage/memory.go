// Package storage provides reading store implementations.
package storage

import (
	"context"
	"sync"
	"time"

	"github.com/hammamikhairi/vitalsvoice/internal/domain"
	"github.com/hammamikhairi/vitalsvoice/internal/logger"
)

// Compile-time interface check.
var _ domain.ReadingStore = (*MemoryStore)(nil)

// DefaultPerPage is the history page size when none is given.
const DefaultPerPage = 10

// MemoryStore holds the current reading batch in memory. Safe for
// concurrent access. Replace swaps the whole batch.
type MemoryStore struct {
	mu        sync.RWMutex
	readings  []domain.Reading // newest first
	byID      map[string]int
	updatedAt time.Time
	log       *logger.Logger
}

// NewMemoryStore creates an empty in-memory reading store.
func NewMemoryStore(log *logger.Logger) *MemoryStore {
	return &MemoryStore{
		byID: make(map[string]int),
		log:  log,
	}
}

// Replace stores readings as the current batch, discarding the previous one.
func (s *MemoryStore) Replace(ctx context.Context, readings []domain.Reading) error {
	cp := append([]domain.Reading(nil), readings...)
	byID := make(map[string]int, len(cp))
	for i, r := range cp {
		if r.ID != "" {
			if _, dup := byID[r.ID]; !dup {
				byID[r.ID] = i
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.readings = cp
	s.byID = byID
	s.updatedAt = time.Now()
	s.log.Debug("stored %d readings", len(cp))
	return nil
}

// Latest returns the newest reading.
func (s *MemoryStore) Latest(ctx context.Context) (domain.Reading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.readings) == 0 {
		return domain.Reading{}, domain.ErrNoReadings
	}
	return s.readings[0], nil
}

// Get returns a reading by ID.
func (s *MemoryStore) Get(ctx context.Context, id string) (domain.Reading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.byID[id]
	if !ok {
		s.log.Debug("reading not found: %s", id)
		return domain.Reading{}, domain.ErrNotFound
	}
	return s.readings[i], nil
}

// All returns a copy of every stored reading, newest first.
func (s *MemoryStore) All(ctx context.Context) ([]domain.Reading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]domain.Reading(nil), s.readings...), nil
}

// Page returns one page of the history. perPage <= 0 uses DefaultPerPage;
// page is clamped into [1, TotalPages]. An empty store yields one empty page.
func (s *MemoryStore) Page(ctx context.Context, page, perPage int) (domain.ReadingPage, error) {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	total := len(s.readings)
	totalPages := (total + perPage - 1) / perPage
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * perPage
	end := start + perPage
	if end > total {
		end = total
	}

	return domain.ReadingPage{
		Readings:   append([]domain.Reading{}, s.readings[start:end]...),
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
		Total:      total,
	}, nil
}

// UpdatedAt returns when the current batch was stored. Zero if never.
func (s *MemoryStore) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}
