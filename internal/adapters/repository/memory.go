package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/okian/sharpscore/internal/domain/fingerprint"
)

// MemoryStore keeps records in process. It is safe for concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	byUser map[string][]fingerprint.Record
	closed bool
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byUser: make(map[string][]fingerprint.Record)}
}

// FindByUser implements RecordStore.
func (s *MemoryStore) FindByUser(ctx context.Context, userID string) ([]fingerprint.Record, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	recs := s.byUser[userID]
	out := make([]fingerprint.Record, len(recs))
	copy(out, recs)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp < out[j].Timestamp })
	return out, nil
}

// Insert implements RecordStore.
func (s *MemoryStore) Insert(ctx context.Context, rec fingerprint.Record) (string, error) {
	if rec.UserID == "" {
		return "", ErrInvalidUserID
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", ErrClosed
	}
	s.byUser[rec.UserID] = append(s.byUser[rec.UserID], rec)
	return uuid.NewString(), nil
}

// DeleteAll implements RecordStore.
func (s *MemoryStore) DeleteAll(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}
	var n int64
	for _, recs := range s.byUser {
		n += int64(len(recs))
	}
	s.byUser = make(map[string][]fingerprint.Record)
	return n, nil
}

// Close implements RecordStore.
func (s *MemoryStore) Close(context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}
