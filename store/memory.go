package store

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type MemoryStore[T any, PT recordPtr[T]] struct {
	mu    sync.RWMutex
	items []T
	seq   int64
	opts  options
}

func NewMemory[T any, PT recordPtr[T]](opts ...Option) *MemoryStore[T, PT] {
	return &MemoryStore[T, PT]{opts: buildOptions(opts)}
}

func (s *MemoryStore[T, PT]) Create(ctx context.Context, rec T) (T, error) {
	p := PT(&rec)
	if err := p.Validate(); err != nil {
		var zero T
		return zero, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	for s.indexOf(id) >= 0 {
		id = uuid.NewString()
	}
	s.seq++
	p.SetSeq(s.seq)
	p.Assign(id, s.opts.now())
	s.items = append(s.items, rec)
	return rec, nil
}

func (s *MemoryStore[T, PT]) List(ctx context.Context) ([]T, error) {
	s.mu.RLock()
	out := make([]T, len(s.items))
	copy(out, s.items)
	s.mu.RUnlock()

	if s.opts.newestFirst {
		sortNewestFirst[T, PT](out)
	}
	return out, nil
}

func (s *MemoryStore[T, PT]) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return nil
}

// caller holds s.mu
func (s *MemoryStore[T, PT]) indexOf(id string) int {
	for i := range s.items {
		if PT(&s.items[i]).RecordID() == id {
			return i
		}
	}
	return -1
}
