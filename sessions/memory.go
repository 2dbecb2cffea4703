package sessions

import (
	"context"
	"sync"
	"time"
)

type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]Session
	stop     chan struct{}
	once     sync.Once
}

// NewMemoryStore starts a janitor that drops expired sessions every
// cleanupEvery. A zero interval disables the janitor.
func NewMemoryStore(cleanupEvery time.Duration) *MemoryStore {
	ms := &MemoryStore{
		sessions: make(map[string]Session),
		stop:     make(chan struct{}),
	}
	if cleanupEvery > 0 {
		go ms.janitor(cleanupEvery)
	}
	return ms
}

func (ms *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	s, ok := ms.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !time.Now().Before(s.ExpiresAt) {
		delete(ms.sessions, id)
		return nil, ErrNotFound
	}
	return &s, nil
}

func (ms *MemoryStore) Save(ctx context.Context, s *Session) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.sessions[s.ID] = *s
	return nil
}

func (ms *MemoryStore) Destroy(ctx context.Context, id string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	delete(ms.sessions, id)
	return nil
}

func (ms *MemoryStore) Len() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return len(ms.sessions)
}

// Close stops the janitor. It is safe to call more than once.
func (ms *MemoryStore) Close() {
	ms.once.Do(func() { close(ms.stop) })
}

func (ms *MemoryStore) janitor(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ms.reap(time.Now())
		case <-ms.stop:
			return
		}
	}
}

func (ms *MemoryStore) reap(now time.Time) int {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	n := 0
	for id, s := range ms.sessions {
		if !now.Before(s.ExpiresAt) {
			delete(ms.sessions, id)
			n++
		}
	}
	return n
}
