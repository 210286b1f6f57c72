package media

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps saved sets in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	menus map[string]map[string]map[string]Media // menu -> stage -> dish
	now   func() time.Time
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		menus: make(map[string]map[string]map[string]Media),
		now:   time.Now,
	}
}

// Stage implements [Store].
func (s *MemoryStore) Stage(ctx context.Context, menu, stage string) (map[string]Media, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]Media)
	for id, m := range s.menus[menu][stage] {
		out[id] = clone(m)
	}
	return out, nil
}

// Get implements [Store].
func (s *MemoryStore) Get(ctx context.Context, key Key) (*Media, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.menus[key.Menu][key.Stage][key.DishID]
	if !ok {
		return nil, nil
	}
	c := clone(m)
	return &c, nil
}

// Upsert implements [Store].
func (s *MemoryStore) Upsert(ctx context.Context, key Key, m Media) (*Media, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	if err := validateMedia(m); err != nil {
		return nil, err
	}
	saved := prepare(m, s.now())

	s.mu.Lock()
	defer s.mu.Unlock()
	stages, ok := s.menus[key.Menu]
	if !ok {
		stages = make(map[string]map[string]Media)
		s.menus[key.Menu] = stages
	}
	dishes, ok := stages[key.Stage]
	if !ok {
		dishes = make(map[string]Media)
		stages[key.Stage] = dishes
	}
	dishes[key.DishID] = saved

	out := clone(saved)
	return &out, nil
}

// Close implements [Store].
func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
