package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/qinghao1/gojek/internal/core/domain"
)

type LocationStore struct {
	mu        sync.RWMutex
	locations map[int]domain.DriverLocation
}

func NewLocationStore() *LocationStore {
	return &LocationStore{
		locations: make(map[int]domain.DriverLocation),
	}
}

func (s *LocationStore) Get(_ context.Context, id int) (domain.DriverLocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	loc, ok := s.locations[id]
	if !ok {
		return domain.DriverLocation{}, domain.ErrDriverNotFound
	}
	return loc, nil
}

func (s *LocationStore) Upsert(_ context.Context, loc domain.DriverLocation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.locations[loc.ID] = loc
	return nil
}

// All returns every record ordered by id.
func (s *LocationStore) All(_ context.Context) ([]domain.DriverLocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.DriverLocation, 0, len(s.locations))
	for _, loc := range s.locations {
		out = append(out, loc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
