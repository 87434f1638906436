package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/qinghao1/gojek/internal/core/domain"
	"github.com/qinghao1/gojek/internal/core/port"
	"go.uber.org/zap"
)

// PositionStore owns the canonical driver records. Every write reaches the
// repository and then the proximity index before Upsert returns.
type PositionStore struct {
	repo  port.LocationRepository
	index port.ProximityIndex
	log   *zap.Logger
	now   func() time.Time

	// driver id -> *sync.Mutex; ids are bounded so entries are never evicted
	locks sync.Map
}

type StoreOption func(*PositionStore)

func WithClock(now func() time.Time) StoreOption {
	return func(s *PositionStore) {
		s.now = now
	}
}

func NewPositionStore(repo port.LocationRepository, index port.ProximityIndex, log *zap.Logger, opts ...StoreOption) *PositionStore {
	s := &PositionStore{
		repo:  repo,
		index: index,
		log:   log,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *PositionStore) lock(id int) func() {
	mu, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	m := mu.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}

func (s *PositionStore) Get(ctx context.Context, id int) (domain.DriverLocation, error) {
	return s.repo.Get(ctx, id)
}

// Upsert creates or overwrites the record for id. Writes for the same id are
// serialized; UpdatedAt never moves backwards for an id.
func (s *PositionStore) Upsert(ctx context.Context, id int, point domain.Point, accuracy float64) (domain.DriverLocation, error) {
	unlock := s.lock(id)
	defer unlock()

	// Durable backends keep microseconds.
	updatedAt := s.now().UTC().Truncate(time.Microsecond)
	if prev, ok := s.index.Get(id); ok && prev.UpdatedAt.After(updatedAt) {
		updatedAt = prev.UpdatedAt
	}

	loc := domain.DriverLocation{
		ID:        id,
		Point:     point,
		Accuracy:  accuracy,
		UpdatedAt: updatedAt,
	}
	if violations := loc.Violations(); len(violations) > 0 {
		return domain.DriverLocation{}, fmt.Errorf("%w: %w", domain.ErrPersistence, domain.NewValidationError(violations...))
	}

	if err := s.repo.Upsert(ctx, loc); err != nil {
		return domain.DriverLocation{}, fmt.Errorf("upsert driver %d: %w", id, err)
	}
	s.index.Put(loc)

	return loc, nil
}

// Warm loads every persisted record into the index. Records the index already
// holds at a later UpdatedAt are left alone.
func (s *PositionStore) Warm(ctx context.Context) (int, error) {
	all, err := s.repo.All(ctx)
	if err != nil {
		return 0, fmt.Errorf("load driver locations: %w", err)
	}

	loaded := 0
	for _, loc := range all {
		if violations := loc.Violations(); len(violations) > 0 {
			s.log.Warn("skipping invalid stored location",
				zap.Int("driver_id", loc.ID),
				zap.Strings("violations", violations),
			)
			continue
		}

		unlock := s.lock(loc.ID)
		if cur, ok := s.index.Get(loc.ID); !ok || !cur.UpdatedAt.After(loc.UpdatedAt) {
			s.index.Put(loc)
			loaded++
		}
		unlock()
	}

	return loaded, nil
}

func (s *PositionStore) Indexed() int {
	return s.index.Len()
}
