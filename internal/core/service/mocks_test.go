package service

import (
	"context"
	"testing"
	"time"

	"github.com/qinghao1/gojek/internal/adapter/spatial"
	"github.com/qinghao1/gojek/internal/adapter/storage/memory"
	"github.com/qinghao1/gojek/internal/core/domain"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockLocationRepository struct {
	mock.Mock
}

func (m *MockLocationRepository) Get(ctx context.Context, id int) (domain.DriverLocation, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.DriverLocation), args.Error(1)
}

func (m *MockLocationRepository) Upsert(ctx context.Context, loc domain.DriverLocation) error {
	args := m.Called(ctx, loc)
	return args.Error(0)
}

func (m *MockLocationRepository) All(ctx context.Context) ([]domain.DriverLocation, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.DriverLocation), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishLocation(ctx context.Context, evt domain.LocationUpdated) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

// stepClock returns t0, t0+step, t0+2*step, ... on successive calls.
func stepClock(t0 time.Time, step time.Duration) func() time.Time {
	next := t0
	return func() time.Time {
		cur := next
		next = next.Add(step)
		return cur
	}
}

func newMemoryStore(t *testing.T, opts ...StoreOption) (*PositionStore, *memory.LocationStore, *spatial.Index) {
	t.Helper()
	repo := memory.NewLocationStore()
	index := spatial.NewIndex(0, 0)
	return NewPositionStore(repo, index, zap.NewNop(), opts...), repo, index
}
