package port

import (
	"context"

	"github.com/qinghao1/gojek/internal/core/domain"
)

// LocationRepository is the durable backend of the position store.
// Get returns domain.ErrDriverNotFound when no record exists.
type LocationRepository interface {
	Get(ctx context.Context, id int) (domain.DriverLocation, error)
	Upsert(ctx context.Context, loc domain.DriverLocation) error
	All(ctx context.Context) ([]domain.DriverLocation, error)
}
