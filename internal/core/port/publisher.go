package port

import (
	"context"

	"github.com/qinghao1/gojek/internal/core/domain"
)

type LocationPublisher interface {
	PublishLocation(ctx context.Context, evt domain.LocationUpdated) error
}

// NopPublisher discards every event.
type NopPublisher struct{}

func (NopPublisher) PublishLocation(context.Context, domain.LocationUpdated) error {
	return nil
}
