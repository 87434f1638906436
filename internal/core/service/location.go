package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/qinghao1/gojek/internal/core/domain"
	"github.com/qinghao1/gojek/internal/core/port"
	"github.com/qinghao1/gojek/internal/core/validate"
	"go.uber.org/zap"
)

// LocationService handles driver-facing writes.
type LocationService struct {
	store     *PositionStore
	publisher port.LocationPublisher
	log       *zap.Logger
}

func NewLocationService(store *PositionStore, publisher port.LocationPublisher, log *zap.Logger) *LocationService {
	if publisher == nil {
		publisher = port.NopPublisher{}
	}
	return &LocationService{
		store:     store,
		publisher: publisher,
		log:       log,
	}
}

type locationPayload struct {
	Latitude  validate.Number
	Longitude validate.Number
	Accuracy  validate.Number
}

// parseLocationPayload never fails: a body that is not a JSON object reads as
// missing coordinates with the default accuracy.
func parseLocationPayload(body []byte) locationPayload {
	p := locationPayload{
		Latitude:  validate.Invalid,
		Longitude: validate.Invalid,
		Accuracy:  validate.Valid(domain.DefaultAccuracy),
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return p
	}

	p.Latitude = validate.FromJSON(raw["latitude"])
	p.Longitude = validate.FromJSON(raw["longitude"])
	if acc, ok := raw["accuracy"]; ok && acc != nil {
		p.Accuracy = validate.FromJSON(acc)
	}
	return p
}

// UpdateLocation validates body and upserts the location of driver id.
// It returns domain.ErrDriverNotFound for ids out of range and a
// *domain.ValidationError when any field is rejected.
func (s *LocationService) UpdateLocation(ctx context.Context, id int, body []byte) (domain.DriverLocation, error) {
	if !validate.DriverID(id) {
		return domain.DriverLocation{}, domain.ErrDriverNotFound
	}

	p := parseLocationPayload(body)

	var errs validate.Errors
	errs.Check(validate.Coordinate(p.Latitude), validate.MsgLatitudeRange)
	errs.Check(validate.Coordinate(p.Longitude), validate.MsgLongitudeRange)
	errs.Check(validate.Accuracy(p.Accuracy), validate.MsgAccuracyRange)
	if err := errs.Err(); err != nil {
		return domain.DriverLocation{}, err
	}

	lat, _ := p.Latitude.Value()
	lng, _ := p.Longitude.Value()
	acc, _ := p.Accuracy.Value()

	loc, err := s.store.Upsert(ctx, id, domain.Point{Longitude: lng, Latitude: lat}, acc)
	if err != nil {
		var verr *domain.ValidationError
		if errors.Is(err, domain.ErrPersistence) && errors.As(err, &verr) {
			s.log.Warn("store rejected driver location",
				zap.Int("driver_id", id),
				zap.Strings("errors", verr.Errors),
			)
			return domain.DriverLocation{}, verr
		}
		return domain.DriverLocation{}, err
	}

	if err := s.publisher.PublishLocation(ctx, domain.NewLocationUpdated(loc)); err != nil {
		s.log.Error("failed to publish location update", zap.Int("driver_id", id), zap.Error(err))
	}

	return loc, nil
}

// GetLocation returns the stored record of driver id.
func (s *LocationService) GetLocation(ctx context.Context, id int) (domain.DriverLocation, error) {
	if !validate.DriverID(id) {
		return domain.DriverLocation{}, domain.ErrDriverNotFound
	}
	return s.store.Get(ctx, id)
}
