package service

import (
	"net/url"

	"github.com/qinghao1/gojek/internal/core/domain"
	"github.com/qinghao1/gojek/internal/core/port"
	"github.com/qinghao1/gojek/internal/core/validate"
)

// QueryService answers customer-facing proximity queries.
type QueryService struct {
	index port.ProximityIndex
}

func NewQueryService(index port.ProximityIndex) *QueryService {
	return &QueryService{index: index}
}

// ParseProximityQuery reads latitude, longitude, radius and limit from params.
// All problems are reported together in a *domain.ValidationError.
func ParseProximityQuery(params url.Values) (domain.ProximityQuery, error) {
	var errs validate.Errors

	coord := func(key, rangeMsg string) float64 {
		raw := params.Get(key)
		if raw == "" {
			errs.Add(validate.MsgMissingCoords)
			return 0
		}
		n := validate.ParseDecimal(raw)
		errs.Check(validate.Coordinate(n), rangeMsg)
		return n.Or(0)
	}

	lat := coord("latitude", validate.MsgLatitudeRange)
	lng := coord("longitude", validate.MsgLongitudeRange)
	if err := errs.Err(); err != nil {
		return domain.ProximityQuery{}, err
	}

	q := domain.NewProximityQuery(domain.Point{Longitude: lng, Latitude: lat})
	q.Radius = validate.ParseDecimal(params.Get("radius")).Or(domain.DefaultRadius)
	q.Limit = toLimit(validate.ParseDecimal(params.Get("limit")).Or(domain.DefaultLimit))
	return q, nil
}

// toLimit truncates to an integer. No more than MaxDriverID drivers can exist,
// so larger limits are clamped.
func toLimit(v float64) int {
	if v > domain.MaxDriverID {
		return domain.MaxDriverID
	}
	return int(v)
}

func (s *QueryService) Execute(params url.Values) ([]domain.NearbyDriver, error) {
	q, err := ParseProximityQuery(params)
	if err != nil {
		return nil, err
	}
	return s.Nearest(q), nil
}

// Nearest returns up to q.Limit drivers strictly closer than q.Radius, nearest first.
func (s *QueryService) Nearest(q domain.ProximityQuery) []domain.NearbyDriver {
	candidates := s.index.Nearest(q.Origin, q.Limit)

	out := make([]domain.NearbyDriver, 0, len(candidates))
	for _, c := range candidates {
		if c.Distance < q.Radius {
			out = append(out, c)
		}
	}
	return out
}
