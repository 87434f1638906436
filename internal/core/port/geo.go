package port

import "github.com/qinghao1/gojek/internal/core/domain"

// ProximityIndex is the derived spatial view over stored driver locations.
// Implementations must be safe for concurrent use.
type ProximityIndex interface {
	Put(loc domain.DriverLocation)
	Get(id int) (domain.DriverLocation, bool)
	Nearest(origin domain.Point, limit int) []domain.NearbyDriver
	Len() int
}
