package domain

const (
	DefaultRadius = 500.0
	DefaultLimit  = 10
)

type ProximityQuery struct {
	Origin Point
	Radius float64
	Limit  int
}

func NewProximityQuery(origin Point) ProximityQuery {
	return ProximityQuery{
		Origin: origin,
		Radius: DefaultRadius,
		Limit:  DefaultLimit,
	}
}
