package domain

import (
	"math"
	"time"
)

const (
	MinDriverID = 1
	MaxDriverID = 50000

	// CoordinateBound applies to both axes; longitude is not widened to 180.
	CoordinateBound = 90.0

	MinAccuracy     = 0.0
	MaxAccuracy     = 1.0
	DefaultAccuracy = 1.0
)

type Point struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// DistanceTo is the planar Euclidean distance between p and q in coordinate units.
func (p Point) DistanceTo(q Point) float64 {
	return math.Hypot(p.Longitude-q.Longitude, p.Latitude-q.Latitude)
}

type DriverLocation struct {
	ID        int       `json:"id"`
	Point     Point     `json:"point"`
	Accuracy  float64   `json:"accuracy"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Violations reports every invariant the record breaks, in field order.
func (l DriverLocation) Violations() []string {
	var errs []string
	if l.ID < MinDriverID || l.ID > MaxDriverID {
		errs = append(errs, "Id must be between 1 and 50000")
	}
	if !inRange(l.Point.Latitude, -CoordinateBound, CoordinateBound) {
		errs = append(errs, "Latitude must be between -90 and 90")
	}
	if !inRange(l.Point.Longitude, -CoordinateBound, CoordinateBound) {
		errs = append(errs, "Longitude must be between -90 and 90")
	}
	if !inRange(l.Accuracy, MinAccuracy, MaxAccuracy) {
		errs = append(errs, "Accuracy must be between 0 and 1")
	}
	return errs
}

func inRange(v, lo, hi float64) bool {
	return !math.IsNaN(v) && v >= lo && v <= hi
}

// NearbyDriver is one entry of a proximity result. Field order is the wire order.
type NearbyDriver struct {
	ID        int     `json:"id"`
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
	Distance  float64 `json:"distance"`
}

type LocationUpdated struct {
	DriverID  int       `json:"driver_id"`
	Longitude float64   `json:"longitude"`
	Latitude  float64   `json:"latitude"`
	Accuracy  float64   `json:"accuracy"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewLocationUpdated(l DriverLocation) LocationUpdated {
	return LocationUpdated{
		DriverID:  l.ID,
		Longitude: l.Point.Longitude,
		Latitude:  l.Point.Latitude,
		Accuracy:  l.Accuracy,
		UpdatedAt: l.UpdatedAt,
	}
}
