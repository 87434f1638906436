// Package validate holds the range checks and parameter parsing shared by the
// driver-facing and customer-facing operations.
package validate

import (
	"regexp"
	"strconv"

	"github.com/qinghao1/gojek/internal/core/domain"
)

const (
	MsgLatitudeRange  = "Latitude should be between +/- 90"
	MsgLongitudeRange = "Longitude should be between +/- 90"
	MsgAccuracyRange  = "Accuracy should be between 0 and 1"
	MsgMissingCoords  = "Missing latitude and/or longitude"
)

// Unsigned decimal literal: digits with an optional fractional part.
var decimalPattern = regexp.MustCompile(`^\d+(\.\d+)?$`)

// Number is either a parsed value or Invalid. The zero value is Invalid.
type Number struct {
	value float64
	valid bool
}

var Invalid = Number{}

func Valid(v float64) Number {
	return Number{value: v, valid: true}
}

func (n Number) Value() (float64, bool) {
	return n.value, n.valid
}

func (n Number) IsValid() bool {
	return n.valid
}

// Or returns the parsed value, or def when n is Invalid.
func (n Number) Or(def float64) float64 {
	if !n.valid {
		return def
	}
	return n.value
}

// ParseDecimal accepts only unsigned decimal literals. Signs, exponents and
// surrounding text all yield Invalid.
func ParseDecimal(raw string) Number {
	if !decimalPattern.MatchString(raw) {
		return Invalid
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return Invalid
	}
	return Valid(v)
}

// FromJSON converts a value decoded by encoding/json. Only JSON numbers are valid.
func FromJSON(v any) Number {
	f, ok := v.(float64)
	if !ok {
		return Invalid
	}
	return Valid(f)
}

func Coordinate(n Number) bool {
	v, ok := n.Value()
	return ok && v >= -domain.CoordinateBound && v <= domain.CoordinateBound
}

func Accuracy(n Number) bool {
	v, ok := n.Value()
	return ok && v >= domain.MinAccuracy && v <= domain.MaxAccuracy
}

func DriverID(id int) bool {
	return id >= domain.MinDriverID && id <= domain.MaxDriverID
}

// Errors accumulates failure messages in the order checks are made.
type Errors []string

func (e *Errors) Check(ok bool, msg string) {
	if !ok {
		*e = append(*e, msg)
	}
}

// Add appends msg unless it is already present.
func (e *Errors) Add(msg string) {
	for _, m := range *e {
		if m == msg {
			return
		}
	}
	*e = append(*e, msg)
}

// Err returns nil when no check failed.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return domain.NewValidationError(e...)
}
