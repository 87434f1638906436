package validate

import (
	"testing"

	"github.com/qinghao1/gojek/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		want  float64
		valid bool
	}{
		{name: "integer", raw: "10", want: 10, valid: true},
		{name: "fraction", raw: "1.12211212", want: 1.12211212, valid: true},
		{name: "zero", raw: "0", want: 0, valid: true},
		{name: "empty", raw: "", valid: false},
		{name: "negative", raw: "-5", valid: false},
		{name: "plus sign", raw: "+5", valid: false},
		{name: "exponent", raw: "1e3", valid: false},
		{name: "trailing dot", raw: "5.", valid: false},
		{name: "leading dot", raw: ".5", valid: false},
		{name: "embedded text", raw: "abc5", valid: false},
		{name: "spaces", raw: " 5", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDecimal(tt.raw)
			v, ok := got.Value()
			assert.Equal(t, tt.valid, ok)
			if tt.valid {
				assert.Equal(t, tt.want, v)
			}
		})
	}
}

func TestNumber_Or(t *testing.T) {
	assert.Equal(t, 500.0, Invalid.Or(500))
	assert.Equal(t, 3.5, Valid(3.5).Or(500))
	assert.Equal(t, 0.0, Valid(0).Or(500))
}

func TestFromJSON(t *testing.T) {
	assert.True(t, FromJSON(float64(-12.5)).IsValid())
	assert.False(t, FromJSON("12.5").IsValid())
	assert.False(t, FromJSON(nil).IsValid())
	assert.False(t, FromJSON(true).IsValid())
}

func TestCoordinate(t *testing.T) {
	assert.True(t, Coordinate(Valid(-90)))
	assert.True(t, Coordinate(Valid(90)))
	assert.True(t, Coordinate(Valid(0)))
	assert.False(t, Coordinate(Valid(90.0001)))
	assert.False(t, Coordinate(Valid(-100)))
	assert.False(t, Coordinate(Invalid))
}

func TestAccuracy(t *testing.T) {
	assert.True(t, Accuracy(Valid(0)))
	assert.True(t, Accuracy(Valid(1)))
	assert.True(t, Accuracy(Valid(0.5)))
	assert.False(t, Accuracy(Valid(1.1)))
	assert.False(t, Accuracy(Valid(-0.1)))
	assert.False(t, Accuracy(Invalid))
}

func TestDriverID(t *testing.T) {
	assert.False(t, DriverID(0))
	assert.False(t, DriverID(50001))
	assert.True(t, DriverID(1))
	assert.True(t, DriverID(50000))
}

func TestErrors_AccumulatesInOrder(t *testing.T) {
	var errs Errors
	errs.Check(Coordinate(Valid(100)), MsgLatitudeRange)
	errs.Check(Coordinate(Valid(10)), "unreachable")
	errs.Check(Coordinate(Valid(100)), MsgLongitudeRange)
	errs.Add(MsgMissingCoords)
	errs.Add(MsgMissingCoords)

	err := errs.Err()
	require.Error(t, err)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{MsgLatitudeRange, MsgLongitudeRange, MsgMissingCoords}, verr.Errors)
}

func TestErrors_EmptyIsNil(t *testing.T) {
	var errs Errors
	errs.Check(true, MsgAccuracyRange)
	assert.NoError(t, errs.Err())
}
