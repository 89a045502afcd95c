package epoch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScale(t *testing.T) {
	instant := time.UnixMilli(1700000000123).UTC()

	tests := []struct {
		name string
		unit Unit
		want int64
	}{
		{name: "seconds floor", unit: UnitSeconds, want: 1700000000},
		{name: "milliseconds", unit: UnitMilliseconds, want: 1700000000123},
		{name: "microseconds", unit: UnitMicroseconds, want: 1700000000123000},
		{name: "nanoseconds", unit: UnitNanoseconds, want: 1700000000123000000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Scale(instant, tt.unit))
		})
	}
}

func TestScale_SecondsFloorForPre1970(t *testing.T) {
	// -1500ms is 1.5s before the epoch; floor division rounds toward the
	// past, not toward zero.
	instant := time.UnixMilli(-1500).UTC()
	assert.Equal(t, int64(-2), Scale(instant, UnitSeconds))
}

func TestScale_NanosecondExactness(t *testing.T) {
	// Nanosecond epochs near the int64 bound (year 2262) must divide back
	// to the original millisecond value exactly. float64 math would lose
	// the low bits well before that.
	tests := []struct {
		name string
		ms   int64
	}{
		{name: "2023", ms: 1700000000123},
		{name: "2100", ms: 4102444800999},
		{name: "2262 int64 ns bound", ms: 9223372036854},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			instant := time.UnixMilli(tt.ms).UTC()
			ns := Scale(instant, UnitNanoseconds)
			assert.Equal(t, tt.ms, ns/1_000_000)
		})
	}
}

func TestToTime_RoundTrip(t *testing.T) {
	instant := time.UnixMilli(1700000000123).UTC()

	for _, unit := range []Unit{UnitSeconds, UnitMilliseconds, UnitMicroseconds, UnitNanoseconds} {
		got := ToTime(Scale(instant, unit), unit)
		if unit == UnitSeconds {
			assert.Equal(t, instant.Truncate(time.Second), got)
			continue
		}
		assert.Equal(t, instant, got)
	}
}

func TestLiteral(t *testing.T) {
	instant := time.Date(2023, 11, 14, 21, 46, 40, 0, time.UTC)
	assert.Equal(t, "2023-11-14 21:46:40", Literal(instant))
}

func TestParseUnit(t *testing.T) {
	for _, valid := range []string{"s", "ms", "us", "ns"} {
		u, ok := ParseUnit(valid)
		require.True(t, ok)
		assert.Equal(t, Unit(valid), u)
	}

	for _, invalid := range []string{"", "sec", "MS", "nanos"} {
		_, ok := ParseUnit(invalid)
		assert.False(t, ok, invalid)
	}
}
