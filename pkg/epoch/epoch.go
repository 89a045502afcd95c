// Package epoch converts absolute instants to the integer epoch scales used
// by time columns, and to SQL timestamp literals for native timestamp
// columns. All arithmetic is 64-bit integer: nanosecond epochs since 1970
// exceed the 53-bit exact range of IEEE-754 doubles, so float math would
// silently corrupt them.
package epoch

import (
	"time"
)

// Unit is the numeric scale of an integer time column.
type Unit string

const (
	UnitSeconds      Unit = "s"
	UnitMilliseconds Unit = "ms"
	UnitMicroseconds Unit = "us"
	UnitNanoseconds  Unit = "ns"
)

// ParseUnit maps a declared unit string to a Unit.
func ParseUnit(s string) (Unit, bool) {
	switch Unit(s) {
	case UnitSeconds, UnitMilliseconds, UnitMicroseconds, UnitNanoseconds:
		return Unit(s), true
	}
	return "", false
}

// Scale converts t to an integer epoch value in the given unit. The instant
// is held as milliseconds internally; seconds floor-divide so pre-1970
// instants round toward the past, not toward zero.
func Scale(t time.Time, u Unit) int64 {
	ms := t.UnixMilli()
	switch u {
	case UnitSeconds:
		return floorDiv(ms, 1000)
	case UnitMicroseconds:
		return ms * 1000
	case UnitNanoseconds:
		return ms * 1_000_000
	}
	return ms
}

// ToTime converts an integer epoch value in the given unit back to an
// instant. Used when rendering query results as time-series frames.
func ToTime(v int64, u Unit) time.Time {
	switch u {
	case UnitSeconds:
		return time.Unix(v, 0).UTC()
	case UnitMicroseconds:
		return time.UnixMicro(v).UTC()
	case UnitNanoseconds:
		return time.Unix(0, v).UTC()
	}
	return time.UnixMilli(v).UTC()
}

// Literal formats t as a SQL timestamp literal for native timestamp columns.
// Quoting is the caller's responsibility.
func Literal(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
