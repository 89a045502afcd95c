// Package timexpr parses the relative/absolute time expression grammar used
// by the query editor and the dashboard time picker. Expressions are either
// "now" with an optional signed offset and an optional snap ("now-7d/d"), or
// an absolute date/time literal.
package timexpr

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Unit is a calendar unit usable in offsets and snaps.
type Unit string

const (
	UnitSecond Unit = "s"
	UnitMinute Unit = "m"
	UnitHour   Unit = "h"
	UnitDay    Unit = "d"
	UnitWeek   Unit = "w"
	UnitMonth  Unit = "M"
	UnitYear   Unit = "y"
)

// Kind discriminates the expression variants.
type Kind int

const (
	KindNow Kind = iota
	KindNowOffset
	KindNowSnapped
	KindNowOffsetSnapped
	KindAbsolute
)

// Expression is a parsed time expression. Only the fields relevant to Kind
// are populated.
type Expression struct {
	Kind     Kind
	Sign     int // +1 or -1
	Amount   int64
	Unit     Unit
	SnapUnit Unit
	Absolute time.Time
}

// ParseError reports a malformed time expression. It is recoverable: callers
// may substitute a default expression instead of failing the whole request.
type ParseError struct {
	Input string
	Msg   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid time expression %q: %s", e.Input, e.Msg)
}

// nowPattern covers "now", "now±Nu" and "now±Nu/u". Units are case
// sensitive: "m" is minutes, "M" is months.
var nowPattern = regexp.MustCompile(`^now(?:([+-])(\d+)([smhdwMy]))?(?:/([smhdwMy]))?$`)

// absoluteLayouts are the literal forms accepted from free-text input and
// deserialized share links, tried in order.
var absoluteLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Parse parses a time expression. Absolute literals without a zone offset are
// interpreted as wall-clock time in loc. A nil loc means UTC.
func Parse(input string, loc *time.Location) (*Expression, error) {
	if loc == nil {
		loc = time.UTC
	}
	if input == "" {
		return nil, &ParseError{Input: input, Msg: "empty expression"}
	}

	if m := nowPattern.FindStringSubmatch(input); m != nil {
		return parseNow(input, m)
	}
	return parseAbsolute(input, loc)
}

func parseNow(input string, m []string) (*Expression, error) {
	expr := &Expression{Kind: KindNow}

	if m[1] != "" {
		amount, err := strconv.ParseInt(m[2], 10, 64)
		if err != nil {
			return nil, &ParseError{Input: input, Msg: "offset amount out of range"}
		}
		expr.Kind = KindNowOffset
		expr.Sign = 1
		if m[1] == "-" {
			expr.Sign = -1
		}
		expr.Amount = amount
		expr.Unit = Unit(m[3])
	}

	if m[4] != "" {
		expr.SnapUnit = Unit(m[4])
		if expr.Kind == KindNowOffset {
			expr.Kind = KindNowOffsetSnapped
		} else {
			expr.Kind = KindNowSnapped
		}
	}

	return expr, nil
}

func parseAbsolute(input string, loc *time.Location) (*Expression, error) {
	for _, layout := range absoluteLayouts {
		if t, err := time.ParseInLocation(layout, input, loc); err == nil {
			return &Expression{Kind: KindAbsolute, Absolute: t}, nil
		}
	}
	// Share links serialize absolute bounds as epoch milliseconds.
	if ms, err := strconv.ParseInt(input, 10, 64); err == nil {
		return &Expression{Kind: KindAbsolute, Absolute: time.UnixMilli(ms).In(loc)}, nil
	}
	return nil, &ParseError{Input: input, Msg: "not a relative expression or recognized date/time literal"}
}

// Evaluate resolves the expression against the given base instant. For
// relative expressions the offset is applied first and the result is then
// snapped; reversing that order changes the result for expressions like
// "now-25h/d". Snapping uses the location carried by now.
func (e *Expression) Evaluate(now time.Time) time.Time {
	switch e.Kind {
	case KindAbsolute:
		return e.Absolute
	case KindNow:
		return now
	case KindNowOffset:
		return addOffset(now, e.Sign, e.Amount, e.Unit)
	case KindNowSnapped:
		return snap(now, e.SnapUnit)
	case KindNowOffsetSnapped:
		return snap(addOffset(now, e.Sign, e.Amount, e.Unit), e.SnapUnit)
	}
	return now
}

// addOffset shifts t by sign*amount units. Day and larger units are calendar
// arithmetic so DST transitions keep wall-clock semantics.
func addOffset(t time.Time, sign int, amount int64, u Unit) time.Time {
	n := int(amount) * sign
	switch u {
	case UnitSecond:
		return t.Add(time.Duration(sign) * time.Duration(amount) * time.Second)
	case UnitMinute:
		return t.Add(time.Duration(sign) * time.Duration(amount) * time.Minute)
	case UnitHour:
		return t.Add(time.Duration(sign) * time.Duration(amount) * time.Hour)
	case UnitDay:
		return t.AddDate(0, 0, n)
	case UnitWeek:
		return t.AddDate(0, 0, 7*n)
	case UnitMonth:
		return t.AddDate(0, n, 0)
	case UnitYear:
		return t.AddDate(n, 0, 0)
	}
	return t
}

// snap truncates t to the start of the enclosing unit. Weeks start Monday.
func snap(t time.Time, u Unit) time.Time {
	y, mo, d := t.Date()
	loc := t.Location()
	switch u {
	case UnitSecond:
		return time.Date(y, mo, d, t.Hour(), t.Minute(), t.Second(), 0, loc)
	case UnitMinute:
		return time.Date(y, mo, d, t.Hour(), t.Minute(), 0, 0, loc)
	case UnitHour:
		return time.Date(y, mo, d, t.Hour(), 0, 0, 0, loc)
	case UnitDay:
		return time.Date(y, mo, d, 0, 0, 0, 0, loc)
	case UnitWeek:
		daysPastMonday := (int(t.Weekday()) + 6) % 7
		return time.Date(y, mo, d-daysPastMonday, 0, 0, 0, 0, loc)
	case UnitMonth:
		return time.Date(y, mo, 1, 0, 0, 0, 0, loc)
	case UnitYear:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
	}
	return t
}
