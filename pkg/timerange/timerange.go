// Package timerange resolves a {from, to} pair of time expressions to two
// concrete instants. Both bounds are evaluated against a single "now"
// snapshot so the pair stays self-consistent even while wall-clock time
// advances during resolution.
package timerange

import (
	"fmt"
	"time"

	"sqltsdb-grafana-plugin/pkg/timexpr"
)

// Range is a time range as supplied by the UI or a share link. From and To
// are time expressions in the timexpr grammar. A disabled range must not be
// used to build time filters; that gate lives in the substitution engine.
type Range struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Enabled bool   `json:"enabled"`
}

// Resolved is a concrete {from, to} instant pair.
type Resolved struct {
	From time.Time
	To   time.Time
}

// ConfigurationError reports a structurally invalid range. Unlike a parse
// error it is not recoverable by substituting a default: a missing bound
// means the caller wired the range up wrong.
type ConfigurationError struct {
	Field string
	Msg   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("time range configuration error (%s): %s", e.Field, e.Msg)
}

// Resolve resolves r in the given IANA timezone against the current clock.
// An empty timezone means UTC.
func Resolve(r Range, timezone string) (Resolved, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return Resolved{}, err
	}
	return ResolveAt(r, loc, time.Now())
}

// ResolveAt resolves r against an explicit base instant. The base is
// captured once by the caller and shared by both bounds.
func ResolveAt(r Range, loc *time.Location, now time.Time) (Resolved, error) {
	if loc == nil {
		loc = time.UTC
	}
	if r.From == "" {
		return Resolved{}, &ConfigurationError{Field: "from", Msg: "missing 'from' bound"}
	}
	if r.To == "" {
		return Resolved{}, &ConfigurationError{Field: "to", Msg: "missing 'to' bound"}
	}

	fromExpr, err := timexpr.Parse(r.From, loc)
	if err != nil {
		return Resolved{}, err
	}
	toExpr, err := timexpr.Parse(r.To, loc)
	if err != nil {
		return Resolved{}, err
	}

	base := now.In(loc)
	return Resolved{
		From: fromExpr.Evaluate(base),
		To:   toExpr.Evaluate(base),
	}, nil
}

// LoadLocation resolves an IANA zone name, defaulting to UTC for the empty
// string.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, &ConfigurationError{Field: "timezone", Msg: fmt.Sprintf("unknown timezone %q", timezone)}
	}
	return loc, nil
}
