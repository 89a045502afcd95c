// Package macro expands the time placeholder tokens embedded in query
// templates into executable SQL fragments. It recognizes exactly four
// case-sensitive tokens; adding a fifth is a cross-subsystem contract change
// (the query executor, dashboard loader and artifact validator all depend on
// this set).
package macro

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"sqltsdb-grafana-plugin/pkg/epoch"
	"sqltsdb-grafana-plugin/pkg/schema"
	"sqltsdb-grafana-plugin/pkg/timerange"
)

// The four placeholder tokens.
const (
	TokenTimeField  = "$__timeField"
	TokenTimeFilter = "$__timeFilter"
	TokenTimeFrom   = "$__timeFrom"
	TokenTimeTo     = "$__timeTo"
)

// tokenPattern matches any of the four tokens. A fresh match is run per
// call; there is no shared matcher state between expansions.
var tokenPattern = regexp.MustCompile(`\$__(?:timeFilter|timeField|timeFrom|timeTo)`)

// Context carries everything an expansion needs. It is threaded explicitly:
// the engine never reads ambient state, which keeps it pure and testable.
type Context struct {
	TimeField string
	TimeRange timerange.Range
	Encoding  *schema.Encoding // nil means native timestamp
	Timezone  string
}

// MissingContextError means the template uses a time token the context
// cannot satisfy. Execution must fail closed: a query never runs with
// unresolved placeholders, and the engine never guesses a time field.
type MissingContextError struct {
	Token string
	Msg   string
}

func (e *MissingContextError) Error() string {
	return fmt.Sprintf("cannot expand %s: %s", e.Token, e.Msg)
}

// UsesTimeTokens reports whether the template contains any placeholder
// token.
func UsesTimeTokens(template string) bool {
	return tokenPattern.MatchString(template)
}

// usesRangeToken reports whether any token requiring a resolved time range
// is present. $__timeField alone only needs the field name.
func usesRangeToken(template string) bool {
	return strings.Contains(template, TokenTimeFilter) ||
		strings.Contains(template, TokenTimeFrom) ||
		strings.Contains(template, TokenTimeTo)
}

// Expand substitutes all placeholder tokens in template using the current
// clock. A template without tokens is returned unchanged.
func Expand(template string, ctx Context) (string, error) {
	loc, err := timerange.LoadLocation(ctx.Timezone)
	if err != nil {
		return "", err
	}
	return ExpandAt(template, ctx, loc, time.Now())
}

// ExpandAt is Expand against an explicit base instant, for deterministic
// resolution and tests.
//
// All token values are computed up front from the original template, then
// written out in a single scan. Replacement output is never re-scanned, so
// substituted text can never trigger further substitution.
func ExpandAt(template string, ctx Context, loc *time.Location, now time.Time) (string, error) {
	if !UsesTimeTokens(template) {
		return template, nil
	}

	needsRange := usesRangeToken(template)
	needsField := strings.Contains(template, TokenTimeFilter) ||
		strings.Contains(template, TokenTimeField)

	if needsField && ctx.TimeField == "" {
		return "", &MissingContextError{Token: TokenTimeField, Msg: "no time field selected"}
	}

	values := map[string]string{
		TokenTimeField: ctx.TimeField,
	}

	if needsRange {
		if !ctx.TimeRange.Enabled {
			return "", &MissingContextError{Token: TokenTimeFilter, Msg: "time range is disabled"}
		}
		resolved, err := timerange.ResolveAt(ctx.TimeRange, loc, now)
		if err != nil {
			return "", err
		}
		from := renderBound(resolved.From, ctx.Encoding, loc)
		to := renderBound(resolved.To, ctx.Encoding, loc)
		values[TokenTimeFrom] = from
		values[TokenTimeTo] = to
		// Inclusive lower, exclusive upper: adjacent panels covering
		// [t-1h,t) and [t,t+1h) never double-count a row.
		values[TokenTimeFilter] = fmt.Sprintf("%s >= %s AND %s < %s", ctx.TimeField, from, ctx.TimeField, to)
	}

	return tokenPattern.ReplaceAllStringFunc(template, func(token string) string {
		return values[token]
	}), nil
}

// renderBound renders one resolved bound for SQL interpolation: an integer
// for epoch columns, a quoted literal for native timestamp columns.
func renderBound(t time.Time, enc *schema.Encoding, loc *time.Location) string {
	if enc != nil && enc.Role == schema.RoleEpoch {
		return strconv.FormatInt(epoch.Scale(t, enc.Unit), 10)
	}
	return "'" + epoch.Literal(t.In(loc)) + "'"
}
