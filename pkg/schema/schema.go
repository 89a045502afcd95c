// Package schema classifies how a column encodes time: as a native
// timestamp type or as an integer epoch at a particular precision. Column
// records come from a DESCRIBE-style introspection query; this package never
// performs I/O itself.
package schema

import (
	"strings"

	"sqltsdb-grafana-plugin/pkg/epoch"
)

// Column is one record from schema introspection. Unit is the explicitly
// declared epoch unit, if the store exposes one; it overrides any name-based
// inference.
type Column struct {
	Name string
	Type string
	Unit string
}

// Role says whether a time column holds native timestamps or integer epochs.
type Role int

const (
	RoleTimestamp Role = iota
	RoleEpoch
)

// Encoding is the classified time encoding of a column. Unit is only
// meaningful when Role is RoleEpoch.
type Encoding struct {
	Column string
	Role   Role
	Unit   epoch.Unit
}

// sentinelTimestampColumn is the canonical internal timestamp column some
// stores expose; it is always nanoseconds.
const sentinelTimestampColumn = "__timestamp"

// Classify determines the time encoding of a column. The declared type wins
// when present: integer-family types are epochs, date/time-family types are
// native timestamps, and unknown types default to native timestamp. The
// epoch unit comes from the declared unit if set, otherwise from the column
// name.
func Classify(col Column) Encoding {
	enc := Encoding{Column: col.Name, Role: roleForType(col.Type)}
	if enc.Role == RoleEpoch {
		enc.Unit = unitForColumn(col)
	}
	return enc
}

func roleForType(declared string) Role {
	t := strings.ToLower(strings.TrimSpace(declared))
	if t == "" {
		return RoleTimestamp
	}
	switch {
	case strings.HasPrefix(t, "int"), strings.HasPrefix(t, "uint"),
		strings.HasPrefix(t, "bigint"), strings.HasPrefix(t, "smallint"),
		strings.HasPrefix(t, "tinyint"), t == "long":
		return RoleEpoch
	case strings.Contains(t, "timestamp"), strings.Contains(t, "datetime"),
		strings.Contains(t, "date"), strings.Contains(t, "time"):
		return RoleTimestamp
	}
	return RoleTimestamp
}

// unitForColumn infers the epoch unit. Precedence: explicit declared unit,
// name suffix, sentinel column, then milliseconds for generic time-like
// names.
func unitForColumn(col Column) epoch.Unit {
	if u, ok := epoch.ParseUnit(col.Unit); ok {
		return u
	}

	name := strings.ToLower(col.Name)
	switch {
	case strings.HasSuffix(name, "_ns"):
		return epoch.UnitNanoseconds
	case strings.HasSuffix(name, "_us"):
		return epoch.UnitMicroseconds
	case strings.HasSuffix(name, "_ms"):
		return epoch.UnitMilliseconds
	case strings.HasSuffix(name, "_s"):
		return epoch.UnitSeconds
	case col.Name == sentinelTimestampColumn:
		return epoch.UnitNanoseconds
	}
	return epoch.UnitMilliseconds
}

// FindColumn looks up a column by exact name.
func FindColumn(cols []Column, name string) (Column, bool) {
	for _, c := range cols {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// FieldValue reads the first present candidate key from an introspection row.
// Different stores label DESCRIBE output differently, so callers pass the
// key names they accept in priority order; a row matching none of them
// reports not-found rather than falling back to an arbitrary value.
func FieldValue(row map[string]any, candidates ...string) (any, bool) {
	for _, key := range candidates {
		if v, ok := row[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}
