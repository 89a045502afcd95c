// Package formatter converts SQL result sets into Grafana data frames.
// When the query's classified time column appears in the result, its values
// are decoded at the column's epoch precision and emitted as a time field,
// which lets Grafana render the frame as a time series.
package formatter

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/grafana/grafana-plugin-sdk-go/backend"
	"github.com/grafana/grafana-plugin-sdk-go/data"

	"sqltsdb-grafana-plugin/pkg/epoch"
	"sqltsdb-grafana-plugin/pkg/schema"
	"sqltsdb-grafana-plugin/pkg/sqliface"
)

const responseFrameName = "response"

// FormatResults builds the data response for one query. enc, when non-nil,
// identifies the time column and its encoding.
func FormatResults(rs *sqliface.ResultSet, query backend.DataQuery, enc *schema.Encoding) *backend.DataResponse {
	resp := &backend.DataResponse{}

	frame := data.NewFrame(responseFrameName)
	frame.RefID = query.RefID

	for _, name := range columnOrder(rs) {
		if enc != nil && name == enc.Column {
			frame.Fields = append(frame.Fields, timeField(name, rs.Rows, enc))
			continue
		}
		frame.Fields = append(frame.Fields, valueField(name, rs.Rows))
	}

	resp.Frames = append(resp.Frames, frame)
	return resp
}

// columnOrder returns the column names in result order, falling back to the
// sorted keys of the first row when the store omits column metadata.
func columnOrder(rs *sqliface.ResultSet) []string {
	if len(rs.Columns) > 0 {
		names := make([]string, 0, len(rs.Columns))
		for _, c := range rs.Columns {
			names = append(names, c.Name)
		}
		return names
	}
	if len(rs.Rows) == 0 {
		return nil
	}
	names := make([]string, 0, len(rs.Rows[0]))
	for k := range rs.Rows[0] {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// timeField decodes a time column. Epoch columns go through int64 at the
// declared precision; native timestamp columns arrive as literal strings.
func timeField(name string, rows []map[string]any, enc *schema.Encoding) *data.Field {
	values := make([]*time.Time, len(rows))
	for i, row := range rows {
		v, ok := row[name]
		if !ok || v == nil {
			continue
		}
		if enc.Role == schema.RoleEpoch {
			if n, ok := sqliface.NumberToInt64(v); ok {
				t := epoch.ToTime(n, enc.Unit)
				values[i] = &t
			}
			continue
		}
		if s, ok := v.(string); ok {
			if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
				values[i] = &t
			} else if t, err := time.Parse(time.RFC3339, s); err == nil {
				values[i] = &t
			}
		}
	}
	return data.NewField(name, nil, values)
}

// valueField builds a field for a non-time column, choosing the Go type from
// the first non-nil value.
func valueField(name string, rows []map[string]any) *data.Field {
	switch firstValue(name, rows).(type) {
	case json.Number:
		values := make([]*float64, len(rows))
		for i, row := range rows {
			if n, ok := row[name].(json.Number); ok {
				if f, err := n.Float64(); err == nil {
					values[i] = &f
				}
			}
		}
		return data.NewField(name, nil, values)
	case bool:
		values := make([]*bool, len(rows))
		for i, row := range rows {
			if b, ok := row[name].(bool); ok {
				v := b
				values[i] = &v
			}
		}
		return data.NewField(name, nil, values)
	default:
		values := make([]*string, len(rows))
		for i, row := range rows {
			v, ok := row[name]
			if !ok || v == nil {
				continue
			}
			s := fmt.Sprintf("%v", v)
			values[i] = &s
		}
		return data.NewField(name, nil, values)
	}
}

func firstValue(name string, rows []map[string]any) any {
	for _, row := range rows {
		if v, ok := row[name]; ok && v != nil {
			return v
		}
	}
	return nil
}
