// Package handler processes incoming data queries from Grafana. It parses
// the query model, builds the substitution context, expands the time
// variables, executes the final SQL against the store, and formats the
// response. Queries with unsatisfiable time variables are rejected before
// any SQL leaves the plugin.
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/grafana/grafana-plugin-sdk-go/backend"
	"github.com/grafana/grafana-plugin-sdk-go/backend/log"

	"sqltsdb-grafana-plugin/pkg/epoch"
	"sqltsdb-grafana-plugin/pkg/formatter"
	"sqltsdb-grafana-plugin/pkg/macro"
	"sqltsdb-grafana-plugin/pkg/metrics"
	"sqltsdb-grafana-plugin/pkg/models"
	"sqltsdb-grafana-plugin/pkg/schema"
	"sqltsdb-grafana-plugin/pkg/sqliface"
	"sqltsdb-grafana-plugin/pkg/timerange"
	"sqltsdb-grafana-plugin/pkg/validator"
)

// QueryExecutionError represents an error during SQL query execution.
type QueryExecutionError struct {
	Query string
	Msg   string
	Err   error // Wrapped error
}

func (e *QueryExecutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("query execution error for '%s': %s: %v", e.Query, e.Msg, e.Err)
	}
	return fmt.Sprintf("query execution error for '%s': %s", e.Query, e.Msg)
}

func (e *QueryExecutionError) Unwrap() error {
	return e.Err
}

// HandleQuery processes a single Grafana data query.
func HandleQuery(ctx context.Context, executor sqliface.SQLQueryExecutor, introspector sqliface.SchemaIntrospector, config *models.PluginSettings, query backend.DataQuery) *backend.DataResponse {
	resp := &backend.DataResponse{}

	var qm models.QueryModel
	if err := json.Unmarshal(query.JSON, &qm); err != nil {
		resp.Error = fmt.Errorf("error parsing query JSON: %w", err)
		log.DefaultLogger.Error("Error parsing query JSON", "refId", query.RefID, "error", err)
		return resp
	}

	if qm.QueryText == "" {
		resp.Error = &QueryExecutionError{Msg: "query text cannot be empty"}
		return resp
	}

	mctx := buildContext(qm, config, query)

	// Fail closed before substitution so a query never executes with
	// unresolved placeholders, and surface every reason at once for
	// field-level UI guidance.
	if reasons := validator.ValidateContext(qm.QueryText, mctx); len(reasons) > 0 {
		resp.Error = &QueryExecutionError{Query: qm.QueryText, Msg: strings.Join(reasons, "; ")}
		log.DefaultLogger.Warn("Query blocked by missing context", "refId", query.RefID, "reasons", reasons)
		return resp
	}

	var enc *schema.Encoding
	if macro.UsesTimeTokens(qm.QueryText) && qm.TimeField != "" {
		e, err := classifyTimeField(ctx, introspector, qm)
		if err != nil {
			resp.Error = err
			log.DefaultLogger.Error("Time field classification failed", "refId", query.RefID, "timeField", qm.TimeField, "error", err)
			return resp
		}
		enc = e
	}
	mctx.Encoding = enc

	finalSQL, err := macro.Expand(qm.QueryText, mctx)
	if err != nil {
		resp.Error = fmt.Errorf("time variable substitution failed: %w", err)
		log.DefaultLogger.Error("Time variable substitution failed", "refId", query.RefID, "error", err)
		return resp
	}

	log.DefaultLogger.Debug("Executing query", "refId", query.RefID, "sql", finalSQL)

	start := time.Now()
	rs, err := executor.QueryWithContext(ctx, finalSQL)
	metrics.RecordQuery(time.Since(start), err)
	if err != nil {
		resp.Error = &QueryExecutionError{Query: finalSQL, Msg: "query execution failed", Err: err}
		log.DefaultLogger.Error("Query execution failed", "refId", query.RefID, "error", err)
		return resp
	}

	return formatter.FormatResults(rs, query, enc)
}

// buildContext assembles the substitution context for a query. The range
// comes from the dashboard picker unless the model carries its own
// expressions; dashboard bounds are passed through as RFC3339 literals.
func buildContext(qm models.QueryModel, config *models.PluginSettings, query backend.DataQuery) macro.Context {
	tz := qm.Timezone
	if tz == "" && config != nil {
		tz = config.Timezone
	}

	r := timerange.Range{From: qm.TimeFrom, To: qm.TimeTo, Enabled: true}
	if qm.UseDashboardTime || (qm.TimeFrom == "" && qm.TimeTo == "") {
		r = timerange.Range{
			From:    query.TimeRange.From.UTC().Format(time.RFC3339),
			To:      query.TimeRange.To.UTC().Format(time.RFC3339),
			Enabled: true,
		}
	}

	return macro.Context{
		TimeField: qm.TimeField,
		TimeRange: r,
		Timezone:  tz,
	}
}

// classifyTimeField determines the time field's encoding. An explicit unit
// on the query model wins; otherwise the table schema is consulted when
// available, and finally the bare column name.
func classifyTimeField(ctx context.Context, introspector sqliface.SchemaIntrospector, qm models.QueryModel) (*schema.Encoding, error) {
	if qm.EpochUnit != "" {
		unit, ok := epoch.ParseUnit(qm.EpochUnit)
		if !ok {
			return nil, &QueryExecutionError{Query: qm.QueryText, Msg: fmt.Sprintf("unknown epoch unit %q", qm.EpochUnit)}
		}
		return &schema.Encoding{Column: qm.TimeField, Role: schema.RoleEpoch, Unit: unit}, nil
	}

	col := schema.Column{Name: qm.TimeField}
	if introspector != nil && qm.Table != "" {
		cols, err := introspector.DescribeTable(ctx, qm.Table)
		if err != nil {
			return nil, &QueryExecutionError{Query: qm.QueryText, Msg: fmt.Sprintf("could not introspect table %q", qm.Table), Err: err}
		}
		if c, ok := schema.FindColumn(cols, qm.TimeField); ok {
			col = c
		}
	}

	enc := schema.Classify(col)
	return &enc, nil
}
