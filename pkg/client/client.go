// Package client implements the HTTP client for the backing SQL time-series
// store. Queries are POSTed as JSON to the store's query endpoint; schema
// introspection runs a DESCRIBE query through the same path. Transport-level
// retries are handled by go-retryablehttp.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/grafana/grafana-plugin-sdk-go/backend/log"
	"github.com/hashicorp/go-retryablehttp"

	"sqltsdb-grafana-plugin/pkg/ratelimit"
	"sqltsdb-grafana-plugin/pkg/schema"
	"sqltsdb-grafana-plugin/pkg/sqliface"
)

const (
	queryPath      = "/api/v1/query"
	requestTimeout = 30 * time.Second

	// Defaults sized for a dashboard refreshing a few dozen panels.
	requestsPerSecond = 10
	requestBurst      = 20
)

// ClientError represents a failure talking to the query API.
type ClientError struct {
	Msg string
	Err error // Wrapped error
}

func (e *ClientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("sql client error: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("sql client error: %s", e.Msg)
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

// Client talks to one SQL time-series store.
type Client struct {
	httpClient *retryablehttp.Client
	baseURL    string
	apiKey     string
	limiter    *ratelimit.Limiter
}

var (
	_ sqliface.SQLQueryExecutor   = (*Client)(nil)
	_ sqliface.SchemaIntrospector = (*Client)(nil)
)

// ClientFactory creates SQL clients. It exists so tests and the health
// checker can inject alternative constructions.
type ClientFactory interface {
	NewClient(baseURL, apiKey string) (*Client, error)
}

// DefaultClientFactory creates clients with production transport settings.
type DefaultClientFactory struct{}

// NewClient creates a client for the store at baseURL.
func (f *DefaultClientFactory) NewClient(baseURL, apiKey string) (*Client, error) {
	return New(baseURL, apiKey)
}

// New creates a Client. baseURL must be non-empty; apiKey may be empty for
// unauthenticated stores.
func New(baseURL, apiKey string) (*Client, error) {
	if baseURL == "" {
		return nil, &ClientError{Msg: "base URL cannot be empty"}
	}

	hc := retryablehttp.NewClient()
	hc.RetryMax = 3
	hc.RetryWaitMin = 250 * time.Millisecond
	hc.RetryWaitMax = 2 * time.Second
	hc.HTTPClient.Timeout = requestTimeout
	hc.Logger = nil // the SDK logger is used instead, at the call sites

	return &Client{
		httpClient: hc,
		baseURL:    baseURL,
		apiKey:     apiKey,
		limiter:    ratelimit.New(requestsPerSecond, requestBurst),
	}, nil
}

type queryRequest struct {
	Query string `json:"query"`
}

type queryResponse struct {
	Columns []columnRecord   `json:"columns"`
	Rows    []map[string]any `json:"rows"`
	Error   string           `json:"error"`
}

type columnRecord struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Unit string `json:"unit"`
}

// QueryWithContext executes a SQL statement and decodes the result set. Row
// numbers are kept as json.Number so integer epoch values are not truncated
// through float64.
func (c *Client) QueryWithContext(ctx context.Context, sql string) (*sqliface.ResultSet, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &ClientError{Msg: "rate limit wait aborted", Err: err}
	}

	body, err := json.Marshal(queryRequest{Query: sql})
	if err != nil {
		return nil, &ClientError{Msg: "could not encode query request", Err: err}
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+queryPath, bytes.NewReader(body))
	if err != nil {
		return nil, &ClientError{Msg: "could not build query request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ClientError{Msg: "query request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.DefaultLogger.Error("Query API returned non-OK status", "status", resp.StatusCode, "body", string(payload))
		return nil, &ClientError{Msg: fmt.Sprintf("query API returned status %d", resp.StatusCode)}
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	var qr queryResponse
	if err := dec.Decode(&qr); err != nil {
		return nil, &ClientError{Msg: "could not decode query response", Err: err}
	}
	if qr.Error != "" {
		return nil, &ClientError{Msg: qr.Error}
	}

	rs := &sqliface.ResultSet{Rows: qr.Rows}
	for _, col := range qr.Columns {
		rs.Columns = append(rs.Columns, schema.Column{Name: col.Name, Type: col.Type, Unit: col.Unit})
	}
	return rs, nil
}

// DescribeTable fetches the column records of a table. Stores label their
// DESCRIBE output inconsistently, so each row is read through an ordered
// candidate-key lookup; rows missing a recognizable name column are skipped
// rather than guessed at.
func (c *Client) DescribeTable(ctx context.Context, table string) ([]schema.Column, error) {
	if table == "" {
		return nil, &ClientError{Msg: "table name cannot be empty"}
	}

	rs, err := c.QueryWithContext(ctx, "DESCRIBE "+table)
	if err != nil {
		return nil, err
	}

	return ColumnsFromRows(rs.Rows), nil
}

// ColumnsFromRows converts DESCRIBE result rows into column records.
func ColumnsFromRows(rows []map[string]any) []schema.Column {
	var cols []schema.Column
	for _, row := range rows {
		name, ok := schema.FieldValue(row, "column_name", "name", "field", "column")
		if !ok {
			continue
		}
		nameStr, ok := name.(string)
		if !ok || nameStr == "" {
			continue
		}

		col := schema.Column{Name: nameStr}
		if v, ok := schema.FieldValue(row, "column_type", "type", "data_type"); ok {
			if s, ok := v.(string); ok {
				col.Type = s
			}
		}
		if v, ok := schema.FieldValue(row, "epoch_unit", "unit"); ok {
			if s, ok := v.(string); ok {
				col.Unit = s
			}
		}
		cols = append(cols, col)
	}
	return cols
}
