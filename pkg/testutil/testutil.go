package testutil

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/grafana/grafana-plugin-sdk-go/backend"
	"github.com/grafana/grafana-plugin-sdk-go/data"
	"github.com/stretchr/testify/require"
)

// MockTimeNow returns a fixed time for testing.
func MockTimeNow() time.Time {
	return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

// CreateTestQuery creates a data query carrying the given model fields.
func CreateTestQuery(t *testing.T, refID string, model map[string]interface{}) backend.DataQuery {
	t.Helper()

	jsonBytes, err := json.Marshal(model)
	require.NoError(t, err)

	return backend.DataQuery{
		RefID:     refID,
		QueryType: "sql",
		JSON:      jsonBytes,
		TimeRange: backend.TimeRange{
			From: MockTimeNow().Add(-1 * time.Hour),
			To:   MockTimeNow(),
		},
	}
}

// CreateTestSettings creates test datasource settings with a URL and API key.
func CreateTestSettings(t *testing.T, url string) backend.DataSourceInstanceSettings {
	t.Helper()
	return backend.DataSourceInstanceSettings{
		JSONData: []byte(`{"url": "` + url + `"}`),
		DecryptedSecureJSONData: map[string]string{
			"apiKey": "test-api-key",
		},
	}
}

// AssertFrameFields checks that a data frame has the expected field names in
// order.
func AssertFrameFields(t *testing.T, frame *data.Frame, expectedFields []string) {
	t.Helper()

	require.Equal(t, len(expectedFields), len(frame.Fields), "number of fields")
	for i, field := range frame.Fields {
		require.Equal(t, expectedFields[i], field.Name, "field name")
	}
}
