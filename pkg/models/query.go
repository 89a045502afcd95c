package models

// QueryModel represents the structure of a single query sent from the
// frontend. This struct will be unmarshaled from the JSON data in
// backend.DataQuery.
type QueryModel struct {
	QueryText        string `json:"queryText"`
	Table            string `json:"table"`            // Table backing the query, used for schema introspection
	TimeField        string `json:"timeField"`        // Column used as the time axis
	TimeFrom         string `json:"timeFrom"`         // Time expression, e.g. "now-1h"
	TimeTo           string `json:"timeTo"`           // Time expression, e.g. "now"
	Timezone         string `json:"timezone"`         // IANA zone name; empty means UTC
	UseDashboardTime bool   `json:"useDashboardTime"` // Take the range from the dashboard picker instead of TimeFrom/TimeTo
	EpochUnit        string `json:"epochUnit"`        // Optional explicit unit (s/ms/us/ns), overrides classification
}
