// Package validator provides validation for plugin settings and query
// substitution context. Context validation returns human-readable reasons
// rather than a bare boolean so the UI can highlight the specific control
// that needs attention (the time-field dropdown, the range picker) instead
// of the engine guessing a value.
package validator

import (
	"sqltsdb-grafana-plugin/pkg/macro"
	"sqltsdb-grafana-plugin/pkg/models"
)

// ValidatePluginSettings validates the datasource settings.
func ValidatePluginSettings(settings *models.PluginSettings) error {
	if settings == nil {
		return &models.PluginSettingsError{Msg: "plugin settings cannot be nil"}
	}

	if settings.URL == "" {
		return &models.PluginSettingsError{Msg: "datasource URL cannot be empty"}
	}

	if settings.Secrets == nil {
		return &models.PluginSettingsError{Msg: "plugin secrets cannot be nil"}
	}

	if settings.Secrets.ApiKey == "" {
		return &models.PluginSettingsError{Msg: "API key cannot be empty"}
	}

	return nil
}

// ValidateContext checks whether a query template's time tokens can be
// satisfied by the given context. It returns an empty slice when the
// template is executable: either it uses no time tokens at all, or the
// context supplies a time field and an enabled, fully-bounded range.
func ValidateContext(template string, ctx macro.Context) []string {
	if !macro.UsesTimeTokens(template) {
		return nil
	}

	var reasons []string
	if ctx.TimeField == "" {
		reasons = append(reasons, "query uses time variables but no time field is selected")
	}
	if !ctx.TimeRange.Enabled {
		reasons = append(reasons, "query uses time variables but the time range is disabled")
	}
	if ctx.TimeRange.From == "" {
		reasons = append(reasons, "time range is missing a 'from' bound")
	}
	if ctx.TimeRange.To == "" {
		reasons = append(reasons, "time range is missing a 'to' bound")
	}
	return reasons
}
