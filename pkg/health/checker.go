// Package health implements the datasource health check: settings
// validation followed by a probe query against the store.
package health

import (
	"context"
	"fmt"

	"github.com/grafana/grafana-plugin-sdk-go/backend"
	"github.com/grafana/grafana-plugin-sdk-go/backend/log"

	"sqltsdb-grafana-plugin/pkg/client"
	"sqltsdb-grafana-plugin/pkg/models"
	"sqltsdb-grafana-plugin/pkg/validator"
)

// probeQuery is a minimal statement any SQL store should accept; it tests
// connectivity and authentication without touching user tables.
const probeQuery = "SELECT 1"

// ExecuteHealthCheck performs the full health check for the datasource:
// load settings, validate them, construct a client, and run a probe query.
// Failures are reported through the CheckHealthResult status so Grafana can
// render them in the datasource configuration page; the returned error is
// reserved for unexpected internal failures.
func ExecuteHealthCheck(ctx context.Context, dsSettings backend.DataSourceInstanceSettings) (*backend.CheckHealthResult, error) {
	config, err := models.LoadPluginSettings(dsSettings)
	if err != nil {
		log.DefaultLogger.Error("Health check failed to load plugin settings", "error", err)
		return &backend.CheckHealthResult{
			Status:  backend.HealthStatusError,
			Message: fmt.Sprintf("Failed to load datasource configuration: %s", err.Error()),
		}, nil
	}

	if err := validator.ValidatePluginSettings(config); err != nil {
		return &backend.CheckHealthResult{
			Status:  backend.HealthStatusError,
			Message: fmt.Sprintf("Datasource configuration validation failed: %s", err.Error()),
		}, nil
	}

	return CheckConnection(ctx, config, &client.DefaultClientFactory{})
}

// CheckConnection builds a client from settings and runs the probe query.
func CheckConnection(ctx context.Context, config *models.PluginSettings, factory client.ClientFactory) (*backend.CheckHealthResult, error) {
	c, err := factory.NewClient(config.URL, config.Secrets.ApiKey)
	if err != nil {
		return &backend.CheckHealthResult{
			Status:  backend.HealthStatusError,
			Message: fmt.Sprintf("Failed to initialize SQL client: %s", err.Error()),
		}, nil
	}

	if _, err := c.QueryWithContext(ctx, probeQuery); err != nil {
		return &backend.CheckHealthResult{
			Status:  backend.HealthStatusError,
			Message: fmt.Sprintf("Failed to reach the query API at %s: %s", config.URL, err.Error()),
		}, nil
	}

	return &backend.CheckHealthResult{
		Status:  backend.HealthStatusOk,
		Message: fmt.Sprintf("Successfully connected to the query API at %s.", config.URL),
	}, nil
}
