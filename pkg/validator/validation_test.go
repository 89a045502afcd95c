package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sqltsdb-grafana-plugin/pkg/macro"
	"sqltsdb-grafana-plugin/pkg/models"
	"sqltsdb-grafana-plugin/pkg/timerange"
)

func TestValidatePluginSettings(t *testing.T) {
	tests := []struct {
		name    string
		config  *models.PluginSettings
		wantErr bool
	}{
		{
			name: "valid settings",
			config: &models.PluginSettings{
				URL:     "http://localhost:8428",
				Secrets: &models.SecretPluginSettings{ApiKey: "test-key"},
			},
			wantErr: false,
		},
		{
			name:    "nil config",
			config:  nil,
			wantErr: true,
		},
		{
			name: "missing URL",
			config: &models.PluginSettings{
				Secrets: &models.SecretPluginSettings{ApiKey: "test-key"},
			},
			wantErr: true,
		},
		{
			name: "nil secrets",
			config: &models.PluginSettings{
				URL:     "http://localhost:8428",
				Secrets: nil,
			},
			wantErr: true,
		},
		{
			name: "empty API key",
			config: &models.PluginSettings{
				URL:     "http://localhost:8428",
				Secrets: &models.SecretPluginSettings{ApiKey: ""},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePluginSettings(tt.config)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateContext(t *testing.T) {
	validCtx := macro.Context{
		TimeField: "ts",
		TimeRange: timerange.Range{From: "now-1h", To: "now", Enabled: true},
	}

	tests := []struct {
		name        string
		template    string
		ctx         macro.Context
		wantReasons int
	}{
		{
			name:        "no tokens needs no context",
			template:    "SELECT 1",
			ctx:         macro.Context{},
			wantReasons: 0,
		},
		{
			name:        "complete context",
			template:    "SELECT * FROM t WHERE $__timeFilter",
			ctx:         validCtx,
			wantReasons: 0,
		},
		{
			name:     "missing time field",
			template: "SELECT * FROM t WHERE $__timeFilter",
			ctx: macro.Context{
				TimeRange: timerange.Range{From: "now-1h", To: "now", Enabled: true},
			},
			wantReasons: 1,
		},
		{
			name:     "disabled range",
			template: "SELECT * FROM t WHERE $__timeFilter",
			ctx: macro.Context{
				TimeField: "ts",
				TimeRange: timerange.Range{From: "now-1h", To: "now", Enabled: false},
			},
			wantReasons: 1,
		},
		{
			name:        "everything missing",
			template:    "SELECT * FROM t WHERE $__timeFilter",
			ctx:         macro.Context{},
			wantReasons: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reasons := ValidateContext(tt.template, tt.ctx)
			assert.Len(t, reasons, tt.wantReasons, "reasons: %v", reasons)
		})
	}
}

func TestValidateContext_ReasonsAreHumanReadable(t *testing.T) {
	reasons := ValidateContext("SELECT $__timeFilter", macro.Context{
		TimeRange: timerange.Range{From: "now-1h", To: "now", Enabled: true},
	})

	assert.Equal(t, []string{"query uses time variables but no time field is selected"}, reasons)
}
