package models

import (
	"reflect"
	"testing"

	"github.com/grafana/grafana-plugin-sdk-go/backend"
)

func TestLoadPluginSettings_Success(t *testing.T) {
	jsonData := `{
		"url": "http://localhost:8428",
		"timezone": "Europe/Berlin"
	}`
	secureData := map[string]string{
		"apiKey": "test_api_key",
	}

	settings := backend.DataSourceInstanceSettings{
		JSONData:                []byte(jsonData),
		DecryptedSecureJSONData: secureData,
	}

	pluginSettings, err := LoadPluginSettings(settings)
	if err != nil {
		t.Fatalf("LoadPluginSettings failed with error: %v", err)
	}

	expectedSettings := &PluginSettings{
		URL:      "http://localhost:8428",
		Timezone: "Europe/Berlin",
		Secrets: &SecretPluginSettings{
			ApiKey: "test_api_key",
		},
	}

	if !reflect.DeepEqual(pluginSettings, expectedSettings) {
		t.Errorf("LoadPluginSettings returned %+v, expected %+v", pluginSettings, expectedSettings)
	}
}

func TestLoadPluginSettings_FallsBackToInstanceURL(t *testing.T) {
	settings := backend.DataSourceInstanceSettings{
		URL:                     "http://fallback:8428",
		JSONData:                []byte(`{}`),
		DecryptedSecureJSONData: map[string]string{"apiKey": "k"},
	}

	pluginSettings, err := LoadPluginSettings(settings)
	if err != nil {
		t.Fatalf("LoadPluginSettings failed with error: %v", err)
	}
	if pluginSettings.URL != "http://fallback:8428" {
		t.Errorf("expected fallback URL, got %q", pluginSettings.URL)
	}
}

func TestLoadPluginSettings_InvalidJSON(t *testing.T) {
	settings := backend.DataSourceInstanceSettings{
		JSONData:                []byte(`invalid json`),
		DecryptedSecureJSONData: map[string]string{"apiKey": "k"},
	}

	_, err := LoadPluginSettings(settings)
	if err == nil {
		t.Fatal("LoadPluginSettings did not return error for invalid JSON")
	}

	psErr, ok := err.(*PluginSettingsError)
	if !ok {
		t.Fatalf("Expected PluginSettingsError, got %T", err)
	}
	if psErr.Msg != "could not unmarshal PluginSettings JSON" {
		t.Errorf("Expected error message 'could not unmarshal PluginSettings JSON', got '%s'", psErr.Msg)
	}
	if psErr.Unwrap() == nil {
		t.Error("Expected wrapped error, but got nil")
	}
}

func TestLoadPluginSettings_MissingAPIKey(t *testing.T) {
	settings := backend.DataSourceInstanceSettings{
		JSONData:                []byte(`{"url": "http://localhost:8428"}`),
		DecryptedSecureJSONData: map[string]string{},
	}

	_, err := LoadPluginSettings(settings)
	if err == nil {
		t.Fatal("LoadPluginSettings did not return error for missing API key")
	}

	if _, ok := err.(*PluginSettingsError); !ok {
		t.Fatalf("Expected PluginSettingsError, got %T", err)
	}
}
