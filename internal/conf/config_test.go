package conf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSettingsDefaults(t *testing.T) {
	settings := defaultSettings()
	assert.NoError(t, ValidateSettings(settings))
}

func TestValidateSettingsBothDatabasesEnabled(t *testing.T) {
	settings := defaultSettings()
	settings.Output.MySQL.Enabled = true

	err := ValidateSettings(settings)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "only one output database")
}

func TestValidateSettingsNoDatabase(t *testing.T) {
	settings := defaultSettings()
	settings.Output.SQLite.Enabled = false

	err := ValidateSettings(settings)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "one output database must be enabled")
}

func TestValidateSettingsBadPort(t *testing.T) {
	settings := defaultSettings()
	settings.WebServer.Port = "not-a-port"

	err := ValidateSettings(settings)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "webserver.port")
}

func TestValidateSettingsAIRequiresKey(t *testing.T) {
	settings := defaultSettings()
	settings.AI.Enabled = true
	settings.AI.APIKey = ""

	err := ValidateSettings(settings)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ai.apikey")
}

func TestValidateSettingsUnknownProvider(t *testing.T) {
	settings := defaultSettings()
	settings.AI.Enabled = true
	settings.AI.APIKey = "key"
	settings.AI.Provider = "oracle"

	err := ValidateSettings(settings)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not supported")
}
