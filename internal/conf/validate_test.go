package conf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validWebServerSettings() *Settings {
	s := &Settings{}
	s.WebServer.Enabled = true
	s.WebServer.Port = "8080"
	s.WebServer.MaxUploadSizeMB = 65
	s.WebServer.AllowedTypes = []string{".mp3", ".wav", ".flac"}
	return s
}

func TestValidateSettingsAcceptsDefaults(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateSettings(&Settings{}))
	assert.NoError(t, ValidateSettings(validWebServerSettings()))
}

func TestValidateSettingsWebServer(t *testing.T) {
	t.Parallel()

	s := validWebServerSettings()
	s.WebServer.Port = "not-a-port"
	require.Error(t, ValidateSettings(s))

	s = validWebServerSettings()
	s.WebServer.Port = "70000"
	require.Error(t, ValidateSettings(s))

	s = validWebServerSettings()
	s.WebServer.MaxUploadSizeMB = 0
	require.Error(t, ValidateSettings(s))

	s = validWebServerSettings()
	s.WebServer.AllowedTypes = []string{"mp3"}
	err := ValidateSettings(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must start with a dot")
}

func TestValidateSettingsAggregatesProblems(t *testing.T) {
	t.Parallel()

	s := validWebServerSettings()
	s.WebServer.Port = ""
	s.Detector.UseTrainedModel = true
	s.Output.SQLite.Enabled = true

	err := ValidateSettings(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "webserver.port")
	assert.Contains(t, err.Error(), "detector.modelpath")
	assert.Contains(t, err.Error(), "output.sqlite.path")
}
