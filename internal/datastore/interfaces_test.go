package datastore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planboard/planboard/internal/conf"
)

func createTestSettings(t *testing.T) *conf.Settings {
	t.Helper()
	settings := &conf.Settings{}
	settings.Output.SQLite.Enabled = true
	return settings
}

func createDatabase(t *testing.T, settings *conf.Settings) Interface {
	t.Helper()
	tempDir := t.TempDir()
	settings.Output.SQLite.Enabled = true
	settings.Output.SQLite.Path = tempDir + "/test.db"

	dataStore := New(settings)

	require.NoError(t, dataStore.Open(), "Failed to open database")

	t.Cleanup(func() {
		assert.NoError(t, dataStore.Close(), "Failed to close datastore")
	})

	return dataStore
}

func TestNewSelectsBackend(t *testing.T) {
	settings := &conf.Settings{}
	settings.Output.SQLite.Enabled = true
	_, ok := New(settings).(*SQLiteStore)
	assert.True(t, ok, "SQLite settings should produce a SQLiteStore")

	settings = &conf.Settings{}
	settings.Output.MySQL.Enabled = true
	_, ok = New(settings).(*MySQLStore)
	assert.True(t, ok, "MySQL settings should produce a MySQLStore")

	settings = &conf.Settings{}
	assert.Nil(t, New(settings), "no enabled backend should produce nil")
}
