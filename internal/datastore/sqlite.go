package datastore

import (
	"fmt"
	"path/filepath"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/planboard/planboard/internal/conf"
)

// SQLiteStore implements DataStore for SQLite
type SQLiteStore struct {
	DataStore
	Settings *conf.Settings
}

// Open sets up the SQLite database connection and runs migrations.
func (store *SQLiteStore) Open() error {
	path := store.Settings.Output.SQLite.Path
	if path == "" {
		return fmt.Errorf("sqlite database path is not configured")
	}

	// In-memory databases are used by tests, skip directory handling for them
	absoluteFilePath := path
	if !strings.Contains(path, ":memory:") && !strings.HasPrefix(path, "file:") {
		dir, fileName := filepath.Split(path)
		basePath := conf.GetBasePath(dir)
		absoluteFilePath = filepath.Join(basePath, fileName)
	}

	// WAL with a busy timeout keeps concurrent writers from failing with
	// SQLITE_BUSY
	dsn := absoluteFilePath
	if !strings.Contains(dsn, "?") {
		dsn += "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=ON"
	}

	newLogger := createGormLogger()

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: newLogger})
	if err != nil {
		return fmt.Errorf("failed to open SQLite database: %w", err)
	}

	store.DB = db
	return performAutoMigration(db, store.Settings.Debug, "SQLite", absoluteFilePath)
}

// Close is a no-op for SQLite, GORM manages the underlying pool.
func (store *SQLiteStore) Close() error {
	return nil
}
