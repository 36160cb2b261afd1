package tasks

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/mrlokans/account-manager/internal/config"
)

// Config holds configuration for the task queue.
type Config struct {
	// Workers is the number of concurrent task workers. Default: 1
	Workers int

	// ReleaseAfter is when stuck tasks are released back to the queue. Default: 15m
	ReleaseAfter time.Duration

	// CleanupInterval is how often completed tasks are purged. Default: 1h
	CleanupInterval time.Duration

	// RetentionDuration is how long completed tasks are kept. Default: 24h
	RetentionDuration time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Workers:           1,
		ReleaseAfter:      15 * time.Minute,
		CleanupInterval:   1 * time.Hour,
		RetentionDuration: 24 * time.Hour,
	}
}

// ConfigFrom converts the application settings, keeping defaults for unset
// values.
func ConfigFrom(cfg config.Tasks) Config {
	out := DefaultConfig()
	if cfg.Workers > 0 {
		out.Workers = cfg.Workers
	}
	if cfg.ReleaseAfter > 0 {
		out.ReleaseAfter = cfg.ReleaseAfter
	}
	if cfg.CleanupInterval > 0 {
		out.CleanupInterval = cfg.CleanupInterval
	}
	if cfg.RetentionDuration > 0 {
		out.RetentionDuration = cfg.RetentionDuration
	}
	return out
}

// DatabasePath picks the sqlite file for the task queue. With the sqlite
// driver it sits next to the main database with a "-tasks" suffix;
// otherwise the configured TASKS_DB_PATH is used.
func DatabasePath(db config.Database, tasks config.Tasks) string {
	if db.Driver != config.DriverSQLite || db.Path == "" || strings.HasPrefix(db.Path, ":memory:") {
		if tasks.DatabasePath != "" {
			return tasks.DatabasePath
		}
		return config.DefaultTasksDatabasePath
	}

	dir := filepath.Dir(db.Path)
	base := filepath.Base(db.Path)
	ext := filepath.Ext(base)
	name := base[:len(base)-len(ext)]
	return filepath.Join(dir, name+"-tasks"+ext)
}
