package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Database
		Import
		Passwords
		Redis
		RateLimit
		Audit
		Tasks
		Log
		Global
	}

	HTTP struct {
		Port int32
		Host string
	}
	Database struct {
		Driver     string // sqlite, postgres or mysql
		Path       string // sqlite file
		URL        string // DSN for postgres and mysql
		Production bool   // require TLS for postgres connections
		LogLevel   string // silent, error, warn, info
	}
	Import struct {
		MaxBytes   int64
		MaxRecords int
	}
	Passwords struct {
		Hash       bool // bcrypt passwords before storing them
		BcryptCost int
	}
	Redis struct {
		Addr     string // empty disables the stats cache
		Password string
		DB       int
		StatsTTL time.Duration
	}
	RateLimit struct {
		ImportsPerMinute int // 0 disables rate limiting
	}
	Audit struct {
		RetentionDays   int    // Days to keep audit events (default: 30)
		CleanupSchedule string // Cron format: "0 3 * * *" = daily at 03:00
	}
	Tasks struct {
		Enabled           bool
		DatabasePath      string
		Workers           int
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}
	Log struct {
		File       string
		MaxSizeMB  int
		MaxBackups int
		MaxAgeDays int
	}
	Global struct {
		ShutdownTimeoutInSeconds int
		Locale                   string
	}
)

// LoadDotEnv loads variables from the given .env files into the process
// environment. Missing files are ignored; existing variables are not overridden.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if fileExists(f) {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 5000)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 5)
	v.SetDefault("locale", "vi")

	v.SetDefault("db_driver", DriverSQLite)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_url", "")
	v.SetDefault("node_env", "development")
	v.SetDefault("db_log_level", "warn")

	v.SetDefault("import_max_bytes", DefaultImportMaxBytes)
	v.SetDefault("import_max_records", DefaultImportMaxRecords)

	v.SetDefault("password_hashing", false)
	v.SetDefault("bcrypt_cost", 10)

	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("stats_cache_ttl", "30s")

	v.SetDefault("import_rate_limit", 30)

	v.SetDefault("audit_retention_days", 30)
	v.SetDefault("audit_cleanup_schedule", "0 3 * * *")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("tasks_db_path", DefaultTasksDatabasePath)
	v.SetDefault("task_workers", 1)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	v.SetDefault("log_file", "")
	v.SetDefault("log_max_size_mb", 10)
	v.SetDefault("log_max_backups", 3)
	v.SetDefault("log_max_age_days", 28)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Database: Database{
			Driver:     strings.ToLower(v.GetString("DB_DRIVER")),
			Path:       v.GetString("DATABASE_PATH"),
			URL:        v.GetString("DATABASE_URL"),
			Production: isProduction(v),
			LogLevel:   v.GetString("DB_LOG_LEVEL"),
		},
		Import: Import{
			MaxBytes:   v.GetInt64("IMPORT_MAX_BYTES"),
			MaxRecords: v.GetInt("IMPORT_MAX_RECORDS"),
		},
		Passwords: Passwords{
			Hash:       v.GetBool("PASSWORD_HASHING"),
			BcryptCost: v.GetInt("BCRYPT_COST"),
		},
		Redis: Redis{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			StatsTTL: v.GetDuration("STATS_CACHE_TTL"),
		},
		RateLimit: RateLimit{
			ImportsPerMinute: v.GetInt("IMPORT_RATE_LIMIT"),
		},
		Audit: Audit{
			RetentionDays:   v.GetInt("AUDIT_RETENTION_DAYS"),
			CleanupSchedule: v.GetString("AUDIT_CLEANUP_SCHEDULE"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			DatabasePath:      v.GetString("TASKS_DB_PATH"),
			Workers:           v.GetInt("TASK_WORKERS"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
		Log: Log{
			File:       v.GetString("LOG_FILE"),
			MaxSizeMB:  v.GetInt("LOG_MAX_SIZE_MB"),
			MaxBackups: v.GetInt("LOG_MAX_BACKUPS"),
			MaxAgeDays: v.GetInt("LOG_MAX_AGE_DAYS"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
			Locale:                   v.GetString("LOCALE"),
		},
	}
}

// isProduction checks APP_ENV first and falls back to NODE_ENV, which older
// deployments of this service set.
func isProduction(v *viper.Viper) bool {
	env := v.GetString("APP_ENV")
	if env == "" {
		env = v.GetString("NODE_ENV")
	}
	return strings.EqualFold(env, "production")
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
