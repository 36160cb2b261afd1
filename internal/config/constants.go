package config

const (
	// DefaultDatabasePath is the default path for the sqlite database
	DefaultDatabasePath = "./accounts.db"

	// DefaultTasksDatabasePath is used for the task queue when the main
	// database is not sqlite
	DefaultTasksDatabasePath = "./accounts-tasks.db"

	// DefaultImportMaxBytes caps a single import upload (1 MiB)
	DefaultImportMaxBytes = 1 << 20

	// DefaultImportMaxRecords caps the number of records in one import
	DefaultImportMaxRecords = 1000
)

// Supported database drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)
