// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Driver selection, connection setup, migrations
//	├── accounts/        # Account CRUD and statistics
//	└── audit/           # Audit event storage
//
// # Drivers
//
// sqlite is the default and needs only DATABASE_PATH. postgres and mysql read
// their DSN from DATABASE_URL. Errors are translated by gorm, so unique
// constraint violations surface as gorm.ErrDuplicatedKey on every driver.
//
// # Using Sub-packages
//
//	db, err := database.NewDatabase(cfg.Database)
//
//	accountsRepo := accounts.NewRepository(db.DB)
//	auditRepo := audit.NewRepository(db.DB)
//
//	account, err := accountsRepo.Create(ctx, entities.NewAccount{Username: "a", Password: "p"})
//
// # Interface Implementations
//
//   - accounts.Repository: implements services.AccountStore
//   - audit.Repository: backs audit.Service
package database
