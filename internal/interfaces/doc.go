// Package interfaces documents the core abstractions used throughout the application.
//
// Every layer depends on the narrowest interface it needs and receives the
// implementation from internal/entrypoint, so tests can substitute fakes.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - AccountStore: Account persistence used by the service (internal/services/account_service.go)
//   - StatsCache: Read-through cache for account statistics (internal/services/account_service.go)
//
// ## Import Interfaces
//
//   - AccountCreator: Creates one validated record (internal/importers/pipeline.go)
//   - RecordValidator: Checks a parsed element against the account schema (internal/importers/pipeline.go)
//   - UsernameChecker: Existence check used by Preview (internal/importers/pipeline.go)
//
// ## HTTP Interfaces
//
//   - AccountStore: The account API's view of the service (internal/http/stores.go)
//   - RecordValidator: Validates POST /api/accounts bodies (internal/http/stores.go)
//   - AccountImporter: Runs POST /api/accounts/import (internal/http/stores.go)
//
// ## Background Task Interfaces
//
//   - AuditEventCleaner: Deletes expired audit events (internal/tasks/cleanup_audit.go)
//
// # Adding a New Account Store
//
// To back accounts with another storage engine:
//
//  1. Implement services.AccountStore. Create must return
//     services.ErrUsernameTaken on a username conflict, and SetStatus must
//     return services.ErrAccountNotFound for unknown ids.
//
//     type Repository struct { db *sql.DB }
//
//     func (r *Repository) Create(ctx context.Context, input entities.NewAccount) (*entities.Account, error)
//
//  2. Add a compile-time check in checks.go
//
//  3. Pass it to services.NewAccountService in entrypoint.go
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces
