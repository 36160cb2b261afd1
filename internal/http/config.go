package http

import (
	"github.com/mrlokans/account-manager/internal/audit"
	"github.com/mrlokans/account-manager/internal/cache"
	"github.com/mrlokans/account-manager/internal/database"
	"github.com/mrlokans/account-manager/internal/i18n"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Accounts  AccountStore
	Validator RecordValidator
	Importer  AccountImporter

	// Optional collaborators; nil disables the feature or its health check
	AuditService *audit.Service
	Database     *database.Database
	StatsCache   *cache.StatsCache
	Localizer    *i18n.Localizer

	// ImportRateLimit is the number of imports allowed per client IP per
	// minute. 0 disables the limit.
	ImportRateLimit int

	// Production enables HSTS.
	Production bool

	// Application info
	Version string
}
