package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/account-manager/internal/audit"
	"github.com/mrlokans/account-manager/internal/cache"
	"github.com/mrlokans/account-manager/internal/database/accounts"
	"github.com/mrlokans/account-manager/internal/http"
	"github.com/mrlokans/account-manager/internal/importers"
	"github.com/mrlokans/account-manager/internal/services"
	"github.com/mrlokans/account-manager/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// AccountStore implementations
var _ services.AccountStore = (*accounts.Repository)(nil)

// StatsCache implementations
var _ services.StatsCache = (*cache.StatsCache)(nil)

// =============================================================================
// Import Pipeline
// =============================================================================

var _ importers.AccountCreator = (*services.AccountService)(nil)
var _ importers.RecordValidator = (*services.RecordValidator)(nil)
var _ importers.UsernameChecker = (*services.AccountService)(nil)

// =============================================================================
// HTTP Controllers
// =============================================================================

var _ http.AccountStore = (*services.AccountService)(nil)
var _ http.RecordValidator = (*services.RecordValidator)(nil)
var _ http.AccountImporter = (*importers.Pipeline)(nil)

// =============================================================================
// Background Tasks
// =============================================================================

var _ tasks.AuditEventCleaner = (*audit.Service)(nil)
