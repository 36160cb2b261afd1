package http

import (
	"context"

	"github.com/mrlokans/account-manager/internal/entities"
	"github.com/mrlokans/account-manager/internal/importers"
)

// Each controller depends on the narrow interface it needs. The account
// service satisfies AccountStore and the import pipeline AccountImporter.

// AccountStore is the account API's view of persistence. A username conflict
// is reported as services.ErrUsernameTaken and an unknown id as
// services.ErrAccountNotFound.
type AccountStore interface {
	List(ctx context.Context) ([]entities.Account, error)
	Create(ctx context.Context, input entities.NewAccount) (*entities.Account, error)
	SetStatus(ctx context.Context, id uint, status bool) (*entities.Account, error)
	Delete(ctx context.Context, id uint) (bool, error)
	Stats(ctx context.Context) (entities.AccountStats, error)
}

// RecordValidator turns a decoded request body into a creatable account.
type RecordValidator interface {
	Validate(raw any) (entities.NewAccount, error)
}

// AccountImporter runs a bulk import of an uploaded file.
type AccountImporter interface {
	Import(ctx context.Context, raw []byte) (entities.ImportOutcome, error)
	Limits() importers.Limits
}
