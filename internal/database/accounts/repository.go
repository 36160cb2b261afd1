// Package accounts provides database operations for credential records.
//
// # Usage
//
//	repo := accounts.NewRepository(db)
//	account, err := repo.Create(ctx, entities.NewAccount{Username: "alice", Password: "secret"})
package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"

	"github.com/mrlokans/account-manager/internal/entities"
	"github.com/mrlokans/account-manager/internal/services"
)

var _ services.AccountStore = (*Repository)(nil)

// Repository handles all account database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new accounts repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts an active account. A username that is already stored yields
// services.ErrUsernameTaken.
func (r *Repository) Create(ctx context.Context, input entities.NewAccount) (*entities.Account, error) {
	account := &entities.Account{
		Username: input.Username,
		Password: input.Password,
		Status:   true,
	}

	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s", services.ErrUsernameTaken, input.Username)
		}
		return nil, err
	}

	return account, nil
}

// ListAll returns every account ordered by id.
func (r *Repository) ListAll(ctx context.Context) ([]entities.Account, error) {
	var accounts []entities.Account
	err := r.db.WithContext(ctx).Order("id ASC").Find(&accounts).Error
	return accounts, err
}

// GetByUsername retrieves an account by its exact username.
func (r *Repository) GetByUsername(ctx context.Context, username string) (*entities.Account, error) {
	var account entities.Account
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, services.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// SetStatus activates or deactivates an account.
func (r *Repository) SetStatus(ctx context.Context, id uint, status bool) (*entities.Account, error) {
	db := r.db.WithContext(ctx)

	var account entities.Account
	if err := db.First(&account, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.ErrAccountNotFound
		}
		return nil, err
	}

	// Update with a column name so that false is written.
	if err := db.Model(&account).Update("status", status).Error; err != nil {
		return nil, err
	}
	account.Status = status

	return &account, nil
}

// Delete removes an account. It reports false when no row matched.
func (r *Repository) Delete(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&entities.Account{}, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Stats counts all, active and inactive accounts in one query.
func (r *Repository) Stats(ctx context.Context) (entities.AccountStats, error) {
	var row struct {
		Total  int64
		Active int64
	}

	err := r.db.WithContext(ctx).
		Model(&entities.Account{}).
		Select("COUNT(*) AS total, COALESCE(SUM(CASE WHEN status THEN 1 ELSE 0 END), 0) AS active").
		Scan(&row).Error
	if err != nil {
		return entities.AccountStats{}, err
	}

	return entities.AccountStats{
		Total:    row.Total,
		Active:   row.Active,
		Inactive: row.Total - row.Active,
	}, nil
}

// isUniqueViolation recognises translated gorm errors and raw sqlite
// constraint errors, for connections opened without TranslateError.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
