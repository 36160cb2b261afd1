package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/mrlokans/account-manager/internal/entities"
)

// AccountStore persists accounts. Create must return ErrUsernameTaken when the
// username is already stored, and SetStatus must return ErrAccountNotFound for
// unknown ids.
type AccountStore interface {
	Create(ctx context.Context, input entities.NewAccount) (*entities.Account, error)
	ListAll(ctx context.Context) ([]entities.Account, error)
	SetStatus(ctx context.Context, id uint, status bool) (*entities.Account, error)
	Delete(ctx context.Context, id uint) (bool, error)
	Stats(ctx context.Context) (entities.AccountStats, error)
	GetByUsername(ctx context.Context, username string) (*entities.Account, error)
}

// StatsLoader computes fresh statistics on a cache miss.
type StatsLoader func(ctx context.Context) (entities.AccountStats, error)

// StatsCache caches the aggregate counts. Implementations must tolerate a nil
// receiver.
type StatsCache interface {
	Get(ctx context.Context, loader StatsLoader) (entities.AccountStats, error)
	Invalidate(ctx context.Context) error
}

// AccountService coordinates account writes with password handling and stats
// invalidation. Both the HTTP API and the import pipeline create accounts
// through it.
type AccountService struct {
	store     AccountStore
	cache     StatsCache
	passwords PasswordOptions
}

// NewAccountService creates a new AccountService. cache may be nil.
func NewAccountService(store AccountStore, cache StatsCache, passwords PasswordOptions) *AccountService {
	return &AccountService{
		store:     store,
		cache:     cache,
		passwords: passwords,
	}
}

func (s *AccountService) List(ctx context.Context) ([]entities.Account, error) {
	accounts, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

// Create stores a validated account.
func (s *AccountService) Create(ctx context.Context, input entities.NewAccount) (*entities.Account, error) {
	if s.passwords.Hash {
		hashed, err := HashPassword(input.Password, s.passwords.Cost)
		if err != nil {
			return nil, err
		}
		input.Password = hashed
	}

	account, err := s.store.Create(ctx, input)
	if err != nil {
		return nil, err
	}

	s.invalidateStats(ctx)
	return account, nil
}

func (s *AccountService) SetStatus(ctx context.Context, id uint, status bool) (*entities.Account, error) {
	account, err := s.store.SetStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	s.invalidateStats(ctx)
	return account, nil
}

func (s *AccountService) Delete(ctx context.Context, id uint) (bool, error) {
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete account %d: %w", id, err)
	}
	if deleted {
		s.invalidateStats(ctx)
	}
	return deleted, nil
}

// Stats returns the aggregate counts, served from the cache when configured.
func (s *AccountService) Stats(ctx context.Context) (entities.AccountStats, error) {
	if s.cache == nil {
		return s.store.Stats(ctx)
	}
	return s.cache.Get(ctx, s.store.Stats)
}

// Exists reports whether an account with the username is already stored.
func (s *AccountService) Exists(ctx context.Context, username string) (bool, error) {
	_, err := s.store.GetByUsername(ctx, username)
	if errors.Is(err, ErrAccountNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *AccountService) invalidateStats(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Printf("Failed to invalidate account stats cache: %v", err)
	}
}
