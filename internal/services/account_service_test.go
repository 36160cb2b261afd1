package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mrlokans/account-manager/internal/entities"
)

type mockAccountStore struct {
	created     []entities.NewAccount
	accounts    []entities.Account
	stats       entities.AccountStats
	statsCalls  int
	createErr   error
	statusErr   error
	deleteFound bool
	byUsername  map[string]*entities.Account
}

func (m *mockAccountStore) Create(ctx context.Context, input entities.NewAccount) (*entities.Account, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.created = append(m.created, input)
	return &entities.Account{ID: uint(len(m.created)), Username: input.Username, Password: input.Password, Status: true}, nil
}

func (m *mockAccountStore) ListAll(ctx context.Context) ([]entities.Account, error) {
	return m.accounts, nil
}

func (m *mockAccountStore) SetStatus(ctx context.Context, id uint, status bool) (*entities.Account, error) {
	if m.statusErr != nil {
		return nil, m.statusErr
	}
	return &entities.Account{ID: id, Status: status}, nil
}

func (m *mockAccountStore) Delete(ctx context.Context, id uint) (bool, error) {
	return m.deleteFound, nil
}

func (m *mockAccountStore) Stats(ctx context.Context) (entities.AccountStats, error) {
	m.statsCalls++
	return m.stats, nil
}

func (m *mockAccountStore) GetByUsername(ctx context.Context, username string) (*entities.Account, error) {
	if a, ok := m.byUsername[username]; ok {
		return a, nil
	}
	return nil, ErrAccountNotFound
}

type mockStatsCache struct {
	cached        *entities.AccountStats
	invalidations int
	invalidateErr error
}

func (m *mockStatsCache) Get(ctx context.Context, loader StatsLoader) (entities.AccountStats, error) {
	if m.cached != nil {
		return *m.cached, nil
	}
	stats, err := loader(ctx)
	if err == nil {
		m.cached = &stats
	}
	return stats, err
}

func (m *mockStatsCache) Invalidate(ctx context.Context) error {
	m.invalidations++
	m.cached = nil
	return m.invalidateErr
}

func TestAccountService_Create_PlaintextByDefault(t *testing.T) {
	store := &mockAccountStore{}
	cache := &mockStatsCache{}
	svc := NewAccountService(store, cache, PasswordOptions{})

	account, err := svc.Create(context.Background(), entities.NewAccount{Username: "a", Password: "p"})

	require.NoError(t, err)
	assert.Equal(t, "p", account.Password)
	assert.Equal(t, 1, cache.invalidations)
}

func TestAccountService_Create_HashesWhenEnabled(t *testing.T) {
	store := &mockAccountStore{}
	svc := NewAccountService(store, nil, PasswordOptions{Hash: true, Cost: bcrypt.MinCost})

	account, err := svc.Create(context.Background(), entities.NewAccount{Username: "a", Password: "p"})

	require.NoError(t, err)
	assert.NotEqual(t, "p", account.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(store.created[0].Password), []byte("p")))
}

func TestAccountService_Create_PropagatesConflict(t *testing.T) {
	store := &mockAccountStore{createErr: ErrUsernameTaken}
	cache := &mockStatsCache{}
	svc := NewAccountService(store, cache, PasswordOptions{})

	_, err := svc.Create(context.Background(), entities.NewAccount{Username: "a", Password: "p"})

	assert.ErrorIs(t, err, ErrUsernameTaken)
	assert.Equal(t, 0, cache.invalidations)
}

func TestAccountService_Create_InvalidationFailureIsNotFatal(t *testing.T) {
	cache := &mockStatsCache{invalidateErr: errors.New("redis down")}
	svc := NewAccountService(&mockAccountStore{}, cache, PasswordOptions{})

	_, err := svc.Create(context.Background(), entities.NewAccount{Username: "a", Password: "p"})

	assert.NoError(t, err)
}

func TestAccountService_SetStatus(t *testing.T) {
	cache := &mockStatsCache{}
	svc := NewAccountService(&mockAccountStore{}, cache, PasswordOptions{})

	account, err := svc.SetStatus(context.Background(), 4, false)
	require.NoError(t, err)
	assert.Equal(t, uint(4), account.ID)
	assert.False(t, account.Status)
	assert.Equal(t, 1, cache.invalidations)

	svc = NewAccountService(&mockAccountStore{statusErr: ErrAccountNotFound}, cache, PasswordOptions{})
	_, err = svc.SetStatus(context.Background(), 4, false)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestAccountService_Delete(t *testing.T) {
	cache := &mockStatsCache{}

	svc := NewAccountService(&mockAccountStore{deleteFound: false}, cache, PasswordOptions{})
	deleted, err := svc.Delete(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Equal(t, 0, cache.invalidations)

	svc = NewAccountService(&mockAccountStore{deleteFound: true}, cache, PasswordOptions{})
	deleted, err = svc.Delete(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, 1, cache.invalidations)
}

func TestAccountService_Stats(t *testing.T) {
	t.Run("without cache", func(t *testing.T) {
		store := &mockAccountStore{stats: entities.AccountStats{Total: 2, Active: 1, Inactive: 1}}
		svc := NewAccountService(store, nil, PasswordOptions{})

		stats, err := svc.Stats(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(2), stats.Total)
	})

	t.Run("served from cache until invalidated", func(t *testing.T) {
		store := &mockAccountStore{stats: entities.AccountStats{Total: 1, Active: 1}}
		svc := NewAccountService(store, &mockStatsCache{}, PasswordOptions{})
		ctx := context.Background()

		_, err := svc.Stats(ctx)
		require.NoError(t, err)
		_, err = svc.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, store.statsCalls)

		_, err = svc.Create(ctx, entities.NewAccount{Username: "a", Password: "p"})
		require.NoError(t, err)
		_, err = svc.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, store.statsCalls)
	})
}

func TestAccountService_Exists(t *testing.T) {
	store := &mockAccountStore{byUsername: map[string]*entities.Account{"alice": {ID: 1, Username: "alice"}}}
	svc := NewAccountService(store, nil, PasswordOptions{})

	exists, err := svc.Exists(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = svc.Exists(context.Background(), "bob")
	require.NoError(t, err)
	assert.False(t, exists)
}
