package tasks

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/account-manager/internal/config"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Workers = 1

	client, err := NewClient(filepath.Join(t.TempDir(), "tasks.db"), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestNewClient(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "accounts-tasks.db")

	client, err := NewClient(path, DefaultConfig())
	require.NoError(t, err)

	_, err = os.Stat(path)
	assert.NoError(t, err, "tasks database should be created")
	assert.NoError(t, client.Close())
}

func TestClientStartStop(t *testing.T) {
	client := newTestClient(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)
	time.Sleep(50 * time.Millisecond)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()
	assert.True(t, client.Stop(stopCtx), "stop should succeed gracefully")
}

func TestClientStopWithoutStart(t *testing.T) {
	client := newTestClient(t)
	assert.True(t, client.Stop(context.Background()))
}

type fakeCleaner struct {
	retention time.Duration
	done      chan struct{}
}

func (f *fakeCleaner) DeleteOldEvents(ctx context.Context, retention time.Duration) (int64, error) {
	f.retention = retention
	close(f.done)
	return 2, nil
}

func TestCleanupAuditEventsQueue(t *testing.T) {
	client := newTestClient(t)
	cleaner := &fakeCleaner{done: make(chan struct{})}
	client.Register(NewCleanupAuditEventsQueue(cleaner))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	id, err := client.EnqueueAuditCleanup(7)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	select {
	case <-cleaner.done:
		assert.Equal(t, 7*24*time.Hour, cleaner.retention)
	case <-time.After(5 * time.Second):
		t.Fatal("cleanup task was not executed within timeout")
	}
}

func TestCleanupAuditEventsTaskConfig(t *testing.T) {
	task := CleanupAuditEventsTask{}
	cfg := task.Config()

	assert.Equal(t, "cleanup_audit_events", cfg.Name)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, 2*time.Minute, cfg.Timeout)
	assert.NotNil(t, cfg.Retention)
	assert.Equal(t, 30*24*time.Hour, task.Retention())
}

func TestCleanupAuditEvents_NoCleaner(t *testing.T) {
	err := CleanupAuditEvents(context.Background(), nil, CleanupAuditEventsTask{})
	assert.Error(t, err)
}

var _ backlite.Task = CleanupAuditEventsTask{}

func TestDatabasePath(t *testing.T) {
	tests := []struct {
		name  string
		db    config.Database
		tasks config.Tasks
		want  string
	}{
		{
			name: "sqlite sits next to main database",
			db:   config.Database{Driver: config.DriverSQLite, Path: "/data/accounts.db"},
			want: "/data/accounts-tasks.db",
		},
		{
			name:  "postgres uses configured path",
			db:    config.Database{Driver: config.DriverPostgres, URL: "postgres://x"},
			tasks: config.Tasks{DatabasePath: "/var/lib/tasks.db"},
			want:  "/var/lib/tasks.db",
		},
		{
			name: "mysql without path uses default",
			db:   config.Database{Driver: config.DriverMySQL},
			want: config.DefaultTasksDatabasePath,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DatabasePath(tt.db, tt.tasks))
		})
	}
}

func TestConfigFrom(t *testing.T) {
	cfg := ConfigFrom(config.Tasks{Workers: 3})
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, 15*time.Minute, cfg.ReleaseAfter)
	assert.Equal(t, time.Hour, cfg.CleanupInterval)
	assert.Equal(t, 24*time.Hour, cfg.RetentionDuration)
}
