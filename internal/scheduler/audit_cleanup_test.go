package scheduler

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/account-manager/internal/config"
	"github.com/mrlokans/account-manager/internal/tasks"
)

type recordingCleaner struct {
	mu         sync.Mutex
	calls      int
	retentions []time.Duration
}

func (r *recordingCleaner) DeleteOldEvents(ctx context.Context, retention time.Duration) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.retentions = append(r.retentions, retention)
	return 0, nil
}

func (r *recordingCleaner) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func TestValidateSchedule(t *testing.T) {
	assert.NoError(t, ValidateSchedule("0 3 * * *"))
	assert.NoError(t, ValidateSchedule("*/5 * * * *"))
	assert.Error(t, ValidateSchedule("not a schedule"))
	assert.Error(t, ValidateSchedule("0 0 3 * * *"))
}

func TestAuditCleanupScheduler_StartStop(t *testing.T) {
	s := NewAuditCleanupScheduler(config.Audit{CleanupSchedule: "0 3 * * *", RetentionDays: 30}, nil, &recordingCleaner{})

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())

	next := s.NextRun()
	require.NotNil(t, next)
	assert.Equal(t, 3, next.Hour())
	assert.Equal(t, 0, next.Minute())

	// Starting twice is a no-op.
	require.NoError(t, s.Start(context.Background()))

	s.Stop()
	assert.False(t, s.IsRunning())
	assert.Nil(t, s.NextRun())
}

func TestAuditCleanupScheduler_Disabled(t *testing.T) {
	s := NewAuditCleanupScheduler(config.Audit{}, nil, &recordingCleaner{})

	require.NoError(t, s.Start(context.Background()))
	assert.False(t, s.IsRunning())
	s.Stop()
}

func TestAuditCleanupScheduler_InvalidSchedule(t *testing.T) {
	s := NewAuditCleanupScheduler(config.Audit{CleanupSchedule: "every day"}, nil, &recordingCleaner{})

	err := s.Start(context.Background())
	assert.ErrorContains(t, err, "invalid cron schedule")
	assert.False(t, s.IsRunning())
}

func TestAuditCleanupScheduler_StopsWithContext(t *testing.T) {
	s := NewAuditCleanupScheduler(config.Audit{CleanupSchedule: "0 3 * * *"}, nil, &recordingCleaner{})
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, s.Start(ctx))
	cancel()

	assert.Eventually(t, func() bool { return !s.IsRunning() }, 2*time.Second, 10*time.Millisecond)
}

func TestAuditCleanupScheduler_RunNowInline(t *testing.T) {
	cleaner := &recordingCleaner{}
	s := NewAuditCleanupScheduler(config.Audit{RetentionDays: 14}, nil, cleaner)

	require.NoError(t, s.RunNow(context.Background()))

	assert.Equal(t, 1, cleaner.callCount())
	assert.Equal(t, 14*24*time.Hour, cleaner.retentions[0])
}

func TestAuditCleanupScheduler_RunNowEnqueues(t *testing.T) {
	cfg := tasks.DefaultConfig()
	client, err := tasks.NewClient(filepath.Join(t.TempDir(), "tasks.db"), cfg)
	require.NoError(t, err)
	defer client.Close()

	cleaner := &recordingCleaner{}
	client.Register(tasks.NewCleanupAuditEventsQueue(cleaner))

	s := NewAuditCleanupScheduler(config.Audit{RetentionDays: 7}, client, cleaner)
	require.NoError(t, s.RunNow(context.Background()))

	// Workers are not started, so nothing ran inline.
	assert.Equal(t, 0, cleaner.callCount())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	assert.Eventually(t, func() bool { return cleaner.callCount() == 1 }, 5*time.Second, 20*time.Millisecond)
}
