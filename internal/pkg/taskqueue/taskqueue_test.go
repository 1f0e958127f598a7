package taskqueue

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisc "github.com/HenryKang1/AI-market-researcher/internal/pkg/redis"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	rc, err := redisc.Connect("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { rc.Close() })
	return NewService(rc)
}

func enqueueTestTask(t *testing.T, svc *Service, dedupKey string) *Task {
	t.Helper()
	task, err := svc.Enqueue(context.Background(), "research:simulate",
		map[string]string{"run_id": "r-1"}, dedupKey, "s-1")
	require.NoError(t, err)
	require.NotNil(t, task)
	return task
}

func TestCancelSurvivesProgressUpdate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	task := enqueueTestTask(t, svc, "r-1")

	require.NoError(t, svc.UpdateStatus(ctx, task.ID, TaskRunning, nil, ""))
	require.NoError(t, svc.Cancel(ctx, task.ID))

	// A progress write from the still-running worker must not resurrect the
	// task's previous status.
	require.NoError(t, svc.UpdateProgress(ctx, task.ID, 40))

	assert.True(t, svc.IsCancelled(ctx, task.ID))
	got, err := svc.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, TaskCancelled, got.Status)
	assert.Equal(t, 40, got.Progress)
}

func TestProgressFoldedIntoTask(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	task := enqueueTestTask(t, svc, "")

	require.NoError(t, svc.UpdateStatus(ctx, task.ID, TaskRunning, nil, ""))
	require.NoError(t, svc.UpdateProgress(ctx, task.ID, 25))

	got, err := svc.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, TaskRunning, got.Status)
	assert.Equal(t, 25, got.Progress)

	require.NoError(t, svc.UpdateProgress(ctx, task.ID, 120))
	got, err = svc.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, got.Progress, "progress clamps to 100")
}

func TestEnqueueDedup(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first := enqueueTestTask(t, svc, "r-1")
	second := enqueueTestTask(t, svc, "r-1")
	assert.Equal(t, first.ID, second.ID, "dedup key returns the existing task")

	require.NoError(t, svc.UpdateStatus(ctx, first.ID, TaskCompleted, nil, ""))
	got, err := svc.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, got.Progress, "completion pins progress at 100")

	third := enqueueTestTask(t, svc, "r-1")
	assert.NotEqual(t, first.ID, third.ID, "terminal status releases the dedup key")
}

func TestCancelRejectsTerminalTask(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	task := enqueueTestTask(t, svc, "")

	require.NoError(t, svc.UpdateStatus(ctx, task.ID, TaskCompleted, nil, ""))
	assert.Error(t, svc.Cancel(ctx, task.ID))
}
