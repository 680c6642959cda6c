package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snaptic/go-snaptic/internal/models"
)

func testSchedule(name string) *models.Schedule {
	return &models.Schedule{
		ID:       uuid.New().String(),
		Name:     name,
		Kind:     models.JobSync,
		CronExpr: "0 * * * *",
		Enabled:  true,
	}
}

func TestScheduleCRUD(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	schedule := testSchedule("hourly sync")
	require.NoError(t, store.CreateSchedule(ctx, schedule))
	assert.False(t, schedule.CreatedAt.IsZero())

	got, err := store.GetSchedule(ctx, schedule.ID)
	require.NoError(t, err)
	assert.Equal(t, "hourly sync", got.Name)
	assert.Equal(t, models.JobSync, got.Kind)
	assert.True(t, got.Enabled)
	assert.Nil(t, got.LastRun)

	now := time.Now().UTC().Truncate(time.Second)
	got.LastRun = &now
	got.Enabled = false
	require.NoError(t, store.UpdateSchedule(ctx, got))

	updated, err := store.GetSchedule(ctx, schedule.ID)
	require.NoError(t, err)
	assert.False(t, updated.Enabled)
	require.NotNil(t, updated.LastRun)

	require.NoError(t, store.DeleteSchedule(ctx, schedule.ID))
	_, err = store.GetSchedule(ctx, schedule.ID)
	require.Error(t, err)
}

func TestUpdateScheduleMissing(t *testing.T) {
	store := newTestStore(t)
	err := store.UpdateSchedule(context.Background(), testSchedule("ghost"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestListSchedulesEnabledFilter(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	on := testSchedule("on")
	off := testSchedule("off")
	off.Enabled = false
	require.NoError(t, store.CreateSchedule(ctx, on))
	require.NoError(t, store.CreateSchedule(ctx, off))

	all, err := store.ListSchedules(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	enabled := true
	active, err := store.ListSchedules(ctx, &enabled)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "on", active[0].Name)
}

func TestSyncRunHistory(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	last, err := store.LastSyncRun(ctx)
	require.NoError(t, err)
	assert.Nil(t, last, "no runs yet")

	older := &models.SyncRun{
		ID: uuid.New().String(), Notes: 5, Tags: 2, DurationMs: 120,
		StartedAt: time.Now().Add(-time.Hour),
	}
	newer := &models.SyncRun{
		ID: uuid.New().String(), Notes: 7, Tags: 2, DurationMs: 90,
		StartedAt: time.Now(),
	}
	require.NoError(t, store.CreateSyncRun(ctx, older))
	require.NoError(t, store.CreateSyncRun(ctx, newer))

	last, err = store.LastSyncRun(ctx)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, newer.ID, last.ID)
	assert.Equal(t, 7, last.Notes)
}

func TestCheckRecords(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	runID := uuid.New().String()
	now := time.Now()
	records := []models.CheckRecord{
		{
			ID: uuid.New().String(), RunID: runID, Check: "auth", Status: "pass",
			Attempts: 1, LatencyMs: 42, Host: "api.snaptic.com",
			StartedAt: now, FinishedAt: now,
		},
		{
			ID: uuid.New().String(), RunID: runID, Check: "latency", Status: "fail",
			Detail: "round trip took 2500ms", Attempts: 3, LatencyMs: 2500,
			Host: "api.snaptic.com", StartedAt: now.Add(time.Second), FinishedAt: now.Add(2 * time.Second),
		},
	}
	require.NoError(t, store.CreateCheckRecords(ctx, records))

	got, err := store.ListCheckRecords(ctx, runID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "auth", got[0].Check)
	assert.Equal(t, "pass", got[0].Status)
	assert.Equal(t, "fail", got[1].Status)
	assert.Equal(t, "round trip took 2500ms", got[1].Detail)
	assert.Equal(t, 3, got[1].Attempts)

	other, err := store.ListCheckRecords(ctx, uuid.New().String())
	require.NoError(t, err)
	assert.Empty(t, other)
}
