package sqlite_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/compass-agent/internal/adapters/storage/sqlite"
	"github.com/PabloGalante/compass-agent/internal/domain"
)

func openStore(t *testing.T) *sqlite.Store {
	t.Helper()

	store, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "data", "compass.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_GetMissing(t *testing.T) {
	store := openStore(t)

	_, err := store.GetState(context.Background(), "nobody")
	require.ErrorIs(t, err, domain.ErrStateNotFound)
}

func TestStore_UpsertRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	first := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	second := first.Add(2 * time.Hour)

	state := domain.NewAppState(first)
	require.NoError(t, store.UpsertState(ctx, "u1", state, first))

	profile := domain.Profile{Name: "Sam", CurrentRole: "QA Analyst", DesiredRole: "Product Manager", TimePerWeek: "5 hours"}
	state = domain.Reduce(state, domain.PlanGenerated{
		Profile: profile,
		Plan:    domain.FallbackPlan(profile, first),
		At:      second,
	})
	state = domain.Reduce(state, domain.ToggleTask{MonthID: "month-1", TaskID: "m1-t1"})
	require.NoError(t, store.UpsertState(ctx, "u1", state, second))

	rec, err := store.GetState(ctx, "u1")
	require.NoError(t, err)

	assert.True(t, rec.CreatedAt.Equal(first), "createdAt must come from the first write")
	assert.True(t, rec.UpdatedAt.Equal(second))
	assert.Equal(t, domain.StagePlan, rec.State.Stage)
	require.NotNil(t, rec.State.SelectedMonthID)
	assert.Equal(t, domain.MonthID("month-1"), *rec.State.SelectedMonthID)
	assert.Equal(t, domain.TaskInProgress, rec.State.Plan.Months[0].Tasks[0].Status)
	assert.Len(t, rec.State.Chat, 2)
}

func TestStore_ConcurrentWritersLastWins(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	now := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.UpsertState(ctx, "u1", domain.NewAppState(now), now))
		}()
	}
	wg.Wait()

	rec, err := store.GetState(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.StageOnboarding, rec.State.Stage)
}
