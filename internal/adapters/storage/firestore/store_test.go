package firestore_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fsstore "github.com/PabloGalante/compass-agent/internal/adapters/storage/firestore"
	"github.com/PabloGalante/compass-agent/internal/domain"
)

// Runs against the Firestore emulator only.
func TestStore_UpsertAgainstEmulator(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	ctx := context.Background()
	store, err := fsstore.NewStore(ctx, "compass-test", "user_states_test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	userID := domain.UserID("emulator-" + time.Now().Format("150405.000000"))

	_, err = store.GetState(ctx, userID)
	require.ErrorIs(t, err, domain.ErrStateNotFound)

	first := time.Now().UTC().Truncate(time.Millisecond)
	second := first.Add(time.Minute)

	state := domain.NewAppState(first)
	require.NoError(t, store.UpsertState(ctx, userID, state, first))

	state = domain.Reduce(state, domain.PlanGenerated{
		Profile: domain.Profile{Name: "Sam", CurrentRole: "QA", DesiredRole: "PM", TimePerWeek: "5h"},
		Plan:    domain.FallbackPlan(domain.Profile{DesiredRole: "PM"}, first),
		At:      second,
	})
	require.NoError(t, store.UpsertState(ctx, userID, state, second))

	rec, err := store.GetState(ctx, userID)
	require.NoError(t, err)
	assert.True(t, rec.CreatedAt.Equal(first))
	assert.True(t, rec.UpdatedAt.Equal(second))
	assert.Equal(t, domain.StagePlan, rec.State.Stage)
	require.NotNil(t, rec.State.Plan)
	assert.Len(t, rec.State.Plan.Months, domain.PlanMonths)
}
