package statestore_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/compass-agent/internal/adapters/storage/memory"
	"github.com/PabloGalante/compass-agent/internal/app/statestore"
	"github.com/PabloGalante/compass-agent/internal/domain"
)

func TestService_LoadSave(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStateStore()
	svc := statestore.NewService(store)

	state, err := svc.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, state)

	now := time.Now()
	raw, err := json.Marshal(domain.NewAppState(now))
	require.NoError(t, err)
	require.NoError(t, svc.Save(ctx, "u1", raw))

	state, err = svc.Load(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, domain.StageOnboarding, state.Stage)
	assert.Equal(t, domain.WelcomeMessageID(now), state.Chat[0].ID)

	other, err := svc.Load(ctx, "u2")
	require.NoError(t, err)
	assert.Nil(t, other, "snapshots are per user")
}

func TestService_SaveRejectsInvalidShape(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStateStore()
	svc := statestore.NewService(store)

	payloads := map[string]string{
		"unknown stage":       `{"stage":"archived","chat":[],"selectedMonthId":null}`,
		"numeric selection":   `{"stage":"plan","chat":[],"selectedMonthId":42}`,
		"chat not an array":   `{"stage":"onboarding","chat":"none","selectedMonthId":null}`,
		"chat missing":        `{"stage":"onboarding"}`,
		"state not an object": `"onboarding"`,
		"state null":          `null`,
	}
	for name, payload := range payloads {
		t.Run(name, func(t *testing.T) {
			err := svc.Save(ctx, "u1", []byte(payload))
			require.ErrorIs(t, err, domain.ErrInvalidState)

			_, getErr := store.GetState(ctx, "u1")
			require.ErrorIs(t, getErr, domain.ErrStateNotFound, "rejected writes must not be applied")
		})
	}
}

func TestService_RequiresIdentity(t *testing.T) {
	svc := statestore.NewService(memory.NewStateStore())

	_, err := svc.Load(context.Background(), "")
	require.ErrorIs(t, err, domain.ErrUnauthenticated)

	err = svc.Save(context.Background(), "", []byte(`{"stage":"onboarding","chat":[]}`))
	require.ErrorIs(t, err, domain.ErrUnauthenticated)
}
