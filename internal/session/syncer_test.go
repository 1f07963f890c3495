package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/compass-agent/internal/domain"
	"github.com/PabloGalante/compass-agent/internal/session"
)

func stateWithMessages(n int) domain.AppState {
	now := time.UnixMilli(1_700_000_000_000)
	st := domain.NewAppState(now)
	for i := 0; i < n; i++ {
		st = domain.Reduce(st, domain.AppendMessage{Message: domain.NewMessage(domain.RoleUser, "hi", now)})
	}
	return st
}

func TestSyncer_CoalescesBursts(t *testing.T) {
	remote := &fakeRemote{}
	s := session.NewSyncer(remote, 30*time.Millisecond)
	t.Cleanup(s.Close)

	for i := 1; i <= 5; i++ {
		s.Enqueue(stateWithMessages(i))
	}

	require.Eventually(t, func() bool { return len(remote.Saves()) == 1 }, time.Second, 5*time.Millisecond)

	time.Sleep(100 * time.Millisecond)
	saves := remote.Saves()
	require.Len(t, saves, 1)
	assert.Len(t, saves[0].Chat, 6, "only the latest snapshot is pushed")
}

func TestSyncer_FlushPushesImmediately(t *testing.T) {
	remote := &fakeRemote{}
	s := session.NewSyncer(remote, time.Hour)
	t.Cleanup(s.Close)

	s.Enqueue(stateWithMessages(1))
	require.NoError(t, s.Flush(context.Background()))
	assert.Len(t, remote.Saves(), 1)

	// Nothing pending: no second push.
	require.NoError(t, s.Flush(context.Background()))
	assert.Len(t, remote.Saves(), 1)
}

func TestSyncer_FlushReportsPushError(t *testing.T) {
	remote := &fakeRemote{saveErr: assert.AnError}
	s := session.NewSyncer(remote, time.Hour)
	t.Cleanup(s.Close)

	s.Enqueue(stateWithMessages(1))
	assert.ErrorIs(t, s.Flush(context.Background()), assert.AnError)
}

func TestSyncer_CloseDropsPending(t *testing.T) {
	remote := &fakeRemote{}
	s := session.NewSyncer(remote, time.Hour)

	s.Enqueue(stateWithMessages(1))
	s.Close()

	assert.Empty(t, remote.Saves())
	assert.ErrorIs(t, s.Flush(context.Background()), session.ErrSyncerClosed)
}
