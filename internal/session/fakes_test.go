package session_test

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/PabloGalante/compass-agent/internal/app/assistant"
	"github.com/PabloGalante/compass-agent/internal/domain"
)

type fakeRemote struct {
	mu      sync.Mutex
	saved   *domain.AppState
	raw     json.RawMessage // served as is when set
	loadErr error
	saveErr error
	loads   int
	saves   []domain.AppState
}

func (f *fakeRemote) LoadState(context.Context) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	switch {
	case f.loadErr != nil:
		return nil, f.loadErr
	case f.raw != nil:
		return f.raw, nil
	case f.saved == nil:
		return nil, nil
	}
	return json.Marshal(f.saved)
}

func (f *fakeRemote) SaveState(_ context.Context, state domain.AppState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves = append(f.saves, state)
	return f.saveErr
}

func (f *fakeRemote) Saves() []domain.AppState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.AppState(nil), f.saves...)
}

func (f *fakeRemote) Loads() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loads
}

type fakePlans struct {
	plan *domain.Plan
	err  error
}

func (f fakePlans) GeneratePlan(context.Context, domain.Profile) (*domain.Plan, error) {
	return f.plan, f.err
}

type fakeChat struct {
	mu    sync.Mutex
	reply string
	err   error
	got   []assistant.Input
}

func (f *fakeChat) Reply(_ context.Context, in assistant.Input) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.got = append(f.got, in)
	return f.reply, f.err
}
