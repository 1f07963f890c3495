package session

import (
	"context"
	"encoding/json"

	"github.com/PabloGalante/compass-agent/internal/app/assistant"
	"github.com/PabloGalante/compass-agent/internal/domain"
)

// PlanSource generates a plan for a profile.
type PlanSource interface {
	GeneratePlan(ctx context.Context, profile domain.Profile) (*domain.Plan, error)
}

// ChatSource produces one assistant reply.
type ChatSource interface {
	Reply(ctx context.Context, in assistant.Input) (string, error)
}

// Remote holds the authenticated user's saved snapshot. LoadState returns the
// snapshot as stored, or nil when there is none, so a merge can tell absent
// fields from zero ones.
type Remote interface {
	LoadState(ctx context.Context) (json.RawMessage, error)
	SaveState(ctx context.Context, state domain.AppState) error
}
