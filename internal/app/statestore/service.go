package statestore

import (
	"context"
	"errors"
	"time"

	"github.com/PabloGalante/compass-agent/internal/domain"
	"github.com/PabloGalante/compass-agent/internal/observability"
)

// Service loads and saves the one snapshot each user owns.
type Service struct {
	store domain.StateStore
	now   func() time.Time
}

func NewService(store domain.StateStore) *Service {
	return &Service{
		store: store,
		now:   time.Now,
	}
}

// Load returns the stored snapshot, or nil when the user has none yet.
func (s *Service) Load(ctx context.Context, userID domain.UserID) (*domain.AppState, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}

	log := observability.LoggerFromContext(ctx).With().Str("user_id", string(userID)).Logger()

	rec, err := s.store.GetState(ctx, userID)
	if errors.Is(err, domain.ErrStateNotFound) {
		log.Debug().Msg("no stored state")
		return nil, nil
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to load state")
		return nil, err
	}

	log.Debug().Time("updated_at", rec.UpdatedAt).Msg("state loaded")
	return &rec.State, nil
}

// Save validates the raw snapshot and upserts it. Invalid payloads are
// rejected with ErrInvalidState and nothing is written.
func (s *Service) Save(ctx context.Context, userID domain.UserID, raw []byte) error {
	if userID == "" {
		return domain.ErrUnauthenticated
	}

	log := observability.LoggerFromContext(ctx).With().Str("user_id", string(userID)).Logger()

	state, err := domain.ParseAppState(raw)
	if err != nil {
		log.Info().Err(err).Msg("rejecting state payload")
		return err
	}

	if err := s.store.UpsertState(ctx, userID, state, s.now()); err != nil {
		log.Error().Err(err).Msg("failed to save state")
		return err
	}

	log.Debug().Str("stage", string(state.Stage)).Int("chat_len", len(state.Chat)).Msg("state saved")
	return nil
}
