package planner

import (
	"context"
	"time"

	"github.com/PabloGalante/compass-agent/internal/domain"
	"github.com/PabloGalante/compass-agent/internal/observability"
)

// Completer is the fallback chain the service asks for text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type Service struct {
	completer Completer
	now       func() time.Time
}

func NewService(completer Completer) *Service {
	return &Service{
		completer: completer,
		now:       time.Now,
	}
}

// Generate asks the models for a plan. It returns ErrInvalidProfile,
// ErrCompletionUnavailable or ErrMalformedCompletion on failure; falling back
// to the template plan is the caller's decision.
func (s *Service) Generate(ctx context.Context, profile domain.Profile) (*domain.Plan, error) {
	log := observability.LoggerFromContext(ctx).With().
		Str("current_role", profile.CurrentRole).
		Str("desired_role", profile.DesiredRole).
		Logger()

	if err := profile.ValidateForGeneration(); err != nil {
		log.Info().Err(err).Msg("rejecting plan request")
		return nil, err
	}

	start := s.now()
	log.Info().Msg("generating plan")

	text, err := s.completer.Complete(ctx, BuildPrompt(profile, domain.NewPlanID()))
	if err != nil {
		log.Error().Err(err).Msg("plan completion failed")
		return nil, err
	}

	plan, err := DecodePlan(text)
	if err != nil {
		log.Error().Err(err).Int("response_len", len(text)).Msg("plan decode failed")
		return nil, err
	}

	log.Info().
		Str("plan_id", string(plan.ID)).
		Int64("elapsed_ms", s.now().Sub(start).Milliseconds()).
		Msg("plan generated")
	return plan, nil
}
