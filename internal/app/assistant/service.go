package assistant

import (
	"context"

	"github.com/PabloGalante/compass-agent/internal/observability"
)

// Completer is the fallback chain the service asks for text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type Service struct {
	completer Completer
}

func NewService(completer Completer) *Service {
	return &Service{completer: completer}
}

// Reply produces one assistant message. On failure it returns the chain's
// error; substituting a reassurance message is the caller's job.
func (s *Service) Reply(ctx context.Context, in Input) (string, error) {
	log := observability.LoggerFromContext(ctx).With().
		Int("history_len", len(in.Messages)).
		Logger()

	reply, err := s.completer.Complete(ctx, BuildPrompt(in))
	if err != nil {
		log.Error().Err(err).Msg("chat completion failed")
		return "", err
	}

	log.Info().Int("reply_len", len(reply)).Msg("chat reply generated")
	return reply, nil
}
