package completion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PabloGalante/compass-agent/internal/domain"
	"github.com/PabloGalante/compass-agent/internal/observability"
)

// Chain asks a list of candidate models, in priority order, for the same prompt.
type Chain struct {
	llm     domain.TextCompleter
	models  []string
	timeout time.Duration
}

// NewChain builds a chain. timeout bounds each model call; zero means no bound.
func NewChain(llm domain.TextCompleter, models []string, timeout time.Duration) *Chain {
	return &Chain{
		llm:     llm,
		models:  append([]string(nil), models...),
		timeout: timeout,
	}
}

// Complete returns the first non-empty trimmed reply. Errors from earlier
// candidates are logged and dropped once a later candidate succeeds. When none
// succeeds, the error wraps ErrCompletionUnavailable and the last model error.
func (c *Chain) Complete(ctx context.Context, prompt string) (string, error) {
	log := observability.LoggerFromContext(ctx)

	if len(c.models) == 0 {
		return "", fmt.Errorf("%w: no candidate models configured", domain.ErrCompletionUnavailable)
	}

	var lastErr error
	for _, model := range c.models {
		start := time.Now()

		text, err := c.call(ctx, model, prompt)
		text = strings.TrimSpace(text)

		if err != nil {
			lastErr = err
			log.Warn().Err(err).Str("model", model).Msg("candidate model failed")
			continue
		}
		if text == "" {
			lastErr = fmt.Errorf("model %s returned empty text", model)
			log.Warn().Str("model", model).Msg("candidate model returned empty text")
			continue
		}

		log.Debug().
			Str("model", model).
			Int64("elapsed_ms", time.Since(start).Milliseconds()).
			Msg("completion succeeded")
		return text, nil
	}

	if lastErr == nil {
		lastErr = errors.New("no response")
	}
	return "", fmt.Errorf("%w: %w", domain.ErrCompletionUnavailable, lastErr)
}

func (c *Chain) call(ctx context.Context, model, prompt string) (string, error) {
	if c.timeout <= 0 {
		return c.llm.Complete(ctx, model, prompt)
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.llm.Complete(ctx, model, prompt)
}
