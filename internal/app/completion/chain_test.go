package completion_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/compass-agent/internal/adapters/llm"
	"github.com/PabloGalante/compass-agent/internal/app/completion"
	"github.com/PabloGalante/compass-agent/internal/domain"
)

func TestChain_Complete(t *testing.T) {
	ctx := context.Background()

	t.Run("first candidate wins", func(t *testing.T) {
		mock := llm.NewMockLLM().Reply("primary", "one").Reply("fallback", "two")
		text, err := completion.NewChain(mock, []string{"primary", "fallback"}, 0).Complete(ctx, "p")

		require.NoError(t, err)
		assert.Equal(t, "one", text)
		assert.Equal(t, []string{"primary"}, mock.Calls())
	})

	t.Run("error on primary falls through", func(t *testing.T) {
		mock := llm.NewMockLLM().Fail("primary", errors.New("quota")).Reply("fallback", " two ")
		text, err := completion.NewChain(mock, []string{"primary", "fallback"}, time.Second).Complete(ctx, "p")

		require.NoError(t, err)
		assert.Equal(t, "two", text)
		assert.Equal(t, []string{"primary", "fallback"}, mock.Calls())
	})

	t.Run("blank reply falls through", func(t *testing.T) {
		mock := llm.NewMockLLM().Reply("primary", "   ").Reply("fallback", "two")
		text, err := completion.NewChain(mock, []string{"primary", "fallback"}, 0).Complete(ctx, "p")

		require.NoError(t, err)
		assert.Equal(t, "two", text)
	})

	t.Run("all fail", func(t *testing.T) {
		quota := errors.New("quota")
		mock := llm.NewMockLLM().Fail("primary", errors.New("down")).Fail("fallback", quota)
		_, err := completion.NewChain(mock, []string{"primary", "fallback"}, 0).Complete(ctx, "p")

		require.ErrorIs(t, err, domain.ErrCompletionUnavailable)
		require.ErrorIs(t, err, quota)
	})

	t.Run("no models", func(t *testing.T) {
		_, err := completion.NewChain(llm.NewMockLLM(), nil, 0).Complete(ctx, "p")
		require.ErrorIs(t, err, domain.ErrCompletionUnavailable)
	})
}
