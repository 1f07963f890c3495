package assistant_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/compass-agent/internal/adapters/llm"
	"github.com/PabloGalante/compass-agent/internal/app/assistant"
	"github.com/PabloGalante/compass-agent/internal/app/completion"
	"github.com/PabloGalante/compass-agent/internal/domain"
)

func fixture() assistant.Input {
	profile := domain.Profile{Name: "Sam", CurrentRole: "QA Analyst", DesiredRole: "Product Manager", TimePerWeek: "5 hours"}
	plan := domain.FallbackPlan(profile, time.Unix(0, 0))

	// Month 1: in_progress + complete -> 25% in the prompt (50% complete tasks would be 2).
	plan.Months[0].Tasks[0].Status = domain.TaskInProgress
	plan.Months[0].Tasks[1].Status = domain.TaskComplete
	// Month 2 fully done.
	for i := range plan.Months[1].Tasks {
		plan.Months[1].Tasks[i].Status = domain.TaskComplete
	}

	sel := domain.MonthID("month-1")
	return assistant.Input{Profile: &profile, Plan: plan, SelectedMonthID: &sel}
}

func TestBuildPrompt_Context(t *testing.T) {
	prompt := assistant.BuildPrompt(fixture())

	assert.Contains(t, prompt, "helping Sam transition from QA Analyst to Product Manager")
	assert.Contains(t, prompt, "Time available: 5 hours")
	assert.Contains(t, prompt, "Constraints: none mentioned")
	// (25 + 100 + 0*10) / 12 = 10.4
	assert.Contains(t, prompt, "Overall progress: 10% complete")
	assert.Contains(t, prompt, "Current focus: Foundations & Clarity (Month 1, 25% complete)")
	assert.Contains(t, prompt, "learning: Learn & absorb (in_progress)")
}

func TestBuildPrompt_OnlyRecentHistory(t *testing.T) {
	in := fixture()
	for i := 1; i <= 10; i++ {
		from := domain.RoleUser
		if i%2 == 0 {
			from = domain.RoleAssistant
		}
		in.Messages = append(in.Messages, assistant.Turn{From: from, Content: fmt.Sprintf("msg-%02d", i)})
	}

	prompt := assistant.BuildPrompt(in)

	for i := 1; i <= 4; i++ {
		assert.NotContains(t, prompt, fmt.Sprintf("msg-%02d", i))
	}
	for i := 5; i <= 10; i++ {
		assert.Contains(t, prompt, fmt.Sprintf("msg-%02d", i))
	}
	assert.Contains(t, prompt, "User: msg-05")
	assert.Contains(t, prompt, "Assistant: msg-10")
}

func TestBuildPrompt_NoPlan(t *testing.T) {
	prompt := assistant.BuildPrompt(assistant.Input{})

	assert.Contains(t, prompt, "helping someone transition")
	assert.Contains(t, prompt, "Overall progress: 0% complete")
	assert.NotContains(t, prompt, "Current focus")
}

func TestService_Reply(t *testing.T) {
	ctx := context.Background()
	models := []string{"primary", "fallback"}

	mock := llm.NewMockLLM().Fail("primary", errors.New("down")).Reply("fallback", "Block 30 minutes tomorrow.")
	reply, err := assistant.NewService(completion.NewChain(mock, models, 0)).Reply(ctx, fixture())
	require.NoError(t, err)
	assert.Equal(t, "Block 30 minutes tomorrow.", reply)

	mock = llm.NewMockLLM().Fail("primary", errors.New("down")).Fail("fallback", errors.New("down"))
	_, err = assistant.NewService(completion.NewChain(mock, models, 0)).Reply(ctx, fixture())
	require.ErrorIs(t, err, domain.ErrCompletionUnavailable)
}
