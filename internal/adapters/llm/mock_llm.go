package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PabloGalante/compass-agent/internal/domain"
)

// MockLLM is a deterministic TextCompleter for local runs and tests.
// Per-model replies and errors can be scripted; otherwise plan prompts get a
// fenced JSON template plan and chat prompts get a short canned answer.
type MockLLM struct {
	mu      sync.Mutex
	replies map[string]string
	errs    map[string]error
	calls   []string
}

func NewMockLLM() *MockLLM {
	return &MockLLM{
		replies: make(map[string]string),
		errs:    make(map[string]error),
	}
}

// Reply scripts the text returned for a model.
func (m *MockLLM) Reply(model, text string) *MockLLM {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies[model] = text
	return m
}

// Fail scripts an error for a model.
func (m *MockLLM) Fail(model string, err error) *MockLLM {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[model] = err
	return m
}

// Calls returns the models called so far, in order.
func (m *MockLLM) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *MockLLM) Complete(_ context.Context, model, prompt string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, model)
	err, failing := m.errs[model]
	reply, scripted := m.replies[model]
	m.mu.Unlock()

	if failing {
		return "", err
	}
	if scripted {
		return reply, nil
	}

	if strings.Contains(prompt, PlanPromptMarker) {
		plan := domain.FallbackPlan(domain.Profile{}, time.Now())
		raw, err := json.Marshal(plan)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Here is your plan:\n```json\n%s\n```", raw), nil
	}

	return "Pick the smallest task in your current month and block 30 minutes for it this week.", nil
}

// PlanPromptMarker is the phrase plan prompts carry so the mock can tell them apart.
const PlanPromptMarker = "Return JSON only"
