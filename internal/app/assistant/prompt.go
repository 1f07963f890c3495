package assistant

import (
	"fmt"
	"strings"

	"github.com/PabloGalante/compass-agent/internal/domain"
)

// HistoryWindow is how many trailing messages go into a prompt.
const HistoryWindow = 6

// Turn is one message of the history sent with a chat request.
type Turn struct {
	From    domain.Role `json:"from"`
	Content string      `json:"content"`
}

// Input is everything the assistant sees for one reply.
type Input struct {
	Profile         *domain.Profile
	Plan            *domain.Plan
	SelectedMonthID *domain.MonthID
	Messages        []Turn
}

// BuildPrompt renders the chat prompt. Progress figures use the full-credit
// formulas (MonthCompletion, OverallCompletion), not the dashboard ones.
func BuildPrompt(in Input) string {
	var selected *domain.Month
	if in.SelectedMonthID != nil {
		selected, _ = in.Plan.Month(*in.SelectedMonthID)
	}

	p := in.Profile
	if p == nil {
		p = &domain.Profile{}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are a supportive AI career assistant helping %s transition from %s to %s.\n\n",
		orDefault(p.Name, "someone"),
		orDefault(p.CurrentRole, "their current role"),
		orDefault(p.DesiredRole, "their target role"),
	)

	b.WriteString("Current Context:\n")
	fmt.Fprintf(&b, "- Time available: %s\n", orDefault(p.TimePerWeek, "not specified"))
	fmt.Fprintf(&b, "- Constraints: %s\n", orDefault(p.Constraints, "none mentioned"))
	fmt.Fprintf(&b, "- Challenges: %s\n", orDefault(p.Challenges, "none mentioned"))
	fmt.Fprintf(&b, "- Overall progress: %d%% complete\n", domain.OverallCompletion(in.Plan))

	if selected != nil {
		fmt.Fprintf(&b, "- Current focus: %s (Month %d, %d%% complete)\n",
			selected.Theme, selected.Index, domain.MonthCompletion(*selected))
		fmt.Fprintf(&b, "- Month summary: %s\n", selected.Summary)

		tasks := make([]string, 0, len(selected.Tasks))
		for _, t := range selected.Tasks {
			tasks = append(tasks, fmt.Sprintf("%s: %s (%s)", t.Category, t.Title, t.Status))
		}
		fmt.Fprintf(&b, "- Tasks this month: %s\n", strings.Join(tasks, ", "))
	}

	b.WriteString(`
Your role:
- Be encouraging and practical
- Give specific, actionable advice
- Reference their current month and progress
- Keep responses concise (2-4 sentences)
- Help them prioritize when overwhelmed
- Adapt advice to their time constraints
- Don't repeat yourself - build on previous conversation

Recent conversation:
`)

	for _, m := range recent(in.Messages) {
		speaker := "Assistant"
		if m.From == domain.RoleUser {
			speaker = "User"
		}
		fmt.Fprintf(&b, "%s: %s\n", speaker, m.Content)
	}

	b.WriteString("\nRespond as the assistant, keeping your answer helpful, specific, and encouraging.")
	return b.String()
}

// recent returns the last HistoryWindow messages.
func recent(msgs []Turn) []Turn {
	if len(msgs) <= HistoryWindow {
		return msgs
	}
	return msgs[len(msgs)-HistoryWindow:]
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
