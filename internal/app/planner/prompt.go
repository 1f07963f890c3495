package planner

import (
	"fmt"
	"strings"

	"github.com/PabloGalante/compass-agent/internal/domain"
)

const planTemplate = `Generate a 12-month career plan for transitioning from %s to %s.

Profile:
- Experience: %s
- Weekly time: %s
- Constraints: %s
- Challenges: %s

Return JSON only (no markdown):
{
  "id": "%s",
  "months": [
    {
      "id": "month-N",
      "index": N,
      "title": "Month N",
      "theme": "2-4 word theme",
      "summary": "Brief 1-sentence summary",
      "tasks": [
        {"id": "mN-t1", "title": "Learn & absorb", "description": "Concise task", "category": "learning", "status": "not_started"},
        {"id": "mN-t2", "title": "Build & practice", "description": "Concise task", "category": "practice", "status": "not_started"},
        {"id": "mN-t3", "title": "Connect", "description": "Concise task", "category": "networking", "status": "not_started"},
        {"id": "mN-t4", "title": "Reflect", "description": "Concise task", "category": "reflection", "status": "not_started"}
      ]
    }
  ]
}

All 12 months, specific to %s.`

// BuildPrompt renders the plan request for a profile.
func BuildPrompt(p domain.Profile, planID domain.PlanID) string {
	return fmt.Sprintf(planTemplate,
		p.CurrentRole,
		p.DesiredRole,
		orDefault(p.YearsExperience, "Not specified"),
		p.TimePerWeek,
		orDefault(p.Constraints, "None"),
		orDefault(p.Challenges, "None"),
		planID,
		p.DesiredRole,
	)
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
