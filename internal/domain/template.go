package domain

import (
	"fmt"
	"strings"
	"time"
)

var fallbackThemes = [PlanMonths]string{
	"Foundations & Clarity",
	"Skill Mapping & Gap Analysis",
	"Core Skills - Fundamentals",
	"Core Skills - Projects",
	"Portfolio & Storytelling",
	"Networking & Visibility",
	"Interview Readiness",
	"Deep Dives & Specialization",
	"Leadership & Ownership",
	"Industry Positioning",
	"Refinement & Stretch Goals",
	"Launch / Transition",
}

// FallbackPlan synthesizes the fixed template plan used when generation fails,
// so onboarding always ends with a plan. Output depends only on the profile,
// apart from the plan id.
func FallbackPlan(profile Profile, now time.Time) *Plan {
	target := profile.DesiredRoleOr("your next role")
	step := profile.DesiredRoleOr("your next step")

	months := make([]Month, 0, PlanMonths)
	for i, theme := range fallbackThemes {
		index := i + 1

		learn := "Complete a focused learning block and summarize your key takeaways in 5-10 bullet points."
		if i == 0 {
			learn = fmt.Sprintf("Clarify your target move into %s and capture 3-5 concrete outcomes you want in 12 months.", target)
		}

		months = append(months, Month{
			ID:      MonthID(fmt.Sprintf("month-%d", index)),
			Index:   index,
			Title:   fmt.Sprintf("Month %d", index),
			Theme:   theme,
			Summary: fmt.Sprintf("Focus on %s as you move toward %s.", strings.ToLower(theme), step),
			Tasks: []Task{
				{
					ID:          TaskID(fmt.Sprintf("m%d-t1", index)),
					Title:       "Learn & absorb",
					Description: learn,
					Category:    CategoryLearning,
					Status:      TaskNotStarted,
				},
				{
					ID:          TaskID(fmt.Sprintf("m%d-t2", index)),
					Title:       "Build & practice",
					Description: "Apply what you learned in a small, scoped project or task that you can talk about in future interviews.",
					Category:    CategoryPractice,
					Status:      TaskNotStarted,
				},
				{
					ID:          TaskID(fmt.Sprintf("m%d-t3", index)),
					Title:       "Connect with others",
					Description: "Have at least one meaningful conversation with someone working in or near your target role.",
					Category:    CategoryNetworking,
					Status:      TaskNotStarted,
				},
				{
					ID:          TaskID(fmt.Sprintf("m%d-t4", index)),
					Title:       "Reflect & adjust",
					Description: "Write a short reflection: what moved you closer to your goal this month, and what will you adjust next month?",
					Category:    CategoryReflection,
					Status:      TaskNotStarted,
				},
			},
		})
	}

	return &Plan{
		ID:     PlanID(fmt.Sprintf("plan-%d", now.UnixMilli())),
		Months: months,
	}
}
