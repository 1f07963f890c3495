package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/compass-agent/internal/domain"
)

func monthWith(statuses ...domain.TaskStatus) domain.Month {
	m := domain.Month{ID: "m", Index: 1}
	for i, s := range statuses {
		m.Tasks = append(m.Tasks, domain.Task{ID: domain.TaskID(string(rune('a' + i))), Status: s})
	}
	return m
}

func TestMonthProgressFormulasStayDistinct(t *testing.T) {
	done2 := monthWith(domain.TaskComplete, domain.TaskComplete, domain.TaskNotStarted, domain.TaskNotStarted)
	assert.Equal(t, 50, domain.MonthCompletion(done2))
	assert.Equal(t, 50, domain.MonthProgress(done2))

	mixed := monthWith(domain.TaskInProgress, domain.TaskComplete, domain.TaskNotStarted, domain.TaskNotStarted)
	assert.Equal(t, 25, domain.MonthCompletion(mixed), "prompt formula ignores in_progress")
	assert.Equal(t, 38, domain.MonthProgress(mixed), "dashboard formula gives half credit")

	assert.Equal(t, 0, domain.MonthCompletion(domain.Month{}))
	assert.Equal(t, 0, domain.MonthProgress(domain.Month{}))
}

func TestOverallCompletionIsMeanOfMonths(t *testing.T) {
	plan := domain.FallbackPlan(domain.Profile{DesiredRole: "PM"}, time.Unix(0, 0))

	for i := range plan.Months[0].Tasks {
		plan.Months[0].Tasks[i].Status = domain.TaskComplete
	}
	plan.Months[1].Tasks[0].Status = domain.TaskComplete
	plan.Months[1].Tasks[1].Status = domain.TaskComplete

	// months at [100, 50, 0 x 10] -> round(150 / 12) = 13
	assert.Equal(t, 13, domain.OverallCompletion(plan))
	// 6 of 48 tasks -> 12.5 -> 13: both formulas agree here, uneven below separates them
	assert.Equal(t, 13, domain.PlanProgress(plan))

	uneven := &domain.Plan{Months: []domain.Month{
		monthWith(domain.TaskComplete),
		monthWith(domain.TaskNotStarted, domain.TaskNotStarted, domain.TaskNotStarted),
	}}
	// mean of [100, 0] = 50, while 1 of 4 tasks would be 25
	assert.Equal(t, 50, domain.OverallCompletion(uneven))
	assert.Equal(t, 25, domain.PlanProgress(uneven))

	assert.Equal(t, 0, domain.OverallCompletion(nil))
	assert.Equal(t, 0, domain.PlanProgress(nil))
}

func TestTaskStatusToggleCycle(t *testing.T) {
	s := domain.TaskNotStarted
	s = s.Next()
	assert.Equal(t, domain.TaskInProgress, s)
	s = s.Next()
	assert.Equal(t, domain.TaskComplete, s)
	s = s.Next()
	assert.Equal(t, domain.TaskNotStarted, s)

	for i := 0; i < 5*3; i++ {
		s = s.Next()
	}
	assert.Equal(t, domain.TaskNotStarted, s, "full cycles return to the start")
}

func TestPlanValidateShape(t *testing.T) {
	plan := domain.FallbackPlan(domain.Profile{}, time.Unix(0, 0))
	require.NoError(t, plan.ValidateShape())

	short := plan.Clone()
	short.Months = short.Months[:11]
	assert.Error(t, short.ValidateShape())

	gap := plan.Clone()
	gap.Months[3].Index = 7
	assert.Error(t, gap.ValidateShape())

	fewTasks := plan.Clone()
	fewTasks.Months[2].Tasks = fewTasks.Months[2].Tasks[:3]
	assert.Error(t, fewTasks.ValidateShape())

	badCategory := plan.Clone()
	badCategory.Months[0].Tasks[0].Category = "meditation"
	assert.Error(t, badCategory.ValidateShape())

	dup := plan.Clone()
	dup.Months[0].Tasks[1].ID = dup.Months[0].Tasks[0].ID
	assert.Error(t, dup.ValidateShape())
}

func TestPlanCloneIsDeep(t *testing.T) {
	plan := domain.FallbackPlan(domain.Profile{}, time.Unix(0, 0))
	clone := plan.Clone()
	clone.Months[0].Tasks[0].Status = domain.TaskComplete

	assert.Equal(t, domain.TaskNotStarted, plan.Months[0].Tasks[0].Status)
}
