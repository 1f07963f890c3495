package domain_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/compass-agent/internal/domain"
)

func TestFallbackPlan(t *testing.T) {
	profile := domain.Profile{Name: "Sam", CurrentRole: "QA Analyst", DesiredRole: "Product Manager", TimePerWeek: "5 hours"}
	plan := domain.FallbackPlan(profile, time.Unix(1700000000, 0))

	require.NoError(t, plan.ValidateShape())
	require.Len(t, plan.Months, domain.PlanMonths)
	for i, m := range plan.Months {
		assert.Equal(t, i+1, m.Index)
		assert.Len(t, m.Tasks, domain.TasksPerMonth)
		assert.True(t, strings.HasSuffix(m.Summary, "Product Manager."))
	}

	assert.Contains(t, plan.Months[0].Tasks[0].Description, "Product Manager")
	assert.Equal(t, domain.PlanID("plan-1700000000000"), plan.ID)

	again := domain.FallbackPlan(profile, time.Unix(1700000000, 0))
	assert.Equal(t, plan, again, "template is deterministic")
}

func TestFallbackPlan_NoDesiredRole(t *testing.T) {
	plan := domain.FallbackPlan(domain.Profile{}, time.Now())

	assert.Contains(t, plan.Months[0].Tasks[0].Description, "your next role")
	assert.Contains(t, plan.Months[0].Summary, "your next step")
}
