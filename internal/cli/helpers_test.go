package cli

import (
	"time"

	"github.com/PabloGalante/compass-agent/internal/domain"
)

func newTestPlan() *domain.Plan {
	return domain.FallbackPlan(domain.Profile{DesiredRole: "Product Manager"}, time.UnixMilli(1_700_000_000_000))
}
