package domain

import (
	"fmt"
	"strings"
)

// Profile is the career-transition intake submitted at onboarding.
type Profile struct {
	Name            string `json:"name" firestore:"name"`
	CurrentRole     string `json:"currentRole" firestore:"currentRole"`
	YearsExperience string `json:"yearsExperience" firestore:"yearsExperience"`
	DesiredRole     string `json:"desiredRole" firestore:"desiredRole"`
	TimePerWeek     string `json:"timePerWeek" firestore:"timePerWeek"`
	Constraints     string `json:"constraints" firestore:"constraints"`
	Challenges      string `json:"challenges" firestore:"challenges"`
}

// ValidateForGeneration checks the fields a plan request cannot do without.
func (p Profile) ValidateForGeneration() error {
	var missing []string
	if strings.TrimSpace(p.CurrentRole) == "" {
		missing = append(missing, "currentRole")
	}
	if strings.TrimSpace(p.DesiredRole) == "" {
		missing = append(missing, "desiredRole")
	}
	if strings.TrimSpace(p.TimePerWeek) == "" {
		missing = append(missing, "timePerWeek")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s required", ErrInvalidProfile, strings.Join(missing, ", "))
	}
	return nil
}

// Validate checks the full onboarding form, which also requires a name.
func (p Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name required", ErrInvalidProfile)
	}
	return p.ValidateForGeneration()
}

// DesiredRoleOr returns the desired role, or def when it is blank.
func (p *Profile) DesiredRoleOr(def string) string {
	if p == nil || strings.TrimSpace(p.DesiredRole) == "" {
		return def
	}
	return p.DesiredRole
}

// NameOr returns the name, or def when it is blank.
func (p *Profile) NameOr(def string) string {
	if p == nil || strings.TrimSpace(p.Name) == "" {
		return def
	}
	return p.Name
}
