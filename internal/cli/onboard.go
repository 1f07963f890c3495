package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PabloGalante/compass-agent/internal/domain"
	"github.com/PabloGalante/compass-agent/internal/session"
)

func addOnboardCommand(root *cobra.Command, a *app) {
	var p domain.Profile

	cmd := &cobra.Command{
		Use:   "onboard",
		Short: "Create your 12-month plan from a short profile",
		Example: `  compass onboard --name Sam --current-role "QA Analyst" \
    --desired-role "Product Manager" --time-per-week "5 hours"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withSession(cmd.Context(), func(s *session.Session) error {
				if s.State().Plan != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), "You already have a plan. Run `compass reset` to start over.")
					return nil
				}

				state, fallback, err := s.SubmitProfile(cmd.Context(), p)
				if err != nil {
					return err
				}

				// Structured output keeps stdout parseable; notices go to stderr.
				notices := cmd.OutOrStdout()
				if a.flags.Output != OutputText {
					notices = cmd.ErrOrStderr()
				}
				if fallback {
					fmt.Fprintln(notices, "The planner is unavailable, so you get our starter plan for now.")
				}
				fmt.Fprintln(notices, state.Chat[len(state.Chat)-1].Content)
				fmt.Fprintln(notices)
				return render(cmd.OutOrStdout(), a.flags.Output, newPlanView(state, false))
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&p.Name, "name", "", "your name")
	f.StringVar(&p.CurrentRole, "current-role", "", "the role you have today")
	f.StringVar(&p.YearsExperience, "years", "", "years of experience")
	f.StringVar(&p.DesiredRole, "desired-role", "", "the role you are aiming for")
	f.StringVar(&p.TimePerWeek, "time-per-week", "", "time you can give each week, e.g. \"5 hours\"")
	f.StringVar(&p.Constraints, "constraints", "", "anything that limits you")
	f.StringVar(&p.Challenges, "challenges", "", "what has been hard so far")
	for _, name := range []string{"name", "current-role", "desired-role", "time-per-week"} {
		_ = cmd.MarkFlagRequired(name)
	}

	root.AddCommand(cmd)
}
