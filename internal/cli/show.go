package cli

import (
	"github.com/spf13/cobra"

	"github.com/PabloGalante/compass-agent/internal/session"
)

func addShowCommand(root *cobra.Command, a *app) {
	var all bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show your plan and progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withSession(cmd.Context(), func(s *session.Session) error {
				state := s.State()
				if state.Plan == nil {
					return ErrNoPlan
				}
				return render(cmd.OutOrStdout(), a.flags.Output, newPlanView(state, all))
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "list the tasks of every month")

	root.AddCommand(cmd)
}
