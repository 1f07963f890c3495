package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/PabloGalante/compass-agent/internal/domain"
	"github.com/PabloGalante/compass-agent/internal/session"
)

func addChatCommand(root *cobra.Command, a *app) {
	root.AddCommand(&cobra.Command{
		Use:   "chat <message>",
		Short: "Ask the assistant about your plan",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd.Context(), func(s *session.Session) error {
				msg, err := s.SendMessage(cmd.Context(), strings.Join(args, " "))
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), msg.Content)
				return nil
			})
		},
	})
}

func addResetCommand(root *cobra.Command, a *app) {
	root.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Discard your plan and chat and start over",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withSession(cmd.Context(), func(s *session.Session) error {
				s.Dispatch(domain.Reset{At: time.Now()})
				fmt.Fprintln(cmd.OutOrStdout(), "Starting fresh. Run `compass onboard` to build a new plan.")
				return nil
			})
		},
	})
}
