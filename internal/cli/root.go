// Package cli provides the compass command-line client.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PabloGalante/compass-agent/internal/config"
	"github.com/PabloGalante/compass-agent/internal/observability"
)

var (
	ErrInvalidOutputFormat = errors.New("invalid output format")
	ErrNoPlan              = errors.New("no plan yet, run `compass onboard` first")
	ErrUnknownMonth        = errors.New("unknown month")
	ErrUnknownTask         = errors.New("unknown task")
)

// BuildInfo is set at build time via ldflags.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// app carries what PersistentPreRunE resolved to the subcommands.
type app struct {
	flags *GlobalFlags
	cfg   *config.Config
}

func newRootCmd(flags *GlobalFlags, info BuildInfo) *cobra.Command {
	a := &app{flags: flags}
	v := config.NewViper()

	cmd := &cobra.Command{
		Use:   "compass",
		Short: "Compass - a 12-month career transition planner",
		Long: `Compass turns a short career profile into a 12-month plan with four tasks a month,
tracks your progress and lets you ask an assistant about your next steps.

Your plan is saved on the compass-api server under the identity given by
--token (or --user against a local server).`,
		Version: formatVersion(info),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := BindGlobalFlags(v, cmd); err != nil {
				return fmt.Errorf("failed to bind flags: %w", err)
			}
			if !IsValidOutputFormat(flags.Output) {
				return fmt.Errorf("%w: %q must be one of %v", ErrInvalidOutputFormat, flags.Output, ValidOutputFormats())
			}

			cfg, err := config.LoadFrom(v)
			if err != nil {
				return err
			}
			a.cfg = cfg

			level := "warn"
			if flags.Verbose {
				level = "debug"
			}
			observability.Setup(observability.Options{Level: level, Format: "console"})
			return nil
		},
		SilenceUsage: true,
	}

	AddGlobalFlags(cmd, flags)

	addOnboardCommand(cmd, a)
	addShowCommand(cmd, a)
	addTaskCommands(cmd, a)
	addChatCommand(cmd, a)
	addResetCommand(cmd, a)

	return cmd
}

func formatVersion(info BuildInfo) string {
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "none"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.Date)
}

// Execute runs the root command.
func Execute(ctx context.Context, info BuildInfo) error {
	cmd := newRootCmd(&GlobalFlags{}, info)
	return cmd.ExecuteContext(ctx)
}
