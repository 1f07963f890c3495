package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/PabloGalante/compass-agent/internal/domain"
	"github.com/PabloGalante/compass-agent/internal/session"
)

func addTaskCommands(root *cobra.Command, a *app) {
	root.AddCommand(
		&cobra.Command{
			Use:   "toggle <month> <task>",
			Short: "Advance a task: not started, in progress, complete, and back",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.mutatePlan(cmd, func(plan *domain.Plan) (domain.Action, error) {
					m, t, err := resolveTask(plan, args[0], args[1])
					if err != nil {
						return nil, err
					}
					return domain.ToggleTask{MonthID: m, TaskID: t}, nil
				})
			},
		},
		&cobra.Command{
			Use:   "status <month> <task> <not_started|in_progress|complete>",
			Short: "Set a task's status",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.mutatePlan(cmd, func(plan *domain.Plan) (domain.Action, error) {
					m, t, err := resolveTask(plan, args[0], args[1])
					if err != nil {
						return nil, err
					}
					status := domain.TaskStatus(args[2])
					if !status.Valid() {
						return nil, fmt.Errorf("unknown status %q", args[2])
					}
					return domain.SetTaskStatus{MonthID: m, TaskID: t, Status: status}, nil
				})
			},
		},
		&cobra.Command{
			Use:   "start <month>",
			Short: "Start a month by putting its first task in progress",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.mutatePlan(cmd, func(plan *domain.Plan) (domain.Action, error) {
					m, err := resolveMonth(plan, args[0])
					if err != nil {
						return nil, err
					}
					return domain.StartMonth{MonthID: m}, nil
				})
			},
		},
		&cobra.Command{
			Use:   "select <month>",
			Short: "Focus on a month",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.mutatePlan(cmd, func(plan *domain.Plan) (domain.Action, error) {
					m, err := resolveMonth(plan, args[0])
					if err != nil {
						return nil, err
					}
					return domain.SelectMonth{MonthID: m}, nil
				})
			},
		},
	)
}

// mutatePlan builds an action against the current plan, applies it and
// prints the resulting view.
func (a *app) mutatePlan(cmd *cobra.Command, build func(*domain.Plan) (domain.Action, error)) error {
	return a.withSession(cmd.Context(), func(s *session.Session) error {
		state := s.State()
		if state.Plan == nil {
			return ErrNoPlan
		}
		action, err := build(state.Plan)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), a.flags.Output, newPlanView(s.Dispatch(action), false))
	})
}

// resolveMonth accepts a month id or its 1-based number.
func resolveMonth(plan *domain.Plan, arg string) (domain.MonthID, error) {
	if m, ok := plan.Month(domain.MonthID(arg)); ok {
		return m.ID, nil
	}
	if n, err := strconv.Atoi(arg); err == nil && n >= 1 && n <= len(plan.Months) {
		return plan.Months[n-1].ID, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMonth, arg)
}

// resolveTask accepts a task id or its 1-based position in the month.
func resolveTask(plan *domain.Plan, monthArg, taskArg string) (domain.MonthID, domain.TaskID, error) {
	monthID, err := resolveMonth(plan, monthArg)
	if err != nil {
		return "", "", err
	}
	m, _ := plan.Month(monthID)
	for _, t := range m.Tasks {
		if string(t.ID) == taskArg {
			return monthID, t.ID, nil
		}
	}
	if n, err := strconv.Atoi(taskArg); err == nil && n >= 1 && n <= len(m.Tasks) {
		return monthID, m.Tasks[n-1].ID, nil
	}
	return "", "", fmt.Errorf("%w: %q in %s", ErrUnknownTask, taskArg, monthID)
}
