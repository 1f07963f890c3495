package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/PabloGalante/compass-agent/internal/domain"
)

// planView is the printable plan. Progress uses the dashboard figures.
type planView struct {
	Stage    string      `json:"stage" yaml:"stage"`
	Progress int         `json:"progress" yaml:"progress"`
	Selected string      `json:"selectedMonth" yaml:"selectedMonth"`
	Months   []monthView `json:"months" yaml:"months"`

	showAll bool
}

type monthView struct {
	ID       string     `json:"id" yaml:"id"`
	Index    int        `json:"index" yaml:"index"`
	Theme    string     `json:"theme" yaml:"theme"`
	Summary  string     `json:"summary" yaml:"summary"`
	Progress int        `json:"progress" yaml:"progress"`
	Tasks    []taskView `json:"tasks" yaml:"tasks"`
}

type taskView struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Category    string `json:"category" yaml:"category"`
	Status      string `json:"status" yaml:"status"`
}

func newPlanView(state domain.AppState, showAll bool) planView {
	v := planView{
		Stage:    string(state.Stage),
		Progress: domain.PlanProgress(state.Plan),
		showAll:  showAll,
	}
	if m, ok := state.SelectedMonth(); ok {
		v.Selected = string(m.ID)
	}
	if state.Plan == nil {
		return v
	}

	for _, m := range state.Plan.Months {
		mv := monthView{
			ID:       string(m.ID),
			Index:    m.Index,
			Theme:    m.Theme,
			Summary:  m.Summary,
			Progress: domain.MonthProgress(m),
			Tasks:    make([]taskView, 0, len(m.Tasks)),
		}
		for _, t := range m.Tasks {
			mv.Tasks = append(mv.Tasks, taskView{
				ID:          string(t.ID),
				Title:       t.Title,
				Description: t.Description,
				Category:    string(t.Category),
				Status:      string(t.Status),
			})
		}
		v.Months = append(v.Months, mv)
	}
	return v
}

func render(w io.Writer, format string, v planView) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		renderText(w, v)
		return nil
	}
}

var statusMarks = map[string]string{
	string(domain.TaskNotStarted): "[ ]",
	string(domain.TaskInProgress): "[~]",
	string(domain.TaskComplete):   "[x]",
}

func renderText(w io.Writer, v planView) {
	fmt.Fprintf(w, "Overall progress: %d%%\n\n", v.Progress)

	for _, m := range v.Months {
		selected := m.ID == v.Selected
		cursor := " "
		if selected {
			cursor = ">"
		}
		fmt.Fprintf(w, "%s Month %-2d %-40s %3d%%\n", cursor, m.Index, m.Theme, m.Progress)

		if !selected && !v.showAll {
			continue
		}
		if selected {
			fmt.Fprintf(w, "    %s\n", m.Summary)
		}
		for i, t := range m.Tasks {
			fmt.Fprintf(w, "    %s %d. %s (%s)\n", statusMarks[t.Status], i+1, t.Title, t.Category)
			if selected {
				fmt.Fprintf(w, "         %s\n", t.Description)
			}
		}
	}
}
