package domain

import (
	"fmt"
	"math"
)

type Task struct {
	ID          TaskID       `json:"id" firestore:"id"`
	Title       string       `json:"title" firestore:"title"`
	Description string       `json:"description" firestore:"description"`
	Category    TaskCategory `json:"category" firestore:"category"`
	Status      TaskStatus   `json:"status" firestore:"status"`
}

type Month struct {
	ID      MonthID `json:"id" firestore:"id"`
	Index   int     `json:"index" firestore:"index"`
	Title   string  `json:"title" firestore:"title"`
	Theme   string  `json:"theme" firestore:"theme"`
	Summary string  `json:"summary" firestore:"summary"`
	Tasks   []Task  `json:"tasks" firestore:"tasks"`
}

// Plan is the 12-month roadmap. It is built whole and never stored half-populated.
type Plan struct {
	ID     PlanID  `json:"id" firestore:"id"`
	Months []Month `json:"months" firestore:"months"`
}

// Clone returns a deep copy so reducers never share task slices between states.
func (p *Plan) Clone() *Plan {
	if p == nil {
		return nil
	}
	out := &Plan{ID: p.ID, Months: make([]Month, len(p.Months))}
	for i, m := range p.Months {
		m.Tasks = append([]Task(nil), m.Tasks...)
		out.Months[i] = m
	}
	return out
}

// Month returns the month with the given id.
func (p *Plan) Month(id MonthID) (*Month, bool) {
	if p == nil {
		return nil, false
	}
	for i := range p.Months {
		if p.Months[i].ID == id {
			return &p.Months[i], true
		}
	}
	return nil, false
}

// FirstMonthID returns the id of month 1, or "" for an empty plan.
func (p *Plan) FirstMonthID() MonthID {
	if p == nil || len(p.Months) == 0 {
		return ""
	}
	return p.Months[0].ID
}

// ValidateShape checks the structural invariants: 12 months with contiguous
// indexes, 4 tasks each, unique ids, recognized categories and statuses.
func (p *Plan) ValidateShape() error {
	if p == nil {
		return fmt.Errorf("plan is nil")
	}
	if len(p.Months) != PlanMonths {
		return fmt.Errorf("plan has %d months, want %d", len(p.Months), PlanMonths)
	}
	monthIDs := make(map[MonthID]struct{}, len(p.Months))
	for i, m := range p.Months {
		if m.ID == "" {
			return fmt.Errorf("month %d has no id", i+1)
		}
		if _, dup := monthIDs[m.ID]; dup {
			return fmt.Errorf("duplicate month id %q", m.ID)
		}
		monthIDs[m.ID] = struct{}{}
		if m.Index != i+1 {
			return fmt.Errorf("month %q has index %d at position %d", m.ID, m.Index, i+1)
		}
		if len(m.Tasks) != TasksPerMonth {
			return fmt.Errorf("month %q has %d tasks, want %d", m.ID, len(m.Tasks), TasksPerMonth)
		}
		taskIDs := make(map[TaskID]struct{}, len(m.Tasks))
		for _, t := range m.Tasks {
			if t.ID == "" {
				return fmt.Errorf("month %q has a task without id", m.ID)
			}
			if _, dup := taskIDs[t.ID]; dup {
				return fmt.Errorf("month %q has duplicate task id %q", m.ID, t.ID)
			}
			taskIDs[t.ID] = struct{}{}
			if !t.Category.Valid() {
				return fmt.Errorf("task %q has unknown category %q", t.ID, t.Category)
			}
			if !t.Status.Valid() {
				return fmt.Errorf("task %q has unknown status %q", t.ID, t.Status)
			}
		}
	}
	return nil
}

// ─────────────────────────────────────────
// Progress
//
// The dashboard gives half credit to in_progress tasks. The chat prompt only
// counts complete tasks and averages the per-month figures.
// ─────────────────────────────────────────

// MonthProgress is the dashboard figure: complete = 1, in_progress = 0.5.
func MonthProgress(m Month) int {
	if len(m.Tasks) == 0 {
		return 0
	}
	return roundPercent(progressUnits(m.Tasks), len(m.Tasks))
}

// PlanProgress is the dashboard figure over every task of the plan, half credit included.
func PlanProgress(p *Plan) int {
	if p == nil {
		return 0
	}
	var units float64
	var total int
	for _, m := range p.Months {
		units += progressUnits(m.Tasks)
		total += len(m.Tasks)
	}
	if total == 0 {
		return 0
	}
	return roundPercent(units, total)
}

// MonthCompletion is the prompt figure: only complete tasks count.
func MonthCompletion(m Month) int {
	if len(m.Tasks) == 0 {
		return 0
	}
	var done int
	for _, t := range m.Tasks {
		if t.Status == TaskComplete {
			done++
		}
	}
	return roundPercent(float64(done), len(m.Tasks))
}

// OverallCompletion is the mean of MonthCompletion over all months, rounded.
// Every month weighs the same regardless of its task count.
func OverallCompletion(p *Plan) int {
	if p == nil || len(p.Months) == 0 {
		return 0
	}
	var sum int
	for _, m := range p.Months {
		sum += MonthCompletion(m)
	}
	return int(math.Round(float64(sum) / float64(len(p.Months))))
}

func progressUnits(tasks []Task) float64 {
	var units float64
	for _, t := range tasks {
		switch t.Status {
		case TaskComplete:
			units++
		case TaskInProgress:
			units += 0.5
		}
	}
	return units
}

func roundPercent(units float64, total int) int {
	return int(math.Round(units / float64(total) * 100))
}
