package domain

import "time"

// Action is a state transition request. Reduce is the only place actions are applied.
type Action interface {
	isAction()
}

// PlanGenerated installs the profile and plan produced at onboarding.
type PlanGenerated struct {
	Profile Profile
	Plan    *Plan
	At      time.Time
}

// SetTaskStatus sets one task to an explicit status.
type SetTaskStatus struct {
	MonthID MonthID
	TaskID  TaskID
	Status  TaskStatus
}

// ToggleTask advances one task through the status cycle.
type ToggleTask struct {
	MonthID MonthID
	TaskID  TaskID
}

// StartMonth marks the first task in progress if the month is untouched.
type StartMonth struct {
	MonthID MonthID
}

// SelectMonth moves the month pointer.
type SelectMonth struct {
	MonthID MonthID
}

// AppendMessage adds a message to the chat log.
type AppendMessage struct {
	Message ChatMessage
}

// Reset returns to a fresh onboarding state.
type Reset struct {
	At time.Time
}

func (PlanGenerated) isAction() {}
func (SetTaskStatus) isAction() {}
func (ToggleTask) isAction()    {}
func (StartMonth) isAction()    {}
func (SelectMonth) isAction()   {}
func (AppendMessage) isAction() {}
func (Reset) isAction()         {}

// Reduce returns the state that results from applying a to s. The input is
// never modified. Actions that do not apply return an unchanged copy.
func Reduce(s AppState, a Action) AppState {
	next := s.Clone()

	switch a := a.(type) {
	case PlanGenerated:
		// Profile and plan are set once.
		if next.Plan != nil || a.Plan == nil {
			return next
		}
		profile := a.Profile
		next.Stage = StagePlan
		next.Profile = &profile
		next.Plan = a.Plan.Clone()
		next.SelectedMonthID = nil
		if first := next.Plan.FirstMonthID(); first != "" {
			next.SelectedMonthID = &first
		}
		next.Chat = append(next.Chat, PlanReadyMessage(profile, a.At))

	case SetTaskStatus:
		if !a.Status.Valid() {
			return next
		}
		if t := findTask(next.Plan, a.MonthID, a.TaskID); t != nil {
			t.Status = a.Status
		}

	case ToggleTask:
		if t := findTask(next.Plan, a.MonthID, a.TaskID); t != nil {
			t.Status = t.Status.Next()
		}

	case StartMonth:
		m, ok := next.Plan.Month(a.MonthID)
		if !ok || len(m.Tasks) == 0 {
			return next
		}
		for _, t := range m.Tasks {
			if t.Status != TaskNotStarted {
				return next
			}
		}
		m.Tasks[0].Status = TaskInProgress

	case SelectMonth:
		if _, ok := next.Plan.Month(a.MonthID); ok {
			id := a.MonthID
			next.SelectedMonthID = &id
		}

	case AppendMessage:
		next.Chat = append(next.Chat, a.Message)

	case Reset:
		return NewAppState(a.At)
	}

	return next
}

func findTask(p *Plan, monthID MonthID, taskID TaskID) *Task {
	m, ok := p.Month(monthID)
	if !ok {
		return nil
	}
	for i := range m.Tasks {
		if m.Tasks[i].ID == taskID {
			return &m.Tasks[i]
		}
	}
	return nil
}
