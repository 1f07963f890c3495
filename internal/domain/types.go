package domain

type UserID string
type PlanID string
type MonthID string
type TaskID string
type MessageID string

// Role is the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Stage is the coarse screen the user is on.
type Stage string

const (
	StageOnboarding Stage = "onboarding"
	StagePlan       Stage = "plan"
)

func (s Stage) Valid() bool {
	return s == StageOnboarding || s == StagePlan
}

type TaskStatus string

const (
	TaskNotStarted TaskStatus = "not_started"
	TaskInProgress TaskStatus = "in_progress"
	TaskComplete   TaskStatus = "complete"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskNotStarted, TaskInProgress, TaskComplete:
		return true
	}
	return false
}

// Next returns the status that follows s in the toggle cycle
// not_started -> in_progress -> complete -> not_started.
func (s TaskStatus) Next() TaskStatus {
	switch s {
	case TaskNotStarted:
		return TaskInProgress
	case TaskInProgress:
		return TaskComplete
	default:
		return TaskNotStarted
	}
}

type TaskCategory string

const (
	CategoryLearning   TaskCategory = "learning"
	CategoryPractice   TaskCategory = "practice"
	CategoryNetworking TaskCategory = "networking"
	CategoryReflection TaskCategory = "reflection"
)

func (c TaskCategory) Valid() bool {
	switch c {
	case CategoryLearning, CategoryPractice, CategoryNetworking, CategoryReflection:
		return true
	}
	return false
}

const (
	// PlanMonths is the number of months in every plan.
	PlanMonths = 12
	// TasksPerMonth is the number of tasks owned by every month.
	TasksPerMonth = 4
)

