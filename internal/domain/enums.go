package domain

type TaskType string

const (
	TypeTask  TaskType = "task"
	TypeGroup TaskType = "group"
)

type TaskStatus string

const (
	StatusPlanned    TaskStatus = "planned"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
)

// ValidTaskTypes is the canonical set of accepted task type strings.
var ValidTaskTypes = map[string]bool{
	"task": true, "group": true,
}

// ValidTaskStatuses is the canonical set of accepted task status strings.
var ValidTaskStatuses = map[string]bool{
	"planned": true, "in_progress": true, "completed": true,
}

// WeightMode selects how a task's scope weight is measured when building
// the progress curve: by plan duration in days or by monetary cost.
type WeightMode string

const (
	WeightPhysical  WeightMode = "physical"
	WeightFinancial WeightMode = "financial"
)
