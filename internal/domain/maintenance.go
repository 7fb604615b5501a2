package domain

import (
	"context"
	"time"
)

// Maintenance task categories
const (
	MaintenanceCategoryFacility  = "facility"
	MaintenanceCategoryEquipment = "equipment"
	MaintenanceCategoryCleaning  = "cleaning"
	MaintenanceCategoryRepairs   = "repairs"
	MaintenanceCategoryOther     = "other"
)

// Maintenance task priorities
const (
	MaintenancePriorityLow      = "low"
	MaintenancePriorityMedium   = "medium"
	MaintenancePriorityHigh     = "high"
	MaintenancePriorityCritical = "critical"
)

// Maintenance task statuses
const (
	MaintenanceStatusPending    = "pending"
	MaintenanceStatusInProgress = "in-progress"
	MaintenanceStatusCompleted  = "completed"
	MaintenanceStatusCancelled  = "cancelled"
)

// MaintenanceTask is a scheduled piece of facility upkeep.
type MaintenanceTask struct {
	ID             string     `bson:"_id,omitempty" json:"id"`
	Title          string     `bson:"title" json:"title"`
	Description    string     `bson:"description" json:"description"`
	Category       string     `bson:"category" json:"category"`
	Priority       string     `bson:"priority" json:"priority"`
	Status         string     `bson:"status" json:"status"`
	AssignedTo     string     `bson:"assigned_to" json:"assignedTo"`
	Cost           float64    `bson:"cost" json:"cost"`
	ScheduledDate  time.Time  `bson:"scheduled_date" json:"scheduledDate"`
	CompletionDate *time.Time `bson:"completion_date" json:"completionDate"`
	Notes          string     `bson:"notes" json:"notes"`
	CreatedAt      time.Time  `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time  `bson:"updated_at" json:"updatedAt"`
}

// SetStatus moves the task to status. Completing a task without a recorded
// completion date stamps it with now.
func (t *MaintenanceTask) SetStatus(status string, now time.Time) {
	t.Status = status
	if status == MaintenanceStatusCompleted && t.CompletionDate == nil {
		done := now.UTC()
		t.CompletionDate = &done
	}
}

// MaintenanceRepository defines operations for maintenance tasks
type MaintenanceRepository interface {
	Create(ctx context.Context, t *MaintenanceTask) error
	GetByID(ctx context.Context, id string) (*MaintenanceTask, error)
	// List returns every task, earliest scheduled first.
	List(ctx context.Context) ([]*MaintenanceTask, error)
	Update(ctx context.Context, t *MaintenanceTask) error
	Delete(ctx context.Context, id string) error
}
