// Package store contains the database layer for workfloor.
package store

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Operation is a catalog entry describing a standard manufacturing operation.
// Catalog entries are soft-deleted only; tasks referencing a deactivated
// operation remain valid.
type Operation struct {
	ID                  uuid.UUID
	Name                string
	Category            string
	Department          string
	StandardTimeMinutes int
	IsActive            bool
	CreatedAt           time.Time
}

// JobOrderStatus represents the lifecycle state of a job order.
type JobOrderStatus string

const (
	JobOrderStatusPending    JobOrderStatus = "pending"
	JobOrderStatusInProgress JobOrderStatus = "in-progress"
	JobOrderStatusCompleted  JobOrderStatus = "completed"
	JobOrderStatusDelayed    JobOrderStatus = "delayed"
	JobOrderStatusCancelled  JobOrderStatus = "cancelled"
)

// Priority represents the scheduling priority of a job order.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// JobOrder represents a production run targeting a fixed quantity of a
// product by a due date.
//
// CompletedQuantity, ActualHours and work-driven Status transitions are
// owned by the progress reconciler; nothing else writes them. Version is
// bumped on every reconciler write and guards against lost updates.
type JobOrder struct {
	ID                    uuid.UUID
	Number                string
	ProductName           string
	TotalQuantity         int
	CompletedQuantity     int
	Priority              Priority
	Status                JobOrderStatus
	DueDate               time.Time
	StartDate             *time.Time
	CompletionDate        *time.Time
	AssignedTechnicianIDs []string
	EstimatedHours        float64
	ActualHours           float64
	Version               int64
	CreatedBy             uuid.UUID
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// IsDelayed reports whether the order is past due and not yet finished.
// Derived, never stored.
func (j *JobOrder) IsDelayed(now time.Time) bool {
	return j.Status != JobOrderStatusCompleted &&
		j.Status != JobOrderStatusCancelled &&
		now.After(j.DueDate)
}

// ProgressPercentage returns completion as a percentage rounded to two
// decimals. Zero when TotalQuantity is zero.
func (j *JobOrder) ProgressPercentage() float64 {
	if j.TotalQuantity == 0 {
		return 0
	}
	pct := float64(j.CompletedQuantity) / float64(j.TotalQuantity) * 100
	return math.Round(pct*100) / 100
}

// TaskMode distinguishes the two task lifecycles.
type TaskMode string

const (
	// TaskModeDirect applies technician-reported completion immediately.
	TaskModeDirect TaskMode = "direct"
	// TaskModeReviewed requires supervisor approval before ledger effects.
	TaskModeReviewed TaskMode = "reviewed"
)

// TaskStatus represents the state of a task.
type TaskStatus string

const (
	// Reviewed-mode states.
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusAssigned  TaskStatus = "assigned"
	TaskStatusSubmitted TaskStatus = "submitted"
	TaskStatusApproved  TaskStatus = "approved"
	TaskStatusRejected  TaskStatus = "rejected"

	// Shared and direct-mode states.
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusPaused     TaskStatus = "paused"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// Task represents one technician's logged work session against a job order.
type Task struct {
	ID             uuid.UUID
	JobOrderID     uuid.UUID
	OperationID    *uuid.UUID
	TechnicianID   uuid.UUID
	Mode           TaskMode
	Status         TaskStatus
	TaskDate       time.Time
	StartTime      *time.Time
	EndTime        *time.Time
	UnitsCompleted int
	ActualMinutes  int
	SerialNumbers  []string
	Notes          string
	Issues         []string
	// Attempt counts submission cycles; bumped when a rejected task
	// returns to in-progress.
	Attempt        int
	AssignedAt     *time.Time
	StartedAt      *time.Time
	SubmittedAt    *time.Time
	ReviewedAt     *time.Time
	ReviewerID     *uuid.UUID
	ReviewFeedback string
	RejectReason   string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DurationHours returns the elapsed time between start and end, clamped to
// zero. Zero when either endpoint is missing.
func (t *Task) DurationHours() float64 {
	if t.StartTime == nil || t.EndTime == nil {
		return 0
	}
	d := t.EndTime.Sub(*t.StartTime).Hours()
	if d < 0 {
		return 0
	}
	return d
}

// Productivity returns units completed per hour, or zero when no measurable
// duration exists.
func (t *Task) Productivity() float64 {
	h := t.DurationHours()
	if h <= 0 {
		return 0
	}
	return float64(t.UnitsCompleted) / h
}

// AlertType classifies an alert.
type AlertType string

const (
	AlertTypeDelay          AlertType = "delay"
	AlertTypeDeadline       AlertType = "deadline"
	AlertTypeLowPerformance AlertType = "low-performance"
	AlertTypeQualityIssue   AlertType = "quality-issue"
	AlertTypeSystem         AlertType = "system"
)

// AlertSeverity grades an alert.
type AlertSeverity string

const (
	SeverityLow      AlertSeverity = "low"
	SeverityMedium   AlertSeverity = "medium"
	SeverityHigh     AlertSeverity = "high"
	SeverityCritical AlertSeverity = "critical"
)

// Alert is a persisted notification record derived from job-order or task
// state. Alerts are only ever marked read or resolved, never deleted here.
type Alert struct {
	ID           uuid.UUID
	Type         AlertType
	Severity     AlertSeverity
	Title        string
	Message      string
	JobOrderID   *uuid.UUID
	TechnicianID *uuid.UUID
	TaskID       *uuid.UUID
	TargetRoles  []string
	IsRead       bool
	IsResolved   bool
	ResolvedAt   *time.Time
	ResolvedBy   *uuid.UUID
	CreatedAt    time.Time
}
