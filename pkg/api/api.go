// Package api contains shared JSON request/response structs.
// This package is shared between the CLI and the server.
package api

import "time"

// CreateOperationRequest is the request body for adding a catalog entry.
type CreateOperationRequest struct {
	Name                string `json:"name"`
	Category            string `json:"category,omitempty"`
	Department          string `json:"department,omitempty"`
	StandardTimeMinutes int    `json:"standard_time_minutes"`
}

// OperationResponse represents a catalog entry in API responses.
type OperationResponse struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Category            string    `json:"category,omitempty"`
	Department          string    `json:"department,omitempty"`
	StandardTimeMinutes int       `json:"standard_time_minutes"`
	IsActive            bool      `json:"is_active"`
	CreatedAt           time.Time `json:"created_at"`
}

// CreateJobOrderRequest is the request body for creating a job order.
type CreateJobOrderRequest struct {
	Number                string    `json:"job_order_number"`
	ProductName           string    `json:"product_name"`
	TotalQuantity         int       `json:"total_quantity"`
	Priority              string    `json:"priority,omitempty"`
	DueDate               time.Time `json:"due_date"`
	AssignedTechnicianIDs []string  `json:"assigned_technician_ids,omitempty"`
	EstimatedHours        float64   `json:"estimated_hours,omitempty"`
}

// CorrectJobOrderRequest is the request body for an administrative
// correction of ledger fields.
type CorrectJobOrderRequest struct {
	CompletedQuantity *int   `json:"completed_quantity,omitempty"`
	Status            *string `json:"status,omitempty"`
	Reason            string `json:"reason"`
}

// JobOrderResponse represents a job order in API responses.
type JobOrderResponse struct {
	ID                 string     `json:"id"`
	Number             string     `json:"job_order_number"`
	ProductName        string     `json:"product_name"`
	TotalQuantity      int        `json:"total_quantity"`
	CompletedQuantity  int        `json:"completed_quantity"`
	ProgressPercentage float64    `json:"progress_percentage"`
	Priority           string     `json:"priority"`
	Status             string     `json:"status"`
	IsDelayed          bool       `json:"is_delayed"`
	DueDate            time.Time  `json:"due_date"`
	StartDate          *time.Time `json:"start_date,omitempty"`
	CompletionDate     *time.Time `json:"completion_date,omitempty"`
	EstimatedHours     float64    `json:"estimated_hours"`
	ActualHours        float64    `json:"actual_hours"`
	CreatedAt          time.Time  `json:"created_at"`
}

// CreateTaskRequest is the request body for creating a task. Mode selects
// the lifecycle: "reviewed" opens a pending task for assignment, "direct"
// opens (and with complete=true immediately closes) a self-reported
// session.
type CreateTaskRequest struct {
	JobOrderID     string     `json:"job_order_id"`
	OperationID    string     `json:"operation_id,omitempty"`
	Mode           string     `json:"mode"`
	TaskDate       *time.Time `json:"task_date,omitempty"`
	StartTime      *time.Time `json:"start_time,omitempty"`
	EndTime        *time.Time `json:"end_time,omitempty"`
	UnitsCompleted int        `json:"units_completed,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	Issues         []string   `json:"issues,omitempty"`
	Complete       bool       `json:"complete,omitempty"`
}

// UpdateTaskRequest is the request body for direct-mode task updates.
type UpdateTaskRequest struct {
	Status         string     `json:"status,omitempty"`
	EndTime        *time.Time `json:"end_time,omitempty"`
	UnitsCompleted *int       `json:"units_completed,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	Issues         []string   `json:"issues,omitempty"`
}

// AssignTaskRequest is the request body for assigning a task.
type AssignTaskRequest struct {
	TechnicianID string `json:"technician_id"`
}

// SubmitTaskRequest is the request body for submitting work for review.
type SubmitTaskRequest struct {
	CompletedUnits int      `json:"completed_units"`
	ActualMinutes  int      `json:"actual_time_minutes"`
	SerialNumbers  []string `json:"serial_numbers,omitempty"`
	Notes          string   `json:"notes,omitempty"`
}

// ReviewTaskRequest is the request body for approving or rejecting a
// submission. Reason is required on reject.
type ReviewTaskRequest struct {
	Feedback string `json:"feedback,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// TaskResponse represents a task in API responses.
type TaskResponse struct {
	ID             string     `json:"id"`
	JobOrderID     string     `json:"job_order_id"`
	OperationID    string     `json:"operation_id,omitempty"`
	TechnicianID   string     `json:"technician_id,omitempty"`
	Mode           string     `json:"mode"`
	Status         string     `json:"status"`
	TaskDate       time.Time  `json:"task_date"`
	StartTime      *time.Time `json:"start_time,omitempty"`
	EndTime        *time.Time `json:"end_time,omitempty"`
	UnitsCompleted int        `json:"units_completed"`
	ActualMinutes  int        `json:"actual_time_minutes"`
	DurationHours  float64    `json:"duration_hours"`
	Productivity   float64    `json:"productivity"`
	SerialNumbers  []string   `json:"serial_numbers,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	Issues         []string   `json:"issues,omitempty"`
	Attempt        int        `json:"attempt"`
	ReviewFeedback string     `json:"review_feedback,omitempty"`
	RejectReason   string     `json:"reject_reason,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// AlertResponse represents an alert in API responses.
type AlertResponse struct {
	ID           string     `json:"id"`
	Type         string     `json:"type"`
	Severity     string     `json:"severity"`
	Title        string     `json:"title"`
	Message      string     `json:"message,omitempty"`
	JobOrderID   string     `json:"job_order_id,omitempty"`
	TechnicianID string     `json:"technician_id,omitempty"`
	TaskID       string     `json:"task_id,omitempty"`
	TargetRoles  []string   `json:"target_roles,omitempty"`
	IsRead       bool       `json:"is_read"`
	IsResolved   bool       `json:"is_resolved"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}
