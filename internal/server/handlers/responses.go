package handlers

import (
	"time"

	"workfloor/internal/store"
	"workfloor/pkg/api"

	"github.com/google/uuid"
)

func jobOrderResponse(order *store.JobOrder, now time.Time) api.JobOrderResponse {
	return api.JobOrderResponse{
		ID:                 order.ID.String(),
		Number:             order.Number,
		ProductName:        order.ProductName,
		TotalQuantity:      order.TotalQuantity,
		CompletedQuantity:  order.CompletedQuantity,
		ProgressPercentage: order.ProgressPercentage(),
		Priority:           string(order.Priority),
		Status:             string(order.Status),
		IsDelayed:          order.IsDelayed(now),
		DueDate:            order.DueDate,
		StartDate:          order.StartDate,
		CompletionDate:     order.CompletionDate,
		EstimatedHours:     order.EstimatedHours,
		ActualHours:        order.ActualHours,
		CreatedAt:          order.CreatedAt,
	}
}

func taskResponse(task *store.Task) api.TaskResponse {
	resp := api.TaskResponse{
		ID:             task.ID.String(),
		JobOrderID:     task.JobOrderID.String(),
		OperationID:    optionalUUID(task.OperationID),
		Mode:           string(task.Mode),
		Status:         string(task.Status),
		TaskDate:       task.TaskDate,
		StartTime:      task.StartTime,
		EndTime:        task.EndTime,
		UnitsCompleted: task.UnitsCompleted,
		ActualMinutes:  task.ActualMinutes,
		DurationHours:  task.DurationHours(),
		Productivity:   task.Productivity(),
		SerialNumbers:  task.SerialNumbers,
		Notes:          task.Notes,
		Issues:         task.Issues,
		Attempt:        task.Attempt,
		ReviewFeedback: task.ReviewFeedback,
		RejectReason:   task.RejectReason,
		CreatedAt:      task.CreatedAt,
		UpdatedAt:      task.UpdatedAt,
	}
	if task.TechnicianID != uuid.Nil {
		resp.TechnicianID = task.TechnicianID.String()
	}
	return resp
}

func alertResponse(alert *store.Alert) api.AlertResponse {
	return api.AlertResponse{
		ID:           alert.ID.String(),
		Type:         string(alert.Type),
		Severity:     string(alert.Severity),
		Title:        alert.Title,
		Message:      alert.Message,
		JobOrderID:   optionalUUID(alert.JobOrderID),
		TechnicianID: optionalUUID(alert.TechnicianID),
		TaskID:       optionalUUID(alert.TaskID),
		TargetRoles:  alert.TargetRoles,
		IsRead:       alert.IsRead,
		IsResolved:   alert.IsResolved,
		ResolvedAt:   alert.ResolvedAt,
		CreatedAt:    alert.CreatedAt,
	}
}

func operationResponse(op *store.Operation) api.OperationResponse {
	return api.OperationResponse{
		ID:                  op.ID.String(),
		Name:                op.Name,
		Category:            op.Category,
		Department:          op.Department,
		StandardTimeMinutes: op.StandardTimeMinutes,
		IsActive:            op.IsActive,
		CreatedAt:           op.CreatedAt,
	}
}
