package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"workfloor/pkg/api"
)

// Client handles API calls to the workfloor server.
type Client struct {
	BaseURL    string
	ActorID    string
	ActorRole  string
	HTTPClient *http.Client
}

// NewClient creates a new client with the given base URL and actor identity.
func NewClient(baseURL, actorID, actorRole string) *Client {
	return &Client{
		BaseURL:   baseURL,
		ActorID:   actorID,
		ActorRole: actorRole,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// APIError represents an error response from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (%d): %s", e.StatusCode, e.Message)
}

// do sends a request with identity headers and decodes the response into
// out when out is non-nil.
func (c *Client) do(method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(bodyBytes)
	}

	httpReq, err := http.NewRequest(method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Add("X-Actor-ID", c.ActorID)
	httpReq.Header.Add("X-Actor-Role", c.ActorRole)
	httpReq.Header.Add("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// CreateJobOrder sends POST /job-orders.
func (c *Client) CreateJobOrder(req api.CreateJobOrderRequest) (*api.JobOrderResponse, error) {
	var result api.JobOrderResponse
	if err := c.do(http.MethodPost, "/job-orders", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetJobOrder sends GET /job-orders/{id}.
func (c *Client) GetJobOrder(id string) (*api.JobOrderResponse, error) {
	var result api.JobOrderResponse
	if err := c.do(http.MethodGet, fmt.Sprintf("/job-orders/%s", id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateTask sends POST /tasks.
func (c *Client) CreateTask(req api.CreateTaskRequest) (*api.TaskResponse, error) {
	var result api.TaskResponse
	if err := c.do(http.MethodPost, "/tasks", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetTask sends GET /tasks/{id}.
func (c *Client) GetTask(id string) (*api.TaskResponse, error) {
	var result api.TaskResponse
	if err := c.do(http.MethodGet, fmt.Sprintf("/tasks/%s", id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AssignTask sends POST /tasks/{id}/assign.
func (c *Client) AssignTask(id string, req api.AssignTaskRequest) (*api.TaskResponse, error) {
	var result api.TaskResponse
	if err := c.do(http.MethodPost, fmt.Sprintf("/tasks/%s/assign", id), req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// StartTask sends POST /tasks/{id}/start.
func (c *Client) StartTask(id string) (*api.TaskResponse, error) {
	var result api.TaskResponse
	if err := c.do(http.MethodPost, fmt.Sprintf("/tasks/%s/start", id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SubmitTask sends POST /tasks/{id}/submit.
func (c *Client) SubmitTask(id string, req api.SubmitTaskRequest) (*api.TaskResponse, error) {
	var result api.TaskResponse
	if err := c.do(http.MethodPost, fmt.Sprintf("/tasks/%s/submit", id), req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ApproveTask sends POST /tasks/{id}/approve.
func (c *Client) ApproveTask(id string, req api.ReviewTaskRequest) (*api.TaskResponse, error) {
	var result api.TaskResponse
	if err := c.do(http.MethodPost, fmt.Sprintf("/tasks/%s/approve", id), req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RejectTask sends POST /tasks/{id}/reject.
func (c *Client) RejectTask(id string, req api.ReviewTaskRequest) (*api.TaskResponse, error) {
	var result api.TaskResponse
	if err := c.do(http.MethodPost, fmt.Sprintf("/tasks/%s/reject", id), req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListAlerts sends GET /alerts.
func (c *Client) ListAlerts(unresolvedOnly bool) ([]api.AlertResponse, error) {
	path := "/alerts"
	if unresolvedOnly {
		path += "?unresolved=true"
	}
	var result []api.AlertResponse
	if err := c.do(http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// ResolveAlert sends POST /alerts/{id}/resolve.
func (c *Client) ResolveAlert(id string) error {
	return c.do(http.MethodPost, fmt.Sprintf("/alerts/%s/resolve", id), nil, nil)
}
