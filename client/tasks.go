package client

import "context"

// TaskService triggers and inspects background tasks.
type TaskService struct {
	c *Client
}

// TriggerSync runs a mailbox sync and waits for it to complete.
func (s *TaskService) TriggerSync(ctx context.Context) (*TaskRef, error) {
	var ref TaskRef
	if err := s.c.post(ctx, "/api/v1/sync", nil, &ref); err != nil {
		return nil, err
	}
	return &ref, nil
}

// TriggerProfileRebuild starts an async constituent profile rebuild.
func (s *TaskService) TriggerProfileRebuild(ctx context.Context) (*TaskRef, error) {
	var ref TaskRef
	if err := s.c.post(ctx, "/api/v1/profile/rebuild", nil, &ref); err != nil {
		return nil, err
	}
	return &ref, nil
}

type taskStatusResponse struct {
	Tasks []TaskStatus `json:"tasks"`
}

// Status returns the state of the caller's background tasks.
func (s *TaskService) Status(ctx context.Context) ([]TaskStatus, error) {
	var resp taskStatusResponse
	if err := s.c.get(ctx, "/api/v1/tasks", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}
