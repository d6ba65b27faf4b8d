package services

import (
	"context"
	"strings"

	"taskpilot/internal/api"
	"taskpilot/internal/logging"
	"taskpilot/internal/models"
)

// TaskService keeps the local mirror of the server's task collection for the
// current session. Every visible change follows a server round trip: the
// collection is replaced wholesale by List and patched one element at a time
// on successful mutations, never optimistically. On any failure the local
// collection is left untouched and the error propagates.
type TaskService struct {
	client api.Client
	log    logging.Logger
	tasks  []models.Task
}

func NewTaskService(client api.Client, log logging.Logger) *TaskService {
	return &TaskService{client: client, log: log}
}

// Tasks returns a snapshot of the current collection.
func (s *TaskService) Tasks() []models.Task {
	return append([]models.Task(nil), s.tasks...)
}

// List fetches the full collection and replaces local state wholesale. It
// must be called after every login; the scope of the result is implicit in
// the attached credential.
func (s *TaskService) List(ctx context.Context) ([]models.Task, error) {
	fetched, err := s.client.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	s.tasks = fetched
	return s.Tasks(), nil
}

// Create sends a draft (no id, no timestamps) and prepends the
// server-returned task, keeping newest-first ordering.
func (s *TaskService) Create(ctx context.Context, draft models.TaskDraft) (*models.Task, error) {
	if strings.TrimSpace(draft.Title) == "" {
		return nil, NewValidationError("title", "must not be empty")
	}
	if draft.Priority == "" {
		draft.Priority = models.PriorityMedium
	}
	if !draft.Priority.Valid() {
		return nil, NewValidationError("priority", "must be one of low, medium, high, urgent")
	}

	created, err := s.client.CreateTask(ctx, draft)
	if err != nil {
		return nil, err
	}
	s.tasks = append([]models.Task{*created}, s.tasks...)
	return created, nil
}

// Update sends only the patched fields and replaces the matching element by
// id with the server's representation.
func (s *TaskService) Update(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error) {
	updated, err := s.client.UpdateTask(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.replace(updated.ID, *updated)
	return updated, nil
}

// Delete removes the task on the server, then locally. A missing local
// element is a silent no-op: the deletion is idempotent cleanup.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	if err := s.client.DeleteTask(ctx, id); err != nil {
		return err
	}
	for i, t := range s.tasks {
		if t.ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			break
		}
	}
	return nil
}

// Toggle asks the server to flip completion; the server computes the new
// value, which avoids double-flips from concurrent toggles. The element is
// replaced by id with the returned task.
func (s *TaskService) Toggle(ctx context.Context, id string) (*models.Task, error) {
	updated, err := s.client.ToggleTask(ctx, id)
	if err != nil {
		return nil, err
	}
	s.replace(id, *updated)
	return updated, nil
}

func (s *TaskService) replace(id string, task models.Task) {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i] = task
			return
		}
	}
}

// Filter is a pure projection of the current collection: case-insensitive
// substring match over title and description, then status selection. It never
// mutates the underlying collection.
func (s *TaskService) Filter(query string, status models.StatusFilter) []models.Task {
	query = strings.ToLower(query)

	result := make([]models.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if query != "" &&
			!strings.Contains(strings.ToLower(t.Title), query) &&
			!strings.Contains(strings.ToLower(t.Description), query) {
			continue
		}
		switch status {
		case models.FilterActive:
			if t.Completed {
				continue
			}
		case models.FilterCompleted:
			if !t.Completed {
				continue
			}
		}
		result = append(result, t)
	}
	return result
}

// Reset discards the collection. The session service calls it on every
// identity transition so a new login never sees a previous user's tasks.
func (s *TaskService) Reset() {
	s.tasks = nil
}

// Invalidate refetches the collection. The conversation bridge calls it after
// every successful assistant exchange, since the assistant may have mutated
// tasks server-side.
func (s *TaskService) Invalidate(ctx context.Context) error {
	_, err := s.List(ctx)
	return err
}
