package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskvault/internal/cache"
	"taskvault/internal/errors"
	"taskvault/internal/model"
	"taskvault/internal/repository"
)

const statsCacheTTL = 1 * time.Minute

// SortOrder selects the direction of the status precedence table.
type SortOrder string

const (
	// OrderAsc sorts completed first, expired last.
	OrderAsc SortOrder = "asc"
	// OrderDesc reverses the precedence table, expired first.
	OrderDesc SortOrder = "desc"
)

// TaskStats aggregates an owner's task counts by status.
type TaskStats struct {
	Total          int64 `json:"total"`
	Completed      int64 `json:"completed"`
	InProgress     int64 `json:"in_progress"`
	NotStarted     int64 `json:"not_started"`
	Expired        int64 `json:"expired"`
	CompletionRate int64 `json:"completion_rate"`
}

// TaskService exposes task domain operations scoped to the owning user.
type TaskService interface {
	Create(ctx context.Context, ownerID uuid.UUID, title string, startDate, endDate time.Time, status model.TaskStatus) (*model.Task, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]model.Task, error)
	ListFiltered(ctx context.Context, ownerID uuid.UUID, order SortOrder) ([]model.Task, error)
	Update(ctx context.Context, ownerID, taskID uuid.UUID, title string, startDate, endDate time.Time, status model.TaskStatus) (*model.Task, error)
	Delete(ctx context.Context, ownerID, taskID uuid.UUID) (*model.Task, error)
	Stats(ctx context.Context, ownerID uuid.UUID) (*TaskStats, error)
	ReconcileExpired(ctx context.Context, ownerID uuid.UUID) (int64, error)
}

type taskService struct {
	taskRepo repository.TaskRepository
	cache    *cache.Client
	// now is swappable for tests
	now func() time.Time
}

// NewTaskService builds a TaskService with repository and cache.
func NewTaskService(taskRepo repository.TaskRepository, cache *cache.Client) TaskService {
	return &taskService{
		taskRepo: taskRepo,
		cache:    cache,
		now:      time.Now,
	}
}

func (s *taskService) statsCacheKey(ownerID uuid.UUID) string {
	return fmt.Sprintf("task_stats:%s", ownerID)
}

// Create persists a new task owned by ownerID. Status defaults to not_started
// when empty.
func (s *taskService) Create(ctx context.Context, ownerID uuid.UUID, title string, startDate, endDate time.Time, status model.TaskStatus) (*model.Task, error) {
	if status == "" {
		status = model.StatusNotStarted
	}
	if !status.Valid() {
		return nil, errors.ErrInvalidStatus
	}

	task := &model.Task{
		Title:     title,
		OwnerID:   ownerID,
		StartDate: startDate,
		EndDate:   endDate,
		Status:    status,
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	_ = s.cache.Delete(ctx, s.statsCacheKey(ownerID))
	return task, nil
}

// ReconcileExpired re-derives the expired status for the owner's tasks as of
// now. Idempotent; called before every read so a listing never shows a task
// past its end date as anything but expired.
func (s *taskService) ReconcileExpired(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	updated, err := s.taskRepo.ExpireOverdue(ctx, ownerID, s.now())
	if err != nil {
		return 0, fmt.Errorf("expire overdue tasks: %w", err)
	}
	if updated > 0 {
		_ = s.cache.Delete(ctx, s.statsCacheKey(ownerID))
	}
	return updated, nil
}

// List returns the owner's tasks in insertion order. The expiry sweep runs
// first; a sweep failure aborts the read rather than serving stale status.
func (s *taskService) List(ctx context.Context, ownerID uuid.UUID) ([]model.Task, error) {
	if _, err := s.ReconcileExpired(ctx, ownerID); err != nil {
		return nil, err
	}
	return s.taskRepo.ListByOwner(ctx, ownerID)
}

// ListFiltered returns the owner's tasks ordered by status precedence. The
// sort is stable and keyed only on status rank, so tasks sharing a status keep
// their insertion order. desc reverses the precedence table itself, and a task
// with an unknown status sorts last in both directions.
func (s *taskService) ListFiltered(ctx context.Context, ownerID uuid.UUID, order SortOrder) ([]model.Task, error) {
	if _, err := s.ReconcileExpired(ctx, ownerID); err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	SortByStatus(tasks, order)
	return tasks, nil
}

// SortByStatus stably sorts tasks by status precedence in the given order.
func SortByStatus(tasks []model.Task, order SortOrder) {
	precedence := model.StatusPrecedenceAsc
	if order == OrderDesc {
		reversed := make([]model.TaskStatus, len(precedence))
		for i, s := range precedence {
			reversed[len(precedence)-1-i] = s
		}
		precedence = reversed
	}
	ranks := model.StatusRanks(precedence)
	sort.SliceStable(tasks, func(i, j int) bool {
		return model.CompareStatus(tasks[i].Status, tasks[j].Status, ranks) < 0
	})
}

// Update replaces all four mutable fields of the task. The caller must own
// the task.
func (s *taskService) Update(ctx context.Context, ownerID, taskID uuid.UUID, title string, startDate, endDate time.Time, status model.TaskStatus) (*model.Task, error) {
	if !status.Valid() {
		return nil, errors.ErrInvalidStatus
	}

	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	if task.OwnerID != ownerID {
		return nil, errors.ErrNotTaskOwner
	}

	task.Title = title
	task.StartDate = startDate
	task.EndDate = endDate
	task.Status = status
	if err := s.taskRepo.Replace(ctx, task); err != nil {
		return nil, fmt.Errorf("replace task: %w", err)
	}
	_ = s.cache.Delete(ctx, s.statsCacheKey(ownerID))
	return task, nil
}

// Delete removes the task and returns the deleted record. The caller must own
// the task.
func (s *taskService) Delete(ctx context.Context, ownerID, taskID uuid.UUID) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	if task.OwnerID != ownerID {
		return nil, errors.ErrNotTaskOwner
	}

	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		return nil, fmt.Errorf("delete task: %w", err)
	}
	_ = s.cache.Delete(ctx, s.statsCacheKey(ownerID))
	return task, nil
}

// Stats returns the owner's task counts by status plus a completion
// percentage. Results are cached briefly per owner; every write path
// invalidates the entry.
func (s *taskService) Stats(ctx context.Context, ownerID uuid.UUID) (*TaskStats, error) {
	if _, err := s.ReconcileExpired(ctx, ownerID); err != nil {
		return nil, err
	}

	if data, _ := s.cache.Get(ctx, s.statsCacheKey(ownerID)); data != nil {
		var cached TaskStats
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	counts, err := s.taskRepo.CountByStatus(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}

	stats := &TaskStats{}
	for _, c := range counts {
		stats.Total += c.Count
		switch c.Status {
		case model.StatusCompleted:
			stats.Completed = c.Count
		case model.StatusInProgress:
			stats.InProgress = c.Count
		case model.StatusNotStarted:
			stats.NotStarted = c.Count
		case model.StatusExpired:
			stats.Expired = c.Count
		}
	}
	if stats.Total > 0 {
		stats.CompletionRate = (stats.Completed*100 + stats.Total/2) / stats.Total
	}

	if payload, err := json.Marshal(stats); err == nil {
		_ = s.cache.Set(ctx, s.statsCacheKey(ownerID), payload, statsCacheTTL)
	}
	return stats, nil
}
