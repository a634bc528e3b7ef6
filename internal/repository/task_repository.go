package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskvault/internal/model"
)

// StatusCount holds the number of tasks in one status.
type StatusCount struct {
	Status model.TaskStatus `json:"status"`
	Count  int64            `json:"count"`
}

// TaskRepository defines task persistence operations.
type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Task, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Task, error)
	Replace(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, id uuid.UUID) error
	// ExpireOverdue flips every task of the owner whose end date is strictly
	// before now and whose status is not already expired. Returns the number
	// of rows updated.
	ExpireOverdue(ctx context.Context, ownerID uuid.UUID, now time.Time) (int64, error)
	CountByStatus(ctx context.Context, ownerID uuid.UUID) ([]StatusCount, error)
}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new task repository.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

// Create creates a new task.
func (r *taskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// FindByID finds a task by ID.
func (r *taskRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// ListByOwner lists the owner's tasks in insertion order.
func (r *taskRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Replace saves all fields of the task keyed by its ID.
func (r *taskRepository) Replace(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}

// Delete removes a task by ID.
func (r *taskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Task{}).Error
}

// ExpireOverdue applies the expiry sweep as a single conditional bulk update.
func (r *taskRepository) ExpireOverdue(ctx context.Context, ownerID uuid.UUID, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("owner_id = ? AND end_date < ? AND status <> ?", ownerID, now, model.StatusExpired).
		Update("status", model.StatusExpired)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// CountByStatus groups the owner's tasks by status.
func (r *taskRepository) CountByStatus(ctx context.Context, ownerID uuid.UUID) ([]StatusCount, error) {
	var counts []StatusCount
	if err := r.db.WithContext(ctx).Model(&model.Task{}).
		Select("status, count(*) as count").
		Where("owner_id = ?", ownerID).
		Group("status").
		Find(&counts).Error; err != nil {
		return nil, err
	}
	return counts, nil
}
