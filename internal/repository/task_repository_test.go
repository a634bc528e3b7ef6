package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"taskvault/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Task{}))
	return db
}

func seedOwner(t *testing.T, db *gorm.DB) uuid.UUID {
	t.Helper()
	user := &model.User{Name: "Owner", Email: uuid.NewString() + "@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)
	return user.ID
}

func TestTaskRepository_CreateListRoundTrip(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()
	ownerID := seedOwner(t, db)

	start := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	end := time.Date(2025, 5, 8, 17, 0, 0, 0, time.UTC)
	task := &model.Task{Title: "T", OwnerID: ownerID, StartDate: start, EndDate: end}
	require.NoError(t, repo.Create(ctx, task))

	tasks, err := repo.ListByOwner(ctx, ownerID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "T", tasks[0].Title)
	assert.True(t, tasks[0].StartDate.Equal(start))
	assert.True(t, tasks[0].EndDate.Equal(end))
	assert.Equal(t, model.StatusNotStarted, tasks[0].Status)
}

func TestTaskRepository_ExpireOverdueFlipsOnlyPastNonExpired(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()
	ownerID := seedOwner(t, db)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -1)
	future := now.AddDate(0, 0, 1)

	overdue := &model.Task{Title: "overdue", OwnerID: ownerID, StartDate: past.AddDate(0, 0, -7), EndDate: past, Status: model.StatusInProgress}
	alreadyExpired := &model.Task{Title: "already expired", OwnerID: ownerID, StartDate: past.AddDate(0, 0, -7), EndDate: past, Status: model.StatusExpired}
	upcoming := &model.Task{Title: "upcoming", OwnerID: ownerID, StartDate: now, EndDate: future, Status: model.StatusInProgress}
	require.NoError(t, repo.Create(ctx, overdue))
	require.NoError(t, repo.Create(ctx, alreadyExpired))
	require.NoError(t, repo.Create(ctx, upcoming))

	updated, err := repo.ExpireOverdue(ctx, ownerID, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated)

	got, err := repo.FindByID(ctx, overdue.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusExpired, got.Status)

	got, err = repo.FindByID(ctx, upcoming.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInProgress, got.Status)
}

func TestTaskRepository_ExpireOverdueIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()
	ownerID := seedOwner(t, db)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	task := &model.Task{Title: "overdue", OwnerID: ownerID, StartDate: now.AddDate(0, 0, -7), EndDate: now.AddDate(0, 0, -1), Status: model.StatusNotStarted}
	require.NoError(t, repo.Create(ctx, task))

	first, err := repo.ExpireOverdue(ctx, ownerID, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first)

	second, err := repo.ExpireOverdue(ctx, ownerID, now)
	require.NoError(t, err)
	assert.Equal(t, int64(0), second)

	got, err := repo.FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusExpired, got.Status)
}

// A task edited back to a non-expired status is eligible again on the next
// sweep: expiry is re-derived on every read, not a one-way lock.
func TestTaskRepository_ExpireOverdueReflagsAfterEdit(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()
	ownerID := seedOwner(t, db)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	task := &model.Task{Title: "overdue", OwnerID: ownerID, StartDate: now.AddDate(0, 0, -7), EndDate: now.AddDate(0, 0, -1), Status: model.StatusNotStarted}
	require.NoError(t, repo.Create(ctx, task))

	_, err := repo.ExpireOverdue(ctx, ownerID, now)
	require.NoError(t, err)

	task.Status = model.StatusInProgress
	require.NoError(t, repo.Replace(ctx, task))

	updated, err := repo.ExpireOverdue(ctx, ownerID, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated)
}

func TestTaskRepository_ExpireOverdueScopedToOwner(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()
	ownerID := seedOwner(t, db)
	otherID := seedOwner(t, db)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	mine := &model.Task{Title: "mine", OwnerID: ownerID, StartDate: now.AddDate(0, 0, -7), EndDate: now.AddDate(0, 0, -1)}
	theirs := &model.Task{Title: "theirs", OwnerID: otherID, StartDate: now.AddDate(0, 0, -7), EndDate: now.AddDate(0, 0, -1)}
	require.NoError(t, repo.Create(ctx, mine))
	require.NoError(t, repo.Create(ctx, theirs))

	updated, err := repo.ExpireOverdue(ctx, ownerID, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated)

	got, err := repo.FindByID(ctx, theirs.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusNotStarted, got.Status)
}

func TestTaskRepository_DeleteRemovesRow(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()
	ownerID := seedOwner(t, db)

	task := &model.Task{Title: "gone", OwnerID: ownerID, StartDate: time.Now(), EndDate: time.Now().AddDate(0, 0, 1)}
	require.NoError(t, repo.Create(ctx, task))
	require.NoError(t, repo.Delete(ctx, task.ID))

	_, err := repo.FindByID(ctx, task.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestTaskRepository_CountByStatus(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()
	ownerID := seedOwner(t, db)

	now := time.Now()
	for _, status := range []model.TaskStatus{
		model.StatusCompleted, model.StatusCompleted,
		model.StatusInProgress,
		model.StatusExpired,
	} {
		task := &model.Task{Title: string(status), OwnerID: ownerID, StartDate: now, EndDate: now.AddDate(0, 1, 0), Status: status}
		require.NoError(t, repo.Create(ctx, task))
	}

	counts, err := repo.CountByStatus(ctx, ownerID)
	require.NoError(t, err)

	byStatus := make(map[model.TaskStatus]int64, len(counts))
	for _, c := range counts {
		byStatus[c.Status] = c.Count
	}
	assert.Equal(t, int64(2), byStatus[model.StatusCompleted])
	assert.Equal(t, int64(1), byStatus[model.StatusInProgress])
	assert.Equal(t, int64(1), byStatus[model.StatusExpired])
}
