package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"taskvault/internal/auth"
	"taskvault/internal/model"
	"taskvault/internal/service"
)

// MockTaskService is a mock implementation of service.TaskService.
type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) Create(ctx context.Context, ownerID uuid.UUID, title string, startDate, endDate time.Time, status model.TaskStatus) (*model.Task, error) {
	args := m.Called(ctx, ownerID, title, startDate, endDate, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *MockTaskService) List(ctx context.Context, ownerID uuid.UUID) ([]model.Task, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *MockTaskService) ListFiltered(ctx context.Context, ownerID uuid.UUID, order service.SortOrder) ([]model.Task, error) {
	args := m.Called(ctx, ownerID, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *MockTaskService) Update(ctx context.Context, ownerID, taskID uuid.UUID, title string, startDate, endDate time.Time, status model.TaskStatus) (*model.Task, error) {
	args := m.Called(ctx, ownerID, taskID, title, startDate, endDate, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *MockTaskService) Delete(ctx context.Context, ownerID, taskID uuid.UUID) (*model.Task, error) {
	args := m.Called(ctx, ownerID, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *MockTaskService) Stats(ctx context.Context, ownerID uuid.UUID) (*service.TaskStats, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TaskStats), args.Error(1)
}

func (m *MockTaskService) ReconcileExpired(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

func newTestContext(t *testing.T, method, target, body string, ownerID uuid.UUID) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user", &auth.Claims{UserID: ownerID.String(), Email: "owner@example.com"})
	return c, rec
}

func httpStatus(t *testing.T, err error) int {
	t.Helper()
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected *echo.HTTPError, got %T", err)
	return httpErr.Code
}

func TestCreateTask_MissingStartDateRejected(t *testing.T) {
	mockSvc := new(MockTaskService)
	h := NewTaskHandler(mockSvc)
	ownerID := uuid.New()

	body := `{"title":"T","endDate":"2025-06-30T00:00:00Z"}`
	c, _ := newTestContext(t, http.MethodPost, "/api/tasks", body, ownerID)

	err := h.CreateTask(c)

	assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))
	mockSvc.AssertNotCalled(t, "Create")
}

func TestCreateTask_StatusOptional(t *testing.T) {
	mockSvc := new(MockTaskService)
	ownerID := uuid.New()
	created := &model.Task{ID: uuid.New(), Title: "T", OwnerID: ownerID, Status: model.StatusNotStarted}
	mockSvc.On("Create", mock.Anything, ownerID, "T", mock.Anything, mock.Anything, model.TaskStatus("")).Return(created, nil)

	h := NewTaskHandler(mockSvc)
	body := `{"title":"T","startDate":"2025-06-01T00:00:00Z","endDate":"2025-06-30T00:00:00Z"}`
	c, rec := newTestContext(t, http.MethodPost, "/api/tasks", body, ownerID)

	err := h.CreateTask(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"not_started"`)
	mockSvc.AssertExpectations(t)
}

func TestUpdateTask_MissingStatusRejected(t *testing.T) {
	mockSvc := new(MockTaskService)
	h := NewTaskHandler(mockSvc)
	ownerID := uuid.New()
	taskID := uuid.New()

	// unlike create, update requires all four fields
	body := `{"title":"T","startDate":"2025-06-01T00:00:00Z","endDate":"2025-06-30T00:00:00Z"}`
	c, _ := newTestContext(t, http.MethodPut, "/api/tasks/"+taskID.String(), body, ownerID)
	c.SetParamNames("id")
	c.SetParamValues(taskID.String())

	err := h.UpdateTask(c)

	assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))
	mockSvc.AssertNotCalled(t, "Update")
}

func TestUpdateTask_FullReplaceReturns201(t *testing.T) {
	mockSvc := new(MockTaskService)
	ownerID := uuid.New()
	taskID := uuid.New()
	updated := &model.Task{ID: taskID, Title: "New title", OwnerID: ownerID, Status: model.StatusCompleted}
	mockSvc.On("Update", mock.Anything, ownerID, taskID, "New title", mock.Anything, mock.Anything, model.StatusCompleted).Return(updated, nil)

	h := NewTaskHandler(mockSvc)
	body := `{"title":"New title","startDate":"2025-06-01T00:00:00Z","endDate":"2025-06-30T00:00:00Z","status":"completed"}`
	c, rec := newTestContext(t, http.MethodPut, "/api/tasks/"+taskID.String(), body, ownerID)
	c.SetParamNames("id")
	c.SetParamValues(taskID.String())

	err := h.UpdateTask(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)
	mockSvc.AssertExpectations(t)
}

func TestDeleteTask_InvalidIDRejected(t *testing.T) {
	mockSvc := new(MockTaskService)
	h := NewTaskHandler(mockSvc)

	c, _ := newTestContext(t, http.MethodDelete, "/api/tasks/not-a-uuid", "", uuid.New())
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	err := h.DeleteTask(c)

	assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))
	mockSvc.AssertNotCalled(t, "Delete")
}

func TestListFilteredTasks_DefaultsToAsc(t *testing.T) {
	mockSvc := new(MockTaskService)
	ownerID := uuid.New()
	mockSvc.On("ListFiltered", mock.Anything, ownerID, service.OrderAsc).Return([]model.Task{}, nil)

	h := NewTaskHandler(mockSvc)
	c, rec := newTestContext(t, http.MethodGet, "/api/tasks/filtered?order=sideways", "", ownerID)

	err := h.ListFilteredTasks(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	mockSvc.AssertExpectations(t)
}

func TestListTasks_MissingClaimsRejected(t *testing.T) {
	mockSvc := new(MockTaskService)
	h := NewTaskHandler(mockSvc)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.ListTasks(c)

	assert.Equal(t, http.StatusUnauthorized, httpStatus(t, err))
	mockSvc.AssertNotCalled(t, "List")
}
