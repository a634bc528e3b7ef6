package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"taskvault/internal/model"
)

func TestUserService_GetUser(t *testing.T) {
	userID := uuid.New()
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByID", mock.Anything, userID).Return(&model.User{
		ID:    userID,
		Name:  "Test User",
		Email: "test@example.com",
	}, nil)

	svc := NewUserService(mockRepo)
	user, err := svc.GetUser(context.Background(), userID)

	assert.NoError(t, err)
	assert.Equal(t, userID, user.ID)
	assert.Equal(t, "test@example.com", user.Email)
	mockRepo.AssertExpectations(t)
}

func TestUserService_GetUserNotFound(t *testing.T) {
	missingID := uuid.New()
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByID", mock.Anything, missingID).Return(nil, gorm.ErrRecordNotFound)

	svc := NewUserService(mockRepo)
	user, err := svc.GetUser(context.Background(), missingID)

	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Nil(t, user)
}
