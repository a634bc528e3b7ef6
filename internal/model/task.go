package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task represents a single task owned by a user.
type Task struct {
	ID        uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	Title     string     `json:"title" gorm:"size:255;not null"`
	OwnerID   uuid.UUID  `json:"owner_id" gorm:"type:char(36);not null;index"`
	StartDate time.Time  `json:"startDate" gorm:"not null"`
	EndDate   time.Time  `json:"endDate" gorm:"not null;index"`
	Status    TaskStatus `json:"status" gorm:"type:varchar(20);not null;default:'not_started';index"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	// Relations
	Owner User `json:"-" gorm:"foreignKey:OwnerID"`
}

// BeforeCreate sets UUID and default status before creating the record.
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Status == "" {
		t.Status = StatusNotStarted
	}
	return nil
}
