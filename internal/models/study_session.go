package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StudyAction string

const (
	StudyStart    StudyAction = "start"
	StudyPause    StudyAction = "pause"
	StudyComplete StudyAction = "complete"
)

// StudySession is an append-only log entry. Analytics always re-derive from
// the log instead of mutating rollup rows.
type StudySession struct {
	ID       string  `json:"id" gorm:"primaryKey;size:36"`
	UserID   string  `json:"user_id" gorm:"not null;size:255;index"`
	CourseID *string `json:"course_id" gorm:"size:36;index"`
	LessonID *string `json:"lesson_id" gorm:"size:36"`

	Duration int         `json:"duration" gorm:"not null;default:0" validate:"min=0"` // minutes
	Action   StudyAction `json:"action" gorm:"not null;size:20" validate:"required,oneof=start pause complete"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

type Achievement struct {
	ID          string `json:"id" gorm:"primaryKey;size:36"`
	UserID      string `json:"user_id" gorm:"not null;size:255;index"`
	Type        string `json:"type" gorm:"not null;size:50"`
	Title       string `json:"title" gorm:"not null;size:200"`
	Description string `json:"description" gorm:"type:text"`

	EarnedAt  time.Time `json:"earned_at" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (StudySession) TableName() string {
	return "study_sessions"
}

func (Achievement) TableName() string {
	return "achievements"
}

func (s *StudySession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

func (a *Achievement) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.EarnedAt.IsZero() {
		a.EarnedAt = time.Now().UTC()
	}
	return nil
}
