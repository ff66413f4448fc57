package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Enrollment links a user to a course. The composite unique index makes
// duplicate enrollment a constraint violation instead of a read-then-write race.
type Enrollment struct {
	ID       string `json:"id" gorm:"primaryKey;size:36"`
	UserID   string `json:"user_id" gorm:"not null;size:255;uniqueIndex:idx_enrollments_user_course;index"`
	CourseID string `json:"course_id" gorm:"not null;size:36;uniqueIndex:idx_enrollments_user_course;index"`

	// Progress is the rounded percentage derived from CompletedLessons
	Progress         int            `json:"progress" gorm:"not null;default:0"`
	CompletedLessons datatypes.JSON `json:"completed_lessons" gorm:"type:jsonb"` // set of lesson IDs

	EnrolledAt     time.Time  `json:"enrolled_at" gorm:"not null"`
	LastAccessedAt *time.Time `json:"last_accessed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Course Course `json:"course" gorm:"foreignKey:CourseID"`
	User   User   `json:"-" gorm:"foreignKey:UserID"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

func (e *Enrollment) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.EnrolledAt.IsZero() {
		e.EnrolledAt = time.Now().UTC()
	}
	return nil
}
