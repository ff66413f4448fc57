package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Rating is one user's rating of one course. Re-rating updates the row in
// place, so the unique pair index keeps the course rating count stable.
type Rating struct {
	ID       string `json:"id" gorm:"primaryKey;size:36"`
	UserID   string `json:"user_id" gorm:"not null;size:255;uniqueIndex:idx_ratings_user_course"`
	CourseID string `json:"course_id" gorm:"not null;size:36;uniqueIndex:idx_ratings_user_course;index"`

	Value  int     `json:"rating" gorm:"not null" validate:"required,min=1,max=5"`
	Review *string `json:"review" gorm:"type:text" validate:"omitempty,max=2000"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Rating) TableName() string {
	return "ratings"
}

func (r *Rating) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
