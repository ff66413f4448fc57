package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CourseStatus string

const (
	CourseDraft     CourseStatus = "draft"
	CoursePublished CourseStatus = "published"
	CourseArchived  CourseStatus = "archived"
)

type Course struct {
	ID          string       `json:"id" gorm:"primaryKey;size:36"`
	Title       string       `json:"title" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Description string       `json:"description" gorm:"type:text" validate:"max=5000"`
	Instructor  string       `json:"instructor" gorm:"not null;size:100" validate:"required,max=100"`
	Category    string       `json:"category" gorm:"not null;size:100;index" validate:"required,max=100"`
	Price       float64      `json:"price" gorm:"not null;default:0" validate:"min=0"`
	Level       string       `json:"level" gorm:"size:50" validate:"omitempty,max=50"`
	Status      CourseStatus `json:"status" gorm:"default:draft;index" validate:"omitempty,oneof=draft published archived"`

	// Aggregates maintained inside the enrollment and rating transactions
	EnrollmentCount int64   `json:"enrollmentCount" gorm:"not null;default:0"`
	RatingSum       int64   `json:"-" gorm:"not null;default:0"`
	RatingCount     int64   `json:"ratingCount" gorm:"not null;default:0"`
	AverageRating   float64 `json:"averageRating" gorm:"not null;default:0"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Lessons []Lesson `json:"lessons" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
}

type Lesson struct {
	ID          string  `json:"id" gorm:"primaryKey;size:36"`
	CourseID    string  `json:"course_id" gorm:"not null;size:36;index"`
	Title       string  `json:"title" gorm:"not null;size:200" validate:"required,max=200"`
	Description *string `json:"description" gorm:"type:text" validate:"omitempty,max=2000"`
	Duration    int     `json:"duration" gorm:"not null;default:0" validate:"min=0"` // minutes
	MediaURL    *string `json:"media_url" gorm:"size:500"`
	Position    int     `json:"position" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Course) TableName() string {
	return "courses"
}

func (Lesson) TableName() string {
	return "lessons"
}

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

func (l *Lesson) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
