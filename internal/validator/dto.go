package validator

import (
	"github.com/SAP-F-2025/course-service/internal/models"
)

// RegisterRequest represents the request structure for account registration
type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=128"`
	DisplayName string `json:"display_name" validate:"required,min=1,max=100"`
	Role        string `json:"role" validate:"omitempty,user_role"`
}

// LoginRequest represents the request structure for signing in
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ProfileUpdateRequest represents the request structure for updating profiles
type ProfileUpdateRequest struct {
	DisplayName *string `json:"display_name" validate:"omitempty,min=1,max=100"`
	Bio         *string `json:"bio" validate:"omitempty,max=1000"`
	Location    *string `json:"location" validate:"omitempty,max=100"`
	Website     *string `json:"website" validate:"omitempty,url,max=255"`
}

// PreferencesRequest represents the request structure for updating preferences
type PreferencesRequest struct {
	Preferences map[string]interface{} `json:"preferences" validate:"required"`
}

// RoleUpdateRequest represents the request structure for changing a user's role
type RoleUpdateRequest struct {
	Role models.UserRole `json:"role" validate:"required,user_role"`
}

// CourseCreateRequest represents the request structure for creating courses
type CourseCreateRequest struct {
	Title       string              `json:"title" validate:"required,course_title"`
	Description string              `json:"description" validate:"omitempty,course_description"`
	Instructor  string              `json:"instructor" validate:"required,min=1,max=100"`
	Category    string              `json:"category" validate:"required,min=1,max=100"`
	Price       float64             `json:"price" validate:"min=0"`
	Level       string              `json:"level" validate:"omitempty,max=50"`
	Status      models.CourseStatus `json:"status" validate:"omitempty,course_status"`
	Lessons     []LessonRequest     `json:"lessons" validate:"omitempty,dive"`
}

// CourseUpdateRequest represents the request structure for updating courses
type CourseUpdateRequest struct {
	Title       *string              `json:"title" validate:"omitempty,course_title"`
	Description *string              `json:"description" validate:"omitempty,course_description"`
	Instructor  *string              `json:"instructor" validate:"omitempty,min=1,max=100"`
	Category    *string              `json:"category" validate:"omitempty,min=1,max=100"`
	Price       *float64             `json:"price" validate:"omitempty,min=0"`
	Level       *string              `json:"level" validate:"omitempty,max=50"`
	Status      *models.CourseStatus `json:"status" validate:"omitempty,course_status"`
	Lessons     []LessonRequest      `json:"lessons" validate:"omitempty,dive"`
}

// LessonRequest represents a lesson inside a course create/update request
type LessonRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Duration    int     `json:"duration" validate:"required,lesson_duration"`
	MediaURL    *string `json:"media_url" validate:"omitempty,url,max=500"`
	Position    int     `json:"position" validate:"required,min=1"`
}

// RatingRequest represents the request structure for rating a course
type RatingRequest struct {
	Rating int     `json:"rating" validate:"required,rating_value"`
	Review *string `json:"review" validate:"omitempty,max=2000"`
}

// ProgressUpdateRequest represents the request structure for toggling lesson completion
type ProgressUpdateRequest struct {
	Completed bool `json:"completed"`
}

// StudySessionRequest represents the request structure for recording study time
type StudySessionRequest struct {
	CourseID *string            `json:"course_id" validate:"omitempty,max=36"`
	LessonID *string            `json:"lesson_id" validate:"omitempty,max=36"`
	Duration int                `json:"duration" validate:"omitempty,min=0,max=1440"`
	Action   models.StudyAction `json:"action" validate:"required,study_action"`
}
