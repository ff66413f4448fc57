package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event is the envelope every published domain event travels in.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

const (
	eventSource  = "course-service"
	eventVersion = "1.0"
)

// Event types emitted by the service.
const (
	EventUserRegistered    = "user.registered"
	EventUserDeleted       = "user.deleted"
	EventEnrollmentCreated = "enrollment.created"
	EventProgressUpdated   = "progress.updated"
	EventRatingSubmitted   = "rating.submitted"
	EventCourseCreated     = "course.created"
	EventCourseDeleted     = "course.deleted"
)

// NewEvent builds an envelope for the given type and payload.
func NewEvent(eventType string, data interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    eventSource,
		Version:   eventVersion,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// EventPublisher publishes domain events to the message broker.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, data interface{}) error
	Close() error
}

// ===== EVENT PAYLOADS =====

type UserRegisteredEvent struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

type UserDeletedEvent struct {
	UserID string `json:"user_id"`
}

type EnrollmentCreatedEvent struct {
	UserID   string `json:"user_id"`
	CourseID string `json:"course_id"`
}

type ProgressUpdatedEvent struct {
	UserID   string `json:"user_id"`
	CourseID string `json:"course_id"`
	LessonID string `json:"lesson_id"`
	Progress int    `json:"progress"`
}

type RatingSubmittedEvent struct {
	UserID   string  `json:"user_id"`
	CourseID string  `json:"course_id"`
	Value    int     `json:"rating"`
	Average  float64 `json:"average_rating"`
}

type CourseCreatedEvent struct {
	CourseID string `json:"course_id"`
	Title    string `json:"title"`
}

type CourseDeletedEvent struct {
	CourseID string `json:"course_id"`
}
