package services

import (
	"errors"
	"fmt"
)

// Base sentinel errors, mapped to HTTP status codes at the handler layer
var (
	ErrValidationFailed = errors.New("validation failed")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
)

// Domain-specific errors wrapping the base sentinels
var (
	ErrCourseNotFound     = fmt.Errorf("course %w", ErrNotFound)
	ErrUserNotFound       = fmt.Errorf("user %w", ErrNotFound)
	ErrEnrollmentNotFound = fmt.Errorf("enrollment %w", ErrNotFound)
	ErrLessonNotFound     = fmt.Errorf("lesson %w", ErrNotFound)
	ErrAlreadyEnrolled    = fmt.Errorf("already enrolled: %w", ErrConflict)
	ErrNotEnrolled        = fmt.Errorf("not enrolled in course: %w", ErrForbidden)
	ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", ErrUnauthorized)
	ErrInvalidRating      = fmt.Errorf("invalid rating: %w", ErrValidationFailed)
)

// PermissionError carries the who/what/why of a denied operation
type PermissionError struct {
	UserID   string
	TargetID string
	Resource string
	Action   string
	Reason   string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("user %s cannot %s %s %s: %s", e.UserID, e.Action, e.Resource, e.TargetID, e.Reason)
}

func (e *PermissionError) Unwrap() error {
	return ErrForbidden
}

func NewPermissionError(userID, targetID, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:   userID,
		TargetID: targetID,
		Resource: resource,
		Action:   action,
		Reason:   reason,
	}
}
