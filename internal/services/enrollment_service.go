package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/course-service/internal/events"
	"github.com/SAP-F-2025/course-service/internal/models"
	"github.com/SAP-F-2025/course-service/internal/repositories"
	"github.com/SAP-F-2025/course-service/internal/validator"
)

type enrollmentService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
}

func NewEnrollmentService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher) EnrollmentService {
	return &enrollmentService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		publisher: publisher,
	}
}

func (s *enrollmentService) Enroll(ctx context.Context, userID, courseID string) (*models.Enrollment, error) {
	s.logger.Info("Enrolling user", "user_id", userID, "course_id", courseID)

	// Any existing course can be enrolled into; status only gates catalog listing
	if _, err := s.repo.Course().GetByID(ctx, nil, courseID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	completed, err := encodeLessonSet(nil)
	if err != nil {
		return nil, err
	}

	enrollment := &models.Enrollment{
		UserID:           userID,
		CourseID:         courseID,
		Progress:         0,
		CompletedLessons: completed,
	}

	// The unique index on (user_id, course_id) makes double enrollment a
	// constraint violation instead of a read-then-write race
	err = runInTx(ctx, s.db, func(tx *gorm.DB) error {
		if err := s.repo.Enrollment().Create(ctx, tx, enrollment); err != nil {
			if repositories.IsDuplicateError(err) {
				return ErrAlreadyEnrolled
			}
			return fmt.Errorf("failed to create enrollment: %w", err)
		}
		return s.repo.Course().IncrementEnrollmentCount(ctx, tx, courseID, 1)
	})
	if err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(ctx, events.EventEnrollmentCreated, events.EnrollmentCreatedEvent{
		UserID:   userID,
		CourseID: courseID,
	}); err != nil {
		s.logger.Warn("Failed to publish enrollment event", "user_id", userID, "course_id", courseID, "error", err)
	}

	s.logger.Info("User enrolled", "user_id", userID, "course_id", courseID, "enrollment_id", enrollment.ID)
	return enrollment, nil
}

func (s *enrollmentService) GetEnrolledCourses(ctx context.Context, userID string) ([]*EnrolledCourseResponse, error) {
	enrollments, err := s.repo.Enrollment().GetByUserWithCourses(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get enrollments: %w", err)
	}

	responses := make([]*EnrolledCourseResponse, 0, len(enrollments))
	for _, enrollment := range enrollments {
		completed, err := decodeLessonSet(enrollment.CompletedLessons)
		if err != nil {
			return nil, err
		}
		course := enrollment.Course
		responses = append(responses, &EnrolledCourseResponse{
			Course:           &course,
			Progress:         enrollment.Progress,
			CompletedLessons: completed,
			EnrolledAt:       enrollment.EnrolledAt,
			LastAccessedAt:   enrollment.LastAccessedAt,
		})
	}

	return responses, nil
}

func (s *enrollmentService) UpdateLessonProgress(ctx context.Context, userID, courseID, lessonID string, completed bool) (*ProgressResponse, error) {
	s.logger.Info("Updating lesson progress", "user_id", userID, "course_id", courseID, "lesson_id", lessonID, "completed", completed)

	course, err := s.repo.Course().GetByIDWithLessons(ctx, nil, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	lessonExists := false
	for _, lesson := range course.Lessons {
		if lesson.ID == lessonID {
			lessonExists = true
			break
		}
	}
	if !lessonExists {
		return nil, ErrLessonNotFound
	}

	var response *ProgressResponse
	err = runInTx(ctx, s.db, func(tx *gorm.DB) error {
		enrollment, err := s.repo.Enrollment().GetByUserAndCourse(ctx, tx, userID, courseID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrNotEnrolled
			}
			return fmt.Errorf("failed to get enrollment: %w", err)
		}

		lessonIDs, err := decodeLessonSet(enrollment.CompletedLessons)
		if err != nil {
			return err
		}

		lessonIDs = toggleLesson(lessonIDs, lessonID, completed)
		progress := computeProgress(len(lessonIDs), len(course.Lessons))

		encoded, err := encodeLessonSet(lessonIDs)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		enrollment.CompletedLessons = encoded
		enrollment.Progress = progress
		enrollment.LastAccessedAt = &now

		if err := s.repo.Enrollment().Update(ctx, tx, enrollment); err != nil {
			return fmt.Errorf("failed to update enrollment: %w", err)
		}

		response = &ProgressResponse{
			Progress:         progress,
			CompletedLessons: lessonIDs,
			TotalLessons:     len(course.Lessons),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(ctx, events.EventProgressUpdated, events.ProgressUpdatedEvent{
		UserID:   userID,
		CourseID: courseID,
		LessonID: lessonID,
		Progress: response.Progress,
	}); err != nil {
		s.logger.Warn("Failed to publish progress event", "user_id", userID, "course_id", courseID, "error", err)
	}

	return response, nil
}

func (s *enrollmentService) GetProgress(ctx context.Context, userID, courseID string) (*ProgressResponse, error) {
	enrollment, err := s.repo.Enrollment().GetByUserAndCourse(ctx, nil, userID, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrNotEnrolled
		}
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}

	lessonIDs, err := decodeLessonSet(enrollment.CompletedLessons)
	if err != nil {
		return nil, err
	}

	totalLessons, err := s.repo.Course().CountLessons(ctx, nil, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to count lessons: %w", err)
	}

	return &ProgressResponse{
		Progress:         enrollment.Progress,
		CompletedLessons: lessonIDs,
		TotalLessons:     int(totalLessons),
	}, nil
}
