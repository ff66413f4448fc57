package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/course-service/internal/events"
	"github.com/SAP-F-2025/course-service/internal/models"
	"github.com/SAP-F-2025/course-service/internal/repositories"
	"github.com/SAP-F-2025/course-service/internal/validator"
)

type ratingService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
}

func NewRatingService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher) RatingService {
	return &ratingService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		publisher: publisher,
	}
}

// RateCourse upserts the caller's rating. A re-rating replaces the previous
// value without growing the count, and the course aggregates move by the
// difference inside the same transaction.
func (s *ratingService) RateCourse(ctx context.Context, userID, courseID string, req *RatingRequest) (*models.Course, error) {
	s.logger.Info("Rating course", "user_id", userID, "course_id", courseID, "rating", req.Rating)

	if errs := s.validator.GetBusinessValidator().ValidateRating(req); len(errs) > 0 {
		return nil, errs
	}

	if _, err := s.repo.Course().GetByID(ctx, nil, courseID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	// Only enrolled users may rate
	if _, err := s.repo.Enrollment().GetByUserAndCourse(ctx, nil, userID, courseID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrNotEnrolled
		}
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}

	err := runInTx(ctx, s.db, func(tx *gorm.DB) error {
		existing, err := s.repo.Rating().GetByUserAndCourse(ctx, tx, userID, courseID)
		switch {
		case err == nil:
			sumDelta, countDelta := ratingDelta(true, existing.Value, req.Rating)
			existing.Value = req.Rating
			existing.Review = req.Review
			if err := s.repo.Rating().Update(ctx, tx, existing); err != nil {
				return fmt.Errorf("failed to update rating: %w", err)
			}
			return s.repo.Course().ApplyRatingDelta(ctx, tx, courseID, sumDelta, countDelta)

		case repositories.IsNotFoundError(err):
			rating := &models.Rating{
				UserID:   userID,
				CourseID: courseID,
				Value:    req.Rating,
				Review:   req.Review,
			}
			if err := s.repo.Rating().Create(ctx, tx, rating); err != nil {
				return fmt.Errorf("failed to create rating: %w", err)
			}
			sumDelta, countDelta := ratingDelta(false, 0, req.Rating)
			return s.repo.Course().ApplyRatingDelta(ctx, tx, courseID, sumDelta, countDelta)

		default:
			return fmt.Errorf("failed to get rating: %w", err)
		}
	})
	if err != nil {
		return nil, err
	}

	course, err := s.repo.Course().GetByID(ctx, nil, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload course: %w", err)
	}

	if err := s.publisher.Publish(ctx, events.EventRatingSubmitted, events.RatingSubmittedEvent{
		UserID:   userID,
		CourseID: courseID,
		Value:    req.Rating,
		Average:  course.AverageRating,
	}); err != nil {
		s.logger.Warn("Failed to publish rating event", "user_id", userID, "course_id", courseID, "error", err)
	}

	return course, nil
}
