package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/course-service/internal/events"
	"github.com/SAP-F-2025/course-service/internal/models"
	"github.com/SAP-F-2025/course-service/internal/repositories"
	"github.com/SAP-F-2025/course-service/internal/validator"
)

type userService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
}

func NewUserService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher) UserService {
	return &userService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		publisher: publisher,
	}
}

// ===== PROFILE =====

func (s *userService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.Profile().GetByID(ctx, nil, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, req *ProfileUpdateRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		user.DisplayName = *req.DisplayName
	}
	if req.Bio != nil {
		user.Bio = req.Bio
	}
	if req.Location != nil {
		user.Location = req.Location
	}
	if req.Website != nil {
		user.Website = req.Website
	}

	if err := s.repo.Profile().Update(ctx, nil, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	s.logger.Info("Profile updated", "user_id", userID)
	return user, nil
}

func (s *userService) GetPreferences(ctx context.Context, userID string) (map[string]interface{}, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	preferences := map[string]interface{}{}
	if len(user.Preferences) > 0 {
		if err := json.Unmarshal(user.Preferences, &preferences); err != nil {
			return nil, fmt.Errorf("failed to decode preferences: %w", err)
		}
	}
	return preferences, nil
}

func (s *userService) UpdatePreferences(ctx context.Context, userID string, preferences map[string]interface{}) (*models.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(preferences)
	if err != nil {
		return nil, fmt.Errorf("failed to encode preferences: %w", err)
	}
	user.Preferences = datatypes.JSON(raw)

	if err := s.repo.Profile().Update(ctx, nil, user); err != nil {
		return nil, fmt.Errorf("failed to update preferences: %w", err)
	}

	return user, nil
}

// ===== LEARNING DATA =====

func (s *userService) GetStats(ctx context.Context, userID string) (*repositories.UserStats, error) {
	enrolled, err := s.repo.Enrollment().CountByUser(ctx, nil, userID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to count enrollments: %w", err)
	}

	completed, err := s.repo.Enrollment().CountByUser(ctx, nil, userID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to count completed courses: %w", err)
	}

	studyMinutes, err := s.repo.StudySession().SumDurationByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum study time: %w", err)
	}

	achievements, err := s.repo.Achievement().CountByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count achievements: %w", err)
	}

	return &repositories.UserStats{
		EnrolledCourses:  enrolled,
		CompletedCourses: completed,
		TotalStudyTime:   studyMinutes,
		Achievements:     achievements,
	}, nil
}

func (s *userService) GetActivity(ctx context.Context, userID string, limit int) ([]ActivityItem, error) {
	if limit <= 0 {
		limit = 20
	}

	var items []ActivityItem

	enrollments, err := s.repo.Enrollment().GetByUserWithCourses(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get enrollments: %w", err)
	}
	for _, enrollment := range enrollments {
		items = append(items, ActivityItem{
			Type:        "enrollment",
			UserID:      userID,
			CourseID:    enrollment.CourseID,
			CourseTitle: enrollment.Course.Title,
			Description: fmt.Sprintf("Enrolled in %s", enrollment.Course.Title),
			OccurredAt:  enrollment.EnrolledAt,
		})
	}

	sessions, err := s.repo.StudySession().GetByUser(ctx, nil, userID, repositories.StudySessionFilters{Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("failed to get study sessions: %w", err)
	}
	for _, session := range sessions {
		item := ActivityItem{
			Type:        "study_session",
			UserID:      userID,
			Description: fmt.Sprintf("Study session (%s, %d min)", session.Action, session.Duration),
			OccurredAt:  session.CreatedAt,
		}
		if session.CourseID != nil {
			item.CourseID = *session.CourseID
		}
		items = append(items, item)
	}

	achievements, err := s.repo.Achievement().GetByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get achievements: %w", err)
	}
	for _, achievement := range achievements {
		items = append(items, ActivityItem{
			Type:        "achievement",
			UserID:      userID,
			Description: fmt.Sprintf("Earned %s", achievement.Title),
			OccurredAt:  achievement.EarnedAt,
		})
	}

	return sortActivity(items, limit), nil
}

func (s *userService) GetAchievements(ctx context.Context, userID string) ([]*models.Achievement, error) {
	achievements, err := s.repo.Achievement().GetByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get achievements: %w", err)
	}
	return achievements, nil
}

func (s *userService) RecordStudySession(ctx context.Context, userID string, req *StudySessionRequest) (*models.StudySession, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	session := &models.StudySession{
		UserID:   userID,
		CourseID: req.CourseID,
		LessonID: req.LessonID,
		Duration: req.Duration,
		Action:   req.Action,
	}

	if err := s.repo.StudySession().Create(ctx, nil, session); err != nil {
		return nil, fmt.Errorf("failed to record study session: %w", err)
	}

	s.logger.Info("Study session recorded", "user_id", userID, "action", session.Action, "duration", session.Duration)
	return session, nil
}

func (s *userService) GetAnalytics(ctx context.Context, userID string, period string) (*UserAnalyticsResponse, error) {
	days, err := periodToDays(period)
	if err != nil {
		return nil, err
	}

	daily, err := s.repo.StudySession().DailyMinutesByUser(ctx, nil, userID, periodStart(days))
	if err != nil {
		return nil, fmt.Errorf("failed to get daily study minutes: %w", err)
	}

	var total int64
	for _, bucket := range daily {
		total += bucket.Minutes
	}

	enrollments, err := s.repo.Enrollment().GetByUserWithCourses(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get enrollments: %w", err)
	}
	courses := make([]CourseProgressItem, 0, len(enrollments))
	for _, enrollment := range enrollments {
		courses = append(courses, CourseProgressItem{
			CourseID:    enrollment.CourseID,
			CourseTitle: enrollment.Course.Title,
			Progress:    enrollment.Progress,
		})
	}

	return &UserAnalyticsResponse{
		Period:       fmt.Sprintf("%dd", days),
		TotalMinutes: total,
		Daily:        daily,
		Courses:      courses,
	}, nil
}

// ===== ACCOUNT LIFECYCLE =====

// DeleteAccount removes the local rows first, then the upstream identity.
// Course enrollment counters shrink with the departing enrollments; rating
// aggregates keep their history.
func (s *userService) DeleteAccount(ctx context.Context, userID string) error {
	s.logger.Info("Deleting account", "user_id", userID)

	if _, err := s.GetProfile(ctx, userID); err != nil {
		return err
	}

	err := runInTx(ctx, s.db, func(tx *gorm.DB) error {
		enrollments, err := s.repo.Enrollment().GetByUser(ctx, tx, userID)
		if err != nil {
			return fmt.Errorf("failed to get enrollments: %w", err)
		}
		for _, enrollment := range enrollments {
			if err := s.repo.Course().IncrementEnrollmentCount(ctx, tx, enrollment.CourseID, -1); err != nil {
				if !repositories.IsNotFoundError(err) {
					return err
				}
			}
		}

		if err := s.repo.Enrollment().DeleteByUser(ctx, tx, userID); err != nil {
			return fmt.Errorf("failed to delete enrollments: %w", err)
		}
		if err := s.repo.Rating().DeleteByUser(ctx, tx, userID); err != nil {
			return fmt.Errorf("failed to delete ratings: %w", err)
		}
		if err := s.repo.StudySession().DeleteByUser(ctx, tx, userID); err != nil {
			return fmt.Errorf("failed to delete study sessions: %w", err)
		}
		if err := s.repo.Achievement().DeleteByUser(ctx, tx, userID); err != nil {
			return fmt.Errorf("failed to delete achievements: %w", err)
		}
		return s.repo.Profile().Delete(ctx, tx, userID)
	})
	if err != nil {
		return err
	}

	// Upstream account removal happens after the local commit. If it fails the
	// account still exists but no longer resolves to a profile.
	if err := s.repo.Identity().DeleteAccount(ctx, userID); err != nil {
		s.logger.Error("Failed to delete identity account", "user_id", userID, "error", err)
	}

	if err := s.publisher.Publish(ctx, events.EventUserDeleted, events.UserDeletedEvent{UserID: userID}); err != nil {
		s.logger.Warn("Failed to publish user deleted event", "user_id", userID, "error", err)
	}

	s.logger.Info("Account deleted", "user_id", userID)
	return nil
}
