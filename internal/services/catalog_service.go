package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/course-service/internal/events"
	"github.com/SAP-F-2025/course-service/internal/models"
	"github.com/SAP-F-2025/course-service/internal/repositories"
	"github.com/SAP-F-2025/course-service/internal/validator"
)

const (
	defaultCatalogLimit = 20
	maxCatalogLimit     = 100
)

type catalogService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
}

func NewCatalogService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher) CatalogService {
	return &catalogService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		publisher: publisher,
	}
}

// ===== PUBLIC CATALOG =====

func (s *catalogService) List(ctx context.Context, filters CourseListFilters) (*CourseListResponse, error) {
	limit := filters.Limit
	if limit <= 0 {
		limit = defaultCatalogLimit
	}
	if limit > maxCatalogLimit {
		limit = maxCatalogLimit
	}

	published := models.CoursePublished
	repoFilters := repositories.CourseFilters{
		Status: &published,
		Limit:  limit,
		Offset: filters.Offset,
	}
	if filters.Category != "" {
		repoFilters.Category = &filters.Category
	}

	courses, err := s.repo.Course().List(ctx, nil, repoFilters)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	// Text search runs over the fetched page, category and status stay in SQL
	if filters.Search != "" {
		filtered := make([]*models.Course, 0, len(courses))
		for _, course := range courses {
			if matchesSearch(course, filters.Search) {
				filtered = append(filtered, course)
			}
		}
		courses = filtered
	}

	// Total reflects the page after search filtering, matching has_more
	return &CourseListResponse{
		Courses: courses,
		Total:   int64(len(courses)),
		HasMore: len(courses) == limit,
	}, nil
}

func (s *catalogService) GetByID(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.repo.Course().GetByIDWithLessons(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return course, nil
}

// ===== ADMIN COURSE MANAGEMENT =====

func (s *catalogService) Create(ctx context.Context, req *CreateCourseRequest, actorID string) (*models.Course, error) {
	s.logger.Info("Creating course", "actor_id", actorID, "title", req.Title)

	if errs := s.validator.GetBusinessValidator().ValidateCourseCreate(req); len(errs) > 0 {
		return nil, errs
	}

	if err := s.requireAdmin(ctx, actorID, "", "course", "create"); err != nil {
		return nil, err
	}

	status := models.CourseDraft
	if req.Status != "" {
		status = req.Status
	}

	course := &models.Course{
		Title:       req.Title,
		Description: req.Description,
		Instructor:  req.Instructor,
		Category:    req.Category,
		Price:       req.Price,
		Level:       req.Level,
		Status:      status,
		Lessons:     buildLessons(req.Lessons),
	}

	err := runInTx(ctx, s.db, func(tx *gorm.DB) error {
		return s.repo.Course().Create(ctx, tx, course)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	if err := s.publisher.Publish(ctx, events.EventCourseCreated, events.CourseCreatedEvent{
		CourseID: course.ID,
		Title:    course.Title,
	}); err != nil {
		s.logger.Warn("Failed to publish course created event", "course_id", course.ID, "error", err)
	}

	s.logger.Info("Course created", "course_id", course.ID)
	return s.repo.Course().GetByIDWithLessons(ctx, nil, course.ID)
}

func (s *catalogService) Update(ctx context.Context, id string, req *UpdateCourseRequest, actorID string) (*models.Course, error) {
	s.logger.Info("Updating course", "actor_id", actorID, "course_id", id)

	if err := s.requireAdmin(ctx, actorID, id, "course", "update"); err != nil {
		return nil, err
	}

	course, err := s.repo.Course().GetByIDWithLessons(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	if errs := s.validator.GetBusinessValidator().ValidateCourseUpdate(req, course); len(errs) > 0 {
		return nil, errs
	}

	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Instructor != nil {
		course.Instructor = *req.Instructor
	}
	if req.Category != nil {
		course.Category = *req.Category
	}
	if req.Price != nil {
		course.Price = *req.Price
	}
	if req.Level != nil {
		course.Level = *req.Level
	}
	if req.Status != nil {
		course.Status = *req.Status
	}

	err = runInTx(ctx, s.db, func(tx *gorm.DB) error {
		if err := s.repo.Course().Update(ctx, tx, course); err != nil {
			return err
		}
		if req.Lessons != nil {
			return s.repo.Course().ReplaceLessons(ctx, tx, id, buildLessons(req.Lessons))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update course: %w", err)
	}

	return s.repo.Course().GetByIDWithLessons(ctx, nil, id)
}

func (s *catalogService) Delete(ctx context.Context, id string, actorID string) error {
	s.logger.Info("Deleting course", "actor_id", actorID, "course_id", id)

	if err := s.requireAdmin(ctx, actorID, id, "course", "delete"); err != nil {
		return err
	}

	if _, err := s.repo.Course().GetByID(ctx, nil, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrCourseNotFound
		}
		return fmt.Errorf("failed to get course: %w", err)
	}

	// Enrollments and ratings go with the course
	err := runInTx(ctx, s.db, func(tx *gorm.DB) error {
		if err := s.repo.Enrollment().DeleteByCourse(ctx, tx, id); err != nil {
			return fmt.Errorf("failed to delete enrollments: %w", err)
		}
		if err := s.repo.Rating().DeleteByCourse(ctx, tx, id); err != nil {
			return fmt.Errorf("failed to delete ratings: %w", err)
		}
		return s.repo.Course().Delete(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	if err := s.publisher.Publish(ctx, events.EventCourseDeleted, events.CourseDeletedEvent{CourseID: id}); err != nil {
		s.logger.Warn("Failed to publish course deleted event", "course_id", id, "error", err)
	}

	s.logger.Info("Course deleted", "course_id", id)
	return nil
}

// ===== HELPERS =====

func (s *catalogService) requireAdmin(ctx context.Context, actorID, targetID, resource, action string) error {
	role, err := s.getUserRole(ctx, actorID)
	if err != nil {
		return err
	}
	if role != models.RoleAdmin {
		return NewPermissionError(actorID, targetID, resource, action, "insufficient role permissions")
	}
	return nil
}

func (s *catalogService) getUserRole(ctx context.Context, userID string) (models.UserRole, error) {
	user, err := s.repo.Profile().GetByID(ctx, nil, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("failed to get user role: %w", err)
	}
	return user.Role, nil
}

func buildLessons(reqs []LessonRequest) []models.Lesson {
	lessons := make([]models.Lesson, 0, len(reqs))
	for _, req := range reqs {
		lessons = append(lessons, models.Lesson{
			Title:       req.Title,
			Description: req.Description,
			Duration:    req.Duration,
			MediaURL:    req.MediaURL,
			Position:    req.Position,
		})
	}
	return lessons
}

// matchesSearch checks title, description and instructor. Category is a
// separate exact-match filter, not part of the text search.
func matchesSearch(course *models.Course, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(course.Title), q) ||
		strings.Contains(strings.ToLower(course.Description), q) ||
		strings.Contains(strings.ToLower(course.Instructor), q)
}
