package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/course-service/internal/models"
	"github.com/SAP-F-2025/course-service/internal/repositories"
	"github.com/SAP-F-2025/course-service/internal/validator"
)

type adminService struct {
	repo            repositories.Repository
	db              *gorm.DB
	logger          *slog.Logger
	validator       *validator.Validator
	userService     UserService
	revenueAvgPrice float64
}

func NewAdminService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, userService UserService, revenueAvgPrice float64) AdminService {
	return &adminService{
		repo:            repo,
		db:              db,
		logger:          logger,
		validator:       validator,
		userService:     userService,
		revenueAvgPrice: revenueAvgPrice,
	}
}

func (s *adminService) GetPlatformStats(ctx context.Context) (*AdminStatsResponse, error) {
	stats, err := s.repo.Reporting().PlatformStats(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get platform stats: %w", err)
	}

	// Revenue is an estimate from enrollment volume at the average price
	return &AdminStatsResponse{
		TotalUsers:       stats.TotalUsers,
		TotalCourses:     stats.TotalCourses,
		TotalEnrollments: stats.TotalEnrollments,
		EstimatedRevenue: float64(stats.TotalEnrollments) * s.revenueAvgPrice,
	}, nil
}

func (s *adminService) ListUsers(ctx context.Context, filters repositories.UserFilters) (*UserListResponse, error) {
	if filters.Limit <= 0 {
		filters.Limit = 20
	}
	if filters.Limit > 100 {
		filters.Limit = 100
	}

	users, total, err := s.repo.Profile().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return &UserListResponse{
		Users:   users,
		Total:   total,
		HasMore: len(users) == filters.Limit,
	}, nil
}

func (s *adminService) GetUserDetail(ctx context.Context, id string) (*AdminUserDetailResponse, error) {
	user, err := s.userService.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	stats, err := s.userService.GetStats(ctx, id)
	if err != nil {
		return nil, err
	}

	enrollments, err := s.repo.Enrollment().GetByUserWithCourses(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get enrollments: %w", err)
	}

	enrolled := make([]*EnrolledCourseResponse, 0, len(enrollments))
	for _, enrollment := range enrollments {
		completed, err := decodeLessonSet(enrollment.CompletedLessons)
		if err != nil {
			return nil, err
		}
		course := enrollment.Course
		enrolled = append(enrolled, &EnrolledCourseResponse{
			Course:           &course,
			Progress:         enrollment.Progress,
			CompletedLessons: completed,
			EnrolledAt:       enrollment.EnrolledAt,
			LastAccessedAt:   enrollment.LastAccessedAt,
		})
	}

	return &AdminUserDetailResponse{
		User:        user,
		Stats:       stats,
		Enrollments: enrolled,
	}, nil
}

func (s *adminService) UpdateUserRole(ctx context.Context, id string, role models.UserRole, actorID string) error {
	s.logger.Info("Updating user role", "actor_id", actorID, "user_id", id, "role", role)

	if errs := s.validator.GetBusinessValidator().ValidateRoleChange(role); len(errs) > 0 {
		return errs
	}

	// An admin cannot demote themselves, that would lock out the last admin
	if id == actorID {
		return NewPermissionError(actorID, id, "user", "update_role", "cannot change own role")
	}

	if err := s.repo.Profile().UpdateRole(ctx, nil, id, role); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to update role: %w", err)
	}

	return nil
}

func (s *adminService) DeleteUser(ctx context.Context, id string, actorID string) error {
	s.logger.Info("Admin deleting user", "actor_id", actorID, "user_id", id)

	if id == actorID {
		return NewPermissionError(actorID, id, "user", "delete", "cannot delete own account via admin surface")
	}

	return s.userService.DeleteAccount(ctx, id)
}

func (s *adminService) ListCourses(ctx context.Context, filters CourseListFilters) (*CourseListResponse, error) {
	limit := filters.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	repoFilters := repositories.CourseFilters{
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

	total, err := s.repo.Course().Count(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count courses: %w", err)
	}

	return &CourseListResponse{
		Courses: courses,
		Total:   total,
		HasMore: len(courses) == limit,
	}, nil
}

func (s *adminService) GetRecentActivity(ctx context.Context, limit int) ([]ActivityItem, error) {
	if limit <= 0 {
		limit = 20
	}

	var items []ActivityItem

	enrollments, err := s.repo.Enrollment().Recent(ctx, nil, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent enrollments: %w", err)
	}
	for _, enrollment := range enrollments {
		items = append(items, ActivityItem{
			Type:        "enrollment",
			UserID:      enrollment.UserID,
			CourseID:    enrollment.CourseID,
			CourseTitle: enrollment.Course.Title,
			Description: fmt.Sprintf("User enrolled in %s", enrollment.Course.Title),
			OccurredAt:  enrollment.EnrolledAt,
		})
	}

	users, err := s.repo.Profile().Recent(ctx, nil, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent users: %w", err)
	}
	for _, user := range users {
		items = append(items, ActivityItem{
			Type:        "registration",
			UserID:      user.ID,
			Description: fmt.Sprintf("%s joined the platform", user.DisplayName),
			OccurredAt:  user.CreatedAt,
		})
	}

	return sortActivity(items, limit), nil
}

func (s *adminService) GetAnalytics(ctx context.Context, period string) (*PlatformAnalyticsResponse, error) {
	days, err := periodToDays(period)
	if err != nil {
		return nil, err
	}
	since := periodStart(days)

	registrations, err := s.repo.Reporting().DailyRegistrations(ctx, nil, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily registrations: %w", err)
	}

	enrollments, err := s.repo.Reporting().DailyEnrollments(ctx, nil, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily enrollments: %w", err)
	}

	return &PlatformAnalyticsResponse{
		Period:             fmt.Sprintf("%dd", days),
		DailyRegistrations: registrations,
		DailyEnrollments:   enrollments,
	}, nil
}

func (s *adminService) ExportCourses(ctx context.Context) ([]byte, string, error) {
	s.logger.Info("Exporting course report")

	courses, err := s.repo.Course().List(ctx, nil, repositories.CourseFilters{})
	if err != nil {
		return nil, "", fmt.Errorf("failed to list courses: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Courses"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"ID", "Title", "Category", "Instructor", "Level", "Price", "Status", "Enrollments", "Average Rating", "Ratings", "Created At"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, "", err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, "", err
		}
	}

	for row, course := range courses {
		values := []interface{}{
			course.ID,
			course.Title,
			course.Category,
			course.Instructor,
			course.Level,
			course.Price,
			string(course.Status),
			course.EnrollmentCount,
			course.AverageRating,
			course.RatingCount,
			course.CreatedAt.UTC().Format(time.RFC3339),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, "", err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, "", err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to render workbook: %w", err)
	}

	filename := fmt.Sprintf("courses-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}
