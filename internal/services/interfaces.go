package services

import (
	"context"
	"time"

	"github.com/SAP-F-2025/course-service/internal/models"
	"github.com/SAP-F-2025/course-service/internal/repositories"
	"github.com/SAP-F-2025/course-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type RegisterRequest = validator.RegisterRequest
type LoginRequest = validator.LoginRequest
type ProfileUpdateRequest = validator.ProfileUpdateRequest
type PreferencesRequest = validator.PreferencesRequest
type RoleUpdateRequest = validator.RoleUpdateRequest
type CreateCourseRequest = validator.CourseCreateRequest
type UpdateCourseRequest = validator.CourseUpdateRequest
type LessonRequest = validator.LessonRequest
type RatingRequest = validator.RatingRequest
type ProgressUpdateRequest = validator.ProgressUpdateRequest
type StudySessionRequest = validator.StudySessionRequest

// CourseListFilters is the public catalog query surface
type CourseListFilters struct {
	Category string
	Search   string
	Limit    int
	Offset   int
}

type CourseListResponse struct {
	Courses []*models.Course `json:"courses"`
	Total   int64            `json:"total"`
	HasMore bool             `json:"has_more"`
}

type EnrolledCourseResponse struct {
	*models.Course
	Progress         int        `json:"progress"`
	CompletedLessons []string   `json:"completed_lessons"`
	EnrolledAt       time.Time  `json:"enrolled_at"`
	LastAccessedAt   *time.Time `json:"last_accessed_at,omitempty"`
}

type ProgressResponse struct {
	Progress         int      `json:"progress"`
	CompletedLessons []string `json:"completed_lessons"`
	TotalLessons     int      `json:"total_lessons"`
}

// AuthResult is the outcome of a successful sign-in. Failed sign-ins
// return an error, never a placeholder result.
type AuthResult struct {
	Token string `json:"token"`
	UID   string `json:"uid"`
}

type RegisterResponse struct {
	UID  string       `json:"uid"`
	User *models.User `json:"user"`
}

// ActivityItem is one entry in a user or platform activity feed
type ActivityItem struct {
	Type        string    `json:"type"`
	UserID      string    `json:"user_id,omitempty"`
	CourseID    string    `json:"course_id,omitempty"`
	CourseTitle string    `json:"course_title,omitempty"`
	Description string    `json:"description"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// CourseProgressItem is a per-course progress line in the analytics response
type CourseProgressItem struct {
	CourseID    string `json:"course_id"`
	CourseTitle string `json:"course_title"`
	Progress    int    `json:"progress"`
}

type UserAnalyticsResponse struct {
	Period       string                      `json:"period"`
	TotalMinutes int64                       `json:"total_minutes"`
	Daily        []repositories.DailyMinutes `json:"daily"`
	Courses      []CourseProgressItem        `json:"courses"`
}

type AdminStatsResponse struct {
	TotalUsers       int64   `json:"total_users"`
	TotalCourses     int64   `json:"total_courses"`
	TotalEnrollments int64   `json:"total_enrollments"`
	EstimatedRevenue float64 `json:"estimated_revenue"`
}

type UserListResponse struct {
	Users   []*models.User `json:"users"`
	Total   int64          `json:"total"`
	HasMore bool           `json:"has_more"`
}

type AdminUserDetailResponse struct {
	User        *models.User              `json:"user"`
	Stats       *repositories.UserStats   `json:"stats"`
	Enrollments []*EnrolledCourseResponse `json:"enrollments"`
}

type PlatformAnalyticsResponse struct {
	Period             string                    `json:"period"`
	DailyRegistrations []repositories.DailyCount `json:"daily_registrations"`
	DailyEnrollments   []repositories.DailyCount `json:"daily_enrollments"`
}

// ===== SERVICE INTERFACES =====

type CatalogService interface {
	// Public catalog
	List(ctx context.Context, filters CourseListFilters) (*CourseListResponse, error)
	GetByID(ctx context.Context, id string) (*models.Course, error)

	// Admin course management
	Create(ctx context.Context, req *CreateCourseRequest, actorID string) (*models.Course, error)
	Update(ctx context.Context, id string, req *UpdateCourseRequest, actorID string) (*models.Course, error)
	Delete(ctx context.Context, id string, actorID string) error
}

type EnrollmentService interface {
	Enroll(ctx context.Context, userID, courseID string) (*models.Enrollment, error)
	GetEnrolledCourses(ctx context.Context, userID string) ([]*EnrolledCourseResponse, error)
	UpdateLessonProgress(ctx context.Context, userID, courseID, lessonID string, completed bool) (*ProgressResponse, error)
	GetProgress(ctx context.Context, userID, courseID string) (*ProgressResponse, error)
}

type RatingService interface {
	RateCourse(ctx context.Context, userID, courseID string, req *RatingRequest) (*models.Course, error)
}

type UserService interface {
	// Profile
	GetProfile(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, req *ProfileUpdateRequest) (*models.User, error)
	GetPreferences(ctx context.Context, userID string) (map[string]interface{}, error)
	UpdatePreferences(ctx context.Context, userID string, preferences map[string]interface{}) (*models.User, error)

	// Learning data
	GetStats(ctx context.Context, userID string) (*repositories.UserStats, error)
	GetActivity(ctx context.Context, userID string, limit int) ([]ActivityItem, error)
	GetAchievements(ctx context.Context, userID string) ([]*models.Achievement, error)
	RecordStudySession(ctx context.Context, userID string, req *StudySessionRequest) (*models.StudySession, error)
	GetAnalytics(ctx context.Context, userID string, period string) (*UserAnalyticsResponse, error)

	// Account lifecycle
	DeleteAccount(ctx context.Context, userID string) error
}

type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResult, error)
}

type AdminService interface {
	GetPlatformStats(ctx context.Context) (*AdminStatsResponse, error)
	ListUsers(ctx context.Context, filters repositories.UserFilters) (*UserListResponse, error)
	GetUserDetail(ctx context.Context, id string) (*AdminUserDetailResponse, error)
	UpdateUserRole(ctx context.Context, id string, role models.UserRole, actorID string) error
	DeleteUser(ctx context.Context, id string, actorID string) error
	GetRecentActivity(ctx context.Context, limit int) ([]ActivityItem, error)
	GetAnalytics(ctx context.Context, period string) (*PlatformAnalyticsResponse, error)

	// ListCourses lists the full catalog regardless of status, drafts included.
	ListCourses(ctx context.Context, filters CourseListFilters) (*CourseListResponse, error)

	// ExportCourses renders the catalog with enrollment and rating figures
	// as an XLSX workbook.
	ExportCourses(ctx context.Context) ([]byte, string, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	Catalog() CatalogService
	Enrollment() EnrollmentService
	Rating() RatingService
	User() UserService
	Auth() AuthService
	Admin() AdminService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
