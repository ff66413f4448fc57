package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/course-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type CourseFilters struct {
	Status   *models.CourseStatus `json:"status"`
	Category *string              `json:"category"`
	Limit    int                  `json:"limit"`
	Offset   int                  `json:"offset"`
}

type UserFilters struct {
	Role   *models.UserRole `json:"role"`
	Query  string           `json:"query"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

type StudySessionFilters struct {
	CourseID *string    `json:"course_id"`
	Action   *models.StudyAction
	DateFrom *time.Time `json:"date_from"`
	DateTo   *time.Time `json:"date_to"`
	Limit    int        `json:"limit"`
}

// ===== SHARED STATISTICS STRUCTS =====

type UserStats struct {
	EnrolledCourses  int64 `json:"enrolled_courses"`
	CompletedCourses int64 `json:"completed_courses"`
	TotalStudyTime   int64 `json:"total_study_time"` // minutes
	Achievements     int64 `json:"achievements"`
}

type PlatformStats struct {
	TotalUsers       int64 `json:"total_users"`
	TotalCourses     int64 `json:"total_courses"`
	TotalEnrollments int64 `json:"total_enrollments"`
}

// DailyCount is one UTC calendar-day bucket of a counted metric.
type DailyCount struct {
	Day   time.Time `json:"day"`
	Count int64     `json:"count"`
}

// DailyMinutes is one UTC calendar-day bucket of summed study minutes.
type DailyMinutes struct {
	Day     time.Time `json:"day"`
	Minutes int64     `json:"minutes"`
}

// ===== REPOSITORY INTERFACES =====

type CourseRepository interface {
	Create(ctx context.Context, tx *gorm.DB, course *models.Course) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Course, error)
	GetByIDWithLessons(ctx context.Context, tx *gorm.DB, id string) (*models.Course, error)
	Update(ctx context.Context, tx *gorm.DB, course *models.Course) error
	Delete(ctx context.Context, tx *gorm.DB, id string) error
	List(ctx context.Context, tx *gorm.DB, filters CourseFilters) ([]*models.Course, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)

	// Lesson management
	ReplaceLessons(ctx context.Context, tx *gorm.DB, courseID string, lessons []models.Lesson) error
	CountLessons(ctx context.Context, tx *gorm.DB, courseID string) (int64, error)

	// Aggregate maintenance, executed inside the caller's transaction
	IncrementEnrollmentCount(ctx context.Context, tx *gorm.DB, id string, delta int) error
	ApplyRatingDelta(ctx context.Context, tx *gorm.DB, id string, sumDelta, countDelta int) error
}

type EnrollmentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error
	GetByUserAndCourse(ctx context.Context, tx *gorm.DB, userID, courseID string) (*models.Enrollment, error)
	Update(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error
	GetByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*models.Enrollment, error)
	GetByUserWithCourses(ctx context.Context, tx *gorm.DB, userID string) ([]*models.Enrollment, error)
	GetByCourse(ctx context.Context, tx *gorm.DB, courseID string) ([]*models.Enrollment, error)
	DeleteByUser(ctx context.Context, tx *gorm.DB, userID string) error
	DeleteByCourse(ctx context.Context, tx *gorm.DB, courseID string) error
	CountByUser(ctx context.Context, tx *gorm.DB, userID string, completedOnly bool) (int64, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
	Recent(ctx context.Context, tx *gorm.DB, limit int) ([]*models.Enrollment, error)
}

type RatingRepository interface {
	Create(ctx context.Context, tx *gorm.DB, rating *models.Rating) error
	GetByUserAndCourse(ctx context.Context, tx *gorm.DB, userID, courseID string) (*models.Rating, error)
	Update(ctx context.Context, tx *gorm.DB, rating *models.Rating) error
	DeleteByUser(ctx context.Context, tx *gorm.DB, userID string) error
	DeleteByCourse(ctx context.Context, tx *gorm.DB, courseID string) error
}

type StudySessionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, session *models.StudySession) error
	GetByUser(ctx context.Context, tx *gorm.DB, userID string, filters StudySessionFilters) ([]*models.StudySession, error)
	SumDurationByUser(ctx context.Context, tx *gorm.DB, userID string) (int64, error)
	DailyMinutesByUser(ctx context.Context, tx *gorm.DB, userID string, since time.Time) ([]DailyMinutes, error)
	DeleteByUser(ctx context.Context, tx *gorm.DB, userID string) error
}

type AchievementRepository interface {
	Create(ctx context.Context, tx *gorm.DB, achievement *models.Achievement) error
	GetByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*models.Achievement, error)
	CountByUser(ctx context.Context, tx *gorm.DB, userID string) (int64, error)
	DeleteByUser(ctx context.Context, tx *gorm.DB, userID string) error
}

// ProfileRepository manages the local user rows that mirror identity accounts.
type ProfileRepository interface {
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.User, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error)
	Update(ctx context.Context, tx *gorm.DB, user *models.User) error
	UpdateRole(ctx context.Context, tx *gorm.DB, id string, role models.UserRole) error
	Delete(ctx context.Context, tx *gorm.DB, id string) error
	List(ctx context.Context, tx *gorm.DB, filters UserFilters) ([]*models.User, int64, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
	Recent(ctx context.Context, tx *gorm.DB, limit int) ([]*models.User, error)
}

// IdentityRepository is the managed identity gateway. Account mechanics
// (credential storage, token issuance) live upstream; this service only
// forwards requests and verifies results.
type IdentityRepository interface {
	CreateAccount(ctx context.Context, email, password, displayName string, role models.UserRole) (string, error)
	SignIn(ctx context.Context, email, password string) (*SignInResult, error)
	DeleteAccount(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// SignInResult is the explicit outcome of a successful credential exchange.
// Failed sign-ins return an error, never a placeholder identity.
type SignInResult struct {
	Token  string `json:"token"`
	UserID string `json:"uid"`
}

// ReportingRepository answers the aggregate queries behind the admin surface.
type ReportingRepository interface {
	PlatformStats(ctx context.Context, tx *gorm.DB) (*PlatformStats, error)
	DailyRegistrations(ctx context.Context, tx *gorm.DB, since time.Time) ([]DailyCount, error)
	DailyEnrollments(ctx context.Context, tx *gorm.DB, since time.Time) ([]DailyCount, error)
}
