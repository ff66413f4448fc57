package repositories

import "context"

// Repository aggregates every per-entity repository behind one interface.
type Repository interface {
	// Catalog domain
	Course() CourseRepository

	// Learning domain
	Enrollment() EnrollmentRepository
	Rating() RatingRepository
	StudySession() StudySessionRepository
	Achievement() AchievementRepository

	// User domain
	Profile() ProfileRepository
	Identity() IdentityRepository

	// Admin reporting domain
	Reporting() ReportingRepository

	// Transaction support
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager interface for managing repository lifecycle
type RepositoryManager interface {
	// Initialize repositories with database connections
	Initialize() error

	// Get repository instance
	GetRepository() Repository

	// Health check for all repositories
	HealthCheck(ctx context.Context) error

	// Graceful shutdown
	Shutdown(ctx context.Context) error
}
