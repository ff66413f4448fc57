package services

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/SAP-F-2025/course-service/internal/events"
	"github.com/SAP-F-2025/course-service/internal/repositories"
	"github.com/SAP-F-2025/course-service/internal/validator"
)

// MockRepository for testing - minimal implementation
type MockRepository struct{}

func (m *MockRepository) Course() repositories.CourseRepository             { return nil }
func (m *MockRepository) Enrollment() repositories.EnrollmentRepository     { return nil }
func (m *MockRepository) Rating() repositories.RatingRepository             { return nil }
func (m *MockRepository) StudySession() repositories.StudySessionRepository { return nil }
func (m *MockRepository) Achievement() repositories.AchievementRepository   { return nil }
func (m *MockRepository) Profile() repositories.ProfileRepository           { return nil }
func (m *MockRepository) Identity() repositories.IdentityRepository         { return nil }
func (m *MockRepository) Reporting() repositories.ReportingRepository       { return nil }
func (m *MockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}
func (m *MockRepository) Ping(ctx context.Context) error { return nil }
func (m *MockRepository) Close() error                   { return nil }

func newTestManager(t *testing.T) ServiceManager {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	publisher := events.NewMockEventPublisher(logger)

	return NewDefaultServiceManager(nil, &MockRepository{}, logger, validator.New(), publisher)
}

func TestServiceManager_Initialize(t *testing.T) {
	manager := newTestManager(t)
	ctx := context.Background()

	if err := manager.Initialize(ctx); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	// All services must come up with the default configuration
	if manager.Catalog() == nil {
		t.Error("catalog service should be initialized")
	}
	if manager.Enrollment() == nil {
		t.Error("enrollment service should be initialized")
	}
	if manager.Rating() == nil {
		t.Error("rating service should be initialized")
	}
	if manager.User() == nil {
		t.Error("user service should be initialized")
	}
	if manager.Auth() == nil {
		t.Error("auth service should be initialized")
	}
	if manager.Admin() == nil {
		t.Error("admin service should be initialized")
	}

	// Initialize is idempotent
	if err := manager.Initialize(ctx); err != nil {
		t.Fatalf("second Initialize failed: %v", err)
	}
}

func TestServiceManager_GetterPanicsBeforeInitialize(t *testing.T) {
	manager := newTestManager(t)

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic from getter before Initialize")
		}
	}()

	manager.Catalog()
}

func TestServiceManager_HealthCheck(t *testing.T) {
	manager := newTestManager(t)
	ctx := context.Background()

	if err := manager.HealthCheck(ctx); err == nil {
		t.Error("health check should fail before Initialize")
	}

	if err := manager.Initialize(ctx); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	if err := manager.HealthCheck(ctx); err != nil {
		t.Errorf("health check failed: %v", err)
	}

	if err := manager.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}

	if err := manager.HealthCheck(ctx); err == nil {
		t.Error("health check should fail after Shutdown")
	}
}
