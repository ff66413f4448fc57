package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/course-service/internal/events"
	"github.com/SAP-F-2025/course-service/internal/models"
	"github.com/SAP-F-2025/course-service/internal/repositories"
	"github.com/SAP-F-2025/course-service/internal/validator"
)

// stubCourseRepo serves a fixed course set, honoring the status and
// category filters the way the SQL layer does. Unimplemented methods
// panic through the embedded interface.
type stubCourseRepo struct {
	repositories.CourseRepository
	courses []*models.Course
}

func (s *stubCourseRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.CourseFilters) ([]*models.Course, error) {
	out := make([]*models.Course, 0, len(s.courses))
	for _, course := range s.courses {
		if filters.Status != nil && course.Status != *filters.Status {
			continue
		}
		if filters.Category != nil && course.Category != *filters.Category {
			continue
		}
		out = append(out, course)
	}
	return out, nil
}

type stubRepository struct {
	repositories.Repository
	courses *stubCourseRepo
}

func (s *stubRepository) Course() repositories.CourseRepository { return s.courses }

func newTestCatalogService(courses []*models.Course) CatalogService {
	repo := &stubRepository{courses: &stubCourseRepo{courses: courses}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewCatalogService(repo, nil, logger, validator.New(), events.NewMockEventPublisher(nil))
}

func TestCatalogList(t *testing.T) {
	courses := []*models.Course{
		{ID: "c1", Title: "Go Basics", Description: "Start writing Go", Instructor: "Jane Doe", Category: "programming", Status: models.CoursePublished},
		{ID: "c2", Title: "SQL Deep Dive", Description: "Queries and indexes", Instructor: "Mike Lee", Category: "databases", Status: models.CoursePublished},
		{ID: "c3", Title: "Rust Draft", Description: "Not ready yet", Instructor: "Jane Doe", Category: "programming", Status: models.CourseDraft},
	}
	svc := newTestCatalogService(courses)

	t.Run("drafts excluded and total matches page", func(t *testing.T) {
		resp, err := svc.List(context.Background(), CourseListFilters{})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(resp.Courses) != 2 {
			t.Errorf("got %d courses, want 2 published", len(resp.Courses))
		}
		if resp.Total != int64(len(resp.Courses)) {
			t.Errorf("total = %d, want %d", resp.Total, len(resp.Courses))
		}
		if resp.HasMore {
			t.Error("has_more should be false for a short page")
		}
	})

	t.Run("search narrows the total", func(t *testing.T) {
		resp, err := svc.List(context.Background(), CourseListFilters{Search: "go"})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(resp.Courses) != 1 || resp.Courses[0].ID != "c1" {
			t.Fatalf("unexpected search result: %+v", resp.Courses)
		}
		if resp.Total != 1 {
			t.Errorf("total = %d, want 1", resp.Total)
		}
	})

	t.Run("category text is not a search hit", func(t *testing.T) {
		// "databases" only appears as a category, which has its own filter
		resp, err := svc.List(context.Background(), CourseListFilters{Search: "databases"})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(resp.Courses) != 0 {
			t.Errorf("got %d courses, want 0", len(resp.Courses))
		}
		if resp.Total != 0 {
			t.Errorf("total = %d, want 0", resp.Total)
		}
	})

	t.Run("category filter still applies", func(t *testing.T) {
		resp, err := svc.List(context.Background(), CourseListFilters{Category: "databases"})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(resp.Courses) != 1 || resp.Courses[0].ID != "c2" {
			t.Fatalf("unexpected category result: %+v", resp.Courses)
		}
	})
}
