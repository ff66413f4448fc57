package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/course-service/internal/models"
	"github.com/SAP-F-2025/course-service/internal/services"
	"github.com/SAP-F-2025/course-service/internal/utils"
)

type stubEnrollmentService struct {
	enrollErr error
	enrolled  []*services.EnrolledCourseResponse
}

func (s *stubEnrollmentService) Enroll(ctx context.Context, userID, courseID string) (*models.Enrollment, error) {
	if s.enrollErr != nil {
		return nil, s.enrollErr
	}
	return &models.Enrollment{ID: "e1", UserID: userID, CourseID: courseID}, nil
}

func (s *stubEnrollmentService) GetEnrolledCourses(ctx context.Context, userID string) ([]*services.EnrolledCourseResponse, error) {
	return s.enrolled, nil
}

func (s *stubEnrollmentService) UpdateLessonProgress(ctx context.Context, userID, courseID, lessonID string, completed bool) (*services.ProgressResponse, error) {
	return &services.ProgressResponse{}, nil
}

func (s *stubEnrollmentService) GetProgress(ctx context.Context, userID, courseID string) (*services.ProgressResponse, error) {
	return &services.ProgressResponse{}, nil
}

func newCourseTestRouter(enrollment services.EnrollmentService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := utils.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	handler := NewCourseHandler(nil, enrollment, nil, logger)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", "user-1")
	})
	router.POST("/courses/:id/enroll", handler.Enroll)
	router.GET("/courses/user/enrolled", handler.ListEnrolled)
	return router
}

func TestEnrollStatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{"success", nil, http.StatusOK},
		{"already enrolled", services.ErrAlreadyEnrolled, http.StatusConflict},
		{"course not found", services.ErrCourseNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newCourseTestRouter(&stubEnrollmentService{enrollErr: tt.serviceErr})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/courses/c1/enroll", nil)
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestListEnrolledReturnsBareArray(t *testing.T) {
	enrolled := []*services.EnrolledCourseResponse{
		{
			Course:           &models.Course{ID: "c1", Title: "Go Basics"},
			Progress:         50,
			CompletedLessons: []string{"l1"},
			EnrolledAt:       time.Now().UTC(),
		},
	}
	router := newCourseTestRouter(&stubEnrollmentService{enrolled: enrolled})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/courses/user/enrolled", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	// The body is a JSON array, not an object wrapping one
	var body []map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("body is not a JSON array: %v\n%s", err, w.Body.String())
	}
	if len(body) != 1 {
		t.Fatalf("got %d items, want 1", len(body))
	}
	if body[0]["id"] != "c1" {
		t.Errorf("unexpected course payload: %v", body[0])
	}
}
