package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/course-service/internal/services"
	"github.com/SAP-F-2025/course-service/internal/utils"
	"github.com/SAP-F-2025/course-service/internal/validator"
)

func newTestBaseHandler() BaseHandler {
	logger := utils.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	return NewBaseHandler(logger)
}

func performWithError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()

	gin.SetMode(gin.TestMode)
	handler := newTestBaseHandler()

	router := gin.New()
	router.GET("/test", func(c *gin.Context) {
		handler.handleServiceError(c, err)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	router.ServeHTTP(w, req)
	return w
}

func TestHandleServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", services.ErrValidationFailed, http.StatusBadRequest},
		{"validation errors list", validator.ValidationErrors{{Field: "title", Message: "required"}}, http.StatusBadRequest},
		{"unauthorized", services.ErrInvalidCredentials, http.StatusUnauthorized},
		{"forbidden", services.ErrNotEnrolled, http.StatusForbidden},
		{"permission error", services.NewPermissionError("u1", "u2", "user", "delete", "cannot delete own account"), http.StatusForbidden},
		{"not found", services.ErrCourseNotFound, http.StatusNotFound},
		{"conflict", services.ErrAlreadyEnrolled, http.StatusConflict},
		{"unknown", fmt.Errorf("database exploded"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performWithError(t, tt.err)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}
