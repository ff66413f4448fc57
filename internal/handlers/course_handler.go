package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/course-service/internal/services"
	"github.com/SAP-F-2025/course-service/internal/utils"
)

// CourseHandler serves the public catalog plus enrollment, progress
// and rating endpoints for authenticated learners.
type CourseHandler struct {
	BaseHandler
	catalogService    services.CatalogService
	enrollmentService services.EnrollmentService
	ratingService     services.RatingService
}

func NewCourseHandler(
	catalogService services.CatalogService,
	enrollmentService services.EnrollmentService,
	ratingService services.RatingService,
	logger utils.Logger,
) *CourseHandler {
	return &CourseHandler{
		BaseHandler:       NewBaseHandler(logger),
		catalogService:    catalogService,
		enrollmentService: enrollmentService,
		ratingService:     ratingService,
	}
}

// List returns published courses with optional category and search filters
// GET /api/v1/courses
func (h *CourseHandler) List(c *gin.Context) {
	filters := services.CourseListFilters{
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}

	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid limit parameter"})
			return
		}
		filters.Limit = limit
	}
	if offsetStr := c.Query("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid offset parameter"})
			return
		}
		filters.Offset = offset
	}

	resp, err := h.catalogService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Get returns a single course with its lessons
// GET /api/v1/courses/:id
func (h *CourseHandler) Get(c *gin.Context) {
	courseID := c.Param("id")

	course, err := h.catalogService.GetByID(c.Request.Context(), courseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// Enroll enrolls the caller into a course
// POST /api/v1/courses/:id/enroll
func (h *CourseHandler) Enroll(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized"})
		return
	}
	courseID := c.Param("id")

	enrollment, err := h.enrollmentService.Enroll(c.Request.Context(), userID, courseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "User enrolled", "user_id", userID, "course_id", courseID)
	c.JSON(http.StatusOK, enrollment)
}

// ListEnrolled returns the caller's enrolled courses with progress
// GET /api/v1/courses/user/enrolled
func (h *CourseHandler) ListEnrolled(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized"})
		return
	}

	courses, err := h.enrollmentService.GetEnrolledCourses(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, courses)
}

// UpdateLessonProgress toggles completion of a lesson for the caller
// PUT /api/v1/courses/:id/lessons/:lessonId/progress
func (h *CourseHandler) UpdateLessonProgress(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized"})
		return
	}
	courseID := c.Param("id")
	lessonID := c.Param("lessonId")

	var req services.ProgressUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	progress, err := h.enrollmentService.UpdateLessonProgress(c.Request.Context(), userID, courseID, lessonID, req.Completed)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}

// GetProgress returns the caller's progress in a course
// GET /api/v1/courses/:id/progress
func (h *CourseHandler) GetProgress(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized"})
		return
	}
	courseID := c.Param("id")

	progress, err := h.enrollmentService.GetProgress(c.Request.Context(), userID, courseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}

// Rate submits or replaces the caller's rating of a course
// POST /api/v1/courses/:id/rating
func (h *CourseHandler) Rate(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized"})
		return
	}
	courseID := c.Param("id")

	var req services.RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	course, err := h.ratingService.RateCourse(c.Request.Context(), userID, courseID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"average_rating": course.AverageRating,
		"rating_count":   course.RatingCount,
	})
}
