package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/course-service/internal/models"
	"github.com/SAP-F-2025/course-service/internal/repositories"
	"github.com/SAP-F-2025/course-service/internal/services"
	"github.com/SAP-F-2025/course-service/internal/utils"
)

// AdminHandler serves the administrative surface: platform stats, user
// management, course management, activity, analytics and exports. Every
// route is behind the admin role gate.
type AdminHandler struct {
	BaseHandler
	adminService   services.AdminService
	catalogService services.CatalogService
}

func NewAdminHandler(adminService services.AdminService, catalogService services.CatalogService, logger utils.Logger) *AdminHandler {
	return &AdminHandler{
		BaseHandler:    NewBaseHandler(logger),
		adminService:   adminService,
		catalogService: catalogService,
	}
}

// GetStats returns platform-wide totals and the revenue estimate
// GET /api/v1/admin/stats
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.adminService.GetPlatformStats(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ListUsers returns a paginated user listing with optional role and query filters
// GET /api/v1/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	filters := repositories.UserFilters{
		Query: c.Query("search"),
	}

	if roleStr := c.Query("role"); roleStr != "" {
		role := models.UserRole(roleStr)
		if !models.IsValidRole(role) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid role parameter"})
			return
		}
		filters.Role = &role
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

	resp, err := h.adminService.ListUsers(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetUser returns one user with stats and enrollments
// GET /api/v1/admin/users/:id
func (h *AdminHandler) GetUser(c *gin.Context) {
	detail, err := h.adminService.GetUserDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// UpdateUserRole changes a user's role
// PUT /api/v1/admin/users/:id/role
func (h *AdminHandler) UpdateUserRole(c *gin.Context) {
	actorID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized"})
		return
	}
	targetID := c.Param("id")

	var req services.RoleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	if err := h.adminService.UpdateUserRole(c.Request.Context(), targetID, req.Role, actorID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "User role updated", "target_id", targetID, "role", req.Role, "actor_id", actorID)
	c.JSON(http.StatusOK, gin.H{"message": "role updated"})
}

// DeleteUser removes a user account and its learning data
// DELETE /api/v1/admin/users/:id
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	actorID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized"})
		return
	}
	targetID := c.Param("id")

	if err := h.adminService.DeleteUser(c.Request.Context(), targetID, actorID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "User deleted", "target_id", targetID, "actor_id", actorID)
	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}

// ListCourses lists every course regardless of status, drafts included
// GET /api/v1/admin/courses
func (h *AdminHandler) ListCourses(c *gin.Context) {
	filters := services.CourseListFilters{
		Category: c.Query("category"),
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

	resp, err := h.adminService.ListCourses(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// CreateCourse creates a course with its lessons
// POST /api/v1/admin/courses
func (h *AdminHandler) CreateCourse(c *gin.Context) {
	actorID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized"})
		return
	}

	var req services.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	course, err := h.catalogService.Create(c.Request.Context(), &req, actorID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Course created", "course_id", course.ID, "actor_id", actorID)
	c.JSON(http.StatusCreated, course)
}

// UpdateCourse applies partial updates to a course
// PUT /api/v1/admin/courses/:id
func (h *AdminHandler) UpdateCourse(c *gin.Context) {
	actorID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized"})
		return
	}
	courseID := c.Param("id")

	var req services.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	course, err := h.catalogService.Update(c.Request.Context(), courseID, &req, actorID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Course updated", "course_id", courseID, "actor_id", actorID)
	c.JSON(http.StatusOK, course)
}

// DeleteCourse removes a course and its dependent data
// DELETE /api/v1/admin/courses/:id
func (h *AdminHandler) DeleteCourse(c *gin.Context) {
	actorID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized"})
		return
	}
	courseID := c.Param("id")

	if err := h.catalogService.Delete(c.Request.Context(), courseID, actorID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Course deleted", "course_id", courseID, "actor_id", actorID)
	c.JSON(http.StatusOK, gin.H{"message": "course deleted"})
}

// GetActivity returns recent platform-wide activity
// GET /api/v1/admin/activity
func (h *AdminHandler) GetActivity(c *gin.Context) {
	limit := 20
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid limit parameter"})
			return
		}
		limit = parsed
	}

	activity, err := h.adminService.GetRecentActivity(c.Request.Context(), limit)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"activity": activity})
}

// GetAnalytics returns daily registration and enrollment counts for a period
// GET /api/v1/admin/analytics
func (h *AdminHandler) GetAnalytics(c *gin.Context) {
	analytics, err := h.adminService.GetAnalytics(c.Request.Context(), c.Query("period"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, analytics)
}

// ExportCourses streams the catalog as an XLSX workbook
// GET /api/v1/admin/export/courses
func (h *AdminHandler) ExportCourses(c *gin.Context) {
	data, filename, err := h.adminService.ExportCourses(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
