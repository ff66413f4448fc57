package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/course-service/internal/config"
	"github.com/SAP-F-2025/course-service/internal/models"
	"github.com/SAP-F-2025/course-service/internal/repositories"
	"github.com/SAP-F-2025/course-service/internal/services"
	"github.com/SAP-F-2025/course-service/internal/utils"
)

// HandlerManager bundles the HTTP handlers and the auth middleware
type HandlerManager struct {
	authHandler   *AuthHandler
	courseHandler *CourseHandler
	userHandler   *UserHandler
	adminHandler  *AdminHandler

	authMiddleware *CasdoorAuthMiddleware
}

// NewHandlerManager wires handlers to the service layer
func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
	casdoorConfig config.CasdoorConfig,
	profileRepo repositories.ProfileRepository,
) *HandlerManager {
	return &HandlerManager{
		authHandler:    NewAuthHandler(serviceManager.Auth(), serviceManager.User(), logger),
		courseHandler:  NewCourseHandler(serviceManager.Catalog(), serviceManager.Enrollment(), serviceManager.Rating(), logger),
		userHandler:    NewUserHandler(serviceManager.User(), logger),
		adminHandler:   NewAdminHandler(serviceManager.Admin(), serviceManager.Catalog(), logger),
		authMiddleware: NewCasdoorAuthMiddleware(casdoorConfig, profileRepo),
	}
}

// SetupRoutes registers every endpoint under /api/v1
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "course-service",
		})
	})

	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	{
		auth.POST("/register", hm.authHandler.Register)
		auth.POST("/login", hm.authHandler.Login)
	}

	courses := v1.Group("/courses")
	{
		courses.GET("", hm.courseHandler.List)
		courses.GET("/:id", hm.courseHandler.Get)
	}

	// Authenticated routes
	authRequired := v1.Group("")
	authRequired.Use(hm.authMiddleware.AuthMiddleware())
	{
		authRequired.GET("/auth/verify", hm.authHandler.Verify)
		authRequired.GET("/auth/profile", hm.authHandler.GetProfile)
		authRequired.PUT("/auth/profile", hm.authHandler.UpdateProfile)
		authRequired.DELETE("/auth/account", hm.authHandler.DeleteAccount)

		authRequired.POST("/courses/:id/enroll", hm.courseHandler.Enroll)
		authRequired.GET("/courses/user/enrolled", hm.courseHandler.ListEnrolled)
		authRequired.PUT("/courses/:id/lessons/:lessonId/progress", hm.courseHandler.UpdateLessonProgress)
		authRequired.GET("/courses/:id/progress", hm.courseHandler.GetProgress)
		authRequired.POST("/courses/:id/rating", hm.courseHandler.Rate)

		users := authRequired.Group("/users")
		{
			users.GET("/stats", hm.userHandler.GetStats)
			users.GET("/activity", hm.userHandler.GetActivity)
			users.GET("/achievements", hm.userHandler.GetAchievements)
			users.GET("/preferences", hm.userHandler.GetPreferences)
			users.PUT("/preferences", hm.userHandler.UpdatePreferences)
			users.POST("/study-session", hm.userHandler.RecordStudySession)
			users.GET("/analytics", hm.userHandler.GetAnalytics)
		}
	}

	// Admin routes
	admin := v1.Group("/admin")
	admin.Use(hm.authMiddleware.AuthMiddleware())
	admin.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin))
	{
		admin.GET("/stats", hm.adminHandler.GetStats)
		admin.GET("/users", hm.adminHandler.ListUsers)
		admin.GET("/users/:id", hm.adminHandler.GetUser)
		admin.PUT("/users/:id/role", hm.adminHandler.UpdateUserRole)
		admin.DELETE("/users/:id", hm.adminHandler.DeleteUser)
		admin.GET("/courses", hm.adminHandler.ListCourses)
		admin.POST("/courses", hm.adminHandler.CreateCourse)
		admin.PUT("/courses/:id", hm.adminHandler.UpdateCourse)
		admin.DELETE("/courses/:id", hm.adminHandler.DeleteCourse)
		admin.GET("/activity", hm.adminHandler.GetActivity)
		admin.GET("/analytics", hm.adminHandler.GetAnalytics)
		admin.GET("/export/courses", hm.adminHandler.ExportCourses)
	}
}
