package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tiksliukai-lt/tutoring-service/internal/models"
	"github.com/tiksliukai-lt/tutoring-service/internal/services"
	"github.com/tiksliukai-lt/tutoring-service/internal/utils"
)

type HandlerManager struct {
	authHandler         *AuthHandler
	availabilityHandler *AvailabilityHandler
	lessonHandler       *LessonHandler
	authMiddleware      *JWTAuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
) *HandlerManager {
	authMiddleware := NewJWTAuthMiddleware(serviceManager.Auth())

	return &HandlerManager{
		authHandler:         NewAuthHandler(serviceManager.Registration(), serviceManager.Auth(), logger),
		availabilityHandler: NewAvailabilityHandler(serviceManager.Availability(), logger),
		lessonHandler:       NewLessonHandler(serviceManager.Lesson(), logger),
		authMiddleware:      authMiddleware,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Public endpoints
	router.POST("/registration", hm.authHandler.Register)
	router.POST("/auth/login", hm.authHandler.Login)
	router.POST("/auth/logout", hm.authHandler.Logout)

	// API v1 routes with authentication
	v1 := router.Group("/api/v1")
	v1.Use(hm.authMiddleware.AuthMiddleware())
	{
		users := v1.Group("/users")
		{
			users.GET("/me", hm.authHandler.Me)
		}

		// Availability routes - tutors manage their calendar, clients book
		availability := v1.Group("/availability")
		{
			availability.POST("", hm.authMiddleware.RequireRoleMiddleware(models.RoleTutor), hm.availabilityHandler.CreateSlot)
			availability.GET("", hm.authMiddleware.RequireRoleMiddleware(models.RoleTutor), hm.availabilityHandler.ListSlots)
			availability.DELETE("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleTutor), hm.availabilityHandler.DeleteSlot)

			availability.POST("/:id/book", hm.authMiddleware.RequireRoleMiddleware(models.RoleClient), hm.availabilityHandler.BookSlot)
		}

		// Lesson routes
		lessons := v1.Group("/lessons")
		{
			lessons.GET("", hm.authMiddleware.RequireRoleMiddleware(models.RoleTutor), hm.lessonHandler.ListTutorLessons)
			lessons.GET("/report", hm.authMiddleware.RequireRoleMiddleware(models.RoleTutor), hm.lessonHandler.ExportReport)
			lessons.GET("/booked", hm.authMiddleware.RequireRoleMiddleware(models.RoleClient), hm.lessonHandler.ListBookedLessons)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "tutoring-service",
		})
	})
}
