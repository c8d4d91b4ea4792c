package api

import (
	"alcyxob/runplan/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	planService service.PlanService,
) {
	authHandler := NewAuthHandler(authService)
	planHandler := NewPlanHandler(planService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr, "role": role})
		})

		planGroup := protected.Group("/plans")
		{
			// POST /api/v1/plans
			planGroup.POST("", planHandler.CreatePlan)
			// GET /api/v1/plans
			planGroup.GET("", planHandler.ListPlans)
			// GET /api/v1/plans/{planId} - migrates legacy plans on read
			planGroup.GET("/:planId", planHandler.GetPlan)
			// GET /api/v1/plans/{planId}/progress?week=N
			planGroup.GET("/:planId/progress", planHandler.GetProgress)
			// POST /api/v1/plans/{planId}/feedback
			planGroup.POST("/:planId/feedback", planHandler.LogFeedback)
			// GET /api/v1/plans/{planId}/archive - pre-migration snapshot download
			planGroup.GET("/:planId/archive", planHandler.GetArchiveSnapshot)
		}
	}
}
