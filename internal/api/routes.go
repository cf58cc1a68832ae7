package api

import (
	"net/http"

	"alcyxob/coaching-app/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	coachingService service.CoachingService,
	planService service.PlanService,
) {
	coachingHandler := NewCoachingHandler(coachingService)
	planHandler := NewPlanHandler(planService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		coachGroup := protected.Group("/coach")
		{
			// POST /api/v1/coach/messages
			coachGroup.POST("/messages", coachingHandler.SendMessage)
			// GET /api/v1/coach/history
			coachGroup.GET("/history", coachingHandler.GetHistory)
			// POST /api/v1/coach/weekly-summary
			coachGroup.POST("/weekly-summary", coachingHandler.GenerateWeeklySummary)

			// --- Check-in lifecycle ---
			coachGroup.POST("/check-ins", coachingHandler.CreateCheckIn)
			coachGroup.POST("/check-ins/:checkInId/respond", coachingHandler.RespondToCheckIn)
			coachGroup.POST("/check-ins/:checkInId/dismiss", coachingHandler.DismissCheckIn)

			// --- Check-in media attachments ---
			coachGroup.POST("/check-ins/:checkInId/media-upload-url", coachingHandler.RequestMediaUploadURL)
			coachGroup.GET("/check-ins/:checkInId/media-download-url", coachingHandler.GetMediaDownloadURL)
		}

		planGroup := protected.Group("/plans")
		{
			// POST /api/v1/plans
			planGroup.POST("", planHandler.GeneratePlan)
			// GET /api/v1/plans
			planGroup.GET("", planHandler.GetPlans)
			// GET /api/v1/plans/active
			planGroup.GET("/active", planHandler.GetActivePlan)

			// --- Plan lifecycle ---
			planGroup.POST("/:planId/activate", planHandler.ActivatePlan)
			planGroup.POST("/:planId/pause", planHandler.PausePlan)
			planGroup.POST("/:planId/complete", planHandler.CompletePlan)
			planGroup.POST("/:planId/abandon", planHandler.AbandonPlan)
			planGroup.POST("/:planId/adjust", planHandler.AdjustPlan)

			// --- Workout tracking ---
			planGroup.POST("/:planId/workouts/:workoutId/result", planHandler.RecordWorkoutResult)
		}
	}
}
