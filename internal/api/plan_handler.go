package api

import (
	"net/http"
	"time"

	"alcyxob/coaching-app/internal/domain"
	"alcyxob/coaching-app/internal/service"

	"github.com/gin-gonic/gin"
)

type PlanHandler struct {
	planService service.PlanService
}

func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// --- DTOs ---

type GeneratePlanRequest struct {
	Goals              domain.PlanGoals           `json:"goals" binding:"required"`
	Constraints        domain.TrainingConstraints `json:"constraints"`
	ExperienceLevel    string                     `json:"experienceLevel"`
	CustomInstructions string                     `json:"customInstructions"`
}

type ActivatePlanRequest struct {
	StartDate *time.Time `json:"startDate"`
}

type PausePlanRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type AbandonPlanRequest struct {
	Reason string `json:"reason"`
}

type AdjustPlanRequest struct {
	Feedback string `json:"feedback" binding:"required"`
}

type RecordWorkoutRequest struct {
	WeekNumber int    `json:"weekNumber" binding:"required"`
	Status     string `json:"status" binding:"required"`
}

// --- Handlers ---

// GeneratePlan handles POST /plans.
func (h *PlanHandler) GeneratePlan(c *gin.Context) {
	var req GeneratePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	plan, err := h.planService.GeneratePlan(c.Request.Context(), service.GeneratePlanRequest{
		UserID:             userID,
		Goals:              req.Goals,
		Constraints:        req.Constraints,
		ExperienceLevel:    domain.ExperienceLevel(req.ExperienceLevel),
		CustomInstructions: req.CustomInstructions,
	})
	if err != nil {
		respondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

// GetPlans handles GET /plans.
func (h *PlanHandler) GetPlans(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	plans, err := h.planService.GetPlans(c.Request.Context(), userID)
	if err != nil {
		respondWithDomainError(c, err)
		return
	}
	if plans == nil {
		plans = []domain.WorkoutPlan{}
	}
	c.JSON(http.StatusOK, plans)
}

// GetActivePlan handles GET /plans/active.
func (h *PlanHandler) GetActivePlan(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	plan, err := h.planService.GetActivePlan(c.Request.Context(), userID)
	if err != nil {
		respondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// ActivatePlan handles POST /plans/:planId/activate.
func (h *PlanHandler) ActivatePlan(c *gin.Context) {
	var req ActivatePlanRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
			return
		}
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	resp, err := h.planService.ActivatePlan(c.Request.Context(), service.ActivatePlanRequest{
		UserID:    userID,
		PlanID:    c.Param("planId"),
		StartDate: req.StartDate,
	})
	if err != nil {
		respondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PausePlan handles POST /plans/:planId/pause.
func (h *PlanHandler) PausePlan(c *gin.Context) {
	var req PausePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	plan, err := h.planService.PausePlan(c.Request.Context(), service.PausePlanRequest{
		UserID: userID,
		PlanID: c.Param("planId"),
		Reason: req.Reason,
	})
	if err != nil {
		respondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// CompletePlan handles POST /plans/:planId/complete.
func (h *PlanHandler) CompletePlan(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	plan, err := h.planService.CompletePlan(c.Request.Context(), userID, c.Param("planId"))
	if err != nil {
		respondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// AbandonPlan handles POST /plans/:planId/abandon.
func (h *PlanHandler) AbandonPlan(c *gin.Context) {
	var req AbandonPlanRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
			return
		}
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	plan, err := h.planService.AbandonPlan(c.Request.Context(), userID, c.Param("planId"), req.Reason)
	if err != nil {
		respondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// AdjustPlan handles POST /plans/:planId/adjust.
func (h *PlanHandler) AdjustPlan(c *gin.Context) {
	var req AdjustPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	resp, err := h.planService.AdjustPlanBasedOnFeedback(c.Request.Context(), service.AdjustPlanRequest{
		UserID:   userID,
		PlanID:   c.Param("planId"),
		Feedback: req.Feedback,
	})
	if err != nil {
		respondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RecordWorkoutResult handles POST /plans/:planId/workouts/:workoutId/result.
func (h *PlanHandler) RecordWorkoutResult(c *gin.Context) {
	var req RecordWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	resp, err := h.planService.RecordWorkoutResult(c.Request.Context(), service.RecordWorkoutRequest{
		UserID:     userID,
		PlanID:     c.Param("planId"),
		WeekNumber: req.WeekNumber,
		WorkoutID:  c.Param("workoutId"),
		Status:     domain.WorkoutStatus(req.Status),
	})
	if err != nil {
		respondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
