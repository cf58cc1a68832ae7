package api

import (
	"errors"
	"net/http"
	"strconv"

	"alcyxob/coaching-app/internal/domain"
	"alcyxob/coaching-app/internal/service"

	"github.com/gin-gonic/gin"
)

type CoachingHandler struct {
	coachingService service.CoachingService
}

func NewCoachingHandler(coachingService service.CoachingService) *CoachingHandler {
	return &CoachingHandler{coachingService: coachingService}
}

// --- DTOs ---

type SendMessageRequest struct {
	Message string `json:"message" binding:"required"`
}

type RespondToCheckInRequest struct {
	Response       string `json:"response" binding:"required"`
	MediaObjectKey string `json:"mediaObjectKey"`
}

type CreateCheckInRequest struct {
	Type    string `json:"type" binding:"required"`
	Trigger string `json:"trigger"`
}

type MediaUploadURLRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

// --- Handlers ---

// SendMessage handles POST /coach/messages.
func (h *CoachingHandler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	resp, err := h.coachingService.SendMessage(c.Request.Context(), service.SendMessageRequest{
		UserID:  userID,
		Message: req.Message,
	})
	if err != nil {
		respondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RespondToCheckIn handles POST /coach/check-ins/:checkInId/respond.
func (h *CoachingHandler) RespondToCheckIn(c *gin.Context) {
	var req RespondToCheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	resp, err := h.coachingService.RespondToCheckIn(c.Request.Context(), service.RespondToCheckInRequest{
		UserID:         userID,
		CheckInID:      c.Param("checkInId"),
		Response:       req.Response,
		MediaObjectKey: req.MediaObjectKey,
	})
	if err != nil {
		respondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DismissCheckIn handles POST /coach/check-ins/:checkInId/dismiss.
func (h *CoachingHandler) DismissCheckIn(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	if err := h.coachingService.DismissCheckIn(c.Request.Context(), userID, c.Param("checkInId")); err != nil {
		respondWithDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateCheckIn handles POST /coach/check-ins.
func (h *CoachingHandler) CreateCheckIn(c *gin.Context) {
	var req CreateCheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	resp, err := h.coachingService.CreateCheckIn(c.Request.Context(), service.CreateCheckInRequest{
		UserID:  userID,
		Type:    domain.CheckInType(req.Type),
		Trigger: req.Trigger,
	})
	if err != nil {
		respondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GetHistory handles GET /coach/history?limit=N.
func (h *CoachingHandler) GetHistory(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if err := bindPositiveInt(raw, &limit); err != nil {
			abortWithError(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
	}

	resp, err := h.coachingService.GetCoachingHistory(c.Request.Context(), service.GetCoachingHistoryRequest{
		UserID: userID,
		Limit:  limit,
	})
	if err != nil {
		respondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GenerateWeeklySummary handles POST /coach/weekly-summary.
func (h *CoachingHandler) GenerateWeeklySummary(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	resp, err := h.coachingService.GenerateWeeklySummary(c.Request.Context(), userID)
	if err != nil {
		respondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RequestMediaUploadURL handles POST /coach/check-ins/:checkInId/media-upload-url.
func (h *CoachingHandler) RequestMediaUploadURL(c *gin.Context) {
	var req MediaUploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	resp, err := h.coachingService.RequestCheckInMediaUploadURL(c.Request.Context(), service.CheckInMediaUploadRequest{
		UserID:      userID,
		CheckInID:   c.Param("checkInId"),
		ContentType: req.ContentType,
	})
	if err != nil {
		respondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetMediaDownloadURL handles GET /coach/check-ins/:checkInId/media-download-url.
func (h *CoachingHandler) GetMediaDownloadURL(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	url, err := h.coachingService.GetCheckInMediaDownloadURL(c.Request.Context(), userID, c.Param("checkInId"))
	if err != nil {
		respondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"downloadUrl": url})
}

func bindPositiveInt(raw string, out *int) error {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return errors.New("not a positive integer")
	}
	*out = n
	return nil
}
