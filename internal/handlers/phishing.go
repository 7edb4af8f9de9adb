package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/cyberdrill-backend/internal/services"
)

type PhishingHandler struct {
	phishingService services.PhishingService
}

func NewPhishingHandler(phishingService services.PhishingService) *PhishingHandler {
	return &PhishingHandler{phishingService: phishingService}
}

func (ph *PhishingHandler) Generate(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	email, err := ph.phishingService.Generate(c.Request.Context(), userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, email)
}

func (ph *PhishingHandler) React(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	emailID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email id"})
		return
	}
	var req struct {
		Reaction     string   `json:"reaction"`
		ResponseTime *float64 `json:"response_time"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	email, err := ph.phishingService.React(c.Request.Context(), userID, emailID, services.PhishingReaction(req.Reaction), req.ResponseTime)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, email)
}

func (ph *PhishingHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	emails, err := ph.phishingService.ListForUser(c.Request.Context(), userID, limit)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"emails": emails})
}
