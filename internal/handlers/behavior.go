package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/cyberdrill-backend/internal/services"
	"github.com/yungbote/cyberdrill-backend/internal/types"
)

type BehaviorHandler struct {
	behaviorService   services.BehaviorService
	adaptationService services.AdaptationService
}

func NewBehaviorHandler(behaviorService services.BehaviorService, adaptationService services.AdaptationService) *BehaviorHandler {
	return &BehaviorHandler{
		behaviorService:   behaviorService,
		adaptationService: adaptationService,
	}
}

func (bh *BehaviorHandler) RecordEvent(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req struct {
		EventType      string         `json:"event_type"`
		SimulationType string         `json:"simulation_type"`
		Triggers       []string       `json:"triggers"`
		ResponseTime   *float64       `json:"response_time"`
		Context        map[string]any `json:"context"`
		OccurredAt     *time.Time     `json:"occurred_at"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	kind, err := types.ParseEventKind(req.EventType)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	triggers, err := types.ParseTriggers(req.Triggers)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	event, profile, err := bh.behaviorService.RecordEvent(c.Request.Context(), services.RecordEventInput{
		UserID:         userID,
		EventKind:      kind,
		SimulationType: req.SimulationType,
		Triggers:       triggers,
		ResponseTime:   req.ResponseTime,
		Context:        req.Context,
		OccurredAt:     req.OccurredAt,
	})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, gin.H{"event": event, "profile": profile})
}

func (bh *BehaviorHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	profile, err := bh.behaviorService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, profile)
}

func (bh *BehaviorHandler) GetInsights(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	insights, err := bh.behaviorService.GenerateInsights(c.Request.Context(), userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, insights)
}

func (bh *BehaviorHandler) GetTrainingPlan(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	plan, err := bh.adaptationService.PlanTraining(c.Request.Context(), userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, plan)
}

func (bh *BehaviorHandler) ListEvents(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	events, err := bh.behaviorService.ListEvents(c.Request.Context(), userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"events": events})
}
