package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/cyberdrill-backend/internal/services"
)

type RansomwareHandler struct {
	ransomwareService services.RansomwareService
}

func NewRansomwareHandler(ransomwareService services.RansomwareService) *RansomwareHandler {
	return &RansomwareHandler{ransomwareService: ransomwareService}
}

func (rh *RansomwareHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req struct {
		ScenarioType string `json:"scenario_type"`
		Difficulty   int    `json:"difficulty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	run, err := rh.ransomwareService.CreateSimulation(c.Request.Context(), userID, req.ScenarioType, req.Difficulty)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, run)
}

func (rh *RansomwareHandler) ExecuteAction(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	runID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run id"})
		return
	}
	var req struct {
		Action       string   `json:"action"`
		ResponseTime *float64 `json:"response_time"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	result, err := rh.ransomwareService.ExecuteAction(c.Request.Context(), services.ExecuteActionInput{
		UserID:       userID,
		RunID:        runID,
		Action:       req.Action,
		ResponseTime: req.ResponseTime,
	})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, result)
}

func (rh *RansomwareHandler) GetRun(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	runID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run id"})
		return
	}
	state, err := rh.ransomwareService.GetRunState(c.Request.Context(), userID, runID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, state)
}

func (rh *RansomwareHandler) ListRuns(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	runs, err := rh.ransomwareService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"runs": runs})
}
