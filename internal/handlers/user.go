package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/cyberdrill-backend/internal/requestdata"
	"github.com/yungbote/cyberdrill-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// currentUserID resolves the authenticated user from request data set by
// the auth middleware.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return uuid.Nil, false
	}
	return rd.UserID, true
}

func (uh *UserHandler) GetMe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	user, err := uh.userService.Get(c.Request.Context(), userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, user)
}

func (uh *UserHandler) UpdateMe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req struct {
		FirstName          *string `json:"first_name"`
		LastName           *string `json:"last_name"`
		JobRole            *string `json:"job_role"`
		Department         *string `json:"department"`
		Industry           *string `json:"industry"`
		Location           *string `json:"location"`
		CommunicationStyle *string `json:"communication_style"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	user, err := uh.userService.Update(c.Request.Context(), userID, services.UpdateUserInput{
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		JobRole:            req.JobRole,
		Department:         req.Department,
		Industry:           req.Industry,
		Location:           req.Location,
		CommunicationStyle: req.CommunicationStyle,
	})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, user)
}
