package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/janil231/research-repository2/workflow"
)

type userStatusBody struct {
	Status string `json:"status"`
}

// UserStatus approves or rejects a pending student account
func (a *API) UserStatus(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.Param("id")

	var data userStatusBody
	if err := c.ShouldBind(&data); err != nil || data.Status == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Status is required",
			"requestID": requestID,
		})
		return
	}

	user, err := workflow.SetStudentStatus(a.DB, userID, data.Status)
	if err != nil {
		switch {
		case errors.Is(err, workflow.ErrNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "User not found",
				"requestID": requestID,
			})
		case errors.Is(err, workflow.ErrNotStudent):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":     "Only student accounts can be approved or rejected",
				"requestID": requestID,
			})
		case errors.Is(err, workflow.ErrInvalidStatus), errors.Is(err, workflow.ErrInvalidTransition):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":     err.Error(),
				"requestID": requestID,
			})
		case errors.Is(err, workflow.ErrConflict):
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"error":     "Account status changed concurrently, retry",
				"requestID": requestID,
			})
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to update account status", zap.Error(err), zap.String("requestID", requestID))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     user.ID,
		"status": user.Status,
	})
}
