package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/janil231/research-repository2/model"
	"github.com/janil231/research-repository2/validators"
	"github.com/janil231/research-repository2/workflow"
)

type resetResolveBody struct {
	Status      string `json:"status"`
	NewPassword string `json:"newPassword"`
}

// ResetResolve approves or rejects a pending reset request. Approval
// sets the new password on the account in the same transaction.
func (a *API) ResetResolve(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	id := c.Param("id")

	var data resetResolveBody
	if err := c.ShouldBind(&data); err != nil || data.Status == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Status is required",
			"requestID": requestID,
		})
		return
	}

	var hash string
	if data.Status == model.StatusApproved {
		if err := validators.PasswordValidator(data.NewPassword); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":     err.Error(),
				"requestID": requestID,
			})
			return
		}

		var err error
		hash, err = a.Argon.GenerateFromPassword(data.NewPassword)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to hash password", zap.Error(err), zap.String("requestID", requestID))
			return
		}
	}

	req, err := workflow.ResolveResetRequest(a.DB, id, data.Status, hash)
	if err != nil {
		switch {
		case errors.Is(err, workflow.ErrNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "Reset request not found",
				"requestID": requestID,
			})
		case errors.Is(err, workflow.ErrInvalidStatus), errors.Is(err, workflow.ErrInvalidTransition),
			errors.Is(err, workflow.ErrPasswordRequired):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":     err.Error(),
				"requestID": requestID,
			})
		case errors.Is(err, workflow.ErrConflict):
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"error":     "Reset request resolved concurrently, retry",
				"requestID": requestID,
			})
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to resolve reset request", zap.Error(err), zap.String("requestID", requestID))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     req.ID,
		"status": req.Status,
	})
}
