package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/janil231/research-repository2/model"
	"github.com/janil231/research-repository2/workflow"
)

type resetRequestBody struct {
	SchoolID string `json:"schoolId"`
}

// ResetRequest files a password reset request for a student, to be
// reviewed by an admin.
func (a *API) ResetRequest(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data resetRequestBody
	if err := c.ShouldBind(&data); err != nil || data.SchoolID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "School ID is required",
			"requestID": requestID,
		})
		return
	}

	var user model.User
	err := a.DB.
		Where("school_id = ? AND role = ?", data.SchoolID, model.RoleStudent).
		First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "No account found for this school ID",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to look up user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	req, err := workflow.CreateResetRequest(a.DB, user.ID)
	if err != nil {
		if errors.Is(err, workflow.ErrPendingExists) {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"error":     "A reset request is already pending for this account",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create reset request", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"requestId": req.ID,
		"expiresAt": req.ExpiresAt,
		"message":   "Reset request submitted. An admin will review it shortly",
	})
}
