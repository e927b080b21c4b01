package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/janil231/research-repository2/model"
)

type resetProbeBody struct {
	LoginID string `json:"loginId"`
}

// ResetProbe tells the login UI which reset flow applies to an identifier:
// students go through the admin-reviewed request queue, admins through the
// TOTP self-reset.
func (a *API) ResetProbe(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data resetProbeBody
	if err := c.ShouldBind(&data); err != nil || data.LoginID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Login ID is required",
			"requestID": requestID,
		})
		return
	}

	var user model.User
	err := a.DB.
		Select("id", "role").
		Where("school_id = ? OR username = ?", data.LoginID, data.LoginID).
		First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "No account found for this identifier",
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

	c.JSON(http.StatusOK, gin.H{"role": user.Role})
}
