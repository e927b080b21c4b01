package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/janil231/research-repository2/model"
)

// ResetFetchBulk lists reset requests for the admin review queue,
// joined with the requesting student's details.
func (a *API) ResetFetchBulk(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	status := c.DefaultQuery("status", model.StatusPending)

	var reqs []model.ResetRequest
	err := a.DB.
		Where("status = ?", status).
		Order("created_at asc").
		Find(&reqs).Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch reset requests", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	out := make([]gin.H, 0, len(reqs))
	for _, r := range reqs {
		entry := gin.H{
			"id":        r.ID,
			"status":    r.Status,
			"createdAt": r.CreatedAt,
			"expiresAt": r.ExpiresAt,
		}

		var user model.User
		if err := a.DB.First(&user, "id = ?", r.UserID).Error; err == nil {
			entry["user"] = gin.H{
				"id":         user.ID,
				"firstName":  user.FirstName,
				"lastName":   user.LastName,
				"schoolId":   user.SchoolID,
				"department": user.Department,
			}
		}

		out = append(out, entry)
	}

	c.JSON(http.StatusOK, gin.H{"data": out})
}
