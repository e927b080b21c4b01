package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/janil231/research-repository2/model"
)

// UserFetchBulk lists student accounts for the admin approval queue,
// optionally filtered by status.
func (a *API) UserFetchBulk(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	q := a.DB.Model(model.User{}).Where("role = ?", model.RoleStudent)
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var users []model.User
	if err := q.Order("created_at desc").Find(&users).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch users", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	out := make([]gin.H, 0, len(users))
	for _, u := range users {
		out = append(out, gin.H{
			"id":         u.ID,
			"firstName":  u.FirstName,
			"lastName":   u.LastName,
			"schoolId":   u.SchoolID,
			"department": u.Department,
			"status":     u.Status,
			"createdAt":  u.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": out})
}
