package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/janil231/research-repository2/workflow"
)

type researchStatusBody struct {
	Status string `json:"status"`
}

// ResearchStatus moves a paper through the approval workflow
func (a *API) ResearchStatus(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	id := c.Param("id")

	var data researchStatusBody
	if err := c.ShouldBind(&data); err != nil || data.Status == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Status is required",
			"requestID": requestID,
		})
		return
	}

	doc, err := workflow.SetResearchStatus(a.DB, id, data.Status)
	if err != nil {
		switch {
		case errors.Is(err, workflow.ErrNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "Research paper not found",
				"requestID": requestID,
			})
		case errors.Is(err, workflow.ErrInvalidStatus), errors.Is(err, workflow.ErrInvalidTransition):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":     err.Error(),
				"requestID": requestID,
			})
		case errors.Is(err, workflow.ErrConflict):
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"error":     "Paper status changed concurrently, retry",
				"requestID": requestID,
			})
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to update research status", zap.Error(err), zap.String("requestID", requestID))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     doc.ID,
		"status": doc.Status,
	})
}
