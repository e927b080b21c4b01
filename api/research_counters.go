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

// ResearchView bumps a paper's view counter
func (a *API) ResearchView(c *gin.Context) {
	a.bumpCounter(c, workflow.IncrementViews, func(doc *model.Research) gin.H {
		return gin.H{"views": doc.Views}
	})
}

// ResearchDownload bumps a paper's download counter
func (a *API) ResearchDownload(c *gin.Context) {
	a.bumpCounter(c, workflow.IncrementDownloads, func(doc *model.Research) gin.H {
		return gin.H{"downloads": doc.Downloads}
	})
}

func (a *API) bumpCounter(c *gin.Context, bump func(*gorm.DB, string) (*model.Research, error), body func(*model.Research) gin.H) {
	requestID := c.MustGet("requestID").(string)
	id := c.Param("id")

	doc, err := bump(a.DB, id)
	if err != nil {
		if errors.Is(err, workflow.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "Research paper not found",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to update counter", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, body(doc))
}
