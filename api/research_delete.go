package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/janil231/research-repository2/model"
)

// ResearchDelete removes a paper and its stored PDF. The record goes
// even if the file is already gone from storage.
func (a *API) ResearchDelete(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	id := c.Param("id")

	var doc model.Research
	if err := a.DB.First(&doc, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
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

		zap.L().Error("Failed to look up research", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if err := a.Store.Delete(c.Request.Context(), doc.PDFPath); err != nil {
		zap.L().Warn("Failed to delete stored file",
			zap.String("path", doc.PDFPath),
			zap.Error(err),
			zap.String("requestID", requestID))
	}

	if err := a.DB.Delete(&model.Research{}, "id = ?", id).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to delete research record", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.Status(http.StatusNoContent)
}
