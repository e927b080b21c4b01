package api

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/janil231/research-repository2/backup"
	"github.com/janil231/research-repository2/model"
)

// ResearchServe streams a paper's PDF for inline viewing
func (a *API) ResearchServe(c *gin.Context) {
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

	f, err := a.Store.Open(c.Request.Context(), doc.PDFPath)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
			"error":     "File not found in storage",
			"requestID": requestID,
		})

		zap.L().Warn("Stored file missing",
			zap.String("path", doc.PDFPath),
			zap.Error(err),
			zap.String("requestID", requestID))
		return
	}
	defer f.Close()

	name := backup.ArchiveName(doc.Title, doc.Year, doc.ID, doc.PDFPath)

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", name))

	if _, err := io.Copy(c.Writer, f); err != nil {
		zap.L().Debug("Stream interrupted", zap.Error(err), zap.String("requestID", requestID))
	}
}
