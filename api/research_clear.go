package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/janil231/research-repository2/model"
)

// ResearchClear wipes the whole catalog, typically right before a
// restore. ?keepFiles=true leaves the stored PDFs in place.
func (a *API) ResearchClear(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	keepFiles := c.Query("keepFiles") == "true"

	var docs []model.Research
	if err := a.DB.Select("id", "pdf_path").Find(&docs).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list research records", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	filesDeleted := 0
	if !keepFiles {
		for _, doc := range docs {
			if doc.PDFPath == "" {
				continue
			}

			if err := a.Store.Delete(c.Request.Context(), doc.PDFPath); err != nil {
				zap.L().Warn("Failed to delete stored file",
					zap.String("path", doc.PDFPath),
					zap.Error(err),
					zap.String("requestID", requestID))
				continue
			}
			filesDeleted++
		}
	}

	res := a.DB.Where("1 = 1").Delete(&model.Research{})
	if res.Error != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to clear research records", zap.Error(res.Error), zap.String("requestID", requestID))
		return
	}

	zap.L().Info("Catalog cleared",
		zap.Int64("records", res.RowsAffected),
		zap.Int("files", filesDeleted),
		zap.String("requestID", requestID))

	c.JSON(http.StatusOK, gin.H{
		"deletedCount": res.RowsAffected,
		"filesDeleted": filesDeleted,
	})
}
