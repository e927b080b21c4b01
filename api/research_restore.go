package api

import (
	"archive/zip"
	"errors"
	"io"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/janil231/research-repository2/backup"
)

// ResearchRestore ingests a backup archive produced by ResearchBackup.
// The archive is spooled to disk first so entries can be read randomly.
func (a *API) ResearchRestore(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	fh, err := c.FormFile("file")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "A backup archive is required",
			"requestID": requestID,
		})
		return
	}

	src, err := fh.Open()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to open uploaded archive", zap.Error(err), zap.String("requestID", requestID))
		return
	}
	defer src.Close()

	tmp, err := os.CreateTemp("", "restore-*.zip")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create temp file", zap.Error(err), zap.String("requestID", requestID))
		return
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	size, err := io.Copy(tmp, src)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to spool archive", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	zr, err := zip.NewReader(tmp, size)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Not a valid zip archive",
			"requestID": requestID,
		})
		return
	}

	summary, err := backup.Restore(c.Request.Context(), a.DB, a.Store, zr, c.GetString("userID"))
	if err != nil {
		if errors.Is(err, backup.ErrNoManifest) || errors.Is(err, backup.ErrBadManifest) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":     err.Error(),
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Restore failed", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	zap.L().Info("Backup restored",
		zap.Int("created", summary.Created),
		zap.Int("updated", summary.Updated),
		zap.Int("skipped", summary.SkippedNoFile),
		zap.String("requestID", requestID))

	c.JSON(http.StatusOK, gin.H{
		"created":       summary.Created,
		"updated":       summary.Updated,
		"skippedNoFile": summary.SkippedNoFile,
		"totalMetadata": summary.TotalMetadata,
	})
}
