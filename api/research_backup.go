package api

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/janil231/research-repository2/backup"
)

// ResearchBackup streams a zip of the full catalog: every record's
// metadata plus whichever PDFs are still present in storage.
func (a *API) ResearchBackup(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", backup.FileName(time.Now())))

	count, err := backup.Export(c.Request.Context(), a.DB, a.Store, c.Writer)
	if err != nil {
		// Headers are out already, all we can do is cut the stream
		zap.L().Error("Backup export failed", zap.Error(err), zap.String("requestID", requestID))
		c.Abort()
		return
	}

	zap.L().Info("Backup exported",
		zap.Int("records", count),
		zap.String("requestID", requestID))
}
