package api

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"

	"github.com/janil231/research-repository2/model"
	"github.com/janil231/research-repository2/validators"
	"github.com/janil231/research-repository2/workflow"
)

// ResearchUpload accepts a paper's PDF plus its metadata. Student
// uploads land as pending, admin uploads are approved right away.
func (a *API) ResearchUpload(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	upload, err := validators.ResearchValidator(
		c.PostForm("title"),
		c.PostForm("abstract"),
		c.PostForm("authors"),
		c.PostForm("adviser"),
		c.PostForm("department"),
		c.PostForm("year"),
		c.PostForm("semester"),
		c.PostForm("keywords"),
	)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "A PDF file is required",
			"requestID": requestID,
		})
		return
	}

	f, err := validators.PDFValidator(fh)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if ext == "" {
		ext = ".pdf"
	}

	fileID, err := gonanoid.Generate(charset, 16)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate file ID", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	key := "research-" + fileID + ext
	if err := a.Store.Write(c.Request.Context(), key, f); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Failed to store file",
			"requestID": requestID,
		})

		zap.L().Error("Failed to store uploaded file", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	id, err := gonanoid.Generate(charset, 16)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate research ID", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	doc := &model.Research{
		ID:         id,
		Title:      upload.Title,
		Abstract:   upload.Abstract,
		Authors:    upload.Authors,
		Adviser:    upload.Adviser,
		Department: upload.Department,
		Year:       upload.Year,
		Semester:   upload.Semester,
		Keywords:   upload.Keywords,
		PDFPath:    key,
		Status:     workflow.InitialStatus(c.GetString("role")),
		UploadedBy: c.GetString("userID"),
	}

	if err := a.DB.Create(doc).Error; err != nil {
		// Don't leave the file orphaned if the record failed
		if derr := a.Store.Delete(c.Request.Context(), key); derr != nil {
			zap.L().Warn("Failed to clean up stored file", zap.Error(derr), zap.String("requestID", requestID))
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create research record", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":     doc.ID,
		"status": doc.Status,
	})
}
