package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/janil231/research-repository2/search"
)

// ResearchSearch runs the catalog search with filters, sorting and
// pagination taken from the query string.
func (a *API) ResearchSearch(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	params := &search.Params{
		Keyword:    c.Query("keyword"),
		Author:     c.Query("author"),
		Keywords:   c.Query("keywords"),
		Year:       c.Query("year"),
		Department: c.Query("department"),
		Semester:   c.Query("semester"),
		Status:     c.Query("status"),
		QTags:      c.Query("qTags"),
		SortBy:     c.Query("sortBy"),
		Page:       c.Query("page"),
		Limit:      c.Query("limit"),
	}

	docs, pagination, err := search.Run(a.DB, params)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Search failed", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       docs,
		"pagination": pagination,
	})
}
