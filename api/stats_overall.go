package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/janil231/research-repository2/model"
)

type departmentCount struct {
	Department string `json:"department"`
	Count      int64  `json:"count"`
}

type yearCount struct {
	Year  int   `json:"year"`
	Count int64 `json:"count"`
}

type paperStat struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Views     int64  `json:"views"`
	Downloads int64  `json:"downloads"`
}

// StatsOverall summarizes the repository for the admin dashboard:
// catalog totals, month-over-month growth and the busiest departments.
func (a *API) StatsOverall(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var (
		totalPapers    int64
		approvedPapers int64
		pendingPapers  int64
		totalStudents  int64
		pendingUsers   int64
		pendingResets  int64
	)

	counts := []struct {
		dst   *int64
		model any
		cond  []any
	}{
		{&totalPapers, model.Research{}, nil},
		{&approvedPapers, model.Research{}, []any{"status = ?", model.StatusApproved}},
		{&pendingPapers, model.Research{}, []any{"status = ?", model.StatusPending}},
		{&totalStudents, model.User{}, []any{"role = ?", model.RoleStudent}},
		{&pendingUsers, model.User{}, []any{"role = ? AND status = ?", model.RoleStudent, model.StatusPending}},
		{&pendingResets, model.ResetRequest{}, []any{"status = ?", model.StatusPending}},
	}

	for _, cnt := range counts {
		q := a.DB.Model(cnt.model)
		if cnt.cond != nil {
			q = q.Where(cnt.cond[0], cnt.cond[1:]...)
		}

		if err := q.Count(cnt.dst).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to compute statistics", zap.Error(err), zap.String("requestID", requestID))
			return
		}
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	prevMonthStart := monthStart.AddDate(0, -1, 0)

	var thisMonth, lastMonth int64
	a.DB.Model(model.Research{}).Where("created_at >= ?", monthStart).Count(&thisMonth)
	a.DB.Model(model.Research{}).
		Where("created_at >= ? AND created_at < ?", prevMonthStart, monthStart).
		Count(&lastMonth)

	growth := 0.0
	switch {
	case lastMonth > 0:
		growth = float64(thisMonth-lastMonth) / float64(lastMonth) * 100
	case thisMonth > 0:
		growth = 100
	}

	var topDepartments []departmentCount
	err := a.DB.Model(model.Research{}).
		Select("department, count(*) as count").
		Where("status = ?", model.StatusApproved).
		Group("department").
		Order("count desc").
		Limit(5).
		Scan(&topDepartments).Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to compute top departments", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	var byYear []yearCount
	err = a.DB.Model(model.Research{}).
		Select("year, count(*) as count").
		Where("status = ?", model.StatusApproved).
		Group("year").
		Order("year desc").
		Scan(&byYear).Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to compute yearly rollup", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	var topViewed, topDownloaded []paperStat
	base := func() *gorm.DB {
		return a.DB.Model(model.Research{}).
			Select("id, title, views, downloads").
			Where("status = ?", model.StatusApproved).
			Limit(5)
	}
	if err := base().Order("views desc").Scan(&topViewed).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to compute top viewed", zap.Error(err), zap.String("requestID", requestID))
		return
	}
	if err := base().Order("downloads desc").Scan(&topDownloaded).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to compute top downloaded", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"papers": gin.H{
			"total":     totalPapers,
			"approved":  approvedPapers,
			"pending":   pendingPapers,
			"thisMonth": thisMonth,
			"growthPct": growth,
		},
		"students": gin.H{
			"total":            totalStudents,
			"pendingApprovals": pendingUsers,
		},
		"resetRequests":  gin.H{"pending": pendingResets},
		"topDepartments": topDepartments,
		"byYear":         byYear,
		"topViewed":      topViewed,
		"topDownloaded":  topDownloaded,
	})
}
