// Package api contains all endpoints available
package api

import (
	"fmt"
	"time"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	ginzap "github.com/gin-contrib/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"github.com/janil231/research-repository2/db"
	"github.com/janil231/research-repository2/middleware"
	"github.com/janil231/research-repository2/security"
	"github.com/janil231/research-repository2/service"
	"github.com/janil231/research-repository2/storage"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

var store = persist.NewMemoryStore(time.Minute)

type API struct {
	DB     *gorm.DB
	Router *gin.Engine
	Argon  *security.ArgonHash
	Store  storage.Storage
}

func NewRouter() (*API, error) {
	a := &API{}

	db, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}
	a.DB = db

	makeLogger()

	router := gin.New()
	a.Router = router

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:5173"},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true
	a.Router.MaxMultipartMemory = 5 << 20

	jwt := middleware.NewJWTMiddleware(db)
	admin := middleware.RequireAdmin()
	authLimiter := middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: 2,
		Burst:             5,
	})
	maxUploadSize := viper.GetInt64("upload.max_size")

	main := router.Group("/api")
	{
		// HEAD /api/heartbeat		-> Used to check if the server is alive
		main.HEAD("/heartbeat", a.Heartbeat)

		// HEAD /api/validate		-> Validates a JWT token
		main.HEAD("/validate", jwt, a.Validate)
	}

	users := main.Group("/users", middleware.BodySizeLimiter(1<<20))
	{
		// GET /api/users		-> Lists all accounts (admin)
		users.GET("", jwt, admin, a.UserFetchBulk)

		// POST /api/users		-> Registers a new student or admin
		users.POST("", authLimiter, a.UserRegister)

		// POST /api/users/login	-> Logs in a user and returns a JWT token
		users.POST("/login", authLimiter, a.UserLogin)

		// POST /api/users/password	-> Changes the caller's own password
		users.POST("/password", jwt, a.UserPassword)

		// PUT /api/users/:id/status	-> Approves or rejects a student registration
		users.PUT("/:id/status", jwt, admin, a.UserStatus)

		// DELETE /api/users/:id	-> Deletes an account
		users.DELETE("/:id", jwt, admin, a.UserDelete)
	}

	reset := main.Group("/reset", middleware.BodySizeLimiter(1<<20))
	{
		// POST /api/reset		-> Student submits a password reset request
		reset.POST("", authLimiter, a.ResetRequest)

		// POST /api/reset/probe	-> Tells the login UI which reset flow an identifier uses
		reset.POST("/probe", a.ResetProbe)

		// POST /api/reset/admin	-> TOTP-verified immediate admin password reset
		reset.POST("/admin", authLimiter, a.ResetAdmin)

		// GET /api/reset		-> Lists reset requests (admin)
		reset.GET("", jwt, admin, a.ResetFetchBulk)

		// PUT /api/reset/:id		-> Resolves a reset request (admin)
		reset.PUT("/:id", jwt, admin, a.ResetResolve)
	}

	research := main.Group("/research")
	{
		// GET /api/research/search	-> Searches the repository with filters and pagination
		research.GET("/search", cacheFor(15), a.ResearchSearch)

		// GET /api/research/:id/file	-> Serves the stored PDF
		research.GET("/:id/file", a.ResearchServe)

		// POST /api/research/:id/view	-> Bumps the view counter
		research.POST("/:id/view", a.ResearchView)

		// POST /api/research/:id/download -> Bumps the download counter
		research.POST("/:id/download", a.ResearchDownload)

		// POST /api/research		-> Uploads a new paper
		research.POST("", jwt, middleware.BodySizeLimiter(maxUploadSize), a.ResearchUpload)

		// PUT /api/research/:id/status	-> Approve/reject/archive/restore (admin)
		research.PUT("/:id/status", jwt, admin, a.ResearchStatus)

		// DELETE /api/research/:id	-> Deletes a paper and its file (admin)
		research.DELETE("/:id", jwt, admin, a.ResearchDelete)

		// DELETE /api/research		-> Clears the whole collection (admin)
		research.DELETE("", jwt, admin, a.ResearchClear)

		// GET /api/research/backup	-> Streams a backup archive (admin)
		research.GET("/backup", jwt, admin, a.ResearchBackup)

		// POST /api/research/restore	-> Restores from an uploaded backup (admin)
		research.POST("/restore", jwt, admin, middleware.BodySizeLimiter(2<<30), a.ResearchRestore)
	}

	stats := main.Group("/statistics", jwt, admin)
	{
		// GET /api/statistics/overall	-> Dashboard rollups
		stats.GET("/overall", cacheFor(30), a.StatsOverall)
	}

	a.Argon = security.New()

	st, err := storage.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file storage, %w", err)
	}
	a.Store = st

	service.ResetRequestCleanup(time.Hour, db)

	return a, nil
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}

func cacheFor(sec int) gin.HandlerFunc {
	return cache.CacheByRequestURI(store, time.Second*time.Duration(sec))
}
