package mailfn

import (
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
)

// NewRouter mounts the function under the same path the hosted platform
// used, so the SPA needs no changes.
func NewRouter(h *Handler, log *slog.Logger) *gin.Engine {
	if os.Getenv("APP_ENV") != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(CORS())

	r.Use(func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()
		log.Info("http_request",
			"method", ctx.Request.Method,
			"path", ctx.Request.URL.Path,
			"status", ctx.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
		)
	})

	r.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})

	r.POST("/functions/v1/send-registration-email", h.Send)

	return r
}
