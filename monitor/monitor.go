package monitor

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

var startedAt = time.Now()

// RegisterMonitorRoutes mounts /metrics (Prometheus) and /monitor/status.
// db may be nil, in which case the database check is reported as skipped.
func RegisterMonitorRoutes(router *gin.Engine, db func() *gorm.DB) {
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/monitor/status", func(c *gin.Context) {
		dbStatus := "skipped"
		if db != nil && db() != nil {
			dbStatus = "ok"
			if err := pingDB(c.Request.Context(), db()); err != nil {
				dbStatus = "error: " + err.Error()
			}
		}

		var mem runtime.MemStats
		runtime.ReadMemStats(&mem)

		code := http.StatusOK
		if dbStatus != "ok" && dbStatus != "skipped" {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"uptime_seconds": int64(time.Since(startedAt).Seconds()),
			"goroutines":     runtime.NumGoroutine(),
			"heap_alloc_mb":  float64(mem.HeapAlloc) / (1024 * 1024),
			"database":       dbStatus,
		})
	})
}

func pingDB(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}
