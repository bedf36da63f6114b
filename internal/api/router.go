package api

import (
	"database/sql"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	healthcheck "github.com/tavsec/gin-healthcheck"
	"github.com/tavsec/gin-healthcheck/checks"
	hcconfig "github.com/tavsec/gin-healthcheck/config"

	"portfolio/internal/api/middleware"
	"portfolio/internal/metrics"
)

// NewRouter 构建 Gin 路由引擎并挂载通用中间件、健康检查与指标端点。
// sqlDB 为 nil 时不注册 /healthz。
func NewRouter(logger *slog.Logger, sqlDB *sql.DB) *gin.Engine {
	if logger == nil {
		logger = slog.Default()
	}
	registerValidation()

	router := gin.New()
	// 带与不带尾部斜杠的路径都显式注册，不做重定向。
	router.RedirectTrailingSlash = false
	router.Use(
		gin.Recovery(),
		middleware.CorrelationIDMiddleware(),
		middleware.SlogLoggerMiddleware(logger),
		metrics.GinMiddleware(),
	)

	if sqlDB != nil {
		if err := healthcheck.New(router, hcconfig.DefaultConfig(), []checks.Check{checks.SqlCheck{Sql: sqlDB}}); err != nil {
			logger.Error("register health check failed", slog.Any("error", err))
		}
	}
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
