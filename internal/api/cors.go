package api

import (
	"net/http"

	"github.com/rs/cors"

	"portfolio/internal/api/middleware"
)

// WithCORS 在 Gin 引擎外层处理跨域；origins 为空时允许任意来源。
func WithCORS(h http.Handler, origins []string) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", middleware.CorrelationIDHeader, middleware.AdminSecretHeader},
		ExposedHeaders: []string{middleware.CorrelationIDHeader},
		MaxAge:         600,
	})
	return c.Handler(h)
}
