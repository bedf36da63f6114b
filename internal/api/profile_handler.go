package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio/internal/api/middleware"
	"portfolio/internal/store"
)

// ProfileHandler 负责站点主人基本信息的读取与更新。
type ProfileHandler struct {
	store *store.Store
	media *MediaResolver
}

// NewProfileHandler 构造 ProfileHandler。
func NewProfileHandler(s *store.Store, media *MediaResolver) *ProfileHandler {
	return &ProfileHandler{store: s, media: media}
}

// GetProfile 返回 Profile，首次访问时自动创建默认内容。
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	profile, err := h.store.GetProfile(c.Request.Context())
	if err != nil {
		middleware.LoggerFromContext(c).Error("load profile failed", slog.Any("error", err))
		Internal(c, "failed to load profile")
		return
	}
	c.JSON(http.StatusOK, newProfileResponse(c, h.media, profile))
}

// UpdateProfile 部分更新 Profile，仅写入请求中出现的字段。
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req profileUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	profile, err := h.store.UpdateProfile(c.Request.Context(), req.updates())
	if err != nil {
		middleware.LoggerFromContext(c).Error("update profile failed", slog.Any("error", err))
		Internal(c, "failed to update profile")
		return
	}
	c.JSON(http.StatusOK, newProfileResponse(c, h.media, profile))
}
