package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio/internal/api/middleware"
	"portfolio/internal/store"
)

type SkillsHandler struct {
	store *store.Store
}

func NewSkillsHandler(s *store.Store) *SkillsHandler {
	return &SkillsHandler{store: s}
}

// GetSkills 返回技术技能、软技能和技术栈三组列表。
func (h *SkillsHandler) GetSkills(c *gin.Context) {
	ctx := c.Request.Context()
	log := middleware.LoggerFromContext(c)

	technical, err := h.store.ListTechnicalSkills(ctx)
	if err != nil {
		log.Error("list technical skills failed", slog.Any("error", err))
		Internal(c, "failed to load skills")
		return
	}
	professional, err := h.store.ListProfessionalSkills(ctx)
	if err != nil {
		log.Error("list professional skills failed", slog.Any("error", err))
		Internal(c, "failed to load skills")
		return
	}
	techs, err := h.store.ListTechnologies(ctx)
	if err != nil {
		log.Error("list technologies failed", slog.Any("error", err))
		Internal(c, "failed to load skills")
		return
	}

	c.JSON(http.StatusOK, newSkillsResponse(technical, professional, techs))
}

// UpdateSkills 整表替换请求中出现的列表，未出现的保持不变。
func (h *SkillsHandler) UpdateSkills(c *gin.Context) {
	var req skillsUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.store.ReplaceSkills(c.Request.Context(), req.replacement()); err != nil {
		middleware.LoggerFromContext(c).Error("replace skills failed", slog.Any("error", err))
		Internal(c, "failed to update skills")
		return
	}
	Message(c, http.StatusOK, "Skills updated successfully")
}
