package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio/internal/api/middleware"
	"portfolio/internal/store"
)

type ExperienceHandler struct {
	store *store.Store
}

func NewExperienceHandler(s *store.Store) *ExperienceHandler {
	return &ExperienceHandler{store: s}
}

// ListExperience 返回上线的经历，?type= 按类型过滤。
func (h *ExperienceHandler) ListExperience(c *gin.Context) {
	items, err := h.store.ListExperience(c.Request.Context(), store.ExperienceFilter{Type: c.Query("type")})
	if err != nil {
		middleware.LoggerFromContext(c).Error("list experience failed", slog.Any("error", err))
		Internal(c, "failed to load experience")
		return
	}

	resp := make([]experienceItem, 0, len(items))
	for i := range items {
		resp = append(resp, newExperienceItem(&items[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ExperienceHandler) ReplaceExperience(c *gin.Context) {
	var req experienceUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	rows, err := req.rows()
	if err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.store.ReplaceExperience(c.Request.Context(), rows); err != nil {
		middleware.LoggerFromContext(c).Error("replace experience failed", slog.Any("error", err))
		Internal(c, "failed to update experience")
		return
	}
	Message(c, http.StatusOK, "Experience updated successfully")
}
