package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"portfolio/internal/api/middleware"
	"portfolio/internal/store"
)

// ProjectHandler 负责项目列表、详情与整表替换。
type ProjectHandler struct {
	store *store.Store
	media *MediaResolver
}

// NewProjectHandler 构造 ProjectHandler。
func NewProjectHandler(s *store.Store, media *MediaResolver) *ProjectHandler {
	return &ProjectHandler{store: s, media: media}
}

// projectFilterFromQuery 解析 featured 与 limit；limit 非整数或不大于 0 时忽略。
func projectFilterFromQuery(c *gin.Context) store.ProjectFilter {
	filter := store.ProjectFilter{FeaturedOnly: c.Query("featured") == "true"}
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			filter.Limit = n
		}
	}
	return filter
}

// ListProjects 返回上线项目，支持 ?featured=true 与 ?limit=N。
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	projects, err := h.store.ListProjects(c.Request.Context(), projectFilterFromQuery(c))
	if err != nil {
		middleware.LoggerFromContext(c).Error("list projects failed", slog.Any("error", err))
		Internal(c, "failed to load projects")
		return
	}

	items := make([]projectListItem, 0, len(projects))
	for i := range projects {
		items = append(items, newProjectListItem(c, h.media, &projects[i]))
	}
	c.JSON(http.StatusOK, items)
}

// GetProject 返回单个上线项目；ID 非法、不存在或已下线均返回 404。
func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		NotFound(c, "project not found")
		return
	}

	project, err := h.store.GetActiveProject(c.Request.Context(), uint(id))
	if errors.Is(err, store.ErrNotFound) {
		NotFound(c, "project not found")
		return
	}
	if err != nil {
		middleware.LoggerFromContext(c).Error("get project failed", slog.Uint64("project_id", id), slog.Any("error", err))
		Internal(c, "failed to load project")
		return
	}
	c.JSON(http.StatusOK, newProjectDetail(c, h.media, project))
}

// ReplaceProjects 用请求中的列表替换全部项目。
func (h *ProjectHandler) ReplaceProjects(c *gin.Context) {
	var req projectsUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	err := h.store.ReplaceProjects(c.Request.Context(), req.inputs())
	if errors.Is(err, store.ErrUnknownTechnology) {
		ValidationFailed(c, map[string]string{"technologies": err.Error()})
		return
	}
	if err != nil {
		middleware.LoggerFromContext(c).Error("replace projects failed", slog.Any("error", err))
		Internal(c, "failed to update projects")
		return
	}
	Message(c, http.StatusOK, "Projects updated successfully")
}
