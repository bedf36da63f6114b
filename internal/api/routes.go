package api

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"portfolio/internal/api/middleware"
	"portfolio/internal/inbox"
	"portfolio/internal/store"
)

// Dependencies 汇总路由所需的组件，可选组件为 nil 时对应功能降级。
type Dependencies struct {
	Store          *store.Store
	Media          *MediaResolver
	Notifier       ContactNotifier
	Publisher      inbox.Publisher
	RedisClient    *redis.Client
	AdminSecret    string
	AllowedOrigins []string
	Logger         *slog.Logger
}

// RegisterRoutes 在 basePath（例如 /api）下注册全部接口。
func RegisterRoutes(router *gin.Engine, basePath string, deps Dependencies) {
	media := deps.Media
	if media == nil {
		media = NewMediaResolver(nil, "")
	}

	profileHandler := NewProfileHandler(deps.Store, media)
	skillsHandler := NewSkillsHandler(deps.Store)
	projectHandler := NewProjectHandler(deps.Store, media)
	experienceHandler := NewExperienceHandler(deps.Store)
	contactHandler := NewContactHandler(deps.Store, media, deps.Notifier, deps.Publisher)
	inboxHandler := NewInboxHandler(deps.Store)
	wsHandler := NewWsHandler(deps.RedisClient, deps.AdminSecret, deps.Logger, deps.AllowedOrigins)

	group := router.Group(basePath)
	{
		handle(group, "GET", "/profile", profileHandler.GetProfile)
		handle(group, "PUT", "/profile", profileHandler.UpdateProfile)

		handle(group, "GET", "/skills", skillsHandler.GetSkills)
		handle(group, "PUT", "/skills", skillsHandler.UpdateSkills)

		handle(group, "GET", "/projects", projectHandler.ListProjects)
		handle(group, "PUT", "/projects", projectHandler.ReplaceProjects)
		handle(group, "GET", "/projects/:id", projectHandler.GetProject)

		handle(group, "GET", "/experience", experienceHandler.ListExperience)
		handle(group, "PUT", "/experience", experienceHandler.ReplaceExperience)

		handle(group, "GET", "/contact", contactHandler.GetContactInfo)
		handle(group, "PUT", "/contact", contactHandler.UpdateContactInfo)
		handle(group, "POST", "/contact/send", contactHandler.SendMessage)

		// WebSocket 在首帧内鉴权，浏览器无法为其设置自定义 Header。
		group.GET("/admin/inbox/ws", wsHandler.HandleConnection)

		adminGroup := group.Group("/admin")
		adminGroup.Use(middleware.AdminSecretMiddleware(deps.AdminSecret))
		{
			handle(adminGroup, "GET", "/messages", inboxHandler.ListMessages)
			handle(adminGroup, "PATCH", "/messages/:id", inboxHandler.UpdateMessage)
		}
	}
}

// handle 同时注册 path 与 path/。
func handle(group *gin.RouterGroup, method, path string, h gin.HandlerFunc) {
	path = strings.TrimRight(path, "/")
	group.Handle(method, path, h)
	group.Handle(method, path+"/", h)
}
