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

// InboxHandler 供站点主人查看和标记访客留言。
type InboxHandler struct {
	store *store.Store
}

func NewInboxHandler(s *store.Store) *InboxHandler {
	return &InboxHandler{store: s}
}

// ListMessages 按时间倒序返回留言，?unread=true 只返回未读。
func (h *InboxHandler) ListMessages(c *gin.Context) {
	msgs, err := h.store.ListContactMessages(c.Request.Context(), store.MessageFilter{UnreadOnly: c.Query("unread") == "true"})
	if err != nil {
		middleware.LoggerFromContext(c).Error("list contact messages failed", slog.Any("error", err))
		Internal(c, "failed to load messages")
		return
	}

	items := make([]contactMessageItem, 0, len(msgs))
	for i := range msgs {
		items = append(items, newContactMessageItem(&msgs[i]))
	}
	c.JSON(http.StatusOK, items)
}

func (h *InboxHandler) UpdateMessage(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		NotFound(c, "message not found")
		return
	}

	var req messageFlagsRequest
	if !bindJSON(c, &req) {
		return
	}

	msg, err := h.store.UpdateContactMessageFlags(c.Request.Context(), uint(id), store.MessageFlags{
		IsRead:    req.IsRead,
		IsReplied: req.IsReplied,
	})
	if errors.Is(err, store.ErrNotFound) {
		NotFound(c, "message not found")
		return
	}
	if err != nil {
		middleware.LoggerFromContext(c).Error("update contact message failed", slog.Uint64("message_id", id), slog.Any("error", err))
		Internal(c, "failed to update message")
		return
	}
	c.JSON(http.StatusOK, newContactMessageItem(msg))
}
