package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"portfolio/internal/api/middleware"
	"portfolio/internal/database"
	"portfolio/internal/errcode"
	"portfolio/internal/inbox"
	"portfolio/internal/mail"
	"portfolio/internal/metrics"
	"portfolio/internal/store"
)

// ContactNotifier 在留言保存后通知站点主人。
type ContactNotifier interface {
	NotifyContactMessage(ctx context.Context, msg database.ContactMessage) error
}

// ContactHandler 负责联系方式与访客留言。
type ContactHandler struct {
	store     *store.Store
	media     *MediaResolver
	notifier  ContactNotifier
	publisher inbox.Publisher
}

// NewContactHandler 构造 ContactHandler；publisher 为 nil 时不推送收件箱事件。
func NewContactHandler(s *store.Store, media *MediaResolver, notifier ContactNotifier, publisher inbox.Publisher) *ContactHandler {
	if publisher == nil {
		publisher = inbox.NopPublisher{}
	}
	return &ContactHandler{store: s, media: media, notifier: notifier, publisher: publisher}
}

// GetContactInfo 返回联系方式与上线的社交链接。
func (h *ContactHandler) GetContactInfo(c *gin.Context) {
	ctx := c.Request.Context()
	log := middleware.LoggerFromContext(c)

	profile, err := h.store.GetProfile(ctx)
	if err != nil {
		log.Error("load profile failed", slog.Any("error", err))
		Internal(c, "failed to load contact info")
		return
	}
	links, err := h.store.ListSocialLinks(ctx)
	if err != nil {
		log.Error("list social links failed", slog.Any("error", err))
		Internal(c, "failed to load contact info")
		return
	}
	c.JSON(http.StatusOK, newContactInfoResponse(c, h.media, profile, links))
}

// UpdateContactInfo 更新邮箱/电话/地址，并在给出 social 时替换社交链接。
func (h *ContactHandler) UpdateContactInfo(c *gin.Context) {
	var req contactUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.store.UpdateContactInfo(c.Request.Context(), req.update()); err != nil {
		middleware.LoggerFromContext(c).Error("update contact info failed", slog.Any("error", err))
		Internal(c, "failed to update contact info")
		return
	}
	Message(c, http.StatusOK, "Contact info updated successfully")
}

// SendMessage 保存访客留言后发送邮件通知并推送收件箱事件。
// 留言一旦保存即返回 201，通知失败只记录日志。
func (h *ContactHandler) SendMessage(c *gin.Context) {
	var req contactMessageRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	log := middleware.LoggerFromContext(c)

	msg := database.ContactMessage{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Subject: strings.TrimSpace(req.Subject),
		Message: req.Message,
	}
	if err := h.store.CreateContactMessage(ctx, &msg); err != nil {
		log.Error("save contact message failed", slog.Any("error", err))
		Internal(c, "failed to save message")
		return
	}
	log = log.With(slog.Uint64("message_id", uint64(msg.ID)))

	deliveryCode := errcode.OK
	if h.notifier == nil {
		deliveryCode = errcode.MailDisabled
	} else if err := h.notifier.NotifyContactMessage(ctx, msg); err != nil {
		switch {
		case errors.Is(err, mail.ErrDisabled):
			deliveryCode = errcode.MailDisabled
		case errors.Is(err, mail.ErrDelivery):
			deliveryCode = errcode.MailDeliveryFailed
			log.Warn("contact notification not delivered", slog.Any("error", err))
		default:
			deliveryCode = errcode.SystemError
			log.Error("contact notification failed", slog.Any("error", err))
		}
	}

	err := h.publisher.Publish(context.WithoutCancel(ctx), inbox.NewMessageEvent(msg, deliveryCode))
	metrics.InboxPublished(err)
	if err != nil {
		log.Warn("publish inbox event failed", slog.Any("error", err))
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Message sent successfully!", "id": msg.ID})
}
