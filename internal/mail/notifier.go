package mail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"text/template"
	"time"

	"portfolio/internal/config"
	"portfolio/internal/database"
	"portfolio/internal/metrics"
)

// ErrDisabled 表示未配置 SMTP，通知被跳过。
var ErrDisabled = errors.New("mail delivery disabled")

// ErrDelivery 包装 SMTP 投递失败；其他错误属于系统错误。
var ErrDelivery = errors.New("mail delivery failed")

const subjectPrefix = "Portfolio Contact: "

var bodyTemplate = template.Must(template.New("contact").Parse(`New message from your portfolio:

Name: {{.Name}}
Email: {{.Email}}
Subject: {{.Subject}}

Message:
{{.Message}}
`))

// Notifier 在访客留言保存后通知站点主人。
type Notifier struct {
	sender  Sender
	from    string
	to      []string
	timeout time.Duration
	logger  *slog.Logger
}

// NewNotifier 构造 Notifier；sender 为 nil 时所有通知返回 ErrDisabled。
func NewNotifier(cfg config.MailConfig, sender Sender, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Notifier{
		sender:  sender,
		from:    cfg.From,
		to:      []string{cfg.ContactTo},
		timeout: timeout,
		logger:  logger,
	}
}

// Enabled 表示是否会实际发送邮件。
func (n *Notifier) Enabled() bool { return n != nil && n.sender != nil }

// NotifyContactMessage 同步发送通知，耗时受 timeout 限制且不随请求取消而中断。
func (n *Notifier) NotifyContactMessage(ctx context.Context, msg database.ContactMessage) error {
	if !n.Enabled() {
		metrics.NotificationSkipped()
		if n != nil {
			n.logger.Info("mail delivery disabled, notification skipped", slog.Uint64("message_id", uint64(msg.ID)))
		}
		return ErrDisabled
	}
	log := n.logger.With(slog.Uint64("message_id", uint64(msg.ID)))

	body, err := renderBody(msg)
	if err != nil {
		log.Error("render contact notification failed", slog.Any("error", err))
		return err
	}

	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
	defer cancel()

	done := metrics.TrackNotification()
	err = n.sender.Send(sendCtx, Message{
		From:    n.from,
		To:      n.to,
		Subject: subjectPrefix + msg.Subject,
		Body:    body,
	})
	if err != nil {
		done(metrics.ResultFailed)
		log.Error("send contact notification failed", slog.Any("error", err))
		return fmt.Errorf("notify contact message %d: %w: %w", msg.ID, ErrDelivery, err)
	}

	done(metrics.ResultSent)
	log.Info("contact notification sent")
	return nil
}

func renderBody(msg database.ContactMessage) (string, error) {
	var buf bytes.Buffer
	if err := bodyTemplate.Execute(&buf, msg); err != nil {
		return "", fmt.Errorf("render notification: %w", err)
	}
	return buf.String(), nil
}
