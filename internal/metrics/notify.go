package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 通知结果标签。
const (
	ResultSent     = "sent"
	ResultFailed   = "failed"
	ResultDisabled = "disabled"
)

var (
	notificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "portfolio",
			Subsystem: "mail",
			Name:      "notifications_total",
			Help:      "留言邮件通知总数（按结果区分）。",
		},
		[]string{"result"},
	)

	notificationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "portfolio",
			Subsystem: "mail",
			Name:      "send_duration_seconds",
			Help:      "SMTP 发送耗时分布（秒）。",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	notificationsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "portfolio",
			Subsystem: "mail",
			Name:      "sends_in_progress",
			Help:      "当前正在发送的邮件数量。",
		},
	)

	inboxEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "portfolio",
			Subsystem: "inbox",
			Name:      "events_published_total",
			Help:      "收件箱事件发布总数。",
		},
		[]string{"status"},
	)
)

// TrackNotification 记录一次邮件发送，返回的函数在发送结束时调用。
func TrackNotification() func(result string) {
	start := time.Now()
	notificationsInFlight.Inc()
	return func(result string) {
		notificationsInFlight.Dec()
		notificationDuration.Observe(time.Since(start).Seconds())
		notificationsTotal.WithLabelValues(result).Inc()
	}
}

// NotificationSkipped 记录未配置 SMTP 时跳过的通知。
func NotificationSkipped() {
	notificationsTotal.WithLabelValues(ResultDisabled).Inc()
}

// InboxPublished 记录收件箱事件发布结果。
func InboxPublished(err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	inboxEventsTotal.WithLabelValues(status).Inc()
}
