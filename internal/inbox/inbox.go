// Package inbox 把新留言通过 Redis Pub/Sub 推送给站点主人的实时收件箱。
package inbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"portfolio/internal/database"
)

// Channel 是收件箱事件使用的 Redis 频道。
const Channel = "portfolio:inbox"

// EventMessageReceived 是新留言事件的类型。
const EventMessageReceived = "message.received"

// Event 是推送给客户端的收件箱消息。
// 注意：字段名与前端解析保持一致。
type Event struct {
	Type         string    `json:"type"`
	MessageID    uint      `json:"message_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Subject      string    `json:"subject"`
	CreatedAt    time.Time `json:"created_at"`
	DeliveryCode int       `json:"delivery_code"`
}

// NewMessageEvent 根据留言构造事件，deliveryCode 取自 errcode。
func NewMessageEvent(msg database.ContactMessage, deliveryCode int) Event {
	return Event{
		Type:         EventMessageReceived,
		MessageID:    msg.ID,
		Name:         msg.Name,
		Email:        msg.Email,
		Subject:      msg.Subject,
		CreatedAt:    msg.CreatedAt,
		DeliveryCode: deliveryCode,
	}
}

// Publisher 发布收件箱事件。
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type redisPublishClient interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisPublisher 把事件以 JSON 发布到 Channel。
type RedisPublisher struct {
	client redisPublishClient
}

// NewRedisPublisher 构造 RedisPublisher。
func NewRedisPublisher(client redisPublishClient) *RedisPublisher {
	return &RedisPublisher{client: client}
}

// Publish 实现 Publisher。
func (p *RedisPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode inbox event: %w", err)
	}
	if err := p.client.Publish(ctx, Channel, payload).Err(); err != nil {
		return fmt.Errorf("publish inbox event: %w", err)
	}
	return nil
}

// NopPublisher 在未配置 Redis 时丢弃事件。
type NopPublisher struct{}

// Publish 实现 Publisher。
func (NopPublisher) Publish(context.Context, Event) error { return nil }
