package inbox

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/internal/database"
	"portfolio/internal/errcode"
)

type fakePublishClient struct {
	channel string
	payload []byte
	err     error
}

func (f *fakePublishClient) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	f.channel = channel
	f.payload, _ = message.([]byte)
	cmd := redis.NewIntCmd(ctx)
	if f.err != nil {
		cmd.SetErr(f.err)
	} else {
		cmd.SetVal(1)
	}
	return cmd
}

func TestRedisPublisher_Publish(t *testing.T) {
	client := &fakePublishClient{}
	created := time.Date(2024, time.May, 4, 10, 0, 0, 0, time.UTC)
	event := NewMessageEvent(database.ContactMessage{
		ID: 3, Name: "Ada", Email: "ada@example.com", Subject: "Hi", CreatedAt: created,
	}, errcode.MailDeliveryFailed)

	require.NoError(t, NewRedisPublisher(client).Publish(context.Background(), event))
	assert.Equal(t, Channel, client.channel)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(client.payload, &decoded))
	assert.Equal(t, EventMessageReceived, decoded["type"])
	assert.EqualValues(t, 3, decoded["message_id"])
	assert.EqualValues(t, errcode.MailDeliveryFailed, decoded["delivery_code"])
	assert.Equal(t, "2024-05-04T10:00:00Z", decoded["created_at"])
}

func TestRedisPublisher_Error(t *testing.T) {
	client := &fakePublishClient{err: errors.New("redis down")}
	err := NewRedisPublisher(client).Publish(context.Background(), Event{})
	assert.ErrorContains(t, err, "redis down")
}
