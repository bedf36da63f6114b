package mail

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/internal/config"
	"portfolio/internal/database"
)

type fakeSender struct {
	sent        []Message
	err         error
	hasDeadline bool
}

func (f *fakeSender) Send(ctx context.Context, msg Message) error {
	_, f.hasDeadline = ctx.Deadline()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	f.sent = append(f.sent, msg)
	return f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testMailConfig() config.MailConfig {
	return config.MailConfig{
		Host:      "smtp.example.com",
		Port:      587,
		From:      "noreply@example.com",
		ContactTo: "owner@example.com",
		Timeout:   time.Second,
	}
}

func sampleMessage() database.ContactMessage {
	return database.ContactMessage{
		ID:      7,
		Name:    "Ada",
		Email:   "ada@example.com",
		Subject: "Hello",
		Message: "Line one\nLine two",
	}
}

func TestNotifyContactMessage_Sends(t *testing.T) {
	sender := &fakeSender{}
	n := NewNotifier(testMailConfig(), sender, discardLogger())

	require.NoError(t, n.NotifyContactMessage(context.Background(), sampleMessage()))
	require.Len(t, sender.sent, 1)

	got := sender.sent[0]
	assert.Equal(t, "noreply@example.com", got.From)
	assert.Equal(t, []string{"owner@example.com"}, got.To)
	assert.Equal(t, "Portfolio Contact: Hello", got.Subject)
	assert.Equal(t, "New message from your portfolio:\n\nName: Ada\nEmail: ada@example.com\nSubject: Hello\n\nMessage:\nLine one\nLine two\n", got.Body)
	assert.True(t, sender.hasDeadline)
}

func TestNotifyContactMessage_Failure(t *testing.T) {
	sender := &fakeSender{err: errors.New("connection refused")}
	n := NewNotifier(testMailConfig(), sender, discardLogger())

	err := n.NotifyContactMessage(context.Background(), sampleMessage())
	require.ErrorIs(t, err, ErrDelivery)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestNotifyContactMessage_Disabled(t *testing.T) {
	n := NewNotifier(config.MailConfig{}, nil, discardLogger())

	assert.False(t, n.Enabled())
	assert.ErrorIs(t, n.NotifyContactMessage(context.Background(), sampleMessage()), ErrDisabled)
}

func TestNotifyContactMessage_IgnoresRequestCancellation(t *testing.T) {
	sender := &fakeSender{}
	n := NewNotifier(testMailConfig(), sender, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, n.NotifyContactMessage(ctx, sampleMessage()))
	assert.Len(t, sender.sent, 1)
}

func TestBuildMessage(t *testing.T) {
	raw := string(buildMessage(Message{
		From:    "noreply@example.com",
		To:      []string{"owner@example.com"},
		Subject: "Portfolio Contact: hi\r\nBcc: victim@example.com",
		Body:    "a\nb",
	}, time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)))

	headers, body, found := strings.Cut(raw, "\r\n\r\n")
	require.True(t, found)
	assert.Equal(t, "a\r\nb", body)
	assert.Contains(t, headers, "To: owner@example.com\r\n")
	assert.Contains(t, headers, "Date: Fri, 01 Mar 2024 12:00:00 +0000")
	assert.NotContains(t, headers, "\r\nBcc:")
}
