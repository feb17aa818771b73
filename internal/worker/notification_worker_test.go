package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/newsroom/internal/config"
	"github.com/spec-kit/newsroom/internal/events"
	"github.com/spec-kit/newsroom/internal/notify"
	"github.com/spec-kit/newsroom/internal/service"
)

type countingMailer struct {
	sent []notify.Message
}

func (m *countingMailer) Send(_ context.Context, msg notify.Message) error {
	m.sent = append(m.sent, msg)
	return nil
}

func TestStartNotificationWorker(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	mailer := &countingMailer{}
	notifications := service.NewNotificationService(dispatcher, mailer, zap.NewNop(), config.NotificationConfig{EmailFrom: "desk@example.com"})

	StartNotificationWorker(dispatcher, notifications, nil)

	err := dispatcher.Publish(context.Background(), events.Event{
		Type:      events.EventArticleApproved,
		ArticleID: "a1",
		Payload:   events.ArticleApprovedPayload{Title: "Harbour reopens", JournalistEmail: "jane@example.com"},
	})
	require.NoError(t, err)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, []string{"jane@example.com"}, mailer.sent[0].To)
}

func TestStartNotificationWorkerNilSubscribers(t *testing.T) {
	assert.NotPanics(t, func() {
		StartNotificationWorker(nil, nil, nil)
	})
}
