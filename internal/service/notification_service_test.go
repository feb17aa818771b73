package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/newsroom/internal/config"
	"github.com/spec-kit/newsroom/internal/events"
)

func TestNotificationServiceSwallowsDeliveryFailures(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	mailer := &recordingMailer{err: errRelayDown}
	NewNotificationService(dispatcher, mailer, zap.New(core), config.NotificationConfig{}).RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.Event{
		Type:      events.EventArticleApproved,
		ArticleID: "a-1",
		Payload:   events.ArticleApprovedPayload{Title: "Story", JournalistEmail: "j@example.com"},
	})

	require.NoError(t, err)
	warnings := logs.FilterMessage("approval notice not delivered").All()
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].ContextMap()["error"], "deliver notification to j@example.com")
}

func TestNotificationServiceSkipsMissingAddress(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	mailer := &recordingMailer{}
	NewNotificationService(dispatcher, mailer, zap.NewNop(), config.NotificationConfig{}).RegisterHandlers()

	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{
		Type:    events.EventArticleApproved,
		Payload: events.ArticleApprovedPayload{Title: "Orphan"},
	}))
	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{
		Type:    events.EventArticlePublished,
		Payload: events.ArticlePublishedPayload{Title: "Ignored"},
	}))
	assert.Zero(t, mailer.count())
}
