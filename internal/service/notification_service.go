package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/newsroom/internal/config"
	"github.com/spec-kit/newsroom/internal/events"
	"github.com/spec-kit/newsroom/internal/notify"
)

// NotificationService sends approval notices to journalists.
type NotificationService struct {
	dispatcher events.Dispatcher
	mailer     notify.Mailer
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, mailer notify.Mailer, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		mailer:     mailer,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventArticleApproved, n.handleArticleApproved)
}

// handleArticleApproved makes a single delivery attempt. Failures are logged
// and dropped so the approval itself always stands.
func (n *NotificationService) handleArticleApproved(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ArticleApprovedPayload)
	if !ok {
		n.logger.Warn("unexpected approval payload", zap.String("article_id", event.ArticleID))
		return nil
	}
	if strings.TrimSpace(payload.JournalistEmail) == "" {
		n.logger.Info("approval notice skipped: journalist has no address", zap.String("article_id", event.ArticleID))
		return nil
	}
	if n.mailer == nil {
		return nil
	}

	msg := notify.Message{
		From:    n.cfg.EmailFrom,
		To:      []string{payload.JournalistEmail},
		Subject: "Your article has been approved",
		Body:    fmt.Sprintf("Congratulations! Your article %q has been approved.", payload.Title),
	}
	if err := n.mailer.Send(ctx, msg); err != nil {
		var deliveryErr *notify.NotificationDeliveryError
		if !errors.As(err, &deliveryErr) {
			err = &notify.NotificationDeliveryError{Recipients: msg.To, Err: err}
		}
		n.logger.Warn("approval notice not delivered",
			zap.String("article_id", event.ArticleID),
			zap.Error(err))
		return nil
	}
	n.logger.Info("approval notice sent", zap.String("article_id", event.ArticleID))
	return nil
}
