package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/marketplace-service/internal/config"
	"github.com/spec-kit/marketplace-service/internal/events"
)

// NotificationService handles emitting notifications for account events.
type NotificationService struct {
	logger *zap.Logger
	cfg    config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		logger: logger,
		cfg:    cfg,
	}
}

// Handle routes an event to its notification channels.
func (n *NotificationService) Handle(ctx context.Context, event events.Event) error {
	switch event.Type {
	case events.EventAccountRegistered:
		n.logger.Info("AccountRegistered", zap.String("account_id", event.AccountID), zap.String("role", string(event.Role)))
		n.logEmailNotification(ctx, event)
		n.logWebhookNotification(ctx, event)
	case events.EventAccountUpdated:
		n.logger.Info("AccountUpdated", zap.String("account_id", event.AccountID), zap.Any("payload", event.Payload))
		if p, ok := event.Payload.(events.AccountUpdatedPayload); ok && (p.EmailChanged || p.PasswordChanged) {
			n.logEmailNotification(ctx, event)
		}
		n.logWebhookNotification(ctx, event)
	case events.EventAccountDeleted:
		n.logger.Info("AccountDeleted", zap.String("account_id", event.AccountID), zap.String("role", string(event.Role)))
		n.logWebhookNotification(ctx, event)
	default:
		n.logger.Debug("ignoring event", zap.String("event_type", string(event.Type)))
	}
	return nil
}

func (n *NotificationService) logEmailNotification(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("email notification",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("account_id", event.AccountID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) logWebhookNotification(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("webhook notification",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("account_id", event.AccountID),
		zap.String("event_type", string(event.Type)))
}
