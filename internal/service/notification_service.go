package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/hospital-service/internal/config"
	"github.com/spec-kit/hospital-service/internal/events"
)

// NotificationService handles emitting notifications for account events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to account events and returns the subscribed types.
func (n *NotificationService) RegisterHandlers() []events.EventType {
	if n.dispatcher == nil {
		return nil
	}
	handlers := map[events.EventType]events.EventHandler{
		events.EventAccountRegistered:      n.handleAccountRegistered,
		events.EventAccountPasswordChanged: n.handlePasswordChanged,
		events.EventAccountUpdated:         n.handleAccountChanged,
		events.EventAccountDeleted:         n.handleAccountChanged,
	}
	subscribed := make([]events.EventType, 0, len(handlers))
	for eventType, handler := range handlers {
		n.dispatcher.Subscribe(eventType, handler)
		subscribed = append(subscribed, eventType)
	}
	return subscribed
}

func (n *NotificationService) handleAccountRegistered(ctx context.Context, event events.Event) error {
	n.logger.Info("AccountRegistered", zap.String("account_id", event.AccountID))
	if payload, ok := event.Payload.(events.AccountRegisteredPayload); ok {
		n.sendEmailNotificationStub(ctx, event, payload.Email)
	}
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handlePasswordChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("AccountPasswordChanged", zap.String("account_id", event.AccountID))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleAccountChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("AccountChanged",
		zap.String("account_id", event.AccountID),
		zap.String("event_type", string(event.Type)))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event events.Event, to string) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" || to == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("to", to),
		zap.String("account_id", event.AccountID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("account_id", event.AccountID),
		zap.String("event_type", string(event.Type)))
}
