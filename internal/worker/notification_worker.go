package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/hospital-service/internal/service"
)

// StartNotificationWorker attaches the notification handlers to the event
// dispatcher. Handlers run synchronously on the publishing request.
func StartNotificationWorker(notificationService *service.NotificationService, logger *zap.Logger) int {
	if notificationService == nil {
		return 0
	}
	subscribed := notificationService.RegisterHandlers()
	types := make([]string, 0, len(subscribed))
	for _, t := range subscribed {
		types = append(types, string(t))
	}
	logger.Info("notification worker started", zap.Strings("event_types", types))
	return len(subscribed)
}
