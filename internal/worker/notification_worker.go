package worker

import (
	"github.com/spec-kit/newsroom/internal/events"
	"github.com/spec-kit/newsroom/internal/messaging"
	"github.com/spec-kit/newsroom/internal/service"
)

// StartNotificationWorker registers the event subscribers on dispatcher.
// Either subscriber may be nil.
func StartNotificationWorker(dispatcher events.Dispatcher, notificationService *service.NotificationService, feed *messaging.EventPublisher) {
	if notificationService != nil {
		notificationService.RegisterHandlers()
	}
	if dispatcher != nil {
		feed.Register(dispatcher)
	}
}
