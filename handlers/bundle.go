package handlers

import (
	"evcharge/services/booking"
	"evcharge/services/notification"
	"evcharge/services/station"
	"evcharge/services/user"
)

// HandlerBundle groups the endpoint handlers and the services they call.
type HandlerBundle struct {
	BookingSvc booking.BookingService
	StationSvc station.StationService
	UserSvc    user.UserService
	Notifier   *notification.Broadcaster
}
