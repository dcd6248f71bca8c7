package di

import (
	"campusroom/internal/events"
	"campusroom/transport/http"
)

// Service bundles the long-running pieces of the application: the HTTP
// server and the booking event consumer.
type Service struct {
	HTTP     *http.HTTP
	Consumer *events.BookingConsumer
}
