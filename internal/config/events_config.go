package config

type Events struct{}

var _ EventsConfig = Events{}

// GetRabbitMQURL is empty when booking events should only be logged
func (Events) GetRabbitMQURL() string {
	return GetEnv("RABBITMQ_URL", "")
}

func (Events) GetBookingConfirmedQueue() string {
	return GetEnv("BOOKING_CONFIRMED_QUEUE", "booking.confirmed")
}
