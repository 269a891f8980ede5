package events

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogPublisher writes events to the application log when no broker is configured.
type LogPublisher struct {
	logger zerolog.Logger
}

var _ Publisher = LogPublisher{}

func NewLogPublisher() LogPublisher {
	return LogPublisher{logger: log.Logger}
}

// NewLogPublisherWith is used when events should go to a specific logger.
func NewLogPublisherWith(logger zerolog.Logger) LogPublisher {
	return LogPublisher{logger: logger}
}

func (p LogPublisher) PublishBookingConfirmed(_ context.Context, event BookingConfirmed) error {
	p.logger.Info().
		Str("event", BookingConfirmedType).
		Int64("bookingId", event.BookingID).
		Int64("webUserId", event.WebUserID).
		Int64("movieId", event.MovieID).
		Int64("showId", event.ShowID).
		Int("noOfTickets", event.NoOfTickets).
		Float64("totalCost", event.TotalCost).
		Time("confirmedAt", event.ConfirmedAt).
		Msg("Booking confirmed")
	return nil
}
