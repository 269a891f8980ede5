// Package events publishes booking domain events.
package events

import (
	"context"
	"time"
)

const BookingConfirmedType = "booking.confirmed"

type BookingConfirmed struct {
	BookingID   int64     `json:"bookingId"`
	WebUserID   int64     `json:"webUserId"`
	MovieID     int64     `json:"movieId"`
	ShowID      int64     `json:"showId"`
	NoOfTickets int       `json:"noOfTickets"`
	TotalCost   float64   `json:"totalCost"`
	ConfirmedAt time.Time `json:"confirmedAt"`
}

// Publisher failures are reported to the caller, who is free to ignore them.
type Publisher interface {
	PublishBookingConfirmed(ctx context.Context, event BookingConfirmed) error
}
