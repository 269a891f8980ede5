package model

type Booking struct {
	BookingID   int64   `json:"bookingId,omitempty"`
	NoOfTickets int     `json:"noOfTickets" validate:"min=1"`
	TotalCost   float64 `json:"totalCost" validate:"min=0"`
	CardNumber  string  `json:"cardNumber" validate:"required"`
	NameOnCard  string  `json:"nameOnCard" validate:"required"`
	User        *User   `json:"user,omitempty" validate:"-"`
	Show        *Show   `json:"show,omitempty" validate:"-"`
}

type Ticket struct {
	TicketID    int64    `json:"ticketId,omitempty"`
	TicketClass string   `json:"ticketClass" validate:"required,oneof=GOLD SILVER"`
	Price       float64  `json:"price" validate:"min=0"`
	Booking     *Booking `json:"booking,omitempty" validate:"-"`
}

// Page is the paged envelope returned by list endpoints that take page and size.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
}
