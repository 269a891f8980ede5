// Package booking implements the booking wizard: movie, show, ticket count,
// payment and confirmation, in that order.
package booking

// Step is the furthest wizard screen a draft has reached.
type Step int

const (
	StepMovieSelection Step = iota
	StepShowSelection
	StepTicketSelection
	StepPayment
)

func (s Step) String() string {
	switch s {
	case StepMovieSelection:
		return "movieSelection"
	case StepShowSelection:
		return "showSelection"
	case StepTicketSelection:
		return "ticketSelection"
	case StepPayment:
		return "payment"
	}
	return "unknown"
}

// Draft holds the selections collected so far. Going back to an earlier
// screen never clears a field, it only lowers Step.
type Draft struct {
	Step        Step    `json:"step"`
	MovieID     int64   `json:"movieId"`
	ShowID      int64   `json:"showId"`
	NoOfTickets int     `json:"noOfTickets"`
	TotalCost   float64 `json:"totalCost"`
	CardNumber  string  `json:"cardNumber"`
	NameOnCard  string  `json:"nameOnCard"`
}

func NewDraft() Draft {
	return Draft{NoOfTickets: 1}
}

// TotalCost is the price of count tickets at unitPrice.
func TotalCost(count int, unitPrice float64) float64 {
	return float64(count) * unitPrice
}
