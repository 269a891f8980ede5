package booking

import (
	apperrors "github.com/jrsteele09/go-cinema-booking/internal/errors"
	"github.com/jrsteele09/go-cinema-booking/model"
)

// Each wizard screen is its own type. A state can only be built from the
// state before it or resumed from a draft that has reached it.

type MovieSelection struct{ draft Draft }

type ShowSelection struct{ draft Draft }

type TicketSelection struct{ draft Draft }

type Payment struct{ draft Draft }

type BookingSuccess struct {
	BookingID int64
}

func Start(d Draft) MovieSelection {
	if d.NoOfTickets < 1 {
		d.NoOfTickets = 1
	}
	return MovieSelection{draft: d}
}

func (s MovieSelection) Draft() Draft { return s.draft }

func (s MovieSelection) Select(movieID int64) ShowSelection {
	d := s.draft
	d.MovieID = movieID
	d.Step = StepShowSelection
	return ShowSelection{draft: d}
}

func (s ShowSelection) Draft() Draft   { return s.draft }
func (s ShowSelection) MovieID() int64 { return s.draft.MovieID }

func (s ShowSelection) Select(showID int64) TicketSelection {
	d := s.draft
	d.ShowID = showID
	d.Step = StepTicketSelection
	return TicketSelection{draft: d}
}

func (s TicketSelection) Draft() Draft  { return s.draft }
func (s TicketSelection) ShowID() int64 { return s.draft.ShowID }

// Choose prices count tickets against the gold class of the show snapshot.
// The seat limit is advisory and is not checked here.
func (s TicketSelection) Choose(show model.Show, count int) (Payment, error) {
	if count < 1 {
		return Payment{}, apperrors.Wrapf(apperrors.ErrInvalidTicketCount, "[TicketSelection Choose] %d tickets", count)
	}
	d := s.draft
	d.NoOfTickets = count
	d.TotalCost = TotalCost(count, show.ClassCostGold)
	d.Step = StepPayment
	return Payment{draft: d}, nil
}

func (s Payment) Draft() Draft { return s.draft }

// WithCard keeps the card number and name in the draft so a failed payment
// can be retried. Expiry and CVV are never stored.
func (s Payment) WithCard(card Card) Payment {
	d := s.draft
	d.CardNumber = card.Number
	d.NameOnCard = card.NameOnCard
	return Payment{draft: d}
}

func (s Payment) Complete(bookingID int64) BookingSuccess {
	return BookingSuccess{BookingID: bookingID}
}

func ResumeShowSelection(d Draft, movieID int64) (ShowSelection, error) {
	if d.Step < StepShowSelection || d.MovieID == 0 || d.MovieID != movieID {
		return ShowSelection{}, apperrors.Wrapf(apperrors.ErrDraftIncomplete, "[booking ResumeShowSelection] movie %d not selected", movieID)
	}
	return ShowSelection{draft: d}, nil
}

func ResumeTicketSelection(d Draft, showID int64) (TicketSelection, error) {
	if d.Step < StepTicketSelection || d.MovieID == 0 || d.ShowID == 0 || d.ShowID != showID {
		return TicketSelection{}, apperrors.Wrapf(apperrors.ErrDraftIncomplete, "[booking ResumeTicketSelection] show %d not selected", showID)
	}
	return TicketSelection{draft: d}, nil
}

func ResumePayment(d Draft) (Payment, error) {
	if d.Step < StepPayment || d.MovieID == 0 || d.ShowID == 0 || d.NoOfTickets < 1 {
		return Payment{}, apperrors.Wrapf(apperrors.ErrDraftIncomplete, "[booking ResumePayment] tickets not chosen")
	}
	return Payment{draft: d}, nil
}
