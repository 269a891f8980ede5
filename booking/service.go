package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jrsteele09/go-cinema-booking/backend"
	"github.com/jrsteele09/go-cinema-booking/events"
	apperrors "github.com/jrsteele09/go-cinema-booking/internal/errors"
	"github.com/jrsteele09/go-cinema-booking/internal/validation"
	"github.com/jrsteele09/go-cinema-booking/model"
	"github.com/rs/zerolog/log"
)

// publishTimeout caps how long a confirmed booking waits on the event broker.
const publishTimeout = 3 * time.Second

// Backend is the part of the REST backend the wizard talks to.
type Backend interface {
	ListMovies(ctx context.Context) ([]model.Movie, error)
	ShowsByMovie(ctx context.Context, movieID int64) ([]model.Show, error)
	GetShow(ctx context.Context, showID int64) (model.Show, error)
	CreateBooking(ctx context.Context, req backend.BookingRequest) (model.Booking, error)
	GetBooking(ctx context.Context, bookingID int64) (model.Booking, error)
}

// Customer is the logged in user the booking is made for.
type Customer struct {
	WebUserID int64
	Role      string
}

// Service drives the wizard for one browser context at a time, loading and
// saving the draft around each transition.
type Service struct {
	backend                   Backend
	drafts                    DraftStore
	publisher                 events.Publisher
	validate                  *validator.Validate
	forwardCardSecurityFields bool
	now                       func() time.Time
}

type ServiceOption func(*Service)

// WithCardSecurityFields sends expiryDate and cvv along with the booking.
func WithCardSecurityFields(forward bool) ServiceOption {
	return func(s *Service) {
		s.forwardCardSecurityFields = forward
	}
}

func WithPublisher(p events.Publisher) ServiceOption {
	return func(s *Service) {
		s.publisher = p
	}
}

func WithValidator(v *validator.Validate) ServiceOption {
	return func(s *Service) {
		s.validate = v
	}
}

func WithServiceClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(b Backend, drafts DraftStore, opts ...ServiceOption) *Service {
	s := &Service{
		backend:   b,
		drafts:    drafts,
		publisher: events.NewLogPublisher(),
		validate:  validation.New(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Draft returns the stored draft, or a fresh one when there is none.
func (s *Service) Draft(ctx context.Context, browserID string) Draft {
	d, err := s.drafts.Get(ctx, browserID)
	if err != nil {
		if !apperrors.Is(err, apperrors.ErrDraftNotFound) {
			log.Err(err).Msg("Failed to load booking draft")
		}
		return NewDraft()
	}
	return d
}

func (s *Service) save(ctx context.Context, browserID string, d Draft) error {
	if err := s.drafts.Save(ctx, browserID, d); err != nil {
		return fmt.Errorf("[booking Service] save draft: %w", err)
	}
	return nil
}

func (s *Service) OpenMovieSelection(ctx context.Context, browserID string) (MovieSelection, []model.Movie, error) {
	state := Start(s.Draft(ctx, browserID))
	movies, err := s.backend.ListMovies(ctx)
	if err != nil {
		return state, nil, fmt.Errorf("[booking OpenMovieSelection] %w", err)
	}
	return state, movies, nil
}

func (s *Service) SelectMovie(ctx context.Context, browserID string, movieID int64) (ShowSelection, error) {
	if movieID <= 0 {
		return ShowSelection{}, apperrors.Wrapf(apperrors.ErrInvalidRequest, "[booking SelectMovie] movie id %d", movieID)
	}
	next := Start(s.Draft(ctx, browserID)).Select(movieID)
	return next, s.save(ctx, browserID, next.Draft())
}

func (s *Service) OpenShowSelection(ctx context.Context, browserID string, movieID int64) (ShowSelection, []model.Show, error) {
	state, err := ResumeShowSelection(s.Draft(ctx, browserID), movieID)
	if err != nil {
		return ShowSelection{}, nil, err
	}
	shows, err := s.backend.ShowsByMovie(ctx, movieID)
	if err != nil {
		return state, nil, fmt.Errorf("[booking OpenShowSelection] %w", err)
	}
	return state, shows, nil
}

func (s *Service) SelectShow(ctx context.Context, browserID string, movieID, showID int64) (TicketSelection, error) {
	state, err := ResumeShowSelection(s.Draft(ctx, browserID), movieID)
	if err != nil {
		return TicketSelection{}, err
	}
	if showID <= 0 {
		return TicketSelection{}, apperrors.Wrapf(apperrors.ErrInvalidRequest, "[booking SelectShow] show id %d", showID)
	}
	next := state.Select(showID)
	return next, s.save(ctx, browserID, next.Draft())
}

// OpenTicketSelection also returns the show snapshot used for pricing.
func (s *Service) OpenTicketSelection(ctx context.Context, browserID string, showID int64) (TicketSelection, model.Show, error) {
	state, err := ResumeTicketSelection(s.Draft(ctx, browserID), showID)
	if err != nil {
		return TicketSelection{}, model.Show{}, err
	}
	show, err := s.backend.GetShow(ctx, showID)
	if err != nil {
		return state, model.Show{}, fmt.Errorf("[booking OpenTicketSelection] %w", err)
	}
	return state, show, nil
}

func (s *Service) ChooseTickets(ctx context.Context, browserID string, showID int64, count int) (Payment, error) {
	state, err := ResumeTicketSelection(s.Draft(ctx, browserID), showID)
	if err != nil {
		return Payment{}, err
	}
	show, err := s.backend.GetShow(ctx, showID)
	if err != nil {
		return Payment{}, fmt.Errorf("[booking ChooseTickets] %w", err)
	}
	next, err := state.Choose(show, count)
	if err != nil {
		return Payment{}, err
	}
	return next, s.save(ctx, browserID, next.Draft())
}

func (s *Service) OpenPayment(ctx context.Context, browserID string) (Payment, error) {
	return ResumePayment(s.Draft(ctx, browserID))
}

// Pay validates the card, re-fetches the show and submits the order. Only a
// created booking discards the draft; every failure leaves it in place.
// Invalid card input is returned as validation.FieldErrors before any backend call.
func (s *Service) Pay(ctx context.Context, browserID string, customer Customer, card Card) (BookingSuccess, error) {
	state, err := ResumePayment(s.Draft(ctx, browserID))
	if err != nil {
		return BookingSuccess{}, err
	}

	card = card.normalized()
	if errs := validation.Struct(s.validate, card); errs != nil {
		return BookingSuccess{}, errs
	}

	state = state.WithCard(card)
	if err := s.save(ctx, browserID, state.Draft()); err != nil {
		return BookingSuccess{}, err
	}

	d := state.Draft()
	show, err := s.backend.GetShow(ctx, d.ShowID)
	if err != nil {
		return BookingSuccess{}, fmt.Errorf("[booking Pay] fetch show %d: %w", d.ShowID, err)
	}

	created, err := s.backend.CreateBooking(ctx, s.order(d, customer, card, show))
	if err != nil {
		return BookingSuccess{}, fmt.Errorf("[booking Pay] %w", err)
	}

	if err := s.drafts.Delete(ctx, browserID); err != nil {
		log.Err(err).Int64("bookingId", created.BookingID).Msg("Failed to discard booking draft")
	}

	event := events.BookingConfirmed{
		BookingID:   created.BookingID,
		WebUserID:   customer.WebUserID,
		MovieID:     d.MovieID,
		ShowID:      d.ShowID,
		NoOfTickets: d.NoOfTickets,
		TotalCost:   d.TotalCost,
		ConfirmedAt: s.now().UTC(),
	}
	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := s.publisher.PublishBookingConfirmed(publishCtx, event); err != nil {
		log.Err(err).Int64("bookingId", created.BookingID).Msg("Failed to publish booking confirmation")
	}

	return state.Complete(created.BookingID), nil
}

func (s *Service) order(d Draft, customer Customer, card Card, show model.Show) backend.BookingRequest {
	req := backend.BookingRequest{
		MovieID:     d.MovieID,
		ShowID:      d.ShowID,
		NoOfTickets: d.NoOfTickets,
		TotalCost:   d.TotalCost,
		CardNumber:  card.Number,
		NameOnCard:  card.NameOnCard,
		User:        model.User{WebUserID: customer.WebUserID, Role: customer.Role},
		Show:        show,
	}
	if s.forwardCardSecurityFields {
		req.ExpiryDate = card.ExpiryDate
		req.CVV = card.CVV
	}
	return req
}

// Confirmation loads a created booking for the success page.
func (s *Service) Confirmation(ctx context.Context, bookingID int64) (model.Booking, error) {
	b, err := s.backend.GetBooking(ctx, bookingID)
	if err != nil {
		return model.Booking{}, fmt.Errorf("[booking Confirmation] %w", err)
	}
	return b, nil
}
