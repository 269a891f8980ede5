package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/jrsteele09/go-cinema-booking/backend"
	"github.com/jrsteele09/go-cinema-booking/booking"
	apperrors "github.com/jrsteele09/go-cinema-booking/internal/errors"
	"github.com/jrsteele09/go-cinema-booking/internal/validation"
	"github.com/jrsteele09/go-cinema-booking/model"
	"github.com/jrsteele09/go-cinema-booking/session"
	"github.com/rs/zerolog/log"
)

const (
	msgMoviesFailed       = "Failed to load movies. Please try again later."
	msgShowsFailed        = "Failed to load shows. Please try again later."
	msgShowFailed         = "Failed to load show details. Please try again later."
	msgFillAllFields      = "Please fill out all fields."
	msgPaymentFailed      = "Payment failed. Please try again."
	msgNoBookingInfo      = "No booking information available."
	msgSelectMovie        = "Please select a movie."
	msgSelectShow         = "Please select a show."
	msgInvalidTicketCount = "Please choose at least one ticket."
	msgSessionExpired     = "Your session has expired. Please log in again."
)

type MovieSelectionPage struct {
	Movies   []model.Movie
	Selected int64
}

type ShowSelectionPage struct {
	MovieID  int64
	Shows    []model.Show
	Selected int64
}

type TicketSelectionPage struct {
	Show        model.Show
	NoOfTickets int
}

type PaymentPage struct {
	Draft booking.Draft
	Show  model.Show
	Card  booking.Card
}

type BookingSuccessPage struct {
	Booking model.Booking
}

func (s *Server) MovieSelectionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, movies, err := s.wizard.OpenMovieSelection(r.Context(), browserIDFromContext(r.Context()))
		page := MovieSelectionPage{Movies: movies, Selected: state.Draft().MovieID}
		if err != nil {
			s.wizardFailure(w, r, err, "movie_selection", "Select a Movie", page, msgMoviesFailed)
			return
		}
		s.renderPage(w, r, "movie_selection", "Select a Movie", page)
	}
}

func (s *Server) MovieSelectionSubmitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		movieID, ok := formID(r, "movieId")
		if !ok {
			redirectWithError(w, r, RouteMovieSelection, msgSelectMovie)
			return
		}
		if _, err := s.wizard.SelectMovie(r.Context(), browserIDFromContext(r.Context()), movieID); err != nil {
			log.Err(err).Int64("movieId", movieID).Msg("Failed to select movie")
			redirectWithError(w, r, RouteMovieSelection, msgSelectMovie)
			return
		}
		redirectSuccess(w, r, showSelectionPath(movieID))
	}
}

func (s *Server) ShowSelectionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		movieID, ok := pathID(r, "movieId")
		if !ok {
			redirectSuccess(w, r, RouteMovieSelection)
			return
		}
		state, shows, err := s.wizard.OpenShowSelection(r.Context(), browserIDFromContext(r.Context()), movieID)
		page := ShowSelectionPage{MovieID: movieID, Shows: shows, Selected: state.Draft().ShowID}
		if err != nil {
			s.wizardFailure(w, r, err, "show_selection", "Select a Show", page, msgShowsFailed)
			return
		}
		s.renderPage(w, r, "show_selection", "Select a Show", page)
	}
}

func (s *Server) ShowSelectionSubmitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		movieID, ok := pathID(r, "movieId")
		if !ok {
			redirectSuccess(w, r, RouteMovieSelection)
			return
		}
		showID, ok := formID(r, "showId")
		if !ok {
			redirectWithError(w, r, showSelectionPath(movieID), msgSelectShow)
			return
		}
		if _, err := s.wizard.SelectShow(r.Context(), browserIDFromContext(r.Context()), movieID, showID); err != nil {
			if apperrors.Is(err, apperrors.ErrDraftIncomplete) {
				redirectSuccess(w, r, RouteMovieSelection)
				return
			}
			log.Err(err).Int64("showId", showID).Msg("Failed to select show")
			redirectWithError(w, r, showSelectionPath(movieID), msgSelectShow)
			return
		}
		redirectSuccess(w, r, ticketSelectionPath(showID))
	}
}

func (s *Server) TicketSelectionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		showID, ok := pathID(r, "showId")
		if !ok {
			redirectSuccess(w, r, RouteMovieSelection)
			return
		}
		state, show, err := s.wizard.OpenTicketSelection(r.Context(), browserIDFromContext(r.Context()), showID)
		page := TicketSelectionPage{Show: show, NoOfTickets: state.Draft().NoOfTickets}
		if err != nil {
			s.wizardFailure(w, r, err, "ticket_selection", "Select Tickets", page, msgShowFailed)
			return
		}
		s.renderPage(w, r, "ticket_selection", "Select Tickets", page)
	}
}

func (s *Server) TicketSelectionSubmitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		showID, ok := pathID(r, "showId")
		if !ok {
			redirectSuccess(w, r, RouteMovieSelection)
			return
		}
		count, err := strconv.Atoi(strings.TrimSpace(r.FormValue("noOfTickets")))
		if err != nil {
			redirectWithError(w, r, ticketSelectionPath(showID), msgInvalidTicketCount)
			return
		}

		_, err = s.wizard.ChooseTickets(r.Context(), browserIDFromContext(r.Context()), showID, count)
		switch {
		case err == nil:
			redirectSuccess(w, r, RoutePayment)
		case apperrors.Is(err, apperrors.ErrDraftIncomplete):
			redirectSuccess(w, r, RouteMovieSelection)
		case apperrors.Is(err, apperrors.ErrInvalidTicketCount):
			redirectWithError(w, r, ticketSelectionPath(showID), msgInvalidTicketCount)
		case tokenRejected(err):
			s.expireSession(w, r)
		default:
			log.Err(err).Int64("showId", showID).Msg("Failed to choose tickets")
			redirectWithError(w, r, ticketSelectionPath(showID), msgShowFailed)
		}
	}
}

func (s *Server) PaymentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := s.wizard.OpenPayment(r.Context(), browserIDFromContext(r.Context()))
		if err != nil {
			redirectSuccess(w, r, RouteMovieSelection)
			return
		}
		d := state.Draft()
		page := PaymentPage{
			Draft: d,
			Show:  s.showSummary(r, d.ShowID),
			Card:  booking.Card{Number: d.CardNumber, NameOnCard: d.NameOnCard},
		}
		s.renderPage(w, r, "payment", "Payment", page)
	}
}

// PaymentSubmitHandler submits the order. Field errors are shown without calling the backend.
func (s *Server) PaymentSubmitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		browserID := browserIDFromContext(r.Context())
		card := booking.Card{
			Number:     r.FormValue("cardNumber"),
			NameOnCard: r.FormValue("nameOnCard"),
			ExpiryDate: r.FormValue("expiryDate"),
			CVV:        r.FormValue("cvv"),
		}

		sess := sessionFromContext(r.Context())
		customer := booking.Customer{WebUserID: sess.UserID(), Role: string(sess.Role)}

		success, err := s.wizard.Pay(r.Context(), browserID, customer, card)
		if err == nil {
			log.Info().Int64("bookingId", success.BookingID).Str("webUserId", sess.WebUserID).Msg("Booking confirmed")
			redirectSuccess(w, r, bookingSuccessPath(success.BookingID))
			return
		}

		if apperrors.Is(err, apperrors.ErrDraftIncomplete) {
			redirectSuccess(w, r, RouteMovieSelection)
			return
		}
		if tokenRejected(err) {
			s.expireSession(w, r)
			return
		}

		d := s.wizard.Draft(r.Context(), browserID)
		card.ExpiryDate, card.CVV = "", ""
		data := s.pageData(r, "Payment", PaymentPage{Draft: d, Show: s.showSummary(r, d.ShowID), Card: card})

		var fieldErrs validation.FieldErrors
		if apperrors.As(err, &fieldErrs) {
			data.Error = msgFillAllFields
			data.FieldErrors = fieldErrs
			s.render(w, http.StatusUnprocessableEntity, "payment", data)
			return
		}

		log.Err(err).Int64("showId", d.ShowID).Msg("Payment failed")
		data.Error = msgPaymentFailed
		s.render(w, http.StatusBadGateway, "payment", data)
	}
}

func (s *Server) BookingSuccessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, ok := s.confirmedBooking(w, r)
		if !ok {
			return
		}
		s.renderPage(w, r, "booking_success", "Booking Confirmed", BookingSuccessPage{Booking: b})
	}
}

// confirmedBooking loads the booking named in the path. A user may only see
// their own bookings, an admin sees any.
func (s *Server) confirmedBooking(w http.ResponseWriter, r *http.Request) (model.Booking, bool) {
	bookingID, ok := pathID(r, "bookingId")
	if !ok {
		s.renderError(w, r, http.StatusNotFound, msgNoBookingInfo)
		return model.Booking{}, false
	}

	b, err := s.wizard.Confirmation(r.Context(), bookingID)
	if err != nil {
		log.Err(err).Int64("bookingId", bookingID).Msg("Failed to load booking")
		s.renderError(w, r, http.StatusNotFound, msgNoBookingInfo)
		return model.Booking{}, false
	}

	sess := sessionFromContext(r.Context())
	if sess.Tree() != session.TreeAdmin && (b.User == nil || b.User.WebUserID != sess.UserID()) {
		s.renderError(w, r, http.StatusNotFound, msgNoBookingInfo)
		return model.Booking{}, false
	}
	return b, true
}

// showSummary is best effort, the payment page still renders without it.
func (s *Server) showSummary(r *http.Request, showID int64) model.Show {
	show, err := s.api.GetShow(r.Context(), showID)
	if err != nil {
		log.Warn().Err(err).Int64("showId", showID).Msg("Failed to load show for payment summary")
		return model.Show{ShowID: showID}
	}
	return show
}

// wizardFailure handles an error from opening a wizard screen. A draft that
// has not reached the screen restarts the wizard, anything else is shown on
// the screen itself.
func (s *Server) wizardFailure(w http.ResponseWriter, r *http.Request, err error, page, title string, content any, msg string) {
	switch {
	case apperrors.Is(err, apperrors.ErrDraftIncomplete):
		redirectSuccess(w, r, RouteMovieSelection)
	case tokenRejected(err):
		s.expireSession(w, r)
	default:
		log.Err(err).Str("page", page).Msg("Failed to load wizard page")
		data := s.pageData(r, title, content)
		data.Error = msg
		s.render(w, http.StatusBadGateway, page, data)
	}
}

// tokenRejected reports whether the backend refused the bearer token.
func tokenRejected(err error) bool {
	var se *backend.StatusError
	return apperrors.As(err, &se) && se.StatusCode == http.StatusUnauthorized
}

// expireSession logs out a browser whose token the backend no longer accepts.
func (s *Server) expireSession(w http.ResponseWriter, r *http.Request) {
	if err := s.gate.Logout(r.Context(), browserIDFromContext(r.Context())); err != nil {
		log.Err(err).Msg("Failed to clear rejected session")
	}
	redirectWithError(w, r, RouteLogin, msgSessionExpired)
}

func pathID(r *http.Request, name string) (int64, bool) {
	return parseID(r.PathValue(name))
}

func formID(r *http.Request, name string) (int64, bool) {
	return parseID(r.FormValue(name))
}

func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func showSelectionPath(movieID int64) string {
	return fmt.Sprintf("/showSelection/%d", movieID)
}

func ticketSelectionPath(showID int64) string {
	return fmt.Sprintf("/ticketSelection/%d", showID)
}

func bookingSuccessPath(bookingID int64) string {
	return fmt.Sprintf("/bookingSuccess/%d", bookingID)
}
