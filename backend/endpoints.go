package backend

import (
	"context"
	"fmt"
	"net/http"

	apperrors "github.com/jrsteele09/go-cinema-booking/internal/errors"
	"github.com/jrsteele09/go-cinema-booking/model"
)

func (c *Client) Movies() Resource[model.Movie] {
	return NewResource[model.Movie](c, Paths{List: "/movies/getAll", Item: "/movies/%d", Create: "/movies"})
}

func (c *Client) Theatres() Resource[model.Theatre] {
	return NewResource[model.Theatre](c, Paths{List: "/theatres/getAll", Item: "/theatres/%d", Create: "/theatres"})
}

func (c *Client) Screens() Resource[model.Screen] {
	return NewResource[model.Screen](c, Paths{List: "/screens/getAll", Item: "/screens/%d", Create: "/screens"})
}

func (c *Client) Shows() Resource[model.Show] {
	return NewResource[model.Show](c, Paths{List: "/shows/getAll", Item: "/shows/%d", Create: "/shows"})
}

func (c *Client) Bookings() Resource[model.Booking] {
	return NewResource[model.Booking](c, Paths{List: "/bookings/getAll", Item: "/bookings/%d", Create: "/bookings"})
}

// Tickets are listed a page at a time and are never created from the front-end.
func (c *Client) Tickets() Resource[model.Ticket] {
	return NewResource[model.Ticket](c, Paths{List: "/tickets/getAll", Item: "/tickets/%d"})
}

// Users are created through Register.
func (c *Client) Users() Resource[model.User] {
	return NewResource[model.User](c, Paths{
		List:   "/users/getAll",
		Item:   "/users/getById/%d",
		Update: "/users/update/%d",
		Delete: "/users/delete/%d",
	})
}

type authenticateResponse struct {
	Token string `json:"token"`
}

// Authenticate exchanges credentials for a bearer token.
func (c *Client) Authenticate(ctx context.Context, creds model.Credentials) (string, error) {
	var resp authenticateResponse
	if _, err := c.do(ctx, http.MethodPost, "/authenticate", creds, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", apperrors.Wrapf(apperrors.ErrInvalidToken, "[backend Authenticate] no token in response")
	}
	return resp.Token, nil
}

func (c *Client) Register(ctx context.Context, user model.User) error {
	_, err := c.do(ctx, http.MethodPost, "/register", user, nil)
	return err
}

func (c *Client) ListMovies(ctx context.Context) ([]model.Movie, error) {
	return c.Movies().List(ctx)
}

func (c *Client) ShowsByMovie(ctx context.Context, movieID int64) ([]model.Show, error) {
	var shows []model.Show
	if _, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/shows/shows/getByMovieId/%d", movieID), nil, &shows); err != nil {
		return nil, err
	}
	return shows, nil
}

func (c *Client) GetShow(ctx context.Context, showID int64) (model.Show, error) {
	return c.Shows().Get(ctx, showID)
}

func (c *Client) GetBooking(ctx context.Context, bookingID int64) (model.Booking, error) {
	return c.Bookings().Get(ctx, bookingID)
}

func (c *Client) GetUser(ctx context.Context, webUserID int64) (model.User, error) {
	return c.Users().Get(ctx, webUserID)
}

// BookingRequest is the aggregate order submitted at payment.
type BookingRequest struct {
	MovieID     int64      `json:"movieId"`
	ShowID      int64      `json:"showId"`
	NoOfTickets int        `json:"noOfTickets"`
	TotalCost   float64    `json:"totalCost"`
	CardNumber  string     `json:"cardNumber"`
	NameOnCard  string     `json:"nameOnCard"`
	ExpiryDate  string     `json:"expiryDate,omitempty"`
	CVV         string     `json:"cvv,omitempty"`
	User        model.User `json:"user"`
	Show        model.Show `json:"show"`
}

// CreateBooking only accepts 201 Created as success.
func (c *Client) CreateBooking(ctx context.Context, req BookingRequest) (model.Booking, error) {
	var created model.Booking
	status, err := c.do(ctx, http.MethodPost, "/bookings", req, &created)
	if err != nil {
		return model.Booking{}, err
	}
	if status != http.StatusCreated {
		return model.Booking{}, apperrors.Wrapf(apperrors.ErrBookingRejected, "[backend CreateBooking] unexpected status %d", status)
	}
	if created.BookingID == 0 {
		return model.Booking{}, apperrors.Wrapf(apperrors.ErrBookingRejected, "[backend CreateBooking] response has no bookingId")
	}
	return created, nil
}
