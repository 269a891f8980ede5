package server

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jrsteele09/go-cinema-booking/backend"
	"github.com/jrsteele09/go-cinema-booking/booking"
	"github.com/jrsteele09/go-cinema-booking/internal/utils"
	"github.com/jrsteele09/go-cinema-booking/model"
)

const ticketPageSize = 10

func movieEntity() entity[model.Movie] {
	fields := []formField{
		{Name: "name", Label: "Name", Type: "text", Required: true},
		{Name: "language", Label: "Language", Type: "text", Required: true},
		{Name: "genre", Label: "Genre", Type: "text", Required: true},
		{Name: "targetAudience", Label: "Target Audience", Type: "text", Required: true},
		{Name: "posterUrl", Label: "Poster URL", Type: "url"},
	}
	return entity[model.Movie]{
		Name:        "Movie",
		Plural:      "Movies",
		IDKey:       "movieId",
		IDParam:     "movieId",
		ListRoute:   RouteMovieList,
		DetailRoute: RouteMovieDetail,
		CreateRoute: RouteAddFilm,
		Columns:     append([]formField{{Label: "ID", Path: "movieId"}}, fields[:4]...),
		Fields:      fields,
		Resource:    (*backend.Client).Movies,
	}
}

func theatreEntity() entity[model.Theatre] {
	fields := []formField{
		{Name: "nameOfTheatre", Label: "Name", Type: "text", Required: true},
		{Name: "noOfScreens", Label: "Screens", Type: "number", Required: true},
		{Name: "area", Label: "Area", Type: "text", Required: true},
	}
	return entity[model.Theatre]{
		Name:        "Theatre",
		Plural:      "Theatres",
		IDKey:       "theatreId",
		IDParam:     "theatreId",
		ListRoute:   RouteTheatreList,
		DetailRoute: RouteTheatreDetail,
		CreateRoute: RouteTheatreList,
		Columns:     append([]formField{{Label: "ID", Path: "theatreId"}}, fields...),
		Fields:      fields,
		Resource:    (*backend.Client).Theatres,
	}
}

func screenEntity() entity[model.Screen] {
	fields := []formField{
		{Name: "noOfSeatsGold", Label: "Gold Seats", Type: "number", Required: true},
		{Name: "noOfSeatsSilver", Label: "Silver Seats", Type: "number", Required: true},
		{Name: "theatre.theatreId", Label: "Theatre", Type: "select", Required: true, Lookup: theatreOptions},
	}
	return entity[model.Screen]{
		Name:        "Screen",
		Plural:      "Screens",
		IDKey:       "screenId",
		IDParam:     "screenId",
		ListRoute:   RouteScreenList,
		DetailRoute: RouteScreenDetail,
		CreateRoute: RouteScreenList,
		Columns: []formField{
			{Label: "ID", Path: "screenId"},
			{Label: "Gold Seats", Path: "noOfSeatsGold"},
			{Label: "Silver Seats", Path: "noOfSeatsSilver"},
			{Label: "Theatre", Path: "theatre.nameOfTheatre"},
		},
		Fields:   fields,
		Resource: (*backend.Client).Screens,
	}
}

// Shows are written with flat screenId and movieId but read back with the
// nested screen and movie.
func showEntity() entity[model.Show] {
	fields := []formField{
		{Name: "showDate", Label: "Date", Type: "date", Required: true},
		{Name: "showTime", Label: "Time", Type: "time", Required: true},
		{Name: "seatsRemainingGold", Label: "Gold Seats Remaining", Type: "number"},
		{Name: "seatsRemainingSilver", Label: "Silver Seats Remaining", Type: "number"},
		{Name: "classCostGold", Label: "Gold Price", Type: "decimal", Required: true},
		{Name: "classCostSilver", Label: "Silver Price", Type: "decimal", Required: true},
		{Name: "screenId", Path: "screen.screenId", Label: "Screen", Type: "select", Required: true, Lookup: screenOptions},
		{Name: "movieId", Path: "movie.movieId", Label: "Movie", Type: "select", Required: true, Lookup: movieOptions},
	}
	return entity[model.Show]{
		Name:        "Show",
		Plural:      "Shows",
		IDKey:       "showId",
		IDParam:     "showId",
		ListRoute:   RouteShowList,
		DetailRoute: RouteShowDetail,
		CreateRoute: RouteShowList,
		Columns: []formField{
			{Label: "ID", Path: "showId"},
			{Label: "Movie", Path: "movie.name"},
			{Label: "Theatre", Path: "screen.theatre.nameOfTheatre"},
			{Label: "Date", Path: "showDate"},
			{Label: "Time", Path: "showTime"},
			{Label: "Gold", Path: "seatsRemainingGold"},
			{Label: "Silver", Path: "seatsRemainingSilver"},
		},
		Fields:   fields,
		Resource: (*backend.Client).Shows,
	}
}

func bookingEntity() entity[model.Booking] {
	fields := []formField{
		{Name: "user.webUserId", Label: "User", Type: "select", Required: true, Lookup: userOptions},
		{Name: "show.showId", Label: "Show", Type: "select", Required: true, Lookup: showOptions},
		{Name: "noOfTickets", Label: "Tickets", Type: "number", Required: true},
		{Name: "totalCost", Label: "Total Cost", Type: "decimal"},
		{Name: "cardNumber", Label: "Card Number", Type: "text", Required: true},
		{Name: "nameOnCard", Label: "Name on Card", Type: "text", Required: true},
	}
	return entity[model.Booking]{
		Name:        "Booking",
		Plural:      "Bookings",
		IDKey:       "bookingId",
		IDParam:     "bookingId",
		ListRoute:   RouteBookingList,
		DetailRoute: RouteBookingDetail,
		CreateRoute: RouteBookingList,
		Columns: []formField{
			{Label: "ID", Path: "bookingId"},
			{Label: "User", Path: "user.username"},
			{Label: "Movie", Path: "show.movie.name"},
			{Label: "Date", Path: "show.showDate"},
			{Label: "Tickets", Path: "noOfTickets"},
			{Label: "Total Cost", Path: "totalCost"},
		},
		Fields:   fields,
		Resource: (*backend.Client).Bookings,
		Resolve:  resolveBooking,
	}
}

// resolveBooking replaces the user and show references with the full
// records and prices the booking when no total was given.
func resolveBooking(ctx context.Context, api *backend.Client, b *model.Booking) error {
	if b.User != nil && b.User.WebUserID > 0 {
		user, err := api.GetUser(ctx, b.User.WebUserID)
		if err != nil {
			return fmt.Errorf("user %d: %w", b.User.WebUserID, err)
		}
		user.Password = ""
		b.User = utils.Ptr(user)
	}
	if b.Show != nil && b.Show.ShowID > 0 {
		show, err := api.GetShow(ctx, b.Show.ShowID)
		if err != nil {
			return fmt.Errorf("show %d: %w", b.Show.ShowID, err)
		}
		b.Show = utils.Ptr(show)
	}
	if b.TotalCost == 0 && b.Show != nil {
		b.TotalCost = booking.TotalCost(b.NoOfTickets, b.Show.ClassCostGold)
	}
	return nil
}

// Tickets are issued by the backend with a booking, so there is no create form.
func ticketEntity() entity[model.Ticket] {
	fields := []formField{
		{Name: "ticketClass", Label: "Class", Type: "select", Required: true, Options: []Option{
			{Value: "GOLD", Label: "Gold"},
			{Value: "SILVER", Label: "Silver"},
		}},
		{Name: "price", Label: "Price", Type: "decimal"},
		{Name: "booking.bookingId", Label: "Booking", Type: "number"},
	}
	return entity[model.Ticket]{
		Name:        "Ticket",
		Plural:      "Tickets",
		IDKey:       "ticketId",
		IDParam:     "ticketId",
		ListRoute:   RouteTicketList,
		DetailRoute: RouteTicketDetail,
		PageSize:    ticketPageSize,
		Columns: []formField{
			{Label: "ID", Path: "ticketId"},
			{Label: "Class", Path: "ticketClass"},
			{Label: "Price", Path: "price"},
			{Label: "Booking", Path: "booking.bookingId"},
		},
		Fields:   fields,
		Resource: (*backend.Client).Tickets,
	}
}

// Users sign up through the registration page.
func userEntity() entity[model.User] {
	fields := []formField{
		{Name: "firstName", Label: "First Name", Type: "text", Required: true},
		{Name: "lastName", Label: "Last Name", Type: "text", Required: true},
		{Name: "emailId", Label: "Email", Type: "email", Required: true},
		{Name: "age", Label: "Age", Type: "number"},
		{Name: "phoneNumber", Label: "Phone Number", Type: "text", Required: true},
		{Name: "username", Label: "Username", Type: "text", Required: true},
		{Name: "role", Label: "Role", Type: "select", Required: true, Options: []Option{
			{Value: model.RoleUser, Label: "User"},
			{Value: model.RoleAdmin, Label: "Admin"},
		}},
	}
	return entity[model.User]{
		Name:        "User",
		Plural:      "Users",
		IDKey:       "webUserId",
		IDParam:     "webUserId",
		ListRoute:   RouteUserList,
		DetailRoute: RouteUserDetail,
		Columns: []formField{
			{Label: "ID", Path: "webUserId"},
			{Label: "Name", Path: "firstName"},
			{Label: "Last Name", Path: "lastName"},
			{Label: "Email", Path: "emailId"},
			{Label: "Phone", Path: "phoneNumber"},
			{Label: "Role", Path: "role"},
		},
		Fields:   fields,
		Resource: (*backend.Client).Users,
	}
}

func theatreOptions(ctx context.Context, api *backend.Client) ([]Option, error) {
	theatres, err := api.Theatres().List(ctx)
	if err != nil {
		return nil, err
	}
	opts := make([]Option, 0, len(theatres))
	for _, t := range theatres {
		opts = append(opts, Option{Value: idString(t.TheatreID), Label: t.NameOfTheatre})
	}
	return opts, nil
}

func screenOptions(ctx context.Context, api *backend.Client) ([]Option, error) {
	screens, err := api.Screens().List(ctx)
	if err != nil {
		return nil, err
	}
	opts := make([]Option, 0, len(screens))
	for _, sc := range screens {
		opts = append(opts, Option{Value: idString(sc.ScreenID), Label: fmt.Sprintf("Screen %d (%s)", sc.ScreenID, sc.TheatreName())})
	}
	return opts, nil
}

func movieOptions(ctx context.Context, api *backend.Client) ([]Option, error) {
	movies, err := api.ListMovies(ctx)
	if err != nil {
		return nil, err
	}
	opts := make([]Option, 0, len(movies))
	for _, m := range movies {
		opts = append(opts, Option{Value: idString(m.MovieID), Label: m.Name})
	}
	return opts, nil
}

func userOptions(ctx context.Context, api *backend.Client) ([]Option, error) {
	users, err := api.Users().List(ctx)
	if err != nil {
		return nil, err
	}
	opts := make([]Option, 0, len(users))
	for _, u := range users {
		opts = append(opts, Option{Value: idString(u.WebUserID), Label: fmt.Sprintf("%s (%s)", u.FullName(), u.Username)})
	}
	return opts, nil
}

func showOptions(ctx context.Context, api *backend.Client) ([]Option, error) {
	shows, err := api.Shows().List(ctx)
	if err != nil {
		return nil, err
	}
	opts := make([]Option, 0, len(shows))
	for _, sh := range shows {
		opts = append(opts, Option{
			Value: idString(sh.ShowID),
			Label: fmt.Sprintf("%s %s %s", sh.MovieName(), sh.ShowDate, sh.ShowTime.HourMinute()),
		})
	}
	return opts, nil
}

func idString(id int64) string {
	return strconv.FormatInt(id, 10)
}
