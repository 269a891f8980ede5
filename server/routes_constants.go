package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	RouteHome    = "/"
	RouteHealthz = "/healthz"

	// Auth Routes
	RouteLogin    = "/login"
	RouteRegister = "/register"
	RouteLogout   = "/logout"

	// Profile
	RouteUserInfo = "/userInfo"

	// Booking wizard
	RouteMovieSelection  = "/movieSelection"
	RouteShowSelection   = "/showSelection/{movieId}"
	RouteTicketSelection = "/ticketSelection/{showId}"
	RoutePayment         = "/payment"
	RouteBookingSuccess  = "/bookingSuccess/{bookingId}"
	RouteBookingPDF      = "/bookingSuccess/{bookingId}/pdf"

	// Admin Routes
	RouteMovieList     = "/movieList"
	RouteAddFilm       = "/addFilm"
	RouteMovieDetail   = "/movies/{movieId}"
	RouteUserList      = "/userList"
	RouteUserDetail    = "/users/{webUserId}"
	RouteBookingList   = "/bookingList"
	RouteBookingDetail = "/bookings/{bookingId}"
	RouteShowList      = "/showList"
	RouteShowDetail    = "/shows/{showId}"
	RouteScreenList    = "/screenList"
	RouteScreenDetail  = "/screens/{screenId}"
	RouteTheatreList   = "/theatreList"
	RouteTheatreDetail = "/theatres/{theatreId}"
	RouteTicketList    = "/ticketList"
	RouteTicketDetail  = "/tickets/{ticketId}"

	// Static Asset Routes (patterns)
	RouteStaticCSS = "/css/{file}"
	RouteStaticJS  = "/js/{file}"
)
